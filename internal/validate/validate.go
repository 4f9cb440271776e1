package validate

import (
	"fmt"

	"noisegraph/internal/acoustics"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeAsymmetricLink   = "asymmetric_link"
	codeDanglingNeighbor = "dangling_neighbor"
	codeDuplicateLink    = "duplicate_link"
	codeSelfLink         = "self_link"
	codeOrphanedRoom     = "orphaned_room"
	codeUnknownCategory  = "unknown_category"
	codeZeroDistance     = "zero_distance"
	codeInvalidFloor     = "invalid_floor"
	codeNegativeNoise    = "negative_noise"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Room     string
	Neighbor string
}

type Report struct {
	Issues []Issue
}

func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

func (r *Report) HasErrors() bool {
	return r.Count(SeverityError) > 0
}

// Run checks room attributes and adjacency consistency. Link issues between
// two rooms are reported once, from the room that comes first.
func Run(t Topology) (*Report, error) {
	if t == nil {
		return nil, fmt.Errorf("topology is required")
	}

	rooms := t.Rooms()
	byName := make(map[string]*acoustics.Room, len(rooms))
	for _, room := range rooms {
		byName[room.Name] = room
	}

	issues := make([]Issue, 0)
	reported := make(map[[2]string]bool)

	for _, room := range rooms {
		issues = append(issues, validateAttributes(room)...)

		neighbors, err := t.Neighbors(room.Name)
		if err != nil {
			return nil, fmt.Errorf("neighbors of %s: %w", room.Name, err)
		}
		if len(neighbors) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeOrphanedRoom,
				Message:  "room has no neighbors and receives no propagated noise",
				Room:     room.Name,
			})
			continue
		}

		seen := make(map[string]bool, len(neighbors))
		for _, name := range neighbors {
			if seen[name] {
				issues = append(issues, linkIssue(SeverityError, codeDuplicateLink, "neighbor listed more than once", room.Name, name))
				continue
			}
			seen[name] = true

			if name == room.Name {
				issues = append(issues, linkIssue(SeverityError, codeSelfLink, "room lists itself as a neighbor", room.Name, name))
				continue
			}
			other, ok := byName[name]
			if !ok || !t.Has(name) {
				issues = append(issues, linkIssue(SeverityError, codeDanglingNeighbor, "neighbor is not a room of the graph", room.Name, name))
				continue
			}

			back, err := t.Neighbors(name)
			if err != nil {
				return nil, fmt.Errorf("neighbors of %s: %w", name, err)
			}
			if !contains(back, room.Name) {
				issues = append(issues, linkIssue(SeverityError, codeAsymmetricLink,
					fmt.Sprintf("%s does not list %s back", name, room.Name), room.Name, name))
			}

			key := pairKey(room.Name, name)
			if reported[key] {
				continue
			}
			reported[key] = true
			if room.DistanceTo(other) == 0 {
				issues = append(issues, linkIssue(SeverityWarn, codeZeroDistance,
					"connected rooms share a position, their contribution is skipped", room.Name, name))
			}
		}
	}

	return &Report{Issues: issues}, nil
}

func validateAttributes(room *acoustics.Room) []Issue {
	var issues []Issue
	if !room.Category.Known() {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeUnknownCategory,
			Message:  fmt.Sprintf("unknown category %q uses default limits", room.Category),
			Room:     room.Name,
		})
	}
	if room.Floor < 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeInvalidFloor,
			Message:  fmt.Sprintf("floor must be at least 1, got %d", room.Floor),
			Room:     room.Name,
		})
	}
	if room.Noise < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeNegativeNoise,
			Message:  fmt.Sprintf("noise must not be negative, got %.2f", room.Noise),
			Room:     room.Name,
		})
	}
	return issues
}

func linkIssue(severity Severity, code, message, room, neighbor string) Issue {
	return Issue{Severity: severity, Code: code, Message: message, Room: room, Neighbor: neighbor}
}

func pairKey(a, b string) [2]string {
	if a > b {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
