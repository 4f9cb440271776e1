package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/graph"
	"noisegraph/internal/store"
)

type ListRoomsInput struct {
	Category string `json:"category,omitempty" jsonschema:"room category filter"`
	Floor    int    `json:"floor,omitempty" jsonschema:"floor filter"`
}

type GetRoomInput struct {
	Name string `json:"name" jsonschema:"room name"`
}

type ComputeLevelsInput struct{}

type ClassifyInput struct {
	State string `json:"state,omitempty" jsonschema:"adequate, near, or exceeds"`
}

type SummaryInput struct{}

type ReduceGraphInput struct{}

type FixRoomInput struct {
	Name string `json:"name" jsonschema:"room to remediate"`
	Mode string `json:"mode,omitempty" jsonschema:"adequate or structural"`
}

type ListFixableInput struct{}

type RoomSummaryOutput struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Floor     int     `json:"floor"`
	Noise     float64 `json:"noise"`
	Source    bool    `json:"source"`
	Neighbors int     `json:"neighbors"`
}

type ListRoomsOutput struct {
	Rooms []RoomSummaryOutput `json:"rooms"`
}

type ContributionOutput struct {
	Neighbor string  `json:"neighbor"`
	Value    float64 `json:"value"`
	Skipped  bool    `json:"skipped,omitempty"`
}

type SensorOutput struct {
	Location string  `json:"location"`
	Reading  float64 `json:"reading"`
}

type RoomOutput struct {
	Name           string               `json:"name"`
	Category       string               `json:"category"`
	Floor          int                  `json:"floor"`
	Position       acoustics.Position   `json:"position"`
	Barriers       acoustics.Barriers   `json:"barriers"`
	Noise          float64              `json:"noise"`
	Frequency      float64              `json:"frequency"`
	Source         bool                 `json:"source"`
	Level          float64              `json:"level"`
	State          string               `json:"state"`
	Limits         acoustics.Limits     `json:"limits"`
	Recommendation string               `json:"recommendation"`
	Neighbors      []string             `json:"neighbors"`
	Contributions  []ContributionOutput `json:"contributions"`
	Sensors        []SensorOutput       `json:"sensors"`
}

type LevelOutput struct {
	Name  string  `json:"name"`
	Level float64 `json:"level"`
}

type ComputeLevelsOutput struct {
	Strategy string        `json:"strategy"`
	Levels   []LevelOutput `json:"levels"`
}

type ClassificationOutput struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Floor          int     `json:"floor"`
	Level          float64 `json:"level"`
	State          string  `json:"state"`
	Recommendation string  `json:"recommendation"`
}

type ClassifyOutput struct {
	Rooms []ClassificationOutput `json:"rooms"`
}

type SummaryOutput struct {
	Project  string  `json:"project"`
	Strategy string  `json:"strategy"`
	Rooms    int     `json:"rooms"`
	Mean     float64 `json:"mean"`
	Max      float64 `json:"max"`
	Exceeds  int     `json:"exceeds"`
}

type MergeOutput struct {
	Kept    string  `json:"kept"`
	Removed string  `json:"removed"`
	Noise   float64 `json:"noise"`
}

type ReduceGraphOutput struct {
	Merges  []MergeOutput `json:"merges"`
	Skipped int           `json:"skipped"`
	Rooms   int           `json:"rooms"`
	RunID   string        `json:"run_id,omitempty"`
}

type NoiseChangeOutput struct {
	Name   string  `json:"name"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

type FixRoomOutput struct {
	Mode      string              `json:"mode"`
	Room      NoiseChangeOutput   `json:"room"`
	Neighbors []NoiseChangeOutput `json:"neighbors"`
	Level     float64             `json:"level"`
	State     string              `json:"state"`
	RunID     string              `json:"run_id,omitempty"`
}

type ListFixableOutput struct {
	Rooms []ClassificationOutput `json:"rooms"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_rooms",
		Description: "List rooms with optional category and floor filters",
	}, s.handleListRooms)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_room",
		Description: "Retrieve a room, its neighbors and what each neighbor contributes",
	}, s.handleGetRoom)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "compute_levels",
		Description: "Compute the aggregate noise level of every room",
	}, s.handleComputeLevels)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "classify",
		Description: "Classify every room against its category limits",
	}, s.handleClassify)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "summary",
		Description: "Mean and maximum noise level across the building",
	}, s.handleSummary)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "reduce_graph",
		Description: "Merge similar nearby rooms of the same category and floor",
	}, s.handleReduceGraph)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "fix_room",
		Description: "Remediate a room that exceeds its noise limit",
	}, s.handleFixRoom)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_fixable",
		Description: "List rooms that currently exceed their limit",
	}, s.handleListFixable)
}

func (s *Server) handleListRooms(ctx context.Context, req *sdk.CallToolRequest, input ListRoomsInput) (*sdk.CallToolResult, ListRoomsOutput, error) {
	category := acoustics.ParseCategory(input.Category)
	output := make([]RoomSummaryOutput, 0)
	for _, room := range s.session.Rooms() {
		if input.Category != "" && room.Category != category {
			continue
		}
		if input.Floor != 0 && room.Floor != input.Floor {
			continue
		}
		_, neighbors, err := s.session.Room(room.Name)
		if err != nil {
			return nil, ListRoomsOutput{}, err
		}
		output = append(output, RoomSummaryOutput{
			Name:      room.Name,
			Category:  string(room.Category),
			Floor:     room.Floor,
			Noise:     room.Noise,
			Source:    room.Source,
			Neighbors: len(neighbors),
		})
	}
	return nil, ListRoomsOutput{Rooms: output}, nil
}

func (s *Server) handleGetRoom(ctx context.Context, req *sdk.CallToolRequest, input GetRoomInput) (*sdk.CallToolResult, RoomOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, RoomOutput{}, fmt.Errorf("name is required")
	}
	room, neighbors, err := s.session.Room(input.Name)
	if err != nil {
		return nil, RoomOutput{}, err
	}
	c, err := s.session.ClassifyRoom(input.Name)
	if err != nil {
		return nil, RoomOutput{}, err
	}
	contributions, err := s.session.Contributions(input.Name)
	if err != nil {
		return nil, RoomOutput{}, err
	}
	return nil, roomOutput(room, neighbors, c, contributions), nil
}

func (s *Server) handleComputeLevels(ctx context.Context, req *sdk.CallToolRequest, input ComputeLevelsInput) (*sdk.CallToolResult, ComputeLevelsOutput, error) {
	levels := s.session.Levels()
	output := make([]LevelOutput, len(levels))
	for i, l := range levels {
		output[i] = LevelOutput{Name: l.Name, Level: l.Level}
	}
	return nil, ComputeLevelsOutput{Strategy: s.session.Strategy(), Levels: output}, nil
}

func (s *Server) handleClassify(ctx context.Context, req *sdk.CallToolRequest, input ClassifyInput) (*sdk.CallToolResult, ClassifyOutput, error) {
	state := acoustics.State(strings.ToLower(strings.TrimSpace(input.State)))
	switch state {
	case "", acoustics.StateAdequate, acoustics.StateNear, acoustics.StateExceeds:
	default:
		return nil, ClassifyOutput{}, fmt.Errorf("unknown state: %s", input.State)
	}

	output := make([]ClassificationOutput, 0)
	for _, c := range s.session.Classify() {
		if state != "" && c.State != state {
			continue
		}
		output = append(output, classificationOutput(c))
	}
	return nil, ClassifyOutput{Rooms: output}, nil
}

func (s *Server) handleSummary(ctx context.Context, req *sdk.CallToolRequest, input SummaryInput) (*sdk.CallToolResult, SummaryOutput, error) {
	summary := s.session.Summary()
	return nil, SummaryOutput{
		Project:  s.session.Project(),
		Strategy: s.session.Strategy(),
		Rooms:    summary.Rooms,
		Mean:     summary.Mean,
		Max:      summary.Max,
		Exceeds:  len(s.session.Fixable()),
	}, nil
}

func (s *Server) handleReduceGraph(ctx context.Context, req *sdk.CallToolRequest, input ReduceGraphInput) (*sdk.CallToolResult, ReduceGraphOutput, error) {
	result := s.session.Reduce()
	output := ReduceGraphOutput{
		Merges:  make([]MergeOutput, len(result.Merges)),
		Skipped: result.Skipped,
		Rooms:   len(s.session.Rooms()),
	}
	for i, m := range result.Merges {
		output.Merges[i] = MergeOutput{Kept: m.Kept, Removed: m.Removed, Noise: m.Noise}
	}
	output.RunID = s.record(ctx, store.TriggerReduce)
	return nil, output, nil
}

func (s *Server) handleFixRoom(ctx context.Context, req *sdk.CallToolRequest, input FixRoomInput) (*sdk.CallToolResult, FixRoomOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, FixRoomOutput{}, fmt.Errorf("name is required")
	}
	result, err := s.session.Fix(input.Name, strings.ToLower(strings.TrimSpace(input.Mode)))
	if err != nil {
		return nil, FixRoomOutput{}, err
	}
	c, err := s.session.ClassifyRoom(input.Name)
	if err != nil {
		return nil, FixRoomOutput{}, err
	}

	output := FixRoomOutput{
		Mode:      result.Mode,
		Room:      noiseChangeOutput(result.Room),
		Neighbors: make([]NoiseChangeOutput, len(result.Neighbors)),
		Level:     c.Level,
		State:     string(c.State),
	}
	for i, n := range result.Neighbors {
		output.Neighbors[i] = noiseChangeOutput(n)
	}
	output.RunID = s.record(ctx, store.TriggerFix)
	return nil, output, nil
}

func (s *Server) handleListFixable(ctx context.Context, req *sdk.CallToolRequest, input ListFixableInput) (*sdk.CallToolResult, ListFixableOutput, error) {
	fixable := s.session.Fixable()
	output := make([]ClassificationOutput, len(fixable))
	for i, c := range fixable {
		output[i] = classificationOutput(c)
	}
	return nil, ListFixableOutput{Rooms: output}, nil
}

func roomOutput(room *acoustics.Room, neighbors []string, c graph.Classification, contributions []graph.Contribution) RoomOutput {
	out := RoomOutput{
		Name:           room.Name,
		Category:       string(room.Category),
		Floor:          room.Floor,
		Position:       room.Position,
		Barriers:       room.Barriers,
		Noise:          room.Noise,
		Frequency:      room.Frequency,
		Source:         room.Source,
		Level:          c.Level,
		State:          string(c.State),
		Limits:         c.Limits,
		Recommendation: c.Recommendation,
		Neighbors:      append([]string{}, neighbors...),
		Contributions:  make([]ContributionOutput, len(contributions)),
		Sensors:        make([]SensorOutput, len(room.Sensors)),
	}
	for i, contribution := range contributions {
		out.Contributions[i] = ContributionOutput{
			Neighbor: contribution.Neighbor,
			Value:    contribution.Value,
			Skipped:  contribution.Skipped,
		}
	}
	for i, sensor := range room.Sensors {
		out.Sensors[i] = SensorOutput{Location: sensor.Location, Reading: sensor.Measure()}
	}
	return out
}

func classificationOutput(c graph.Classification) ClassificationOutput {
	return ClassificationOutput{
		Name:           c.Name,
		Category:       string(c.Category),
		Floor:          c.Floor,
		Level:          c.Level,
		State:          string(c.State),
		Recommendation: c.Recommendation,
	}
}

func noiseChangeOutput(n graph.NoiseChange) NoiseChangeOutput {
	return NoiseChangeOutput{Name: n.Name, Before: n.Before, After: n.After}
}
