package validate

import (
	"testing"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/config"
	"noisegraph/internal/graph"
)

type mockTopology struct {
	rooms     []*acoustics.Room
	adjacency map[string][]string
}

func (m *mockTopology) Rooms() []*acoustics.Room { return m.rooms }

func (m *mockTopology) Has(name string) bool {
	for _, r := range m.rooms {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (m *mockTopology) Neighbors(name string) ([]string, error) {
	return m.adjacency[name], nil
}

func office(name string, x float64) *acoustics.Room {
	return &acoustics.Room{
		Name:     name,
		Category: acoustics.CategoryOffice,
		Noise:    50,
		Floor:    1,
		Position: acoustics.Position{X: x},
	}
}

func TestRun_CampusIsClean(t *testing.T) {
	layout, err := config.TemplateLayout("campus")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	g, err := graph.Build(layout)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	report, err := Run(g)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
}

func TestRun_AsymmetricLink(t *testing.T) {
	topo := &mockTopology{
		rooms:     []*acoustics.Room{office("A", 0), office("B", 3)},
		adjacency: map[string][]string{"A": {"B"}},
	}

	report, err := Run(topo)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !hasIssueCode(report.Issues, codeAsymmetricLink) {
		t.Fatalf("expected asymmetric link issue, got %+v", report.Issues)
	}
	if !hasIssueCode(report.Issues, codeOrphanedRoom) {
		t.Fatalf("expected B to be reported as orphaned")
	}
	if !report.HasErrors() {
		t.Fatalf("expected report to carry errors")
	}
}

func TestRun_DanglingNeighbor(t *testing.T) {
	topo := &mockTopology{
		rooms:     []*acoustics.Room{office("A", 0)},
		adjacency: map[string][]string{"A": {"Ghost"}},
	}

	report, err := Run(topo)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !hasIssueCode(report.Issues, codeDanglingNeighbor) {
		t.Fatalf("expected dangling neighbor issue, got %+v", report.Issues)
	}
}

func TestRun_DuplicateAndSelfLinks(t *testing.T) {
	topo := &mockTopology{
		rooms: []*acoustics.Room{office("A", 0), office("B", 3)},
		adjacency: map[string][]string{
			"A": {"B", "B", "A"},
			"B": {"A"},
		},
	}

	report, err := Run(topo)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !hasIssueCode(report.Issues, codeDuplicateLink) {
		t.Fatalf("expected duplicate link issue")
	}
	if !hasIssueCode(report.Issues, codeSelfLink) {
		t.Fatalf("expected self link issue")
	}
	if hasIssueCode(report.Issues, codeAsymmetricLink) {
		t.Fatalf("unexpected asymmetric link issue: %+v", report.Issues)
	}
}

func TestRun_RoomAttributes(t *testing.T) {
	bad := office("Bad", 5)
	bad.Category = "boiler-room"
	bad.Floor = 0
	bad.Noise = -3
	g := graph.New()
	for _, r := range []*acoustics.Room{office("A", 0), bad} {
		if err := g.AddRoom(r); err != nil {
			t.Fatalf("add room: %v", err)
		}
	}
	if err := g.Connect("A", "Bad"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	report, err := Run(g)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, code := range []string{codeUnknownCategory, codeInvalidFloor, codeNegativeNoise} {
		if !hasIssueCode(report.Issues, code) {
			t.Errorf("expected %s issue", code)
		}
	}
	if got := report.Count(SeverityError); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
	if got := report.Count(SeverityWarn); got != 1 {
		t.Fatalf("expected 1 warning, got %d", got)
	}
}

func TestRun_ZeroDistanceReportedOnce(t *testing.T) {
	g := graph.New()
	for _, r := range []*acoustics.Room{office("A", 1), office("B", 1)} {
		if err := g.AddRoom(r); err != nil {
			t.Fatalf("add room: %v", err)
		}
	}
	if err := g.Connect("A", "B"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	report, err := Run(g)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	count := 0
	for _, issue := range report.Issues {
		if issue.Code == codeZeroDistance {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one zero distance issue, got %d", count)
	}
	if report.HasErrors() {
		t.Fatalf("zero distance should only warn")
	}
}

func TestRun_NilTopology(t *testing.T) {
	if _, err := Run(nil); err == nil {
		t.Fatalf("expected error")
	}
}

func hasIssueCode(issues []Issue, code string) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}
