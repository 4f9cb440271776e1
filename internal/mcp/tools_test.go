package mcp

import (
	"context"
	"errors"
	"testing"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/config"
	"noisegraph/internal/graph"
	"noisegraph/internal/session"
	"noisegraph/internal/store"
)

type mockStore struct {
	saved   []store.RunInput
	saveErr error
}

func (m *mockStore) Close(ctx context.Context) error { return nil }

func (m *mockStore) EnsureSchema(ctx context.Context) error { return nil }

func (m *mockStore) SaveRun(ctx context.Context, run store.RunInput) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved = append(m.saved, run)
	return "run-" + run.Trigger, nil
}

func (m *mockStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) { return nil, nil }

func (m *mockStore) GetRun(ctx context.Context, id string) (*store.Run, error) { return nil, nil }

func (m *mockStore) RoomHistory(ctx context.Context, room string, limit int) ([]store.RoomPoint, error) {
	return nil, nil
}

func (m *mockStore) RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return nil, nil
}

func campusServer(t *testing.T, db store.Store) *Server {
	t.Helper()
	layout, err := config.TemplateLayout("campus")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	cfg := &config.ProjectConfig{
		Project: "campus",
		Model:   config.ModelConfig{Strategy: acoustics.StrategyLogDecay},
		Remediation: config.RemediationConfig{
			Mode: graph.ModeAdequate, Wall: 30, Window: 20, Door: 25,
			NoiseFloor: 30, NeighborReduction: 5, NeighborMinimum: 20,
		},
	}
	sess, err := session.FromConfig(cfg, layout, nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return NewServer(sess, db, nil, "test")
}

func TestListRooms_Filters(t *testing.T) {
	server := campusServer(t, nil)

	_, output, err := server.handleListRooms(context.Background(), nil, ListRoomsInput{Category: "Hallway"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Rooms) != 4 {
		t.Fatalf("expected 4 hallways, got %+v", output.Rooms)
	}

	_, output, err = server.handleListRooms(context.Background(), nil, ListRoomsInput{Floor: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Rooms) != 5 {
		t.Fatalf("expected 5 rooms on floor 4, got %d", len(output.Rooms))
	}
}

func TestGetRoom(t *testing.T) {
	server := campusServer(t, nil)

	_, output, err := server.handleGetRoom(context.Background(), nil, GetRoomInput{Name: "Reception"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.State != string(acoustics.StateExceeds) {
		t.Fatalf("expected reception to exceed, got %s", output.State)
	}
	if len(output.Neighbors) != 1 || output.Neighbors[0] != "Hallway 1" {
		t.Fatalf("unexpected neighbors: %v", output.Neighbors)
	}
	if len(output.Contributions) != 1 || output.Contributions[0].Neighbor != "Hallway 1" {
		t.Fatalf("unexpected contributions: %+v", output.Contributions)
	}
	if len(output.Sensors) != 1 || output.Sensors[0].Reading != 50 {
		t.Fatalf("unexpected sensors: %+v", output.Sensors)
	}
}

func TestGetRoom_Errors(t *testing.T) {
	server := campusServer(t, nil)

	if _, _, err := server.handleGetRoom(context.Background(), nil, GetRoomInput{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	_, _, err := server.handleGetRoom(context.Background(), nil, GetRoomInput{Name: "Basement"})
	if !errors.Is(err, graph.ErrUnknownRoom) {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}
}

func TestComputeLevelsAndSummary(t *testing.T) {
	server := campusServer(t, nil)

	_, levels, err := server.handleComputeLevels(context.Background(), nil, ComputeLevelsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if levels.Strategy != acoustics.StrategyLogDecay || len(levels.Levels) != 29 {
		t.Fatalf("unexpected levels output: %s %d", levels.Strategy, len(levels.Levels))
	}

	_, summary, err := server.handleSummary(context.Background(), nil, SummaryInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Rooms != 29 || summary.Exceeds != 6 || summary.Max < summary.Mean {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestClassify_StateFilter(t *testing.T) {
	server := campusServer(t, nil)

	_, output, err := server.handleClassify(context.Background(), nil, ClassifyInput{State: "EXCEEDS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Rooms) != 6 {
		t.Fatalf("expected 6 exceeding rooms, got %d", len(output.Rooms))
	}

	if _, _, err := server.handleClassify(context.Background(), nil, ClassifyInput{State: "loud"}); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}

func TestFixRoom_Records(t *testing.T) {
	db := &mockStore{}
	server := campusServer(t, db)

	_, output, err := server.handleFixRoom(context.Background(), nil, FixRoomInput{Name: "Hallway 1", Mode: "Structural"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Mode != graph.ModeStructural || output.Room.After != 30 {
		t.Fatalf("unexpected fix output: %+v", output)
	}
	if len(output.Neighbors) == 0 {
		t.Fatalf("expected attenuated neighbors")
	}
	if output.RunID != "run-fix" || len(db.saved) != 1 || db.saved[0].Trigger != store.TriggerFix {
		t.Fatalf("expected fix to be recorded, got %q %+v", output.RunID, db.saved)
	}
}

func TestFixRoom_NotEligible(t *testing.T) {
	server := campusServer(t, nil)

	_, _, err := server.handleFixRoom(context.Background(), nil, FixRoomInput{Name: "Office 1"})
	if !errors.Is(err, graph.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestReduceGraph_RecordFailureIsNotFatal(t *testing.T) {
	db := &mockStore{saveErr: errors.New("disk full")}
	server := campusServer(t, db)

	_, output, err := server.handleReduceGraph(context.Background(), nil, ReduceGraphInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Merges) != 0 || output.Rooms != 29 || output.RunID != "" {
		t.Fatalf("unexpected reduce output: %+v", output)
	}
}

func TestListFixable(t *testing.T) {
	server := campusServer(t, nil)

	_, output, err := server.handleListFixable(context.Background(), nil, ListFixableInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Rooms) != 6 || output.Rooms[0].Name != "Reception" {
		t.Fatalf("unexpected fixable rooms: %+v", output.Rooms)
	}
}
