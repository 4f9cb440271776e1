// Package session owns one building graph together with the model and
// options applied to it. Every call holds the session lock, so hosts such as
// the MCP server never observe a graph mid-merge.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/config"
	"noisegraph/internal/graph"
)

type Options struct {
	Project     string
	Reduce      graph.ReduceOptions
	Remediation graph.Remediation
}

type Session struct {
	mu     sync.Mutex
	graph  *graph.Graph
	model  acoustics.Model
	opts   Options
	logger *zap.Logger
}

func New(g *graph.Graph, model acoustics.Model, opts Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Reduce == (graph.ReduceOptions{}) {
		opts.Reduce = graph.DefaultReduceOptions()
	}
	switch {
	case opts.Remediation == (graph.Remediation{}):
		opts.Remediation = graph.DefaultRemediation()
	case opts.Remediation.Mode == "":
		opts.Remediation.Mode = graph.ModeAdequate
	}
	return &Session{graph: g, model: model, opts: opts, logger: logger}
}

// FromConfig builds the graph described by layout and the model selected in
// cfg.
func FromConfig(cfg *config.ProjectConfig, layout *config.Layout, logger *zap.Logger) (*Session, error) {
	g, err := graph.Build(layout)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	model, err := acoustics.NewModel(cfg.Model.Strategy, acoustics.ModelOptions{
		FloorPenalty:   cfg.Model.FloorPenalty,
		WallAbsorption: cfg.Model.WallAbsorption,
		Epsilon:        cfg.Model.Epsilon,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	r := cfg.Remediation
	opts := Options{
		Project: cfg.Project,
		Reduce: graph.ReduceOptions{
			NoiseTolerance: cfg.Reduce.NoiseTolerance,
			MaxDistance:    cfg.Reduce.MaxDistance,
		},
		Remediation: graph.Remediation{
			Mode:              r.Mode,
			Barriers:          acoustics.Barriers{Wall: r.Wall, Window: r.Window, Door: r.Door},
			NoiseFloor:        r.NoiseFloor,
			NeighborReduction: r.NeighborReduction,
			NeighborMinimum:   r.NeighborMinimum,
		},
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("session created",
		zap.String("project", cfg.Project),
		zap.String("strategy", model.Name()),
		zap.Int("rooms", g.Len()),
	)
	return New(g, model, opts, logger), nil
}

func (s *Session) Project() string { return s.opts.Project }

func (s *Session) Strategy() string { return s.model.Name() }

// Rooms returns copies of every room in insertion order.
func (s *Session) Rooms() []*acoustics.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := s.graph.Rooms()
	out := make([]*acoustics.Room, len(rooms))
	for i, r := range rooms {
		out[i] = r.Clone()
	}
	return out
}

// Room returns a copy of the named room and its neighbor names.
func (s *Session) Room(name string) (*acoustics.Room, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, err := s.graph.Room(name)
	if err != nil {
		return nil, nil, err
	}
	neighbors, err := s.graph.Neighbors(name)
	if err != nil {
		return nil, nil, err
	}
	return room.Clone(), neighbors, nil
}

func (s *Session) Edges() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Edges()
}

func (s *Session) Levels() []graph.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.ComputeLevels(s.model)
}

func (s *Session) Classify() []graph.Classification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Classify(s.model)
}

func (s *Session) ClassifyRoom(name string) (graph.Classification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.ClassifyRoom(s.model, name)
}

func (s *Session) Contributions(name string) ([]graph.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Contributions(s.model, name)
}

func (s *Session) Summary() graph.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.Summarize(s.graph.ComputeLevels(s.model))
}

// Fixable lists the rooms currently eligible for remediation.
func (s *Session) Fixable() []graph.Classification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []graph.Classification
	for _, c := range s.graph.Classify(s.model) {
		if c.State == acoustics.StateExceeds {
			out = append(out, c)
		}
	}
	return out
}

// Reduce runs one merge pass with the session's reduce options.
func (s *Session) Reduce() graph.ReduceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.graph.Len()
	result := s.graph.Reduce(s.opts.Reduce)
	for _, m := range result.Merges {
		s.logger.Info("room merged",
			zap.String("kept", m.Kept),
			zap.String("removed", m.Removed),
			zap.Float64("noise", m.Noise),
		)
	}
	s.logger.Debug("reduce finished",
		zap.Int("rooms_before", before),
		zap.Int("rooms_after", s.graph.Len()),
		zap.Int("skipped", result.Skipped),
	)
	return result
}

// Fix remediates one room. An empty mode uses the configured one.
func (s *Session) Fix(name, mode string) (graph.FixResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.opts.Remediation
	if mode != "" {
		r.Mode = mode
	}
	result, err := s.graph.Fix(s.model, name, r)
	if err != nil {
		return graph.FixResult{}, err
	}
	s.logger.Info("room remediated",
		zap.String("room", name),
		zap.String("mode", result.Mode),
		zap.Float64("before", result.Room.Before),
		zap.Float64("after", result.Room.After),
	)
	for _, n := range result.Neighbors {
		s.logger.Debug("neighbor attenuated",
			zap.String("room", n.Name),
			zap.Float64("before", n.Before),
			zap.Float64("after", n.After),
		)
	}
	return result, nil
}

// Inspect runs fn with the session lock held. fn must not retain g.
func (s *Session) Inspect(fn func(g *graph.Graph, model acoustics.Model)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.graph, s.model)
}
