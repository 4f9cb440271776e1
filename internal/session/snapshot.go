package session

import (
	"noisegraph/internal/graph"
	"noisegraph/internal/store"
)

// Snapshot classifies every room under one lock and packages the result as a
// run ready for the history store.
func (s *Session) Snapshot(trigger string) store.RunInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	levels := s.graph.ComputeLevels(s.model)
	summary := graph.Summarize(levels)
	classes := s.graph.Classify(s.model)

	run := store.RunInput{
		Project:  s.opts.Project,
		Strategy: s.model.Name(),
		Trigger:  trigger,
		Mean:     summary.Mean,
		Max:      summary.Max,
		Entries:  make([]store.Entry, len(classes)),
	}
	for i, c := range classes {
		run.Entries[i] = store.Entry{
			Room:     c.Name,
			Category: string(c.Category),
			Floor:    c.Floor,
			Level:    c.Level,
			State:    string(c.State),
		}
	}
	return run
}
