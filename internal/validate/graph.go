package validate

import "noisegraph/internal/acoustics"

// Topology is the read view of a building graph that the checks need.
// *graph.Graph satisfies it.
type Topology interface {
	Rooms() []*acoustics.Room
	Has(name string) bool
	Neighbors(name string) ([]string, error)
}
