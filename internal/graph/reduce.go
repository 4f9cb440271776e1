package graph

import (
	"math"

	"noisegraph/internal/acoustics"
)

const (
	DefaultNoiseTolerance = 5.0
	DefaultMergeDistance  = 2.0
)

type ReduceOptions struct {
	NoiseTolerance float64
	MaxDistance    float64
}

// DefaultReduceOptions merges rooms within 5 dB of each other and at most
// 2 units apart. A zero NoiseTolerance merges only rooms with equal noise.
func DefaultReduceOptions() ReduceOptions {
	return ReduceOptions{NoiseTolerance: DefaultNoiseTolerance, MaxDistance: DefaultMergeDistance}
}

type Merge struct {
	Kept    string
	Removed string
	Noise   float64
}

type ReduceResult struct {
	Merges  []Merge
	Skipped int
}

// MergeCandidates lists pairs of distinct rooms with the same category and
// floor whose intrinsic noise differs by at most the tolerance and whose
// distance is within MaxDistance. Pairs follow insertion order.
func (g *Graph) MergeCandidates(opts ReduceOptions) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(g.order); i++ {
		a := g.rooms[g.order[i]]
		for j := i + 1; j < len(g.order); j++ {
			b := g.rooms[g.order[j]]
			if mergeable(a, b, opts) {
				pairs = append(pairs, [2]string{a.Name, b.Name})
			}
		}
	}
	return pairs
}

func mergeable(a, b *acoustics.Room, opts ReduceOptions) bool {
	if a.Category != b.Category || a.Floor != b.Floor {
		return false
	}
	if math.Abs(a.Noise-b.Noise) > opts.NoiseTolerance {
		return false
	}
	return a.DistanceTo(b) <= opts.MaxDistance
}

// Reduce merges candidate pairs in discovery order. The second room's links
// move to the first, the first takes the mean noise, and the second is
// removed. Pairs that name a room removed earlier in the pass are skipped.
func (g *Graph) Reduce(opts ReduceOptions) ReduceResult {
	var result ReduceResult
	for _, pair := range g.MergeCandidates(opts) {
		keep, drop := pair[0], pair[1]
		if !g.Has(keep) || !g.Has(drop) {
			result.Skipped++
			continue
		}
		result.Merges = append(result.Merges, g.merge(keep, drop))
	}
	return result
}

func (g *Graph) merge(keep, drop string) Merge {
	for _, n := range g.adjacency[drop] {
		if n == keep {
			continue
		}
		// both endpoints exist, so Connect cannot fail
		_ = g.Connect(keep, n)
	}
	kept := g.rooms[keep]
	kept.Noise = (kept.Noise + g.rooms[drop].Noise) / 2
	g.remove(drop)
	return Merge{Kept: keep, Removed: drop, Noise: kept.Noise}
}
