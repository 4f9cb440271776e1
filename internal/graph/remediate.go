package graph

import (
	"fmt"

	"noisegraph/internal/acoustics"
)

const (
	ModeAdequate   = "adequate"
	ModeStructural = "structural"
)

// Remediation describes the improvement applied by Fix. In adequate mode the
// room's noise drops to its adequate threshold. Structural mode also upgrades
// the barriers, sets the noise to NoiseFloor and lowers every direct neighbor
// by NeighborReduction, never below NeighborMinimum.
type Remediation struct {
	Mode              string
	Barriers          acoustics.Barriers
	NoiseFloor        float64
	NeighborReduction float64
	NeighborMinimum   float64
}

func DefaultRemediation() Remediation {
	return Remediation{
		Mode:              ModeAdequate,
		Barriers:          acoustics.Barriers{Wall: 30, Window: 20, Door: 25},
		NoiseFloor:        30,
		NeighborReduction: 5,
		NeighborMinimum:   20,
	}
}

type NoiseChange struct {
	Name   string
	Before float64
	After  float64
}

type FixResult struct {
	Mode      string
	Room      NoiseChange
	Neighbors []NoiseChange
}

// Fix remediates a room that currently exceeds its limit.
func (g *Graph) Fix(model acoustics.Model, name string, r Remediation) (FixResult, error) {
	c, err := g.ClassifyRoom(model, name)
	if err != nil {
		return FixResult{}, fmt.Errorf("fix: %w", err)
	}
	if c.State != acoustics.StateExceeds {
		return FixResult{}, fmt.Errorf("fix %q at %.2f dB: %w", name, c.Level, ErrNotEligible)
	}

	room := g.rooms[name]
	result := FixResult{Mode: r.Mode, Room: NoiseChange{Name: name, Before: room.Noise}}

	switch r.Mode {
	case "", ModeAdequate:
		result.Mode = ModeAdequate
		room.Noise = room.NoiseLimits().Adequate
	case ModeStructural:
		room.Barriers = r.Barriers
		room.Noise = r.NoiseFloor
		for _, n := range g.neighborRooms(name) {
			after := max(n.Noise-r.NeighborReduction, r.NeighborMinimum)
			if after >= n.Noise {
				continue
			}
			result.Neighbors = append(result.Neighbors, NoiseChange{Name: n.Name, Before: n.Noise, After: after})
			n.Noise = after
		}
	default:
		return FixResult{}, fmt.Errorf("fix %q: unknown remediation mode %q", name, r.Mode)
	}

	result.Room.After = room.Noise
	return result, nil
}
