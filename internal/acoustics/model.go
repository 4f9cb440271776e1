package acoustics

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const (
	StrategyLogDecay         = "log-decay"
	StrategyTransmissionLoss = "transmission-loss"
)

const (
	DefaultFloorPenalty   = 1.5
	DefaultWallAbsorption = 0.8
	DefaultEpsilon        = 1e-9
)

// Model computes the aggregate noise level of a room from its own state and
// its direct neighbors. Implementations hold no per-room state, so every call
// reflects the current graph.
type Model interface {
	Name() string
	// Contribution reports what neighbor adds to room before aggregation. The
	// bool is false when the pair is skipped.
	Contribution(room, neighbor *Room) (float64, bool)
	Level(room *Room, neighbors []*Room) float64
}

type ModelOptions struct {
	FloorPenalty   float64
	WallAbsorption float64
	Epsilon        float64
}

func NewModel(strategy string, opts ModelOptions) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyLogDecay:
		m := LogDecay{FloorPenalty: opts.FloorPenalty, WallAbsorption: opts.WallAbsorption}
		if m.FloorPenalty == 0 {
			m.FloorPenalty = DefaultFloorPenalty
		}
		if m.WallAbsorption == 0 {
			m.WallAbsorption = DefaultWallAbsorption
		}
		return m, nil
	case StrategyTransmissionLoss:
		m := TransmissionLoss{Epsilon: opts.Epsilon}
		if m.Epsilon == 0 {
			m.Epsilon = DefaultEpsilon
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown attenuation strategy: %s", strategy)
	}
}

// LogDecay attenuates each neighbor's intrinsic noise by ln(d+1), scaled by
// FloorPenalty across floors, and absorbs part of the propagated total when
// the receiving room has a wall.
type LogDecay struct {
	FloorPenalty   float64
	WallAbsorption float64
}

func (LogDecay) Name() string { return StrategyLogDecay }

func (m LogDecay) Contribution(room, neighbor *Room) (float64, bool) {
	d := room.DistanceTo(neighbor)
	if d == 0 {
		return 0, false
	}
	attenuation := math.Log(d + 1)
	if neighbor.Floor != room.Floor {
		attenuation *= m.FloorPenalty
	}
	return neighbor.Noise / attenuation, true
}

func (m LogDecay) Level(room *Room, neighbors []*Room) float64 {
	var own float64
	if room.Source {
		own = room.Noise
	}
	var propagated float64
	for _, n := range neighbors {
		if c, ok := m.Contribution(room, n); ok {
			propagated += c
		}
	}
	absorption := 1.0
	if room.HasWall() {
		absorption = m.WallAbsorption
	}
	return own + propagated*absorption
}

// TransmissionLoss works in the decibel domain: each neighbor's level is
// reduced by the receiving room's barriers and by distance, then all levels
// are combined by power summation. As in LogDecay, the room's own intrinsic
// level joins the sum only when the room is a source.
type TransmissionLoss struct {
	Epsilon float64
}

func (TransmissionLoss) Name() string { return StrategyTransmissionLoss }

func (m TransmissionLoss) Transmission(room, neighbor *Room) float64 {
	b := room.Barriers
	return BarrierFactor(b.Wall) *
		BarrierFactor(b.Window) *
		BarrierFactor(b.Door) *
		DistanceFactor(room.DistanceTo(neighbor))
}

func (m TransmissionLoss) Contribution(room, neighbor *Room) (float64, bool) {
	loss := -10 * math.Log10(m.Transmission(room, neighbor)+m.Epsilon)
	return neighbor.Noise - loss, true
}

func (m TransmissionLoss) Level(room *Room, neighbors []*Room) float64 {
	levels := make([]float64, 0, len(neighbors)+1)
	if room.Source {
		levels = append(levels, room.Noise)
	}
	for _, n := range neighbors {
		if c, ok := m.Contribution(room, n); ok {
			levels = append(levels, c)
		}
	}
	return PowerSum(levels...)
}

// BarrierFactor is the linear transmission through a barrier rated r dB.
func BarrierFactor(r float64) float64 {
	return math.Pow(10, -r/10)
}

// DistanceFactor is the linear transmission over distance d.
func DistanceFactor(d float64) float64 {
	return math.Pow(10, -d/20)
}

func DBToPower(level float64) float64 {
	return math.Pow(10, level/10)
}

func PowerToDB(power float64) float64 {
	return 10 * math.Log10(power)
}

// PowerSum combines levels as 10*log10(sum(10^(L/10))). It returns 0 when no
// levels are given.
func PowerSum(levels ...float64) float64 {
	if len(levels) == 0 {
		return 0
	}
	scaled := make([]float64, len(levels))
	for i, l := range levels {
		scaled[i] = l * math.Ln10 / 10
	}
	return floats.LogSumExp(scaled) * 10 / math.Ln10
}
