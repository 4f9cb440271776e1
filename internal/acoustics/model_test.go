package acoustics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	m, err := NewModel("", ModelOptions{})
	require.NoError(t, err)
	assert.Equal(t, LogDecay{FloorPenalty: 1.5, WallAbsorption: 0.8}, m)

	m, err = NewModel("Transmission-Loss", ModelOptions{})
	require.NoError(t, err)
	assert.Equal(t, TransmissionLoss{Epsilon: 1e-9}, m)

	_, err = NewModel("ray-tracing", ModelOptions{})
	require.Error(t, err)
}

func TestLogDecayLine(t *testing.T) {
	m := LogDecay{FloorPenalty: 1.5, WallAbsorption: 0.8}
	a := &Room{Name: "A", Noise: 70, Source: true, Floor: 1}
	b := &Room{Name: "B", Noise: 0, Floor: 1, Position: Position{X: 3}}
	c := &Room{Name: "C", Noise: 0, Floor: 1, Position: Position{X: 6}}

	t.Run("without wall", func(t *testing.T) {
		assert.InDelta(t, 70/math.Log(4), m.Level(b, []*Room{a, c}), 1e-12)
	})

	t.Run("with wall", func(t *testing.T) {
		walled := *b
		walled.Barriers.Wall = 1
		assert.InDelta(t, 70/math.Log(4)*0.8, m.Level(&walled, []*Room{a, c}), 1e-12)
	})

	t.Run("source keeps own noise", func(t *testing.T) {
		assert.InDelta(t, 70, m.Level(a, []*Room{b}), 1e-12)
	})
}

func TestLogDecayFloorPenalty(t *testing.T) {
	m := LogDecay{FloorPenalty: 1.5, WallAbsorption: 0.8}
	upper := &Room{Name: "up", Noise: 60, Floor: 2, Position: Position{Z: 3}}
	lower := &Room{Name: "low", Floor: 1}

	got, ok := m.Contribution(lower, upper)
	require.True(t, ok)
	assert.InDelta(t, 60/(math.Log(4)*1.5), got, 1e-12)
}

func TestLogDecayZeroDistance(t *testing.T) {
	m := LogDecay{FloorPenalty: 1.5, WallAbsorption: 0.8}
	a := &Room{Name: "a", Noise: 80, Source: true}
	b := &Room{Name: "b", Noise: 80}

	_, ok := m.Contribution(b, a)
	assert.False(t, ok)
	level := m.Level(b, []*Room{a})
	assert.Zero(t, level)
	assert.False(t, math.IsNaN(level) || math.IsInf(level, 0))
}

func TestPowerSum(t *testing.T) {
	assert.InDelta(t, 60+10*math.Log10(2), PowerSum(60, 60), 0.01)
	assert.InDelta(t, 70, PowerSum(70), 1e-9)
	assert.Zero(t, PowerSum())
	assert.InDelta(t, PowerToDB(DBToPower(50)+DBToPower(53)), PowerSum(50, 53), 1e-9)
}

func TestTransmissionLossTwoSources(t *testing.T) {
	m := TransmissionLoss{Epsilon: 1e-9}
	a := &Room{Name: "a", Noise: 65, Source: true}
	b := &Room{Name: "b", Noise: 65, Source: true}

	assert.InDelta(t, 65+10*math.Log10(2), m.Level(a, []*Room{b}), 0.01)
}

func TestTransmissionLossFactors(t *testing.T) {
	m := TransmissionLoss{Epsilon: 1e-9}
	room := &Room{Name: "r", Barriers: Barriers{Wall: 10, Window: 5, Door: 5}}
	neighbor := &Room{Name: "n", Noise: 70, Position: Position{X: 2}}

	want := math.Pow(10, -1) * math.Pow(10, -0.5) * math.Pow(10, -0.5) * math.Pow(10, -0.1)
	assert.InDelta(t, want, m.Transmission(room, neighbor), 1e-12)

	got, ok := m.Contribution(room, neighbor)
	require.True(t, ok)
	assert.InDelta(t, 70-21, got, 1e-5)

	// a pass-through room only hears its neighbor
	assert.InDelta(t, 49, m.Level(room, []*Room{neighbor}), 1e-5)
}

func TestTransmissionLossOwnLevelOnlyForSources(t *testing.T) {
	m := TransmissionLoss{Epsilon: 1e-9}
	assert.Zero(t, m.Level(&Room{Name: "quiet", Noise: 40}, nil))
	assert.InDelta(t, 40, m.Level(&Room{Name: "loud", Noise: 40, Source: true}, nil), 1e-9)
}

func TestDecibelConversions(t *testing.T) {
	assert.InDelta(t, 1e6, DBToPower(60), 1e-6)
	assert.InDelta(t, 60, PowerToDB(1e6), 1e-12)
	assert.InDelta(t, PowerToDB(DBToPower(47)+DBToPower(52)), PowerSum(47, 52), 1e-9)
}
