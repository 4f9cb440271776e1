package graph

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"noisegraph/internal/acoustics"
)

type Level struct {
	Name  string
	Level float64
}

type Classification struct {
	Name           string
	Category       acoustics.Category
	Floor          int
	Level          float64
	State          acoustics.State
	Limits         acoustics.Limits
	Recommendation string
}

type Contribution struct {
	Neighbor string
	Value    float64
	Skipped  bool
}

type Summary struct {
	Rooms int
	Mean  float64
	Max   float64
}

// LevelOf computes the current aggregate noise level of one room.
func (g *Graph) LevelOf(model acoustics.Model, name string) (float64, error) {
	room, err := g.Room(name)
	if err != nil {
		return 0, err
	}
	return model.Level(room, g.neighborRooms(name)), nil
}

// ComputeLevels returns every room's level in insertion order. It never
// mutates the graph.
func (g *Graph) ComputeLevels(model acoustics.Model) []Level {
	out := make([]Level, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, Level{Name: name, Level: model.Level(g.rooms[name], g.neighborRooms(name))})
	}
	return out
}

func (g *Graph) Classify(model acoustics.Model) []Classification {
	levels := g.ComputeLevels(model)
	out := make([]Classification, 0, len(levels))
	for _, l := range levels {
		out = append(out, g.classification(g.rooms[l.Name], l.Level))
	}
	return out
}

func (g *Graph) ClassifyRoom(model acoustics.Model, name string) (Classification, error) {
	level, err := g.LevelOf(model, name)
	if err != nil {
		return Classification{}, err
	}
	return g.classification(g.rooms[name], level), nil
}

func (g *Graph) classification(room *acoustics.Room, level float64) Classification {
	limits := room.NoiseLimits()
	state := acoustics.Classify(level, limits)
	return Classification{
		Name:           room.Name,
		Category:       room.Category,
		Floor:          room.Floor,
		Level:          level,
		State:          state,
		Limits:         limits,
		Recommendation: state.Recommendation(),
	}
}

// Contributions lists what each neighbor adds to the room under model.
func (g *Graph) Contributions(model acoustics.Model, name string) ([]Contribution, error) {
	room, err := g.Room(name)
	if err != nil {
		return nil, fmt.Errorf("contributions: %w", err)
	}
	neighbors := g.neighborRooms(name)
	out := make([]Contribution, 0, len(neighbors))
	for _, n := range neighbors {
		value, ok := model.Contribution(room, n)
		out = append(out, Contribution{Neighbor: n.Name, Value: value, Skipped: !ok})
	}
	return out, nil
}

// Exceeding returns the names of rooms currently classified as exceeding.
func (g *Graph) Exceeding(model acoustics.Model) []string {
	var out []string
	for _, c := range g.Classify(model) {
		if c.State == acoustics.StateExceeds {
			out = append(out, c.Name)
		}
	}
	return out
}

// Summarize reports mean and max level. An empty input yields zeros.
func Summarize(levels []Level) Summary {
	if len(levels) == 0 {
		return Summary{}
	}
	values := make([]float64, len(levels))
	for i, l := range levels {
		values[i] = l.Level
	}
	return Summary{
		Rooms: len(values),
		Mean:  stat.Mean(values, nil),
		Max:   floats.Max(values),
	}
}
