package graph

import (
	"fmt"
	"slices"

	"noisegraph/internal/acoustics"
)

// Graph owns the rooms of a building and their symmetric adjacency. Neighbor
// lists are kept by name so rooms never hold references to each other.
type Graph struct {
	rooms     map[string]*acoustics.Room
	order     []string
	adjacency map[string][]string
	positions map[string]acoustics.Position
}

func New() *Graph {
	return &Graph{
		rooms:     make(map[string]*acoustics.Room),
		adjacency: make(map[string][]string),
		positions: make(map[string]acoustics.Position),
	}
}

func (g *Graph) AddRoom(room *acoustics.Room) error {
	if room == nil || room.Name == "" {
		return fmt.Errorf("add room: name is required")
	}
	if _, exists := g.rooms[room.Name]; exists {
		return fmt.Errorf("add room %q: %w", room.Name, ErrDuplicateRoom)
	}
	g.rooms[room.Name] = room
	g.order = append(g.order, room.Name)
	g.adjacency[room.Name] = nil
	g.positions[room.Name] = room.Position
	return nil
}

func (g *Graph) Room(name string) (*acoustics.Room, error) {
	room, ok := g.rooms[name]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", name, ErrUnknownRoom)
	}
	return room, nil
}

func (g *Graph) Has(name string) bool {
	_, ok := g.rooms[name]
	return ok
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Names returns room names in insertion order.
func (g *Graph) Names() []string {
	return slices.Clone(g.order)
}

// Rooms returns rooms in insertion order.
func (g *Graph) Rooms() []*acoustics.Room {
	out := make([]*acoustics.Room, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.rooms[name])
	}
	return out
}

// Positions returns a copy of the fixed position map.
func (g *Graph) Positions() map[string]acoustics.Position {
	out := make(map[string]acoustics.Position, len(g.positions))
	for name, pos := range g.positions {
		out[name] = pos
	}
	return out
}

// Connect links two rooms in both directions. Connecting an already linked
// pair is a no-op.
func (g *Graph) Connect(a, b string) error {
	if a == b {
		return fmt.Errorf("connect %q: %w", a, ErrSelfConnection)
	}
	for _, name := range []string{a, b} {
		if !g.Has(name) {
			return fmt.Errorf("connect %q: %w", name, ErrUnknownRoom)
		}
	}
	if !slices.Contains(g.adjacency[a], b) {
		g.adjacency[a] = append(g.adjacency[a], b)
	}
	if !slices.Contains(g.adjacency[b], a) {
		g.adjacency[b] = append(g.adjacency[b], a)
	}
	return nil
}

// Disconnect removes the link between a and b from both sides.
func (g *Graph) Disconnect(a, b string) {
	g.adjacency[a] = removeName(g.adjacency[a], b)
	g.adjacency[b] = removeName(g.adjacency[b], a)
}

func (g *Graph) Connected(a, b string) bool {
	return slices.Contains(g.adjacency[a], b)
}

// Neighbors returns the neighbor names of a room in connection order.
func (g *Graph) Neighbors(name string) ([]string, error) {
	if !g.Has(name) {
		return nil, fmt.Errorf("neighbors of %q: %w", name, ErrUnknownRoom)
	}
	return slices.Clone(g.adjacency[name]), nil
}

func (g *Graph) neighborRooms(name string) []*acoustics.Room {
	names := g.adjacency[name]
	out := make([]*acoustics.Room, 0, len(names))
	for _, n := range names {
		if room, ok := g.rooms[n]; ok {
			out = append(out, room)
		}
	}
	return out
}

// Edges returns every undirected link once, ordered by the first endpoint's
// insertion order.
func (g *Graph) Edges() [][2]string {
	seen := make(map[[2]string]struct{})
	var edges [][2]string
	for _, a := range g.order {
		for _, b := range g.adjacency[a] {
			key := [2]string{a, b}
			if a > b {
				key = [2]string{b, a}
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, [2]string{a, b})
		}
	}
	return edges
}

// remove deletes a room, its reciprocal links and its fixed position.
func (g *Graph) remove(name string) {
	for _, n := range slices.Clone(g.adjacency[name]) {
		g.Disconnect(name, n)
	}
	delete(g.adjacency, name)
	delete(g.rooms, name)
	delete(g.positions, name)
	g.order = removeName(g.order, name)
}

func removeName(names []string, target string) []string {
	return slices.DeleteFunc(names, func(n string) bool { return n == target })
}
