package graph

import (
	"fmt"
	"math/rand/v2"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/config"
)

// Build constructs a graph from a fixed or generated layout.
func Build(layout *config.Layout) (*Graph, error) {
	if layout == nil {
		return nil, fmt.Errorf("build graph: layout is required")
	}
	if layout.Generate != nil {
		return Generate(*layout.Generate)
	}

	g := New()
	for _, spec := range layout.Rooms {
		if err := g.AddRoom(roomFromSpec(spec)); err != nil {
			return nil, fmt.Errorf("build graph: %w", err)
		}
	}
	for _, conn := range layout.Connections {
		if len(conn) != 2 {
			return nil, fmt.Errorf("build graph: connection must name two rooms, got %d", len(conn))
		}
		if err := g.Connect(conn[0], conn[1]); err != nil {
			return nil, fmt.Errorf("build graph: %w", err)
		}
	}
	return g, nil
}

func roomFromSpec(spec config.RoomSpec) *acoustics.Room {
	room := &acoustics.Room{
		Name:     spec.Name,
		Category: acoustics.ParseCategory(spec.Category),
		Barriers: acoustics.Barriers{
			Wall:   float64(spec.Wall),
			Window: float64(spec.Window),
			Door:   float64(spec.Door),
		},
		Noise:     spec.Noise,
		Frequency: spec.Frequency,
		Floor:     spec.Floor,
		Source:    spec.Source,
	}
	if len(spec.Position) == 3 {
		room.Position = acoustics.Position{X: spec.Position[0], Y: spec.Position[1], Z: spec.Position[2]}
	}
	for _, s := range spec.Sensors {
		location := s.Location
		if location == "" {
			location = spec.Name
		}
		room.Sensors = append(room.Sensors, acoustics.Sensor{Location: location, Reading: s.Reading})
	}
	return room
}

// Generate lays out floors with one hallway each. Every room on a floor is
// connected to its hallway and consecutive hallways are connected. The
// result depends only on the generator settings, including the seed.
func Generate(spec config.GenerateSpec) (*Graph, error) {
	if spec.Floors < 1 || spec.RoomsPerFloor < 1 {
		return nil, fmt.Errorf("generate graph: floors and rooms_per_floor must be at least 1")
	}
	categories := make([]acoustics.Category, 0, len(spec.Categories))
	for _, c := range spec.Categories {
		categories = append(categories, acoustics.ParseCategory(c))
	}
	if len(categories) == 0 {
		categories = acoustics.Categories()
	}
	height := spec.FloorHeight
	if height == 0 {
		height = 3
	}
	spacing := spec.Spacing
	if spacing == 0 {
		spacing = 4
	}
	noise := spec.Noise
	if noise.Min == 0 && noise.Max == 0 {
		noise = config.Range{Min: 40, Max: 70}
	}

	rng := rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15))
	between := func(r config.Range) float64 {
		return r.Min + rng.Float64()*(r.Max-r.Min)
	}

	g := New()
	previousHall := ""
	for floor := 1; floor <= spec.Floors; floor++ {
		z := float64(floor-1) * height
		hall := &acoustics.Room{
			Name:     fmt.Sprintf("Hallway %d", floor),
			Category: acoustics.CategoryHallway,
			Noise:    between(noise),
			Position: acoustics.Position{Z: z},
			Floor:    floor,
		}
		hall.Sensors = []acoustics.Sensor{fixedSensor(hall)}
		if err := g.AddRoom(hall); err != nil {
			return nil, fmt.Errorf("generate graph: %w", err)
		}
		if previousHall != "" {
			if err := g.Connect(previousHall, hall.Name); err != nil {
				return nil, fmt.Errorf("generate graph: %w", err)
			}
		}
		previousHall = hall.Name

		for i := 0; i < spec.RoomsPerFloor; i++ {
			y := spacing / 2
			if i%2 == 1 {
				y = -y
			}
			category := categories[rng.IntN(len(categories))]
			room := &acoustics.Room{
				Name:     fmt.Sprintf("F%d %s %d", floor, category, i+1),
				Category: category,
				Barriers: acoustics.Barriers{
					Wall:   between(spec.Barriers),
					Window: between(spec.Barriers),
					Door:   between(spec.Barriers),
				},
				Noise:     between(noise),
				Frequency: 1,
				Position:  acoustics.Position{X: spacing * float64(i/2+1), Y: y, Z: z},
				Floor:     floor,
				Source:    rng.Float64() < spec.SourceRatio,
			}
			room.Sensors = []acoustics.Sensor{fixedSensor(room)}
			if err := g.AddRoom(room); err != nil {
				return nil, fmt.Errorf("generate graph: %w", err)
			}
			if err := g.Connect(hall.Name, room.Name); err != nil {
				return nil, fmt.Errorf("generate graph: %w", err)
			}
		}
	}
	return g, nil
}

func fixedSensor(room *acoustics.Room) acoustics.Sensor {
	reading := room.Noise
	return acoustics.Sensor{Location: room.Name, Reading: &reading}
}
