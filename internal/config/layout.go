package config

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PresentBarrier is the rating given to a barrier declared as a plain bool.
const PresentBarrier = 1.0

//go:embed templates/*.yaml
var templates embed.FS

type Layout struct {
	Version     int           `yaml:"version"`
	Rooms       []RoomSpec    `yaml:"rooms"`
	Connections [][]string    `yaml:"connections"`
	Generate    *GenerateSpec `yaml:"generate"`
}

type RoomSpec struct {
	Name      string       `yaml:"name"`
	Category  string       `yaml:"category"`
	Wall      Barrier      `yaml:"wall"`
	Window    Barrier      `yaml:"window"`
	Door      Barrier      `yaml:"door"`
	Noise     float64      `yaml:"noise"`
	Frequency float64      `yaml:"frequency"`
	Position  []float64    `yaml:"position"`
	Floor     int          `yaml:"floor"`
	Source    bool         `yaml:"source"`
	Sensors   []SensorSpec `yaml:"sensors"`
}

type SensorSpec struct {
	Location string   `yaml:"location"`
	Reading  *float64 `yaml:"reading"`
}

type GenerateSpec struct {
	Floors        int      `yaml:"floors"`
	RoomsPerFloor int      `yaml:"rooms_per_floor"`
	Categories    []string `yaml:"categories"`
	Noise         Range    `yaml:"noise"`
	SourceRatio   float64  `yaml:"source_ratio"`
	FloorHeight   float64  `yaml:"floor_height"`
	Spacing       float64  `yaml:"spacing"`
	Barriers      Range    `yaml:"barriers"`
	Seed          uint64   `yaml:"seed"`
}

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Barrier is a material resistance in dB. In YAML it may be written as a
// number or as a bool meaning present or absent.
type Barrier float64

func (b *Barrier) UnmarshalYAML(value *yaml.Node) error {
	var flag bool
	if err := value.Decode(&flag); err == nil {
		if flag {
			*b = PresentBarrier
		} else {
			*b = 0
		}
		return nil
	}
	var rating float64
	if err := value.Decode(&rating); err != nil {
		return fmt.Errorf("barrier must be a bool or a number: %w", err)
	}
	*b = Barrier(rating)
	return nil
}

func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	return ParseLayout(data)
}

func ParseLayout(data []byte) (*Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	if err := validateLayout(&layout); err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	return &layout, nil
}

// Template returns the raw contents of a bundled layout.
func Template(name string) ([]byte, error) {
	data, err := templates.ReadFile("templates/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}
	return data, nil
}

func TemplateLayout(name string) (*Layout, error) {
	data, err := Template(name)
	if err != nil {
		return nil, err
	}
	return ParseLayout(data)
}

func validateLayout(l *Layout) error {
	if l.Version != 1 {
		return fmt.Errorf("unsupported version: %d", l.Version)
	}
	if l.Generate != nil {
		if len(l.Rooms) > 0 {
			return fmt.Errorf("layout cannot declare both rooms and generate")
		}
		return validateGenerate(l.Generate)
	}
	if len(l.Rooms) == 0 {
		return fmt.Errorf("at least one room is required")
	}

	names := make(map[string]struct{}, len(l.Rooms))
	for i, room := range l.Rooms {
		if strings.TrimSpace(room.Name) == "" {
			return fmt.Errorf("room %d name is required", i)
		}
		if _, exists := names[room.Name]; exists {
			return fmt.Errorf("duplicate room name: %s", room.Name)
		}
		names[room.Name] = struct{}{}
		if room.Floor < 1 {
			return fmt.Errorf("room %s floor must be at least 1", room.Name)
		}
		if room.Noise < 0 {
			return fmt.Errorf("room %s noise must not be negative", room.Name)
		}
		if len(room.Position) != 3 {
			return fmt.Errorf("room %s position must have 3 coordinates", room.Name)
		}
	}

	for i, conn := range l.Connections {
		if len(conn) != 2 {
			return fmt.Errorf("connection %d must name exactly two rooms", i)
		}
		if conn[0] == conn[1] {
			return fmt.Errorf("connection %d links %s to itself", i, conn[0])
		}
		for _, name := range conn {
			if _, ok := names[name]; !ok {
				return fmt.Errorf("connection %d references unknown room: %s", i, name)
			}
		}
	}

	return nil
}

func validateGenerate(g *GenerateSpec) error {
	if g.Floors < 1 {
		return fmt.Errorf("generate floors must be at least 1")
	}
	if g.RoomsPerFloor < 1 {
		return fmt.Errorf("generate rooms_per_floor must be at least 1")
	}
	if g.Noise.Min < 0 || g.Noise.Max < g.Noise.Min {
		return fmt.Errorf("generate noise range is invalid")
	}
	if g.Barriers.Min < 0 || g.Barriers.Max < g.Barriers.Min {
		return fmt.Errorf("generate barriers range is invalid")
	}
	if g.SourceRatio < 0 || g.SourceRatio > 1 {
		return fmt.Errorf("generate source_ratio must be within [0, 1]")
	}
	if g.FloorHeight < 0 || g.Spacing < 0 {
		return fmt.Errorf("generate floor_height and spacing must not be negative")
	}
	return nil
}
