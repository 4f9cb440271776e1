package acoustics

import (
	"math"
	"strings"
)

type Category string

const (
	CategoryClassroom   Category = "classroom"
	CategoryHallway     Category = "hallway"
	CategoryLibrary     Category = "library"
	CategoryAuditorium  Category = "auditorium"
	CategoryCafeteria   Category = "cafeteria"
	CategoryLaboratory  Category = "laboratory"
	CategoryOffice      Category = "office"
	CategoryMeetingRoom Category = "meeting-room"
)

// Limits holds the dB thresholds for a room category.
type Limits struct {
	Adequate float64 `json:"adequate"`
	Near     float64 `json:"near"`
	Exceeded float64 `json:"exceeded"`
}

var DefaultLimits = Limits{Adequate: 50, Near: 55, Exceeded: 60}

var categoryLimits = map[Category]Limits{
	CategoryClassroom:   {Adequate: 55, Near: 60, Exceeded: 65},
	CategoryHallway:     {Adequate: 45, Near: 50, Exceeded: 55},
	CategoryLibrary:     {Adequate: 35, Near: 40, Exceeded: 45},
	CategoryAuditorium:  {Adequate: 60, Near: 65, Exceeded: 70},
	CategoryCafeteria:   {Adequate: 60, Near: 65, Exceeded: 70},
	CategoryLaboratory:  {Adequate: 50, Near: 55, Exceeded: 60},
	CategoryOffice:      {Adequate: 50, Near: 55, Exceeded: 60},
	CategoryMeetingRoom: {Adequate: 50, Near: 55, Exceeded: 60},
}

// ParseCategory normalises a category name. Unknown names are kept as-is so
// they fall back to DefaultLimits.
func ParseCategory(name string) Category {
	return Category(strings.ToLower(strings.TrimSpace(name)))
}

func (c Category) Known() bool {
	_, ok := categoryLimits[c]
	return ok
}

func Categories() []Category {
	return []Category{
		CategoryClassroom,
		CategoryHallway,
		CategoryLibrary,
		CategoryAuditorium,
		CategoryCafeteria,
		CategoryLaboratory,
		CategoryOffice,
		CategoryMeetingRoom,
	}
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Position) DistanceTo(o Position) float64 {
	dx := o.X - p.X
	dy := o.Y - p.Y
	dz := o.Z - p.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Barriers are material resistances in dB. Zero means the barrier is absent.
type Barriers struct {
	Wall   float64 `json:"wall"`
	Window float64 `json:"window"`
	Door   float64 `json:"door"`
}

// Sensor is a fixed-reading probe bound to a room. It is informational only.
type Sensor struct {
	Location string   `json:"location"`
	Reading  *float64 `json:"reading,omitempty"`
}

func (s Sensor) Measure() float64 {
	if s.Reading == nil {
		return 0
	}
	return *s.Reading
}

type Room struct {
	Name      string
	Category  Category
	Barriers  Barriers
	Noise     float64
	Frequency float64
	Position  Position
	Floor     int
	Source    bool
	Sensors   []Sensor
}

func (r *Room) HasWall() bool {
	return r.Barriers.Wall > 0
}

// DistanceTo returns the Euclidean distance between the two rooms. Callers
// must treat zero as "skip attenuation".
func (r *Room) DistanceTo(other *Room) float64 {
	return r.Position.DistanceTo(other.Position)
}

func (r *Room) NoiseLimits() Limits {
	if limits, ok := categoryLimits[r.Category]; ok {
		return limits
	}
	return DefaultLimits
}

// Clone returns a copy that shares no slices with r.
func (r *Room) Clone() *Room {
	out := *r
	if len(r.Sensors) > 0 {
		out.Sensors = make([]Sensor, len(r.Sensors))
		copy(out.Sensors, r.Sensors)
	}
	return &out
}
