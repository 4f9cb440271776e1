// Package render draws per-floor plans of a building with rooms coloured by
// their noise state.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"noisegraph/internal/acoustics"
	"noisegraph/internal/graph"
)

// Margin pads the plan extents on every side.
const Margin = 2.0

var stateColors = map[acoustics.State]color.Color{
	acoustics.StateAdequate: color.RGBA{R: 46, G: 160, B: 67, A: 255},
	acoustics.StateNear:     color.RGBA{R: 230, G: 159, B: 0, A: 255},
	acoustics.StateExceeds:  color.RGBA{R: 213, G: 43, B: 30, A: 255},
}

var edgeColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}

// Building is the snapshot a plan is drawn from.
type Building struct {
	Rooms           []*acoustics.Room
	Edges           [][2]string
	Classifications []graph.Classification
}

// NewBuilding copies the rooms, links and classifications of g. Callers
// holding a session lock get a consistent snapshot they can draw after
// releasing it.
func NewBuilding(g *graph.Graph, model acoustics.Model) Building {
	rooms := g.Rooms()
	for i, r := range rooms {
		rooms[i] = r.Clone()
	}
	return Building{Rooms: rooms, Edges: g.Edges(), Classifications: g.Classify(model)}
}

type Extent struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// PlanExtent returns the drawing bounds shared by every floor: the extents of
// the floor 1 rooms plus Margin. When floor 1 is empty all rooms are used.
func PlanExtent(rooms []*acoustics.Room) Extent {
	var base []*acoustics.Room
	for _, r := range rooms {
		if r.Floor == 1 {
			base = append(base, r)
		}
	}
	if len(base) == 0 {
		base = rooms
	}
	if len(base) == 0 {
		return Extent{MinX: -Margin, MaxX: Margin, MinY: -Margin, MaxY: Margin}
	}

	e := Extent{
		MinX: base[0].Position.X, MaxX: base[0].Position.X,
		MinY: base[0].Position.Y, MaxY: base[0].Position.Y,
	}
	for _, r := range base[1:] {
		e.MinX = min(e.MinX, r.Position.X)
		e.MaxX = max(e.MaxX, r.Position.X)
		e.MinY = min(e.MinY, r.Position.Y)
		e.MaxY = max(e.MaxY, r.Position.Y)
	}
	e.MinX -= Margin
	e.MaxX += Margin
	e.MinY -= Margin
	e.MaxY += Margin
	return e
}

// Floors lists the distinct floors in ascending order.
func Floors(rooms []*acoustics.Room) []int {
	var floors []int
	for _, r := range rooms {
		if !slices.Contains(floors, r.Floor) {
			floors = append(floors, r.Floor)
		}
	}
	slices.Sort(floors)
	return floors
}

// FloorPlan builds the plot for one floor. Links to other floors are not
// drawn.
func FloorPlan(b Building, floor int, extent Extent) (*plot.Plot, error) {
	states := make(map[string]graph.Classification, len(b.Classifications))
	for _, c := range b.Classifications {
		states[c.Name] = c
	}
	positions := make(map[string]acoustics.Position)
	var onFloor []*acoustics.Room
	for _, r := range b.Rooms {
		if r.Floor == floor {
			onFloor = append(onFloor, r)
			positions[r.Name] = r.Position
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Floor %d - Noise State", floor)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.X.Min, p.X.Max = extent.MinX, extent.MaxX
	p.Y.Min, p.Y.Max = extent.MinY, extent.MaxY

	for _, e := range b.Edges {
		from, okFrom := positions[e[0]]
		to, okTo := positions[e[1]]
		if !okFrom || !okTo {
			continue
		}
		line, err := plotter.NewLine(plotter.XYs{{X: from.X, Y: from.Y}, {X: to.X, Y: to.Y}})
		if err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", e[0], e[1], err)
		}
		line.Color = edgeColor
		line.Width = vg.Points(1)
		p.Add(line)
	}

	for _, state := range []acoustics.State{acoustics.StateAdequate, acoustics.StateNear, acoustics.StateExceeds} {
		var pts plotter.XYs
		for _, r := range onFloor {
			if states[r.Name].State == state {
				pts = append(pts, plotter.XY{X: r.Position.X, Y: r.Position.Y})
			}
		}
		if len(pts) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("%s rooms: %w", state, err)
		}
		scatter.GlyphStyle.Color = stateColors[state]
		scatter.GlyphStyle.Radius = vg.Points(6)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add(string(state), scatter)
	}

	if len(onFloor) > 0 {
		labels := plotter.XYLabels{
			XYs:    make(plotter.XYs, len(onFloor)),
			Labels: make([]string, len(onFloor)),
		}
		for i, r := range onFloor {
			labels.XYs[i] = plotter.XY{X: r.Position.X, Y: r.Position.Y}
			labels.Labels[i] = fmt.Sprintf("%s\n%.1f dB", r.Name, states[r.Name].Level)
		}
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, fmt.Errorf("labels: %w", err)
		}
		l.Offset = vg.Point{X: vg.Points(8), Y: vg.Points(-4)}
		p.Add(l)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WriteFloorPlans saves one PNG per floor into dir and returns the paths.
func WriteFloorPlans(dir string, b Building) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	extent := PlanExtent(b.Rooms)
	var paths []string
	for _, floor := range Floors(b.Rooms) {
		p, err := FloorPlan(b, floor, extent)
		if err != nil {
			return paths, fmt.Errorf("floor %d: %w", floor, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("floor_%02d.png", floor))
		if err := p.Save(10*vg.Inch, 8*vg.Inch, path); err != nil {
			return paths, fmt.Errorf("saving floor %d: %w", floor, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
