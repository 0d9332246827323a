// Package export writes body trajectories out of the simulation, currently
// as SVG polylines projected onto the XY plane.
package export

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/robosim/internal/joint"
)

// Tracer records one body's position every tick, for later export.
type Tracer struct {
	bodies joint.BodyLookup
	index  uint64
	limit  int

	mu     sync.Mutex
	points []mgl64.Vec3
}

// NewTracer traces the body at index, keeping at most limit samples
// (0 means unbounded).
func NewTracer(bodies joint.BodyLookup, index uint64, limit int) *Tracer {
	return &Tracer{bodies: bodies, index: index, limit: limit}
}

func (tr *Tracer) OnTick(t float64) {
	ref, ok := tr.bodies.Body(tr.index)
	if !ok {
		return
	}
	tr.mu.Lock()
	if tr.limit <= 0 || len(tr.points) < tr.limit {
		tr.points = append(tr.points, ref.Position)
	}
	tr.mu.Unlock()
}

func (tr *Tracer) Points() []mgl64.Vec3 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	out := make([]mgl64.Vec3, len(tr.points))
	copy(out, tr.points)
	return out
}

// WriteSVG renders the recorded trajectory to path, projected onto the
// given plane.
func (tr *Tracer) WriteSVG(path string, plane Plane, width, height int) error {
	svg := TrajectorySVG(tr.Points(), plane, width, height, "#00ff00")
	if svg == "" {
		return fmt.Errorf("trajectory for body %d has fewer than 2 points", tr.index)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

// Plane selects which two world axes the projection keeps.
type Plane int

const (
	PlaneXY Plane = iota // chipmunk's simulation plane
	PlaneXZ
	PlaneYZ
)

func (p Plane) project(v mgl64.Vec3) (float64, float64) {
	switch p {
	case PlaneXZ:
		return v.X(), v.Z()
	case PlaneYZ:
		return v.Y(), v.Z()
	default:
		return v.X(), v.Y()
	}
}

// TrajectorySVG renders a polyline of the points projected onto plane,
// scaled to fit the viewport with 10% padding on each side. Fewer than two
// points yields an empty string.
func TrajectorySVG(points []mgl64.Vec3, plane Plane, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = plane.project(p)
	}

	minX, spanX := bounds(xs)
	minY, spanY := bounds(ys)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range points {
		x := (xs[i] - minX) / spanX * float64(width)
		y := float64(height) - (ys[i]-minY)/spanY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// bounds returns the padded minimum and span of vs. A degenerate axis gets
// a unit span so the division above stays defined.
func bounds(vs []float64) (min, span float64) {
	min, max := vs[0], vs[0]
	for _, v := range vs {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span = max - min
	if span == 0 {
		span = 1
	}
	min -= span * 0.1
	span *= 1.2
	return min, span
}
