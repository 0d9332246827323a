package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/robosim/internal/joint"
)

type stubLookup struct {
	positions map[uint64]mgl64.Vec3
}

func (s *stubLookup) Body(index uint64) (joint.BodyRef, bool) {
	pos, ok := s.positions[index]
	if !ok {
		return joint.BodyRef{}, false
	}
	return joint.BodyRef{Position: pos}, true
}

func TestTrajectorySVG(t *testing.T) {
	points := []mgl64.Vec3{{0, 0, 0}, {1, 1, 0}, {2, 0, 0}}
	svg := TrajectorySVG(points, PlaneXY, 200, 100, "#ff0000")

	if !strings.HasPrefix(svg, `<?xml`) || !strings.Contains(svg, "</svg>") {
		t.Fatalf("not an SVG document:\n%s", svg)
	}
	if !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Errorf("stroke color missing")
	}
	if strings.Count(svg, " L") != len(points)-1 {
		t.Errorf("expected %d line segments, got %d", len(points)-1, strings.Count(svg, " L"))
	}
}

func TestTrajectorySVGTooFewPoints(t *testing.T) {
	if svg := TrajectorySVG([]mgl64.Vec3{{1, 1, 0}}, PlaneXY, 100, 100, "#fff"); svg != "" {
		t.Errorf("single point produced output")
	}
}

func TestTrajectorySVGPlaneProjection(t *testing.T) {
	// Motion only along Z: invisible in XY, the full vertical span in XZ.
	points := []mgl64.Vec3{{0, 0, 0}, {1, 0, 2}}

	xy := TrajectorySVG(points, PlaneXY, 100, 100, "#fff")
	xz := TrajectorySVG(points, PlaneXZ, 100, 100, "#fff")
	if xy == xz {
		t.Fatalf("projection plane has no effect")
	}

	// In XY both points share y, so the path is horizontal.
	if !strings.Contains(xy, "M8.3,91.7 L91.7,91.7") {
		t.Errorf("xy projection not flat:\n%s", xy)
	}
	// In XZ the z range maps onto the vertical axis.
	if !strings.Contains(xz, "M8.3,91.7 L91.7,8.3") {
		t.Errorf("xz projection missing z extent:\n%s", xz)
	}
}

func TestTracerRecordsAndWrites(t *testing.T) {
	lookup := &stubLookup{positions: map[uint64]mgl64.Vec3{1: {0, 0, 0}}}
	tr := NewTracer(lookup, 1, 10)

	tr.OnTick(0)
	lookup.positions[1] = mgl64.Vec3{1, 2, 0}
	tr.OnTick(0.01)

	if got := tr.Points(); len(got) != 2 || got[1] != (mgl64.Vec3{1, 2, 0}) {
		t.Fatalf("unexpected points: %v", got)
	}

	path := filepath.Join(t.TempDir(), "trace.svg")
	if err := tr.WriteSVG(path, PlaneXY, 100, 100); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("file is not SVG")
	}
}

func TestTracerLimit(t *testing.T) {
	lookup := &stubLookup{positions: map[uint64]mgl64.Vec3{1: {}}}
	tr := NewTracer(lookup, 1, 3)
	for i := 0; i < 10; i++ {
		tr.OnTick(float64(i))
	}
	if len(tr.Points()) != 3 {
		t.Errorf("limit not honored: %d points", len(tr.Points()))
	}
}

func TestTracerMissingBody(t *testing.T) {
	tr := NewTracer(&stubLookup{positions: map[uint64]mgl64.Vec3{}}, 9, 0)
	tr.OnTick(0)
	if len(tr.Points()) != 0 {
		t.Errorf("recorded a point for a missing body")
	}
}
