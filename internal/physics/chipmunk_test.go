package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/robosim/internal/joint"
)

func TestChipmunkCreatesEveryType(t *testing.T) {
	types := []joint.Type{joint.Hinge, joint.Hinge2, joint.Slider, joint.Ball, joint.Universal, joint.Fixed}
	for _, typ := range types {
		e := NewChipmunk()
		body := e.CreateBody(mgl64.Vec3{1, 0, 0}, 1.0)

		d := &joint.Descriptor{
			Type:   typ,
			Anchor: mgl64.Vec3{1, 0, 0},
			AxisA:  mgl64.Vec3{1, 0, 0},
		}
		b, err := e.CreateJoint(d, body, nil)
		if err != nil {
			t.Errorf("%s: create failed: %v", typ, err)
			continue
		}
		b.Destroy()
	}
}

func TestChipmunkRejectsOutOfPlaneSlider(t *testing.T) {
	e := NewChipmunk()
	body := e.CreateBody(mgl64.Vec3{0, 0, 0}, 1.0)

	d := &joint.Descriptor{
		Type:  joint.Slider,
		AxisA: mgl64.Vec3{0, 0, 1},
	}
	if _, err := e.CreateJoint(d, body, nil); err == nil {
		t.Errorf("slider along Z has no planar realization, expected error")
	}
}

func TestChipmunkRejectsSameBodyBothSides(t *testing.T) {
	e := NewChipmunk()
	d := &joint.Descriptor{Type: joint.Hinge, AxisA: mgl64.Vec3{0, 0, 1}}
	// Both sides nil resolve to the static reference frame.
	if _, err := e.CreateJoint(d, nil, nil); err == nil {
		t.Errorf("expected error when both sides anchor to the same body")
	}
}

func TestChipmunkPivotHoldsAnchorDistance(t *testing.T) {
	e := NewChipmunk()
	e.SetGravity(mgl64.Vec3{0, -9.81, 0})

	body := e.CreateBody(mgl64.Vec3{0, -1, 0}, 1.0)
	d := &joint.Descriptor{
		Type:   joint.Hinge,
		Anchor: mgl64.Vec3{0, 0, 0},
		AxisA:  mgl64.Vec3{0, 0, 1},
	}
	if _, err := e.CreateJoint(d, body, nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 240; i++ {
		e.Step(1.0 / 60.0)
	}

	// The pendulum bob must stay on its circle around the pivot.
	p := body.Position()
	dist := math.Hypot(p.X(), p.Y())
	if math.Abs(dist-1.0) > 0.1 {
		t.Errorf("anchor distance drifted to %f", dist)
	}
}

func TestChipmunkReattachSurvivesBodySwap(t *testing.T) {
	e := NewChipmunk()
	body := e.CreateBody(mgl64.Vec3{1, 0, 0}, 1.0)

	d := &joint.Descriptor{Type: joint.Hinge, Anchor: mgl64.Vec3{1, 0, 0}, AxisA: mgl64.Vec3{0, 0, 1}}
	b, err := e.CreateJoint(d, body, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	fresh := e.CreateBody(mgl64.Vec3{1, 0, 0}, 2.0)
	if err := b.Reattach(fresh, nil); err != nil {
		t.Fatalf("reattach failed: %v", err)
	}
	e.Step(1.0 / 60.0)
	b.Destroy()
}

func TestChipmunkSettersDoNotPanic(t *testing.T) {
	e := NewChipmunk()
	body := e.CreateBody(mgl64.Vec3{1, 0, 0}, 1.0)

	d := &joint.Descriptor{Type: joint.Hinge, Anchor: mgl64.Vec3{1, 0, 0}, AxisA: mgl64.Vec3{0, 0, 1}}
	b, err := e.CreateJoint(d, body, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	b.SetAnchor(mgl64.Vec3{2, 0, 0})
	b.SetAxis(mgl64.Vec3{0, 1, 0})
	b.SetAxis2(mgl64.Vec3{1, 0, 0})
	b.SetVelocity(1.5)
	b.SetVelocity2(0.5)
	b.SetTorque(3)
	b.SetForceLimit(100)
	b.SetForceLimit2(50)
	b.SetSpringDamper(80, 4)

	for i := 0; i < 60; i++ {
		e.Step(1.0 / 60.0)
	}
	b.Destroy()
	// Destroy is idempotent.
	b.Destroy()
}

func TestChipmunkMotorDrivesBody(t *testing.T) {
	e := NewChipmunk()
	body := e.CreateBody(mgl64.Vec3{1, 0, 0}, 1.0)

	d := &joint.Descriptor{Type: joint.Hinge, Anchor: mgl64.Vec3{0, 0, 0}, AxisA: mgl64.Vec3{0, 0, 1}}
	b, err := e.CreateJoint(d, body, nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b.SetVelocity(2.0)

	start := body.Position()
	for i := 0; i < 120; i++ {
		e.Step(1.0 / 60.0)
	}
	if body.Position() == start {
		t.Errorf("motor-driven body never moved")
	}
}
