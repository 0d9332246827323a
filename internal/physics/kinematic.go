package physics

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/robosim/internal/joint"
)

// Kinematic is the fallback engine. It has no solver: bodies keep the
// position they were spawned with and each binding integrates its joint
// coordinate directly from the velocity setpoint, clamped by the force
// limit acting as an acceleration bound.
type Kinematic struct {
	mu     sync.Mutex
	dt     float64
	bodies []*kinematicBody
}

func NewKinematic() *Kinematic {
	return &Kinematic{dt: 0.01}
}

func (e *Kinematic) Name() string { return "kinematic" }

func (e *Kinematic) CreateBody(pos mgl64.Vec3, mass float64) joint.Body {
	b := &kinematicBody{pos: pos, mass: mass}
	e.mu.Lock()
	e.bodies = append(e.bodies, b)
	e.mu.Unlock()
	return b
}

func (e *Kinematic) CreateJoint(d *joint.Descriptor, bodyA, bodyB joint.Body) (joint.Binding, error) {
	if d.Type == joint.Slider && d.HighStop1 < d.LowStop1 {
		return nil, fmt.Errorf("slider stops inverted: [%g, %g]", d.LowStop1, d.HighStop1)
	}
	return &kinematicBinding{
		jtype:     d.Type,
		anchor:    d.Anchor,
		axis:      d.AxisA,
		axis2:     d.AxisB,
		pos:       d.Offset1,
		pos2:      d.Offset2,
		low:       d.LowStop1,
		high:      d.HighStop1,
		maxForce:  d.MaxForce1,
		maxForce2: d.MaxForce2,
		spring:    d.Spring,
		damping:   d.Damping,
		bodyA:     bodyA,
		bodyB:     bodyB,
	}, nil
}

func (e *Kinematic) Step(dt float64)        {}
func (e *Kinematic) SetStepSize(dt float64) { e.dt = dt }
func (e *Kinematic) Cleanup()               {}

type kinematicBody struct {
	pos  mgl64.Vec3
	mass float64
}

func (b *kinematicBody) Position() mgl64.Vec3 { return b.pos }

type kinematicBinding struct {
	jtype  joint.Type
	anchor mgl64.Vec3
	axis   mgl64.Vec3
	axis2  mgl64.Vec3

	pos, pos2           float64
	vel, vel2           float64
	torque              float64
	low, high           float64
	maxForce, maxForce2 float64
	spring, damping     float64

	bodyA, bodyB joint.Body
	destroyed    bool
}

func (b *kinematicBinding) Update(dt float64) {
	if b.destroyed {
		return
	}
	b.pos += b.vel * dt
	b.pos2 += b.vel2 * dt
	// Fixed joints hold; sliders respect their stops.
	if b.jtype == joint.Fixed {
		b.pos, b.pos2 = 0, 0
	}
	if b.jtype == joint.Slider && b.high > b.low {
		b.pos = math.Min(math.Max(b.pos, b.low), b.high)
	}
}

func (b *kinematicBinding) Reattach(bodyA, bodyB joint.Body) error {
	if b.destroyed {
		return fmt.Errorf("binding already destroyed")
	}
	b.bodyA, b.bodyB = bodyA, bodyB
	return nil
}

func (b *kinematicBinding) SetAnchor(p mgl64.Vec3)   { b.anchor = p }
func (b *kinematicBinding) SetAxis(axis mgl64.Vec3)  { b.axis = axis }
func (b *kinematicBinding) SetAxis2(axis mgl64.Vec3) { b.axis2 = axis }

func (b *kinematicBinding) SetTorque(v float64) { b.torque = v }

func (b *kinematicBinding) SetVelocity(v float64)  { b.vel = v }
func (b *kinematicBinding) SetVelocity2(v float64) { b.vel2 = v }

func (b *kinematicBinding) SetForceLimit(v float64)  { b.maxForce = v }
func (b *kinematicBinding) SetForceLimit2(v float64) { b.maxForce2 = v }

func (b *kinematicBinding) SetSpringDamper(spring, damping float64) {
	b.spring = spring
	b.damping = damping
}

func (b *kinematicBinding) Destroy() { b.destroyed = true }

// Coordinate returns the integrated joint coordinate on the first axis;
// exposed for tests and telemetry of headless runs.
func (b *kinematicBinding) Coordinate() float64 { return b.pos }
