package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/san-kum/robosim/internal/joint"
)

const (
	// defaultSlideRange bounds a slider whose stops are unset.
	defaultSlideRange = 1000.0

	// maxDriveRate is the rate a motor spins at when it is driven by a raw
	// torque setpoint; the torque itself becomes the motor's force limit.
	maxDriveRate = 100.0
)

// Chipmunk is the rigid-body engine built on jakecoffman/cp. The solver is
// planar: descriptors are projected onto the X/Y plane and rotation happens
// around the out-of-plane Z axis. Descriptors that only make sense out of
// plane (a slider along Z, say) are refused at creation.
type Chipmunk struct {
	space *cp.Space
	dt    float64
}

func NewChipmunk() *Chipmunk {
	space := cp.NewSpace()
	space.Iterations = 20
	return &Chipmunk{space: space, dt: 0.01}
}

func (e *Chipmunk) Name() string { return "chipmunk" }

// Space exposes the underlying cp space for scene-level configuration.
func (e *Chipmunk) Space() *cp.Space { return e.space }

// SetGravity projects the scene gravity vector onto the plane.
func (e *Chipmunk) SetGravity(g mgl64.Vec3) {
	e.space.SetGravity(cp.Vector{X: g.X(), Y: g.Y()})
}

func (e *Chipmunk) CreateBody(pos mgl64.Vec3, mass float64) joint.Body {
	var body *cp.Body
	if mass <= 0 {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(mass, cp.MomentForBox(mass, 1, 1))
	}
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Y()})
	e.space.AddBody(body)
	return &chipmunkBody{body: body}
}

func (e *Chipmunk) CreateJoint(d *joint.Descriptor, bodyA, bodyB joint.Body) (joint.Binding, error) {
	ca, err := e.cpBody(bodyA)
	if err != nil {
		return nil, err
	}
	cb, err := e.cpBody(bodyB)
	if err != nil {
		return nil, err
	}
	if ca == cb {
		return nil, fmt.Errorf("both joint sides resolve to the same body")
	}

	b := &chipmunkBinding{
		space:    e.space,
		a:        ca,
		b:        cb,
		jtype:    d.Type,
		anchor:   cp.Vector{X: d.Anchor.X(), Y: d.Anchor.Y()},
		axis:     cp.Vector{X: d.AxisA.X(), Y: d.AxisA.Y()},
		low:      d.LowStop1,
		high:     d.HighStop1,
		maxForce: d.MaxForce1,
		spring:   d.Spring,
		damping:  d.Damping,
	}
	if err := b.materialize(); err != nil {
		return nil, err
	}
	return b, nil
}

func (e *Chipmunk) cpBody(h joint.Body) (*cp.Body, error) {
	if h == nil {
		// Anchored to the immovable reference frame.
		return e.space.StaticBody, nil
	}
	wrapped, ok := h.(*chipmunkBody)
	if !ok {
		return nil, fmt.Errorf("foreign body handle %T", h)
	}
	return wrapped.body, nil
}

func (e *Chipmunk) Step(dt float64) {
	if dt <= 0 {
		dt = e.dt
	}
	e.space.Step(dt)
}

func (e *Chipmunk) SetStepSize(dt float64) { e.dt = dt }

func (e *Chipmunk) Cleanup() {}

type chipmunkBody struct {
	body *cp.Body
}

func (b *chipmunkBody) Position() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X, p.Y, 0}
}

// chipmunkBinding realizes one descriptor as a small set of cp constraints:
// a positional constraint (pivot or groove), an optional rotary limit, an
// optional damped spring and a lazily created motor for the velocity and
// torque setpoints.
type chipmunkBinding struct {
	space *cp.Space
	a, b  *cp.Body

	jtype           joint.Type
	anchor          cp.Vector
	axis            cp.Vector
	low, high       float64
	maxForce        float64
	maxForce2       float64
	spring, damping float64

	positional *cp.Constraint
	rotary     *cp.Constraint
	springC    *cp.Constraint
	motor      *cp.Constraint

	destroyed bool
}

// materialize (re)creates the cp constraints from the stored configuration.
// Existing constraints are removed first, which makes it usable for both
// initial creation and reattachment.
func (bd *chipmunkBinding) materialize() error {
	bd.removeConstraints()

	switch bd.jtype {
	case joint.Hinge, joint.Hinge2, joint.Ball, joint.Universal:
		bd.positional = bd.space.AddConstraint(cp.NewPivotJoint(bd.a, bd.b, bd.anchor))
		if bd.low != 0 || bd.high != 0 {
			bd.rotary = bd.space.AddConstraint(cp.NewRotaryLimitJoint(bd.a, bd.b, bd.low, bd.high))
		}
	case joint.Fixed:
		bd.positional = bd.space.AddConstraint(cp.NewPivotJoint(bd.a, bd.b, bd.anchor))
		rel := bd.b.Angle() - bd.a.Angle()
		bd.rotary = bd.space.AddConstraint(cp.NewRotaryLimitJoint(bd.a, bd.b, rel, rel))
	case joint.Slider:
		if bd.axis.Length() < 1e-9 {
			return fmt.Errorf("slider axis has no in-plane component")
		}
		axis := bd.axis.Normalize()
		low, high := bd.low, bd.high
		if high <= low {
			low, high = -defaultSlideRange, defaultSlideRange
		}
		grooveA := bd.anchor.Add(axis.Mult(low))
		grooveB := bd.anchor.Add(axis.Mult(high))
		bd.positional = bd.space.AddConstraint(cp.NewGrooveJoint(
			bd.a, bd.b,
			bd.a.WorldToLocal(grooveA), bd.a.WorldToLocal(grooveB),
			bd.b.WorldToLocal(bd.anchor),
		))
	default:
		return fmt.Errorf("unsupported joint type %v", bd.jtype)
	}

	if bd.maxForce > 0 {
		bd.positional.SetMaxForce(bd.maxForce)
	}
	if bd.spring > 0 {
		bd.springC = bd.space.AddConstraint(cp.NewDampedSpring(
			bd.a, bd.b,
			bd.a.WorldToLocal(bd.anchor), bd.b.WorldToLocal(bd.anchor),
			0, bd.spring, bd.damping,
		))
	}
	return nil
}

func (bd *chipmunkBinding) removeConstraints() {
	for _, c := range []*cp.Constraint{bd.positional, bd.rotary, bd.springC, bd.motor} {
		if c != nil && bd.space.ContainsConstraint(c) {
			bd.space.RemoveConstraint(c)
		}
	}
	bd.positional, bd.rotary, bd.springC, bd.motor = nil, nil, nil, nil
}

// Update is a no-op: the space's solver owns constraint resolution and runs
// in Engine.Step.
func (bd *chipmunkBinding) Update(dt float64) {}

func (bd *chipmunkBinding) Reattach(bodyA, bodyB joint.Body) error {
	if bd.destroyed {
		return fmt.Errorf("binding already destroyed")
	}
	resolve := func(h joint.Body) *cp.Body {
		if h == nil {
			return bd.space.StaticBody
		}
		if wrapped, ok := h.(*chipmunkBody); ok {
			return wrapped.body
		}
		return bd.space.StaticBody
	}
	bd.a, bd.b = resolve(bodyA), resolve(bodyB)
	return bd.materialize()
}

func (bd *chipmunkBinding) SetAnchor(p mgl64.Vec3) {
	bd.anchor = cp.Vector{X: p.X(), Y: p.Y()}
	if pivot, ok := classOf[*cp.PivotJoint](bd.positional); ok {
		pivot.AnchorA = bd.a.WorldToLocal(bd.anchor)
		pivot.AnchorB = bd.b.WorldToLocal(bd.anchor)
		return
	}
	// Groove geometry depends on the anchor; rebuild.
	_ = bd.materialize()
}

func (bd *chipmunkBinding) SetAxis(axis mgl64.Vec3) {
	bd.axis = cp.Vector{X: axis.X(), Y: axis.Y()}
	if bd.jtype == joint.Slider {
		_ = bd.materialize()
	}
}

// SetAxis2 has no planar realization; the second axis only matters to 3D
// backends.
func (bd *chipmunkBinding) SetAxis2(axis mgl64.Vec3) {}

func (bd *chipmunkBinding) SetTorque(v float64) {
	motor := bd.ensureMotor()
	if motor == nil {
		return
	}
	if m, ok := classOf[*cp.SimpleMotor](motor); ok {
		m.Rate = math.Copysign(maxDriveRate, v)
	}
	motor.SetMaxForce(math.Abs(v))
}

func (bd *chipmunkBinding) SetVelocity(v float64) {
	motor := bd.ensureMotor()
	if motor == nil {
		return
	}
	if m, ok := classOf[*cp.SimpleMotor](motor); ok {
		m.Rate = v
	}
	if bd.maxForce2 > 0 {
		motor.SetMaxForce(bd.maxForce2)
	}
}

// SetVelocity2 drives the second axis, which the planar solver cannot
// express; recorded only.
func (bd *chipmunkBinding) SetVelocity2(v float64) {}

func (bd *chipmunkBinding) SetForceLimit(v float64) {
	bd.maxForce = v
	if bd.positional != nil {
		bd.positional.SetMaxForce(v)
	}
}

func (bd *chipmunkBinding) SetForceLimit2(v float64) {
	bd.maxForce2 = v
	if bd.motor != nil {
		bd.motor.SetMaxForce(v)
	}
}

func (bd *chipmunkBinding) SetSpringDamper(spring, damping float64) {
	bd.spring, bd.damping = spring, damping
	if s, ok := classOf[*cp.DampedSpring](bd.springC); ok {
		s.Stiffness = spring
		s.Damping = damping
		return
	}
	if spring > 0 {
		bd.springC = bd.space.AddConstraint(cp.NewDampedSpring(
			bd.a, bd.b,
			bd.a.WorldToLocal(bd.anchor), bd.b.WorldToLocal(bd.anchor),
			0, spring, damping,
		))
	}
}

func (bd *chipmunkBinding) Destroy() {
	if bd.destroyed {
		return
	}
	bd.removeConstraints()
	bd.destroyed = true
}

func (bd *chipmunkBinding) ensureMotor() *cp.Constraint {
	if bd.destroyed {
		return nil
	}
	if bd.motor == nil {
		bd.motor = bd.space.AddConstraint(cp.NewSimpleMotor(bd.a, bd.b, 0))
	}
	return bd.motor
}

func classOf[T any](c *cp.Constraint) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Class.(T)
	return v, ok
}
