package joint

import "github.com/go-gl/mathgl/mgl64"

// Exchange is the read-only export view of one joint, intended for UI and
// telemetry consumers.
type Exchange struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	BodyA     uint64     `json:"body_a"`
	BodyB     uint64     `json:"body_b"`
	Anchor    mgl64.Vec3 `json:"anchor"`
	Torque    float64    `json:"torque"`
	Velocity  float64    `json:"velocity"`
	Velocity2 float64    `json:"velocity2"`
	Steps     uint64     `json:"steps"`
}

// Joint pairs an immutable identity with mutable runtime state and the
// backend binding. Records are owned exclusively by the registry and all
// methods below are called with the registry lock held.
type Joint struct {
	d       Descriptor
	binding Binding

	torque    float64
	velocity  float64
	velocity2 float64
	steps     uint64
}

func newJoint(d Descriptor, binding Binding) *Joint {
	return &Joint{d: d, binding: binding}
}

func (j *Joint) update(dt float64) {
	j.binding.Update(dt)
	j.steps++
}

// references reports whether either side attaches to the given body.
func (j *Joint) references(bodyID uint64) bool {
	return j.d.BodyA == bodyID || j.d.BodyB == bodyID
}

// connects matches the unordered body pair.
func (j *Joint) connects(a, b uint64) bool {
	return (j.d.BodyA == a && j.d.BodyB == b) || (j.d.BodyA == b && j.d.BodyB == a)
}

func (j *Joint) setAnchor(p mgl64.Vec3) {
	j.d.Anchor = p
	j.binding.SetAnchor(p)
}

func (j *Joint) setAxis(axis mgl64.Vec3) {
	j.d.AxisA = axis
	j.binding.SetAxis(axis)
}

func (j *Joint) setAxis2(axis mgl64.Vec3) {
	j.d.AxisB = axis
	j.binding.SetAxis2(axis)
}

func (j *Joint) setTorque(v float64) {
	j.torque = v
	j.binding.SetTorque(v)
}

func (j *Joint) setVelocity(v float64) {
	j.velocity = v
	j.binding.SetVelocity(v)
}

func (j *Joint) setVelocity2(v float64) {
	j.velocity2 = v
	j.binding.SetVelocity2(v)
}

func (j *Joint) setForceLimit(v float64, firstAxis bool) {
	if firstAxis {
		j.d.MaxForce1 = v
		j.binding.SetForceLimit(v)
	} else {
		j.d.MaxForce2 = v
		j.binding.SetForceLimit2(v)
	}
}

func (j *Joint) setSpringDamper(spring, damping float64) {
	j.d.Spring = spring
	j.d.Damping = damping
	j.binding.SetSpringDamper(spring, damping)
}

// reattach re-resolves both body handles and rebinds the backend constraint.
// The descriptor and id are untouched; this is used after bodies were
// destroyed and recreated.
func (j *Joint) reattach(bodies BodyLookup) error {
	var hA, hB Body
	if j.d.BodyA != 0 {
		if ref, ok := bodies.Body(j.d.BodyA); ok {
			hA = ref.Handle
		}
	}
	if j.d.BodyB != 0 {
		if ref, ok := bodies.Body(j.d.BodyB); ok {
			hB = ref.Handle
		}
	}
	return j.binding.Reattach(hA, hB)
}

func (j *Joint) exchange() Exchange {
	return Exchange{
		ID:        j.d.ID,
		Name:      j.d.Name,
		Type:      j.d.Type.String(),
		BodyA:     j.d.BodyA,
		BodyB:     j.d.BodyB,
		Anchor:    j.d.Anchor,
		Torque:    j.torque,
		Velocity:  j.velocity,
		Velocity2: j.velocity2,
		Steps:     j.steps,
	}
}
