package joint

import "github.com/go-gl/mathgl/mgl64"

// Body is the backend-native handle for a rigid body. The registry never
// stores these directly; it resolves them through a BodyLookup so that bodies
// can be destroyed and recreated without leaving dangling references.
type Body interface {
	Position() mgl64.Vec3
}

// Binding is the backend realization of a single joint. A binding is owned
// exclusively by its Joint record and destroyed with it. Setters mirror the
// mutable descriptor fields; Update is called once per simulation step and
// must not block.
type Binding interface {
	Update(dt float64)
	Reattach(bodyA, bodyB Body) error

	SetAnchor(p mgl64.Vec3)
	SetAxis(axis mgl64.Vec3)
	SetAxis2(axis mgl64.Vec3)
	SetTorque(v float64)
	SetVelocity(v float64)
	SetVelocity2(v float64)
	SetForceLimit(v float64)
	SetForceLimit2(v float64)
	SetSpringDamper(spring, damping float64)

	Destroy()
}

// Engine is implemented by each physics backend. The registry depends only
// on this contract and never branches on which engine is active. A nil body
// handle on either side of CreateJoint means that side is anchored to an
// immovable reference frame.
type Engine interface {
	Name() string
	CreateBody(pos mgl64.Vec3, mass float64) Body
	CreateJoint(d *Descriptor, bodyA, bodyB Body) (Binding, error)
	Step(dt float64)
	SetStepSize(dt float64)
	Cleanup()
}

// BodyRef is the result of resolving a body index.
type BodyRef struct {
	Position mgl64.Vec3
	Handle   Body
}

// BodyLookup resolves body indices. Externally synchronized; the registry
// calls it during creation and reattachment only.
type BodyLookup interface {
	Body(index uint64) (BodyRef, bool)
}

// ActuatorNotifier is told whenever a joint disappears so attached actuators
// can let go. Detach must be idempotent.
type ActuatorNotifier interface {
	Detach(jointID uint64)
}

// SceneSink is notified after the registry's topology changes. It may call
// back into the registry; the registry never invokes it while holding its
// lock.
type SceneSink interface {
	SceneChanged(topology bool)
}
