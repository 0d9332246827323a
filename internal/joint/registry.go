package joint

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Registry owns every active joint and the reload templates used to rebuild
// the scene after a reset. A single coarse mutex guards all structural state;
// the lock is always released before calling out to the actuator notifier or
// the scene sink, because those may call back into the registry.
type Registry struct {
	engine    Engine
	bodies    BodyLookup
	actuators ActuatorNotifier
	scene     SceneSink

	mu     sync.Mutex
	active map[uint64]*Joint
	reload map[uint64]Descriptor
	nextID uint64
}

// NewRegistry wires the registry to its collaborators. actuators and scene
// may be nil; bodies and engine must not.
func NewRegistry(engine Engine, bodies BodyLookup, actuators ActuatorNotifier, scene SceneSink) *Registry {
	return &Registry{
		engine:    engine,
		bodies:    bodies,
		actuators: actuators,
		scene:     scene,
		active:    make(map[uint64]*Joint),
		reload:    make(map[uint64]Descriptor),
		nextID:    1,
	}
}

// Create materializes a joint from the descriptor and registers it. Unless
// reload is set, the descriptor is first stored as a reload template keyed by
// its caller-supplied ID; the template records declared intent and is kept
// even when creation fails afterwards. On success the new id is returned; ids
// are monotonic and never reused until ClearAll.
func (r *Registry) Create(d Descriptor, reload bool) (uint64, error) {
	if !reload {
		r.mu.Lock()
		r.reload[d.ID] = d
		r.mu.Unlock()
	}

	if err := d.Validate(); err != nil {
		return 0, err
	}

	// A body index of 0 anchors that side to the environment. A non-zero
	// index that does not resolve is only fatal when the anchor policy
	// needs the body's position.
	var handleA, handleB Body
	refA, okA := r.resolve(d.BodyA)
	refB, okB := r.resolve(d.BodyB)
	if okA {
		handleA = refA.Handle
	}
	if okB {
		handleB = refB.Handle
	}

	switch d.AnchorPolicy {
	case AnchorAtBodyA:
		if !okA {
			return 0, fmt.Errorf("%w: body %d", ErrMissingAnchorBody, d.BodyA)
		}
		d.Anchor = refA.Position
	case AnchorAtBodyB:
		if !okB {
			return 0, fmt.Errorf("%w: body %d", ErrMissingAnchorBody, d.BodyB)
		}
		d.Anchor = refB.Position
	case AnchorMidpoint:
		if !okA || !okB {
			return 0, fmt.Errorf("%w: bodies %d, %d", ErrMissingAnchorBody, d.BodyA, d.BodyB)
		}
		d.Anchor = refA.Position.Add(refB.Position).Mul(0.5)
	}

	binding, err := r.engine.CreateJoint(&d, handleA, handleB)
	if err != nil {
		// No id is consumed and nothing is registered; the reload
		// template above stays.
		return 0, fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	d.ID = id
	r.active[id] = newJoint(d, binding)
	r.mu.Unlock()

	r.sceneChanged(true)
	return id, nil
}

func (r *Registry) resolve(index uint64) (BodyRef, bool) {
	if index == 0 {
		return BodyRef{}, false
	}
	return r.bodies.Body(index)
}

// Edit updates anchor and axes of an existing joint in place. Unknown ids
// are a silent no-op so stale editor state cannot fault the simulation.
func (r *Registry) Edit(id uint64, d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.active[id]
	if !ok {
		return
	}
	j.setAnchor(d.Anchor)
	j.setAxis(d.AxisA)
	j.setAxis2(d.AxisB)
}

// Remove destroys the joint's backend binding and unregisters it. The
// actuator notifier is told in every case; detaching is idempotent.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	j, ok := r.active[id]
	if ok {
		delete(r.active, id)
	}
	r.mu.Unlock()

	if ok {
		j.binding.Destroy()
	}
	r.detach(id)
	r.sceneChanged(ok)
}

// RemoveByBodyPair removes the first joint connecting the unordered body
// pair, lowest id first. At most one joint is removed per call even when
// duplicates exist; callers that want all of them call repeatedly until
// false is returned.
func (r *Registry) RemoveByBodyPair(bodyA, bodyB uint64) bool {
	r.mu.Lock()
	var match uint64
	for id, j := range r.active {
		if j.connects(bodyA, bodyB) && (match == 0 || id < match) {
			match = id
		}
	}
	r.mu.Unlock()

	if match == 0 {
		return false
	}
	r.Remove(match)
	return true
}

// Reattach rebinds every joint referencing the given body. Used after bodies
// are recreated, e.g. on a partial scene reload; ids and descriptors are
// unchanged.
func (r *Registry) Reattach(bodyID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for id, j := range r.active {
		if !j.references(bodyID) {
			continue
		}
		if err := j.reattach(r.bodies); err != nil {
			errs = append(errs, fmt.Errorf("joint %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// ReloadAll replays every stored template through Create without re-storing
// it. Individual failures are collected and do not abort the batch.
func (r *Registry) ReloadAll() error {
	r.mu.Lock()
	templates := make([]Descriptor, 0, len(r.reload))
	for _, d := range r.reload {
		templates = append(templates, d)
	}
	r.mu.Unlock()

	var errs []error
	for _, d := range templates {
		if _, err := r.Create(d, true); err != nil {
			errs = append(errs, fmt.Errorf("reload %q: %w", d.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ClearAll destroys every active joint and resets the id counter to 1. When
// forgetTemplates is set the reload templates are dropped as well. The scene
// sink is notified once.
func (r *Registry) ClearAll(forgetTemplates bool) {
	r.mu.Lock()
	removed := make(map[uint64]*Joint, len(r.active))
	for id, j := range r.active {
		removed[id] = j
	}
	r.active = make(map[uint64]*Joint)
	if forgetTemplates {
		r.reload = make(map[uint64]Descriptor)
	}
	r.nextID = 1
	r.mu.Unlock()

	for id, j := range removed {
		j.binding.Destroy()
		r.detach(id)
	}
	r.sceneChanged(true)
}

// Update forwards one simulation step to every binding. The lock is held for
// the whole sweep; bindings are required to be non-blocking, so this stays
// bounded by the joint count and allocates nothing.
func (r *Registry) Update(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.active {
		j.update(dt)
	}
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// Get returns the export view of one joint.
func (r *Registry) Get(id uint64) (Exchange, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.active[id]
	if !ok {
		return Exchange{}, false
	}
	return j.exchange(), true
}

// GetFull is the strict descriptor lookup; unlike the mutators it surfaces
// ErrNotFound.
func (r *Registry) GetFull(id uint64) (Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.active[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return j.d, nil
}

// List returns a snapshot copy of the export views; callers never observe
// registry mutation mid-iteration.
func (r *Registry) List() []Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Exchange, 0, len(r.active))
	for _, j := range r.active {
		out = append(out, j.exchange())
	}
	return out
}

// IDByName returns the id of the first joint with the given name, 0 when
// there is none. Names are not required to be unique.
func (r *Registry) IDByName(name string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var match uint64
	for id, j := range r.active {
		if j.d.Name == name && (match == 0 || id < match) {
			match = id
		}
	}
	return match
}

// ReloadTemplate returns the stored template for the given caller-supplied
// index.
func (r *Registry) ReloadTemplate(id uint64) (Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.reload[id]
	return d, ok
}

// ScaleReloadTemplates scales the anchor of every template component-wise.
// Axes and active joints are untouched; only future reloads see the change.
func (r *Registry) ScaleReloadTemplates(sx, sy, sz float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.reload {
		d.Anchor = mgl64.Vec3{d.Anchor.X() * sx, d.Anchor.Y() * sy, d.Anchor.Z() * sz}
		r.reload[id] = d
	}
}

// The per-id setters below deliberately no-op on an absent id, so
// simulation-step code does not have to branch on existence every tick.

func (r *Registry) SetTorque(id uint64, v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.active[id]; ok {
		j.setTorque(v)
	}
}

func (r *Registry) SetVelocity(id uint64, v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.active[id]; ok {
		j.setVelocity(v)
	}
}

func (r *Registry) SetVelocity2(id uint64, v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.active[id]; ok {
		j.setVelocity2(v)
	}
}

func (r *Registry) SetForceLimit(id uint64, v float64, firstAxis bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.active[id]; ok {
		j.setForceLimit(v, firstAxis)
	}
}

func (r *Registry) SetSpringDamper(id uint64, spring, damping float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.active[id]; ok {
		j.setSpringDamper(spring, damping)
	}
}

func (r *Registry) SetReloadOffset(id uint64, offset float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.reload[id]; ok {
		d.Offset1 = offset
		r.reload[id] = d
	}
}

func (r *Registry) SetReloadAxis(id uint64, axis mgl64.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.reload[id]; ok {
		d.AxisA = axis
		r.reload[id] = d
	}
}

func (r *Registry) SetReloadAnchor(id uint64, anchor mgl64.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.reload[id]; ok {
		d.Anchor = anchor
		r.reload[id] = d
	}
}

// detach and sceneChanged must only be called with the lock released.

func (r *Registry) detach(id uint64) {
	if r.actuators != nil {
		r.actuators.Detach(id)
	}
}

func (r *Registry) sceneChanged(topology bool) {
	if r.scene != nil {
		r.scene.SceneChanged(topology)
	}
}
