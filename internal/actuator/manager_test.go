package actuator

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/robosim/internal/body"
	"github.com/san-kum/robosim/internal/joint"
	"github.com/san-kum/robosim/internal/physics"
)

func setup(t *testing.T) (*Manager, *joint.Registry, uint64) {
	t.Helper()
	engine := physics.NewKinematic()
	store := body.NewStore(engine)
	if _, err := store.Spawn(1, "link", mgl64.Vec3{0, 1, 0}, 1.0); err != nil {
		t.Fatalf("spawn failed: %v", err)
	}

	m := NewManager()
	reg := joint.NewRegistry(engine, store, m, nil)
	m.Bind(reg)

	id, err := reg.Create(joint.Descriptor{
		Name:         "elbow",
		Type:         joint.Hinge,
		BodyA:        1,
		AnchorPolicy: joint.AnchorAtBodyA,
		AxisA:        mgl64.Vec3{0, 0, 1},
	}, false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return m, reg, id
}

func TestUpdatePushesSetpoints(t *testing.T) {
	m, reg, id := setup(t)

	if err := m.Attach("elbow-drive", id, 1, 50); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	m.SetSetpoint("elbow-drive", 1.5)
	m.Update()

	ex, ok := reg.Get(id)
	if !ok {
		t.Fatalf("joint missing")
	}
	if ex.Velocity != 1.5 {
		t.Errorf("setpoint not pushed: %v", ex.Velocity)
	}
}

func TestRemoveJointDetachesMotors(t *testing.T) {
	m, reg, id := setup(t)

	if err := m.Attach("elbow-drive", id, 1, 0); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	reg.Remove(id)

	if m.Count() != 0 {
		t.Errorf("motor survived joint removal")
	}

	// Detach is idempotent; a second remove must not fault.
	reg.Remove(id)
	m.Detach(id)
}

func TestAttachValidation(t *testing.T) {
	m, _, id := setup(t)

	if err := m.Attach("a", id, 3, 0); err == nil {
		t.Errorf("axis 3 accepted")
	}
	if err := m.Attach("a", id, 2, 0); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if err := m.Attach("a", id, 1, 0); err == nil {
		t.Errorf("duplicate name accepted")
	}
}

func TestSetpointUnknownMotorIsNoop(t *testing.T) {
	m := NewManager()
	m.SetSetpoint("ghost", 1)
	m.Update()
}
