package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/robosim/internal/actuator"
	"github.com/san-kum/robosim/internal/body"
	"github.com/san-kum/robosim/internal/joint"
	"github.com/san-kum/robosim/internal/physics"
)

type tickRecorder struct {
	times []float64
}

func (t *tickRecorder) OnTick(tm float64) { t.times = append(t.times, tm) }

func newTestRunner(t *testing.T) (*Runner, *joint.Registry) {
	t.Helper()
	engine := physics.NewKinematic()
	store := body.NewStore(engine)
	if _, err := store.Spawn(1, "link", mgl64.Vec3{0, 1, 0}, 1.0); err != nil {
		t.Fatal(err)
	}
	motors := actuator.NewManager()
	reg := joint.NewRegistry(engine, store, motors, NewChangeCounter())
	motors.Bind(reg)

	r, err := NewRunner(engine, reg, motors, 0.01)
	if err != nil {
		t.Fatalf("runner failed: %v", err)
	}
	return r, reg
}

func TestStepAdvancesTimeAndJoints(t *testing.T) {
	r, reg := newTestRunner(t)

	id, err := reg.Create(joint.Descriptor{
		Name: "j", Type: joint.Hinge, BodyA: 1,
		AnchorPolicy: joint.AnchorAtBodyA,
		AxisA:        mgl64.Vec3{0, 0, 1},
	}, false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	rec := &tickRecorder{}
	r.AddObserver(rec)
	r.Step(10)

	if r.Steps() != 10 {
		t.Errorf("expected 10 steps, got %d", r.Steps())
	}
	if math.Abs(r.Time()-0.1) > 1e-9 {
		t.Errorf("expected t=0.1, got %f", r.Time())
	}
	if len(rec.times) != 10 {
		t.Errorf("observer saw %d ticks", len(rec.times))
	}

	ex, _ := reg.Get(id)
	if ex.Steps != 10 {
		t.Errorf("joint saw %d updates", ex.Steps)
	}
}

func TestRunStopsOnContext(t *testing.T) {
	r, _ := newTestRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Run(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("expected deadline error, got %v", err)
	}
}

func TestRejectsNonPositiveDt(t *testing.T) {
	engine := physics.NewKinematic()
	reg := joint.NewRegistry(engine, body.NewStore(engine), nil, nil)
	if _, err := NewRunner(engine, reg, nil, 0); err == nil {
		t.Errorf("dt=0 accepted")
	}
}

func TestChangeCounter(t *testing.T) {
	c := NewChangeCounter()
	c.SceneChanged(true)
	c.SceneChanged(true)
	c.SceneChanged(false)

	topo, quiet := c.Counts()
	if topo != 2 || quiet != 1 {
		t.Errorf("got (%d, %d), want (2, 1)", topo, quiet)
	}
}
