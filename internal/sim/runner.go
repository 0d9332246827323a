// Package sim drives the real-time step loop: engine solve, registry sweep,
// actuator push, observer fan-out.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/san-kum/robosim/internal/actuator"
	"github.com/san-kum/robosim/internal/joint"
)

// Observer is called after every completed tick with the simulated time.
type Observer interface {
	OnTick(t float64)
}

type Runner struct {
	engine    joint.Engine
	registry  *joint.Registry
	actuators *actuator.Manager
	dt        float64

	mu        sync.Mutex
	observers []Observer
	steps     uint64
	simTime   float64
}

func NewRunner(engine joint.Engine, registry *joint.Registry, actuators *actuator.Manager, dt float64) (*Runner, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %f", dt)
	}
	engine.SetStepSize(dt)
	return &Runner{
		engine:    engine,
		registry:  registry,
		actuators: actuators,
		dt:        dt,
	}, nil
}

func (r *Runner) AddObserver(o Observer) {
	r.mu.Lock()
	r.observers = append(r.observers, o)
	r.mu.Unlock()
}

// Step advances the simulation by n fixed ticks, as fast as possible.
func (r *Runner) Step(n int) {
	for i := 0; i < n; i++ {
		r.tick()
	}
}

// Run advances the simulation in real time until the context is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(r.dt * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Runner) tick() {
	if r.actuators != nil {
		r.actuators.Update()
	}
	r.engine.Step(r.dt)
	r.registry.Update(r.dt)

	r.mu.Lock()
	r.steps++
	r.simTime += r.dt
	t := r.simTime
	observers := r.observers
	r.mu.Unlock()

	for _, o := range observers {
		o.OnTick(t)
	}
}

func (r *Runner) Steps() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps
}

func (r *Runner) Time() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.simTime
}
