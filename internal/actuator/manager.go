// Package actuator drives joints through the registry's permissive setters
// and implements the detach contract the joint core requires: when a joint
// disappears, every motor attached to it lets go.
package actuator

import (
	"fmt"
	"sync"

	"github.com/san-kum/robosim/internal/joint"
)

// Motor is one velocity actuator attached to a joint axis.
type Motor struct {
	Name     string
	JointID  uint64
	Axis     int // 1 or 2
	Setpoint float64
	MaxForce float64
}

// Manager tracks motors and pushes their setpoints into the registry each
// tick. It satisfies joint.ActuatorNotifier.
type Manager struct {
	mu       sync.Mutex
	registry *joint.Registry
	motors   map[string]*Motor
}

func NewManager() *Manager {
	return &Manager{motors: make(map[string]*Motor)}
}

// Bind wires the manager to its registry. Separate from construction
// because the registry itself is constructed with the manager as its
// notifier.
func (m *Manager) Bind(reg *joint.Registry) {
	m.mu.Lock()
	m.registry = reg
	m.mu.Unlock()
}

func (m *Manager) Attach(name string, jointID uint64, axis int, maxForce float64) error {
	if axis != 1 && axis != 2 {
		return fmt.Errorf("motor axis must be 1 or 2, got %d", axis)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.motors[name]; exists {
		return fmt.Errorf("motor %q already attached", name)
	}
	m.motors[name] = &Motor{Name: name, JointID: jointID, Axis: axis, MaxForce: maxForce}
	return nil
}

// SetSetpoint updates a motor's target velocity; unknown names no-op, in
// line with the registry's tolerance of stale control state.
func (m *Manager) SetSetpoint(name string, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if motor, ok := m.motors[name]; ok {
		motor.Setpoint = v
	}
}

// Detach implements joint.ActuatorNotifier. Every motor on the joint is
// dropped; calling it again for the same id is a no-op.
func (m *Manager) Detach(jointID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, motor := range m.motors {
		if motor.JointID == jointID {
			delete(m.motors, name)
		}
	}
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.motors)
}

// Update pushes every motor's setpoint and force limit through the
// registry. Joints that vanished since the last tick are silently skipped
// by the registry's no-op policy, so this never needs existence checks.
func (m *Manager) Update() {
	m.mu.Lock()
	reg := m.registry
	motors := make([]Motor, 0, len(m.motors))
	for _, motor := range m.motors {
		motors = append(motors, *motor)
	}
	m.mu.Unlock()

	if reg == nil {
		return
	}
	for _, motor := range motors {
		if motor.Axis == 1 {
			reg.SetVelocity(motor.JointID, motor.Setpoint)
		} else {
			reg.SetVelocity2(motor.JointID, motor.Setpoint)
		}
		if motor.MaxForce > 0 {
			reg.SetForceLimit(motor.JointID, motor.MaxForce, motor.Axis == 1)
		}
	}
}
