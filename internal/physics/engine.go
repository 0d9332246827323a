package physics

import (
	"fmt"
	"sync"

	"github.com/san-kum/robosim/internal/joint"
)

var (
	mu     sync.Mutex
	active joint.Engine
)

// Set replaces the process-wide engine, cleaning up the previous one.
func Set(e joint.Engine) {
	mu.Lock()
	prev := active
	active = e
	mu.Unlock()
	if prev != nil && prev != e {
		prev.Cleanup()
	}
}

// Active returns the process-wide engine, creating the default on first use.
func Active() joint.Engine {
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		active = Default()
	}
	return active
}

// Default returns the engine used when nothing is configured.
func Default() joint.Engine {
	return NewChipmunk()
}

// New builds an engine by name.
func New(name string) (joint.Engine, error) {
	switch name {
	case "", "chipmunk":
		return NewChipmunk(), nil
	case "kinematic":
		return NewKinematic(), nil
	default:
		return nil, fmt.Errorf("unknown physics engine: %s", name)
	}
}

// Names lists the available engine names.
func Names() []string {
	return []string{"chipmunk", "kinematic"}
}
