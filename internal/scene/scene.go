// Package scene loads and builds backend-independent scene descriptions:
// rigid bodies plus the joints connecting them.
package scene

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/robosim/internal/body"
	"github.com/san-kum/robosim/internal/joint"
)

type BodySpec struct {
	Index    uint64     `yaml:"index"`
	Name     string     `yaml:"name"`
	Position [3]float64 `yaml:"position"`
	Mass     float64    `yaml:"mass"`
}

type JointSpec struct {
	Index       uint64     `yaml:"index"`
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"`
	BodyA       uint64     `yaml:"body_a"`
	BodyB       uint64     `yaml:"body_b"`
	Anchor      string     `yaml:"anchor"`
	AnchorPoint [3]float64 `yaml:"anchor_point"`
	Axis        [3]float64 `yaml:"axis"`
	Axis2       [3]float64 `yaml:"axis2"`
	Offset      float64    `yaml:"offset"`
	LowStop     float64    `yaml:"low_stop"`
	HighStop    float64    `yaml:"high_stop"`
	MaxForce    float64    `yaml:"max_force"`
	MaxVelocity float64    `yaml:"max_velocity"`
	Spring      float64    `yaml:"spring"`
	Damping     float64    `yaml:"damping"`
}

type Scene struct {
	Name    string      `yaml:"name"`
	Gravity [3]float64  `yaml:"gravity"`
	Bodies  []BodySpec  `yaml:"bodies"`
	Joints  []JointSpec `yaml:"joints"`
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Scene{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func Save(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func vec(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}

// Descriptor converts the spec into the joint core's configuration type.
func (js JointSpec) Descriptor() (joint.Descriptor, error) {
	typ, err := joint.ParseType(js.Type)
	if err != nil {
		return joint.Descriptor{}, fmt.Errorf("joint %q: %w", js.Name, err)
	}
	policy := joint.AnchorExplicit
	if js.Anchor != "" {
		policy, err = joint.ParseAnchorPolicy(js.Anchor)
		if err != nil {
			return joint.Descriptor{}, fmt.Errorf("joint %q: %w", js.Name, err)
		}
	}
	return joint.Descriptor{
		ID:           js.Index,
		Name:         js.Name,
		Type:         typ,
		BodyA:        js.BodyA,
		BodyB:        js.BodyB,
		AnchorPolicy: policy,
		Anchor:       vec(js.AnchorPoint),
		AxisA:        vec(js.Axis),
		AxisB:        vec(js.Axis2),
		Offset1:      js.Offset,
		LowStop1:     js.LowStop,
		HighStop1:    js.HighStop,
		MaxForce1:    js.MaxForce,
		MaxVelocity1: js.MaxVelocity,
		Spring:       js.Spring,
		Damping:      js.Damping,
	}, nil
}

// Validate checks every joint spec without touching an engine.
func (s *Scene) Validate() error {
	indices := make(map[uint64]bool, len(s.Bodies))
	for _, bs := range s.Bodies {
		if bs.Index == 0 {
			return fmt.Errorf("body %q: index 0 is reserved for the world frame", bs.Name)
		}
		if indices[bs.Index] {
			return fmt.Errorf("body %q: duplicate index %d", bs.Name, bs.Index)
		}
		indices[bs.Index] = true
	}
	for _, js := range s.Joints {
		d, err := js.Descriptor()
		if err != nil {
			return err
		}
		if err := d.Validate(); err != nil {
			return err
		}
		if d.NeedsBodyA() && !indices[d.BodyA] {
			return fmt.Errorf("joint %q: anchor needs body %d which the scene does not declare", js.Name, d.BodyA)
		}
		if d.NeedsBodyB() && !indices[d.BodyB] {
			return fmt.Errorf("joint %q: anchor needs body %d which the scene does not declare", js.Name, d.BodyB)
		}
	}
	return nil
}

// Build spawns the scene's bodies into the store and creates its joints in
// the registry. Joint failures are collected; bodies that fail to spawn
// abort, since every joint after them would be meaningless.
func (s *Scene) Build(store *body.Store, reg *joint.Registry) error {
	for _, bs := range s.Bodies {
		if _, err := store.Spawn(bs.Index, bs.Name, vec(bs.Position), bs.Mass); err != nil {
			return fmt.Errorf("body %q: %w", bs.Name, err)
		}
	}
	var errs []error
	for _, js := range s.Joints {
		d, err := js.Descriptor()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := reg.Create(d, false); err != nil {
			errs = append(errs, fmt.Errorf("joint %q: %w", js.Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("scene %q: %d joints failed: %v", s.Name, len(errs), errs)
	}
	return nil
}
