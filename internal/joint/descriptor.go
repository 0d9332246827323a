package joint

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type Type int

const (
	Hinge Type = iota
	Hinge2
	Slider
	Ball
	Universal
	Fixed
)

var typeNames = map[Type]string{
	Hinge:     "hinge",
	Hinge2:    "hinge2",
	Slider:    "slider",
	Ball:      "ball",
	Universal: "universal",
	Fixed:     "fixed",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == strings.ToLower(name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown joint type: %q", name)
}

// AnchorPolicy selects how the anchor point is resolved at creation time.
type AnchorPolicy int

const (
	// AnchorAtBodyA places the anchor at body A's current position.
	AnchorAtBodyA AnchorPolicy = iota
	// AnchorAtBodyB places the anchor at body B's current position.
	AnchorAtBodyB
	// AnchorMidpoint places the anchor halfway between both bodies.
	AnchorMidpoint
	// AnchorExplicit keeps the anchor given in the descriptor.
	AnchorExplicit
)

var anchorNames = map[AnchorPolicy]string{
	AnchorAtBodyA:  "at_body_a",
	AnchorAtBodyB:  "at_body_b",
	AnchorMidpoint: "midpoint",
	AnchorExplicit: "explicit",
}

func (p AnchorPolicy) String() string {
	if name, ok := anchorNames[p]; ok {
		return name
	}
	return fmt.Sprintf("anchor(%d)", int(p))
}

func ParseAnchorPolicy(name string) (AnchorPolicy, error) {
	for p, n := range anchorNames {
		if n == strings.ToLower(name) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown anchor policy: %q", name)
}

// axisEpsilon is the squared-norm threshold below which an axis counts as
// degenerate.
const axisEpsilon = 1e-10

// Descriptor is the backend-independent configuration of one joint. Body
// index 0 means the side is anchored to the world frame. A zero ID means
// "unassigned"; the registry assigns the real id on creation.
type Descriptor struct {
	ID   uint64
	Name string
	Type Type

	BodyA uint64
	BodyB uint64

	AnchorPolicy AnchorPolicy
	Anchor       mgl64.Vec3
	AxisA        mgl64.Vec3
	AxisB        mgl64.Vec3

	Offset1 float64
	Offset2 float64

	LowStop1  float64
	HighStop1 float64
	LowStop2  float64
	HighStop2 float64

	MaxForce1    float64
	MaxForce2    float64
	MaxVelocity1 float64
	MaxVelocity2 float64

	Spring  float64
	Damping float64
}

// Validate rejects descriptors that can never materialize. Only the first
// axis is checked; a second axis is meaningful for two-axis types and the
// backend decides what to do with it.
func (d Descriptor) Validate() error {
	if d.Type != Fixed && d.AxisA.Dot(d.AxisA) < axisEpsilon {
		return fmt.Errorf("%w: %s %q", ErrInvalidAxis, d.Type, d.Name)
	}
	return nil
}

// NeedsBodyA reports whether the anchor policy requires body A to resolve.
func (d Descriptor) NeedsBodyA() bool {
	return d.AnchorPolicy == AnchorAtBodyA || d.AnchorPolicy == AnchorMidpoint
}

// NeedsBodyB reports whether the anchor policy requires body B to resolve.
func (d Descriptor) NeedsBodyB() bool {
	return d.AnchorPolicy == AnchorAtBodyB || d.AnchorPolicy == AnchorMidpoint
}
