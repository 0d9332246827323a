package joint

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestValidateRejectsDegenerateAxis(t *testing.T) {
	for _, typ := range []Type{Hinge, Hinge2, Slider, Ball, Universal} {
		d := Descriptor{Type: typ}
		if err := d.Validate(); !errors.Is(err, ErrInvalidAxis) {
			t.Errorf("%s: expected ErrInvalidAxis, got %v", typ, err)
		}
	}

	fixed := Descriptor{Type: Fixed}
	if err := fixed.Validate(); err != nil {
		t.Errorf("fixed joints need no axis: %v", err)
	}

	d := Descriptor{Type: Hinge, AxisA: mgl64.Vec3{0, 0, 1}}
	if err := d.Validate(); err != nil {
		t.Errorf("unit axis rejected: %v", err)
	}
}

func TestParseTypeRoundTrip(t *testing.T) {
	for _, typ := range []Type{Hinge, Hinge2, Slider, Ball, Universal, Fixed} {
		got, err := ParseType(typ.String())
		if err != nil {
			t.Fatalf("parse %q: %v", typ, err)
		}
		if got != typ {
			t.Errorf("round trip %q -> %q", typ, got)
		}
	}
	if _, err := ParseType("rope"); err == nil {
		t.Errorf("expected error for unknown type")
	}
}

func TestParseAnchorPolicy(t *testing.T) {
	p, err := ParseAnchorPolicy("MIDPOINT")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p != AnchorMidpoint {
		t.Errorf("expected midpoint, got %v", p)
	}
	if _, err := ParseAnchorPolicy("corner"); err == nil {
		t.Errorf("expected error for unknown policy")
	}
}

func TestNeedsBody(t *testing.T) {
	cases := []struct {
		policy AnchorPolicy
		a, b   bool
	}{
		{AnchorAtBodyA, true, false},
		{AnchorAtBodyB, false, true},
		{AnchorMidpoint, true, true},
		{AnchorExplicit, false, false},
	}
	for _, c := range cases {
		d := Descriptor{AnchorPolicy: c.policy}
		if d.NeedsBodyA() != c.a || d.NeedsBodyB() != c.b {
			t.Errorf("%s: needs (%v,%v), want (%v,%v)", c.policy, d.NeedsBodyA(), d.NeedsBodyB(), c.a, c.b)
		}
	}
}
