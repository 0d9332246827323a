// Package metrics collects per-run diagnostics from the simulated world,
// sampled once per tick.
package metrics

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/robosim/internal/joint"
)

// Metric is one sampled quantity.
type Metric interface {
	Name() string
	Observe(t float64)
	Value() float64
	Reset()
}

// Motion tracks the peak speed of one body, estimated by finite
// differences of its position between ticks.
type Motion struct {
	bodies joint.BodyLookup
	index  uint64

	prevSet  bool
	prev     mgl64.Vec3
	prevT    float64
	maxSpeed float64
	path     float64
}

func NewMotion(bodies joint.BodyLookup, index uint64) *Motion {
	return &Motion{bodies: bodies, index: index}
}

func (m *Motion) Name() string { return fmt.Sprintf("motion.%d", m.index) }

func (m *Motion) Observe(t float64) {
	ref, ok := m.bodies.Body(m.index)
	if !ok {
		return
	}
	pos := ref.Position
	if m.prevSet && t > m.prevT {
		step := pos.Sub(m.prev).Len()
		m.path += step
		speed := step / (t - m.prevT)
		m.maxSpeed = math.Max(m.maxSpeed, speed)
	}
	m.prev = pos
	m.prevT = t
	m.prevSet = true
}

// Value reports the peak speed seen so far.
func (m *Motion) Value() float64 { return m.maxSpeed }

// Path reports the total distance travelled.
func (m *Motion) Path() float64 { return m.path }

func (m *Motion) Reset() {
	m.prevSet = false
	m.maxSpeed = 0
	m.path = 0
}

// Separation tracks how far the distance between two connected bodies
// drifts from its initial value, relative to that value. For a rigid
// constraint this should stay near zero; growth means the solver is
// losing the constraint.
type Separation struct {
	bodies  joint.BodyLookup
	a, b    uint64
	initial float64
	max     float64
	samples int
}

func NewSeparation(bodies joint.BodyLookup, a, b uint64) *Separation {
	return &Separation{bodies: bodies, a: a, b: b}
}

func (s *Separation) Name() string { return fmt.Sprintf("separation.%d-%d", s.a, s.b) }

func (s *Separation) Observe(t float64) {
	ra, okA := s.bodies.Body(s.a)
	rb, okB := s.bodies.Body(s.b)
	if !okA || !okB {
		return
	}
	d := rb.Position.Sub(ra.Position).Len()
	if s.samples == 0 {
		s.initial = d
	}
	s.samples++
	if s.initial > 0 {
		drift := math.Abs(d-s.initial) / s.initial
		s.max = math.Max(s.max, drift)
	}
}

// Value reports the worst relative drift seen so far.
func (s *Separation) Value() float64 { return s.max }

func (s *Separation) Reset() {
	s.initial = 0
	s.max = 0
	s.samples = 0
}

// Collector runs a set of metrics as a step-loop observer.
type Collector struct {
	mu      sync.Mutex
	metrics []Metric
}

func NewCollector(metrics ...Metric) *Collector {
	return &Collector{metrics: metrics}
}

func (c *Collector) Add(m Metric) {
	c.mu.Lock()
	c.metrics = append(c.metrics, m)
	c.mu.Unlock()
}

func (c *Collector) OnTick(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.metrics {
		m.Observe(t)
	}
}

// Report snapshots every metric's current value.
func (c *Collector) Report() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.metrics {
		m.Reset()
	}
}
