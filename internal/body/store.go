// Package body keeps the rigid-body records the joint core resolves its
// weak references through. Joints never hold body pointers across resets;
// they look bodies up by index and revalidate after Rebind.
package body

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/robosim/internal/joint"
)

// Record is one rigid body: declared spawn state plus the live backend
// handle.
type Record struct {
	Index    uint64
	Name     string
	Position mgl64.Vec3
	Mass     float64
	Handle   joint.Body
}

// Store maps body indices to records. Index 0 is reserved for the world
// frame and can never be spawned.
type Store struct {
	mu      sync.RWMutex
	engine  joint.Engine
	records map[uint64]*Record
}

func NewStore(engine joint.Engine) *Store {
	return &Store{
		engine:  engine,
		records: make(map[uint64]*Record),
	}
}

// Spawn creates the backend body and registers it under the given index.
func (s *Store) Spawn(index uint64, name string, pos mgl64.Vec3, mass float64) (*Record, error) {
	if index == 0 {
		return nil, fmt.Errorf("body index 0 is reserved for the world frame")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[index]; exists {
		return nil, fmt.Errorf("body index %d already in use", index)
	}
	rec := &Record{
		Index:    index,
		Name:     name,
		Position: pos,
		Mass:     mass,
		Handle:   s.engine.CreateBody(pos, mass),
	}
	s.records[index] = rec
	return rec, nil
}

// Body implements joint.BodyLookup. The position reported is the live
// backend position when a handle exists.
func (s *Store) Body(index uint64) (joint.BodyRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[index]
	if !ok {
		return joint.BodyRef{}, false
	}
	ref := joint.BodyRef{Position: rec.Position, Handle: rec.Handle}
	if rec.Handle != nil {
		ref.Position = rec.Handle.Position()
	}
	return ref, true
}

func (s *Store) Remove(index uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, index)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Indices returns the registered indices; order is unspecified.
func (s *Store) Indices() []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uint64, 0, len(s.records))
	for idx := range s.records {
		out = append(out, idx)
	}
	return out
}

// Rebind recreates every backend handle on the given engine at the body's
// declared spawn position. Callers follow up with Registry.Reattach per
// index so joints pick up the new handles.
func (s *Store) Rebind(engine joint.Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = engine
	for _, rec := range s.records {
		rec.Handle = engine.CreateBody(rec.Position, rec.Mass)
	}
}

// Clear drops every record. Backend bodies are owned by the engine and die
// with it.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[uint64]*Record)
}
