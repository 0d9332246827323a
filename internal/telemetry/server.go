// Package telemetry streams the joint registry's export view to websocket
// clients, for UIs and external monitors.
package telemetry

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/robosim/internal/joint"
)

const DefaultInterval = 100 * time.Millisecond

// Source is the read-only view the server broadcasts; *joint.Registry
// satisfies it.
type Source interface {
	List() []joint.Exchange
	Count() int
}

// Frame is one broadcast message.
type Frame struct {
	Timestamp int64            `json:"timestamp"`
	Count     int              `json:"count"`
	Joints    []joint.Exchange `json:"joints"`
}

type Server struct {
	source   Source
	interval time.Duration
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewServer(source Source, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Server{
		source:   source,
		interval: interval,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the peer
// goes away. Inbound messages are drained and discarded; the stream is
// one-way.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.conns[conn] = true
	s.mu.Unlock()

	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conns[conn] {
		delete(s.conns, conn)
		conn.Close()
	}
	s.mu.Unlock()
}

// Run broadcasts frames until the context is done, then closes every
// connection.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.broadcast()
		}
	}
}

func (s *Server) broadcast() {
	frame := Frame{
		Timestamp: time.Now().UnixMilli(),
		Count:     s.source.Count(),
		Joints:    s.source.List(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(frame); err != nil {
			delete(s.conns, conn)
			conn.Close()
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
		delete(s.conns, conn)
	}
}

// Clients returns the number of connected consumers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
