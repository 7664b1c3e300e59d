package realtime

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"livepoll/internal/metrics"
)

var ErrRegistryClosed = errors.New("registry is shut down")

// Registry is the set of live subscriber connections. It is created at
// server start and torn down with Shutdown.
type Registry struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]*Conn
	closed bool
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		conns:  make(map[uuid.UUID]*Conn),
		logger: logger,
	}
}

// OnConnect moves c from Connecting to Active and adds it to the set.
func (r *Registry) OnConnect(c *Conn) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRegistryClosed
	}
	if !c.activate() {
		r.mu.Unlock()
		return ErrConnClosed
	}
	r.conns[c.ID()] = c
	n := len(r.conns)
	r.mu.Unlock()

	metrics.SetActiveConnections(n)
	r.logger.Info("subscriber connected", "conn_id", c.ID(), "active", n)
	return nil
}

// OnDisconnect removes c. Calling it more than once is harmless.
func (r *Registry) OnDisconnect(c *Conn) {
	r.mu.Lock()
	existing, ok := r.conns[c.ID()]
	if ok && existing == c {
		delete(r.conns, c.ID())
	}
	n := len(r.conns)
	r.mu.Unlock()

	if !ok {
		return
	}
	metrics.SetActiveConnections(n)
	r.logger.Info("subscriber removed", "conn_id", c.ID(), "state", c.State().String(), "active", n)
}

// Snapshot returns the members at this instant. Connections added or
// removed afterwards do not affect the returned slice.
func (r *Registry) Snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		res = append(res, c)
	}
	return res
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Shutdown closes every member and rejects further connections.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	conns := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
	r.logger.Info("subscription registry shut down", "closed", len(conns))
}
