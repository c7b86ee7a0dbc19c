// Package session owns the per-conversation mutable state of the
// assistant. Each conversation gets its own State; nothing is shared across
// sessions, so there is no cross-session locking anywhere in the core.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/beautypizza/order-assistant/internal/order"
)

// State is everything one conversation accumulates: the draft being built,
// the pending updates for an already-submitted order, and the currently
// selected remote order. Turns within a session are strictly serial, so
// State itself carries no lock; only the manager's map does.
type State struct {
	ID string

	Draft   *order.Draft
	Pending *order.PendingUpdateSet

	// Update flow: the remote order the user picked, plus the summaries
	// the last document lookup returned.
	SelectedOrderID int
	SelectedOrder   *order.RemoteOrder
	FoundOrders     []order.OrderSummary
}

func newState(id string) *State {
	return &State{
		ID:      id,
		Draft:   order.NewDraft(),
		Pending: order.NewPendingUpdateSet(),
	}
}

// Select pins a remote order as the target of queued updates.
func (s *State) Select(o *order.RemoteOrder) {
	s.SelectedOrderID = o.ID
	s.SelectedOrder = o
}

// ResetDraft discards the draft so the same conversation can start a new
// order. A submitted draft is consumed exactly once; this is the explicit
// way to begin again.
func (s *State) ResetDraft() {
	s.Draft = order.NewDraft()
}

// Manager hands out session states keyed by conversation id.
type Manager struct {
	mu     sync.RWMutex
	states map[string]*State
}

func NewManager() *Manager {
	return &Manager{states: make(map[string]*State)}
}

// Get returns the state for id, creating it on first use. An empty id gets
// a fresh generated one.
func (m *Manager) Get(id string) *State {
	if id == "" {
		id = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[id]
	if !ok {
		st = newState(id)
		m.states[id] = st
	}
	return st
}

// Peek returns the state for id without creating one.
func (m *Manager) Peek(id string) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[id]
	return st, ok
}

// End drops a finished conversation.
func (m *Manager) End(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
}
