// Package gamefsm provides a per-object finite state machine for game
// entities. A host owner registers named states, each optionally backed by a
// Handler that runs frame, physics and input logic and signals completion.
// Transitions are queued and applied at the start of the next Tick. It is
// built with types and utilities from the github.com/enetx/g library.
package gamefsm

import (
	"maps"
	"time"

	"github.com/enetx/g"
	"github.com/enetx/g/cmp"
	"go.uber.org/zap"
)

// New creates a machine driving handlers on behalf of owner. The machine does
// nothing until it is configured and ticked.
func New[O any](owner O) *Machine[O] {
	return &Machine[O]{
		owner:  owner,
		states: make(g.Map[State, Definition[O]]),
		cache:  make(g.Map[State, Handler[O]]),
		logger: zap.NewNop(),
	}
}

// Clone creates a machine for another owner with the same state table,
// caching mode, hooks and logger, but none of the runtime state. The clone
// owns a copy of the table, so Define on it leaves the original untouched.
func (m *Machine[O]) Clone(owner O) *Machine[O] {
	return &Machine[O]{
		owner:    owner,
		initial:  m.initial,
		states:   maps.Clone(m.states),
		caching:  m.caching,
		cache:    make(g.Map[State, Handler[O]]),
		onChange: m.onChange.Clone(),
		logger:   m.logger,
	}
}

// Configure replaces the state table and sets the initial state. It does not
// transition; the initial state is entered on the first Tick. Configure is
// meant to be called once, before the machine starts running.
func (m *Machine[O]) Configure(initial State, defs g.Map[State, Definition[O]]) *Machine[O] {
	m.initial = initial
	m.states = maps.Clone(defs)

	if m.states == nil {
		m.states = make(g.Map[State, Definition[O]])
	}

	m.validate()

	return m
}

// ConfigureStates registers ids as manual-only states with no successors.
func (m *Machine[O]) ConfigureStates(initial State, ids ...State) *Machine[O] {
	defs := make(g.Map[State, Definition[O]], len(ids))
	for _, id := range ids {
		defs[id] = Definition[O]{}
	}

	return m.Configure(initial, defs)
}

// Define adds or replaces a single state definition.
func (m *Machine[O]) Define(id State, def Definition[O]) *Machine[O] {
	m.states[id] = def
	return m
}

// Cache toggles handler reuse. With caching enabled, a handler constructed
// for a state is kept after Exit and resumed as-is on re-entry, with its
// context and fields intact and without a second Init.
func (m *Machine[O]) Cache(enabled bool) *Machine[O] {
	m.caching = enabled
	return m
}

// Logger sets the logger used for configuration and transition diagnostics.
func (m *Machine[O]) Logger(l *zap.Logger) *Machine[O] {
	if l != nil {
		m.logger = l
	}

	return m
}

// OnStateChanged registers a hook fired after every committed transition,
// including previous-state restoration.
func (m *Machine[O]) OnStateChanged(hook ChangeHook) *Machine[O] {
	m.onChange.Push(hook)
	return m
}

// validate reports suspicious definitions. Nothing here is fatal.
func (m *Machine[O]) validate() {
	if _, ok := m.states[m.initial]; !ok {
		m.logger.Warn("initial state is not registered", zap.String("state", string(m.initial)))
	}

	for id, def := range m.states {
		if id == "" {
			m.logger.Warn("empty state id registered")
		}

		if def.Next != "" && !m.known(def.Next) {
			m.logger.Warn("next state is not registered",
				zap.String("state", string(id)), zap.String("target", string(def.Next)))
		}

		for key, to := range def.Transitions {
			if !m.known(to) {
				m.logger.Warn("transition target is not registered",
					zap.String("state", string(id)), zap.String("key", string(key)), zap.String("target", string(to)))
			}
		}
	}
}

func (m *Machine[O]) known(id State) bool {
	_, ok := m.states[id]
	return ok
}

// Initial returns the configured initial state.
func (m *Machine[O]) Initial() State { return m.initial }

// Current returns the current state, or "" before the first Tick.
func (m *Machine[O]) Current() State { return m.current }

// Previous returns the state active before the last full transition.
func (m *Machine[O]) Previous() State { return m.previous }

// IsCurrent reports whether id is the current state.
func (m *Machine[O]) IsCurrent(id State) bool { return m.current == id }

// Handler returns the active handler, or nil for manual-only states.
func (m *Machine[O]) Handler() Handler[O] { return m.handler }

// States returns the registered state ids in sorted order.
func (m *Machine[O]) States() g.Slice[State] {
	var states g.Slice[State]
	for id := range m.states {
		states.Push(id)
	}

	states.SortBy(cmp.Cmp)

	return states
}

// Tick advances the machine by one frame. The first call enters the initial
// state and returns. Later calls apply the pending request, if any, and then
// update the active handler.
func (m *Machine[O]) Tick(delta time.Duration) {
	if !m.initialized {
		m.initialized = true

		if !m.known(m.initial) {
			m.logger.Error("cannot enter unregistered initial state", zap.String("state", string(m.initial)))
			return
		}

		m.transition(m.initial)

		return
	}

	// Cleared before handling so a request raised from Init lands on the next tick.
	if req := m.pending; req != nil {
		m.pending = nil

		switch {
		case req.previous:
			m.restorePrevious()
		case req.to == m.current:
		case m.known(req.to):
			m.transition(req.to)
		default:
			m.logger.Error("transition to unregistered state, clearing current state",
				zap.String("state", string(m.current)), zap.String("target", string(req.to)))

			m.current = ""
			m.handler = nil
		}
	}

	if m.handler != nil {
		m.handler.Update(delta, m.owner)
	}
}

// TickPhysics runs one fixed step on the active handler. It never applies
// pending requests.
func (m *Machine[O]) TickPhysics(delta time.Duration) {
	if m.handler != nil {
		m.handler.FixedUpdate(delta, m.owner)
	}
}

// HandleInput forwards a discrete input event to the active handler.
func (m *Machine[O]) HandleInput(input any) {
	if m.handler != nil {
		m.handler.HandleInput(input, m.owner)
	}
}

// RequestTransition queues a transition to id for the next Tick, replacing
// any request that has not been applied yet.
func (m *Machine[O]) RequestTransition(id State) {
	m.pending = &request{to: id}
}

// RequestNextState queues the successor of the current state: its Next state
// if set, otherwise the Transitions entry for key. It returns *ErrNoTransition
// when neither applies. A request already pending for another state is kept
// and nil is returned, so completing twice in one frame commits only once.
func (m *Machine[O]) RequestNextState(key ...Event) error {
	if req := m.pending; req != nil && (req.previous || req.to != m.current) {
		return nil
	}

	var k Event
	if len(key) > 0 {
		k = key[0]
	}

	if def, ok := m.states[m.current]; ok {
		if def.Next != "" {
			m.pending = &request{to: def.Next}
			return nil
		}

		if to, ok := def.Transitions[k]; ok {
			m.pending = &request{to: to}
			return nil
		}
	}

	m.logger.Warn("no transition to take", zap.String("state", string(m.current)), zap.String("key", string(k)))

	return &ErrNoTransition{From: m.current, Key: k}
}

// RequestPreviousState queues a return to the previous state. It is a no-op
// when there is none.
func (m *Machine[O]) RequestPreviousState() {
	if m.previous != "" {
		m.pending = &request{previous: true}
	}
}

// Reset exits the active handler and forgets all runtime state, including
// cached handlers. The next Tick enters the initial state again.
func (m *Machine[O]) Reset() {
	if m.handler != nil {
		m.handler.Exit(m.owner)
	}

	m.current, m.handler = "", nil
	m.previous, m.prevHandler = "", nil
	m.pending = nil
	m.initialized = false
	m.cache = make(g.Map[State, Handler[O]])
}

// transition fully enters to, which must be registered: the outgoing handler
// exits before the incoming one is obtained and initialized.
func (m *Machine[O]) transition(to State) {
	outgoing := m.handler

	m.previous, m.prevHandler = m.current, m.handler
	m.current, m.handler = to, nil

	if outgoing != nil {
		outgoing.Exit(m.owner)
	}

	m.enter(to, m.states[to])

	m.logger.Debug("state changed", zap.String("from", string(m.previous)), zap.String("to", string(to)))
	m.emit(to)
}

// enter makes the handler of def active, reusing a cached one when allowed.
func (m *Machine[O]) enter(id State, def Definition[O]) {
	if def.Factory == nil {
		return
	}

	if m.caching {
		if h, ok := m.cache[id]; ok {
			m.handler = h
			h.Bind(m.completion(id))

			return
		}
	}

	h := def.Factory()
	if h == nil {
		m.logger.Warn("state factory returned no handler", zap.String("state", string(id)))
		return
	}

	if m.caching {
		m.cache[id] = h
	}

	m.handler = h
	h.Bind(m.completion(id))
	h.Init(m.owner)
}

// restorePrevious swaps the previous state and handler back in without
// running Exit, Init or construction. Previous is left equal to current, so
// restoring twice in a row does nothing the second time.
func (m *Machine[O]) restorePrevious() {
	if m.previous == "" || m.previous == m.current {
		return
	}

	m.current, m.handler = m.previous, m.prevHandler

	m.logger.Debug("state restored", zap.String("to", string(m.current)))
	m.emit(m.current)
}

// completion returns the callback bound to the handler of id. Calls made
// after the machine has left id are dropped.
func (m *Machine[O]) completion(id State) CompleteFunc {
	return func(key Event) {
		if m.current != id {
			m.logger.Debug("completion from inactive state ignored",
				zap.String("state", string(id)), zap.String("current", string(m.current)))

			return
		}

		_ = m.RequestNextState(key)
	}
}

func (m *Machine[O]) emit(state State) {
	for hook := range m.onChange.Iter() {
		hook(state)
	}
}
