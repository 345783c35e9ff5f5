package gamefsm

import (
	"sync"
	"time"

	"github.com/enetx/g"
)

// SyncMachine is a thread-safe wrapper around a Machine for hosts that feed
// frames, physics steps and input from different goroutines. Every method
// holds the lock for the duration of the underlying call, hooks included,
// so handlers must signal through Complete and never call back into the
// SyncMachine itself.
type SyncMachine[O any] struct {
	m  *Machine[O]
	mu sync.RWMutex
}

// Sync wraps the machine. The machine must not be used directly afterwards.
func (m *Machine[O]) Sync() *SyncMachine[O] {
	return &SyncMachine[O]{m: m}
}

// Tick is the thread-safe version of Machine.Tick.
func (sm *SyncMachine[O]) Tick(delta time.Duration) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.m.Tick(delta)
}

// TickPhysics is the thread-safe version of Machine.TickPhysics.
func (sm *SyncMachine[O]) TickPhysics(delta time.Duration) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.m.TickPhysics(delta)
}

// HandleInput is the thread-safe version of Machine.HandleInput.
func (sm *SyncMachine[O]) HandleInput(input any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.m.HandleInput(input)
}

// RequestTransition is the thread-safe version of Machine.RequestTransition.
func (sm *SyncMachine[O]) RequestTransition(id State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.m.RequestTransition(id)
}

// RequestNextState is the thread-safe version of Machine.RequestNextState.
func (sm *SyncMachine[O]) RequestNextState(key ...Event) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.m.RequestNextState(key...)
}

// RequestPreviousState is the thread-safe version of Machine.RequestPreviousState.
func (sm *SyncMachine[O]) RequestPreviousState() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.m.RequestPreviousState()
}

// Current is the thread-safe version of Machine.Current.
func (sm *SyncMachine[O]) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.m.Current()
}

// Previous is the thread-safe version of Machine.Previous.
func (sm *SyncMachine[O]) Previous() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.m.Previous()
}

// IsCurrent is the thread-safe version of Machine.IsCurrent.
func (sm *SyncMachine[O]) IsCurrent(id State) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.m.IsCurrent(id)
}

// States is the thread-safe version of Machine.States.
func (sm *SyncMachine[O]) States() g.Slice[State] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.m.States()
}

// SaveData is the thread-safe version of Machine.SaveData.
func (sm *SyncMachine[O]) SaveData() SaveData {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.m.SaveData()
}

// LoadState is the thread-safe version of Machine.LoadState.
func (sm *SyncMachine[O]) LoadState(data SaveData) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.m.LoadState(data)
}

// Reset is the thread-safe version of Machine.Reset.
func (sm *SyncMachine[O]) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.m.Reset()
}

// ToDOT is the thread-safe version of Machine.ToDOT.
func (sm *SyncMachine[O]) ToDOT() g.String {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.m.ToDOT()
}

// MarshalJSON implements the json.Marshaler interface for thread-safe
// serialization of the machine's save data.
func (sm *SyncMachine[O]) MarshalJSON() ([]byte, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.m.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for thread-safe
// restoration of saved data.
func (sm *SyncMachine[O]) UnmarshalJSON(data []byte) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.m.UnmarshalJSON(data)
}
