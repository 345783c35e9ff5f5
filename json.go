package gamefsm

import (
	"fmt"
	"maps"

	"github.com/goccy/go-json"
)

// SaveData is the persisted form of a machine: the current state and the
// context of its handler.
type SaveData struct {
	CurrentState   State   `json:"currentStateId"`
	CurrentContext Context `json:"currentContext"`
}

// SaveData captures the current state and a copy of the active handler's
// context. Manual-only states save an empty context.
func (m *Machine[O]) SaveData() SaveData {
	data := SaveData{CurrentState: m.current, CurrentContext: make(Context)}
	if m.handler != nil {
		maps.Copy(data.CurrentContext, m.handler.Context())
	}

	return data
}

// LoadState jumps straight to the saved state with a full transition and
// then restores the handler context. No intermediate states are replayed.
// The machine counts as started afterwards, so the next Tick does not enter
// the initial state. A pending request is discarded.
func (m *Machine[O]) LoadState(data SaveData) error {
	if !m.known(data.CurrentState) {
		return &ErrUnknownState{State: data.CurrentState}
	}

	m.initialized = true
	m.pending = nil

	m.transition(data.CurrentState)

	if m.handler != nil {
		m.handler.LoadContext(data.CurrentContext)
	}

	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (m *Machine[O]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.SaveData())
}

// UnmarshalJSON implements the json.Unmarshaler interface. The machine must
// already be configured.
func (m *Machine[O]) UnmarshalJSON(data []byte) error {
	var saved SaveData
	if err := json.Unmarshal(data, &saved); err != nil {
		return fmt.Errorf("failed to unmarshal machine state: %w", err)
	}

	return m.LoadState(saved)
}
