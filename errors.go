package gamefsm

import "fmt"

// ErrUnknownState is returned when a state id is not registered in the table,
// either on LoadState or when unmarshaling saved data.
type ErrUnknownState struct {
	State State
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("gamefsm: unknown state %q", e.State)
}

// ErrNoTransition is returned by RequestNextState when the current state has
// neither a Next successor nor a Transitions entry for the given key.
type ErrNoTransition struct {
	From State
	Key  Event
}

func (e *ErrNoTransition) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("gamefsm: state %q has no next state", e.From)
	}

	return fmt.Sprintf("gamefsm: no transition for key %q from state %q", e.Key, e.From)
}

// ErrConfig is returned when a configuration document cannot be decoded or
// refers to something that does not exist. It wraps the underlying error,
// if any, for errors.Is and errors.As.
type ErrConfig struct {
	// Path locates the offending value, e.g. "states.walk.state_class".
	Path string
	// Reason describes the problem when there is no underlying error.
	Reason string
	// Err is the decoding error, if any.
	Err error
}

func (e *ErrConfig) Error() string {
	msg := e.Reason
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}

	if e.Path == "" {
		return "gamefsm: invalid config: " + msg
	}

	return fmt.Sprintf("gamefsm: invalid config at %s: %s", e.Path, msg)
}

func (e *ErrConfig) Unwrap() error { return e.Err }
