package gamefsm

import (
	"time"

	"github.com/enetx/g"
)

// StateMachine is the surface shared by Machine and SyncMachine.
type StateMachine[O any] interface {
	Tick(delta time.Duration)
	TickPhysics(delta time.Duration)
	HandleInput(input any)
	RequestTransition(id State)
	RequestNextState(key ...Event) error
	RequestPreviousState()
	Current() State
	Previous() State
	IsCurrent(id State) bool
	States() g.Slice[State]
	SaveData() SaveData
	LoadState(data SaveData) error
	Reset()
	ToDOT() g.String
	MarshalJSON() ([]byte, error)
	UnmarshalJSON(data []byte) error
}

// Interface compliance checks.
var (
	_ StateMachine[any] = (*Machine[any])(nil)
	_ StateMachine[any] = (*SyncMachine[any])(nil)
)
