package gamefsm

import (
	"time"

	"github.com/enetx/g"
	"go.uber.org/zap"
)

type (
	// State identifies a named mode of the owner. The empty State means "no state".
	State g.String
	// Event is the key a handler names on completion to pick one of several transitions.
	Event g.String

	// Factory constructs a fresh handler when its state is entered.
	Factory[O any] func() Handler[O]
	// CompleteFunc is bound to a handler by the machine and receives its completion key.
	CompleteFunc func(key Event)
	// ChangeHook is called synchronously after every committed transition.
	ChangeHook func(state State)

	// Definition describes one state of the table. It is not modified after Configure.
	Definition[O any] struct {
		// Next is the successor taken on completion. It wins over Transitions.
		Next State
		// Transitions maps completion keys to successors.
		Transitions g.Map[Event, State]
		// Factory builds the handler. A nil Factory makes a manual-only state.
		Factory Factory[O]
	}

	// request is a transition queued until the next Tick.
	request struct {
		to       State
		previous bool
	}

	// Machine drives the handlers of a single owner. It is not safe for
	// concurrent use; see SyncMachine.
	Machine[O any] struct {
		owner   O
		initial State
		states  g.Map[State, Definition[O]]

		current     State
		previous    State
		handler     Handler[O]
		prevHandler Handler[O]

		pending     *request
		initialized bool

		caching bool
		cache   g.Map[State, Handler[O]]

		onChange g.Slice[ChangeHook]
		logger   *zap.Logger
	}
)

// Handler is the behavior attached to a state. Embed BaseHandler to get
// no-op defaults and override only the hooks a state needs.
type Handler[O any] interface {
	// Init runs once after construction, never on cache reuse.
	Init(owner O)
	// Update runs once per frame while the handler is active.
	Update(delta time.Duration, owner O)
	// FixedUpdate runs once per physics step while the handler is active.
	FixedUpdate(delta time.Duration, owner O)
	// HandleInput receives discrete input events.
	HandleInput(input any, owner O)
	// Exit runs once before a full transition away from the state.
	Exit(owner O)
	// Context returns the data persisted by SaveData.
	Context() Context
	// LoadContext replaces the context wholesale.
	LoadContext(ctx Context)
	// Bind installs the completion callback, replacing any previous one.
	Bind(done CompleteFunc)
}
