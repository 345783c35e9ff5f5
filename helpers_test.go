package gamefsm_test

import (
	"time"

	"github.com/enetx/gamefsm"
)

type owner struct {
	events []string
}

func (o *owner) log(event string) { o.events = append(o.events, event) }

// recorder counts its hooks and completes with any Event it receives as input.
type recorder struct {
	gamefsm.BaseHandler[*owner]

	name                                 string
	inits, exits, updates, fixed, inputs int
}

func (r *recorder) Init(o *owner) {
	r.inits++
	r.Context()["count"] = 0
	o.log("init " + r.name)
}

func (r *recorder) Update(_ time.Duration, _ *owner) {
	r.updates++
	n, _ := r.Context()["count"].(int)
	r.Context()["count"] = n + 1
}

func (r *recorder) FixedUpdate(time.Duration, *owner) { r.fixed++ }

func (r *recorder) HandleInput(input any, _ *owner) {
	r.inputs++
	if key, ok := input.(gamefsm.Event); ok {
		r.Complete(key)
	}
}

func (r *recorder) Exit(o *owner) {
	r.exits++
	o.log("exit " + r.name)
}

// factories builds recorders and remembers every instance per state.
type factories map[gamefsm.State][]*recorder

func (f factories) of(id gamefsm.State) gamefsm.Factory[*owner] {
	return func() gamefsm.Handler[*owner] {
		r := &recorder{name: string(id)}
		f[id] = append(f[id], r)
		return r
	}
}

func active(m *gamefsm.Machine[*owner]) *recorder {
	r, _ := m.Handler().(*recorder)
	return r
}

// changes collects state_changed notifications.
type changes []gamefsm.State

func (c *changes) hook(s gamefsm.State) { *c = append(*c, s) }

const frame = 16 * time.Millisecond
