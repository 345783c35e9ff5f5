package gamefsm

import (
	"maps"
	"time"

	"github.com/enetx/g"
)

// Context holds handler-local values. It is the only handler data saved by
// SaveData; its shape is up to the handler.
type Context = g.Map[g.String, any]

// BaseHandler implements every Handler hook as a no-op and stores the
// context and completion callback. Concrete states embed it:
//
//	type Walk struct{ gamefsm.BaseHandler[*Player] }
//
//	func (w *Walk) Update(dt time.Duration, p *Player) {
//		if p.Stopped() {
//			w.Complete("stop")
//		}
//	}
type BaseHandler[O any] struct {
	ctx  Context
	done CompleteFunc
}

func (*BaseHandler[O]) Init(O) {}
func (*BaseHandler[O]) Update(time.Duration, O) {}
func (*BaseHandler[O]) FixedUpdate(time.Duration, O) {}
func (*BaseHandler[O]) HandleInput(any, O) {}
func (*BaseHandler[O]) Exit(O) {}

// Bind installs the completion callback and allocates the context, so that
// readers such as SaveData never have to.
func (b *BaseHandler[O]) Bind(done CompleteFunc) {
	b.done = done

	if b.ctx == nil {
		b.ctx = make(Context)
	}
}

// Context returns the handler context, allocating it if the handler was
// never bound.
func (b *BaseHandler[O]) Context() Context {
	if b.ctx == nil {
		b.ctx = make(Context)
	}

	return b.ctx
}

// LoadContext replaces the context with a copy of ctx.
func (b *BaseHandler[O]) LoadContext(ctx Context) {
	if ctx == nil {
		b.ctx = make(Context)
		return
	}

	b.ctx = maps.Clone(ctx)
}

// Complete tells the owning machine that this state is finished. The optional
// key selects one of the state's Transitions. It is a no-op for a handler
// that was never entered.
func (b *BaseHandler[O]) Complete(key ...Event) {
	if b.done == nil {
		return
	}

	var k Event
	if len(key) > 0 {
		k = key[0]
	}

	b.done(k)
}
