package transport

import (
	"sync"
)

// Handler executes remote operations for a Pipe connection. The remote
// security service boundary (or a test double) implements it.
type Handler interface {
	// Handle runs one operation synchronously and returns its reply.
	// Unrecognised operations return an ErrorReply carrying
	// *UnknownOpError.
	Handle(op Op, args [][]byte) Reply
}

// Pipe is an in-process Conn that drives a Handler on a private
// goroutine per call. It preserves the contract of a real IPC
// connection: completion callbacks fire exactly once, calls complete in
// no particular order, and invalidation resolves every pending call.
type Pipe struct {
	handler Handler

	mu        sync.Mutex
	dead      bool
	reason    error
	observers []func(error)
	pending   map[*pipeCall]struct{}
}

// Compile-time interface check.
var _ Conn = (*Pipe)(nil)

// NewPipe creates a live connection serving ops through handler.
func NewPipe(handler Handler) *Pipe {
	return &Pipe{
		handler: handler,
		pending: make(map[*pipeCall]struct{}),
	}
}

// pipeCall guards one completion callback so it fires at most once even
// when handler completion races invalidation.
type pipeCall struct {
	once sync.Once
	done func(Reply)
}

func (c *pipeCall) fire(r Reply) {
	c.once.Do(func() { c.done(r) })
}

// Send issues op on a new goroutine. done fires exactly once: with the
// handler's reply, or with the invalidation reason if the connection
// dies first.
func (p *Pipe) Send(op Op, args [][]byte, done func(Reply)) error {
	call := &pipeCall{done: done}

	p.mu.Lock()
	if p.dead {
		reason := p.reason
		p.mu.Unlock()
		return reason
	}
	p.pending[call] = struct{}{}
	p.mu.Unlock()

	go func() {
		reply := p.handler.Handle(op, args)

		p.mu.Lock()
		delete(p.pending, call)
		dead := p.dead
		reason := p.reason
		p.mu.Unlock()

		if dead {
			call.fire(ErrorReply(reason))
			return
		}
		call.fire(reply)
	}()
	return nil
}

// OnInvalidate registers f. On a dead connection f runs immediately.
func (p *Pipe) OnInvalidate(f func(reason error)) {
	p.mu.Lock()
	if p.dead {
		reason := p.reason
		p.mu.Unlock()
		f(reason)
		return
	}
	p.observers = append(p.observers, f)
	p.mu.Unlock()
}

// Invalidate kills the connection: pending calls resolve with reason,
// observers fire once, and all later Sends fail. Invalidating twice is
// a no-op.
func (p *Pipe) Invalidate(reason error) {
	if reason == nil {
		reason = ErrInvalidated
	}

	p.mu.Lock()
	if p.dead {
		p.mu.Unlock()
		return
	}
	p.dead = true
	p.reason = reason
	observers := p.observers
	p.observers = nil
	calls := make([]*pipeCall, 0, len(p.pending))
	for c := range p.pending {
		calls = append(calls, c)
	}
	p.pending = make(map[*pipeCall]struct{})
	p.mu.Unlock()

	for _, c := range calls {
		c.fire(ErrorReply(reason))
	}
	for _, f := range observers {
		f(reason)
	}
}

// Close invalidates the connection with ErrClosed.
func (p *Pipe) Close() error {
	p.Invalidate(ErrClosed)
	return nil
}
