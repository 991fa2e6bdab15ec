package dex

import (
	"context"
	"errors"
	"sync"
)

// CycleState is the lifecycle of one pipeline run.
type CycleState int

const (
	Idle CycleState = iota
	InFlight
	Completed
	Cancelled
	Failed
)

func (s CycleState) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in-flight"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Cycle is one pipeline run started by a trigger. Only the newest cycle of
// its Cycles may commit results.
type Cycle struct {
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
	owner  *Cycles

	// guarded by owner.mu
	state CycleState
	err   error
}

func (c *Cycle) Seq() uint64 { return c.seq }

// Context is cancelled when the cycle is superseded or its parent context
// ends.
func (c *Cycle) Context() context.Context { return c.ctx }

func (c *Cycle) State() CycleState {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	return c.state
}

// Err returns the failure recorded by Fail.
func (c *Cycle) Err() error {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	return c.err
}

// Current reports whether c is the newest cycle and still in flight.
func (c *Cycle) Current() bool {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	return c.live()
}

func (c *Cycle) live() bool {
	return c.owner.cur == c && c.state == InFlight
}

// Commit runs fn while c is current and in flight. No newer cycle can begin
// while fn runs. It reports whether fn ran. fn must not call back into the
// Cycles or the Cycle.
func (c *Cycle) Commit(fn func()) bool {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	if !c.live() {
		return false
	}
	fn()
	return true
}

// Complete marks c Completed. It returns false if c was superseded or already
// finished, in which case the caller must drop its results.
func (c *Cycle) Complete() bool {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	if !c.live() {
		return false
	}
	c.state = Completed
	c.cancel()
	return true
}

// Fail marks c Failed. A cancellation error marks it Cancelled instead and
// Fail returns false, since cancellation is never a failure.
func (c *Cycle) Fail(err error) bool {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	if !c.live() {
		return false
	}
	c.cancel()
	if isCancellation(err) {
		c.state = Cancelled
		return false
	}
	c.state = Failed
	c.err = err
	return true
}

// Cancel marks c Cancelled and cancels its context.
func (c *Cycle) Cancel() {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	c.cancelLocked()
}

func (c *Cycle) cancelLocked() {
	if c.state == InFlight {
		c.state = Cancelled
	}
	c.cancel()
}

// Cycles hands out cycles with increasing sequence numbers. Beginning a cycle
// cancels the one in flight.
type Cycles struct {
	mu  sync.Mutex
	seq uint64
	cur *Cycle
}

func NewCycles() *Cycles { return &Cycles{} }

// Begin cancels the in-flight cycle, if any, and starts a new one whose
// context derives from ctx.
func (cs *Cycles) Begin(ctx context.Context) *Cycle {
	cctx, cancel := context.WithCancel(ctx)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.cur != nil {
		cs.cur.cancelLocked()
	}
	cs.seq++
	c := &Cycle{seq: cs.seq, ctx: cctx, cancel: cancel, owner: cs, state: InFlight}
	cs.cur = c
	return c
}

// Current returns the newest cycle, or nil before the first Begin.
func (cs *Cycles) Current() *Cycle {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.cur
}

// Seq returns the sequence number of the newest cycle.
func (cs *Cycles) Seq() uint64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.seq
}

// Close cancels the in-flight cycle.
func (cs *Cycles) Close() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.cur != nil {
		cs.cur.cancelLocked()
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Gate runs fn only if the owner of a batch of work is still allowed to
// publish results, and reports whether it did.
type Gate func(fn func()) bool

type gateKey struct{}

// WithGate attaches g to ctx. Enrichment store writes pass through it.
func WithGate(ctx context.Context, g Gate) context.Context {
	return context.WithValue(ctx, gateKey{}, g)
}

// gateFrom returns the gate on ctx, or one that only checks ctx is live.
func gateFrom(ctx context.Context) Gate {
	if g, ok := ctx.Value(gateKey{}).(Gate); ok && g != nil {
		return g
	}
	return func(fn func()) bool {
		if ctx.Err() != nil {
			return false
		}
		fn()
		return true
	}
}

// guardRenderer forwards to r only while its cycle is current.
type guardRenderer struct {
	r  Renderer
	cy *Cycle
}

// Guard wraps r so that renders, loading toggles and errors from a cycle that
// is no longer current are dropped.
func Guard(r Renderer, cy *Cycle) Renderer {
	return &guardRenderer{r: r, cy: cy}
}

func (g *guardRenderer) Render(v View) {
	g.cy.Commit(func() { g.r.Render(v) })
}

func (g *guardRenderer) SetLoading(on bool) {
	g.cy.Commit(func() { g.r.SetLoading(on) })
}

func (g *guardRenderer) SetError(msg string) {
	g.cy.Commit(func() { g.r.SetError(msg) })
}
