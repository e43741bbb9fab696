package effects

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/out-of-band/efftrack/effects/fpstatus"
	"github.com/out-of-band/efftrack/effects/kind"
)

// noCopy triggers `go vet -copylocks` when a Context is copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Context accumulates the effect kinds observed in one logical execution
// scope and arbitrates whether they stay inside a permitted set declared at
// construction.
//
// IMPORTANT: a Context is intentionally NOT goroutine safe, and is not
// copyable. It is designed with the assumption that one context instance
// tracks one execution scope on one goroutine. The floating-point status
// register it reconciles against models thread-local state, and the
// read-and-clear protocol is not atomic: floating-point tracking on other
// goroutines must not interleave with a context's reconcile window. This is
// a conscious design choice to reinforce proper scoping and ownership.
//
// Regions issued by a context hold a back-reference to it and must not
// outlive it.
type Context struct {
	noCopy noCopy

	id        uuid.UUID
	forbidden kind.Kind
	observed  kind.Kind
	register  fpstatus.Register
	logger    *zap.Logger
	journal   *journal
}

// Option configures a Context at construction.
type Option func(*Context)

// WithRegister injects the floating-point status register the context
// reconciles against. Defaults to fpstatus.Ambient().
func WithRegister(r fpstatus.Register) Option {
	return func(c *Context) { c.register = r }
}

// WithLogger debug-logs every admission and verdict through the given
// logger. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) { c.logger = logger }
}

// WithJournal records an admission trail retrievable via Trail, for
// diagnosing a failed verdict.
func WithJournal() Option {
	return func(c *Context) { c.journal = new(journal) }
}

// New opens a tracking context. Observed effects start at kind.Pure, plus
// kind.Nonterminating when the termination marker is kind.Diverging. Any
// floating-point exceptions raised before this point are discarded: the
// context accounts only for exceptions raised during its own lifetime.
func New(permitted kind.Kind, term kind.Termination, opts ...Option) *Context {
	c := &Context{
		id:        uuid.New(),
		forbidden: ^permitted & kind.Bitmask,
		observed:  kind.Pure,
		register:  fpstatus.Ambient(),
		logger:    zap.NewNop(),
	}
	if term == kind.Diverging {
		c.observed |= kind.Nonterminating
	}
	for _, opt := range opts {
		opt(c)
	}
	c.register.Clear()
	c.logger.Debug("effect context opened",
		zap.String("contextId", c.id.String()),
		zap.Stringer("permitted", permitted),
		zap.Stringer("termination", term))
	return c
}

// ID returns the unique identity of this tracking session.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// SetException records that an exception occurred. A panic, an unignored
// signal, or a call path that terminates the process (os.Exit, abort) cannot
// be detected by the context itself; call this wherever such a path exists.
func (c *Context) SetException() {
	c.observed |= kind.Exception
}

// SetVariationOS records that execution varies with the operating system,
// preventing the functionality from being mathematically pure. A filepath
// function returning '/'-separated paths on UNIX and '\'-separated paths on
// Windows is an example.
func (c *Context) SetVariationOS() {
	c.observed |= kind.VariationOS
}

// SetVariationHardware records that execution varies with the hardware.
// A return value bounded by a word size that differs between 32-bit and
// 64-bit architectures is an example.
func (c *Context) SetVariationHardware() {
	c.observed |= kind.VariationHardware
}

// Clear resets the observed mask to kind.Pure and clears the status
// register, beginning a fresh tracking segment in the same scope. The
// admission trail, if any, is kept.
func (c *Context) Clear() {
	c.observed = kind.Pure
	c.register.Clear()
	c.logger.Debug("effect context cleared",
		zap.String("contextId", c.id.String()))
}

// Valid reconciles any pending floating-point status, then reports whether
// every observed effect kind is inside the permitted set. This is the
// verdict callers should assert on.
func (c *Context) Valid() bool {
	c.reconcile()
	ok := c.forbidden&c.observed == 0
	c.logger.Debug("effect context verdict",
		zap.String("contextId", c.id.String()),
		zap.Stringer("observed", c.observed),
		zap.Bool("valid", ok))
	return ok
}

// Kind returns the raw observed mask without forcing reconciliation.
func (c *Context) Kind() kind.Kind {
	return c.observed
}

// IsPure reports whether no effect at all has been observed.
func (c *Context) IsPure() bool {
	c.reconcile()
	return c.observed == kind.Pure
}

// HasNonterminating reports whether execution may not terminate.
func (c *Context) HasNonterminating() bool {
	c.reconcile()
	return c.observed.Has(kind.Nonterminating)
}

// HasException reports whether an exception effect was recorded.
func (c *Context) HasException() bool {
	c.reconcile()
	return c.observed.Has(kind.Exception)
}

// HasReference reports whether a reference effect was observed.
func (c *Context) HasReference() bool {
	c.reconcile()
	return c.observed.Has(kind.Reference)
}

// HasWrite reports whether a write effect was observed.
func (c *Context) HasWrite() bool {
	c.reconcile()
	return c.observed.Has(kind.Write)
}

// HasFPE reports whether a floating-point exception was observed.
func (c *Context) HasFPE() bool {
	c.reconcile()
	return c.observed.Has(kind.FPE)
}

// FPEKind returns the observed floating-point exception sub-kinds.
func (c *Context) FPEKind() kind.Kind {
	c.reconcile()
	return c.observed & kind.FPEBitmask
}

// HasVariationOS reports whether an operating-system variation was recorded.
func (c *Context) HasVariationOS() bool {
	c.reconcile()
	return c.observed.Has(kind.VariationOS)
}

// HasVariationHardware reports whether a hardware variation was recorded.
func (c *Context) HasVariationHardware() bool {
	c.reconcile()
	return c.observed.Has(kind.VariationHardware)
}

// merge folds delta into the observed mask. When the classified value is
// floating-point typed, pending register flags are folded in first and the
// register is cleared, so each event reports only exceptions raised since
// the last clear. Returns the full delta actually merged.
func (c *Context) merge(delta kind.Kind, floatingPoint bool) kind.Kind {
	if floatingPoint {
		if raised := c.register.Raised(); raised != 0 {
			delta |= raised.Kind()
			c.register.Clear()
		}
	}
	c.observed |= delta
	return delta
}

// reconcile folds pending floating-point status into the observed mask, so
// that effects from the most recently touched value are accounted for even
// if the caller never re-touches a region.
func (c *Context) reconcile() {
	c.merge(kind.Pure, true)
}

// observe is the classification sink for region construction and
// reassignment.
func (c *Context) observe(delta kind.Kind, floatingPoint bool, shape Shape, typ string) {
	merged := c.merge(delta, floatingPoint)
	if c.journal != nil {
		c.journal.record(shape, typ, merged, callSite(3))
	}
	if ce := c.logger.Check(zap.DebugLevel, "region classified"); ce != nil {
		ce.Write(
			zap.String("contextId", c.id.String()),
			zap.String("shape", string(shape)),
			zap.String("type", typ),
			zap.Stringer("delta", merged),
			zap.Stringer("observed", c.observed),
		)
	}
}
