package effects_test

import (
	"math"
	"testing"

	"github.com/out-of-band/efftrack/effects"
	"github.com/out-of-band/efftrack/effects/fpstatus"
	"github.com/out-of-band/efftrack/effects/fpstatus/softfp"
	"github.com/out-of-band/efftrack/effects/kind"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRegister is an injected fake whose flags are set by the test,
// not by arithmetic.
type scriptedRegister struct {
	flags fpstatus.Flags
}

func (r *scriptedRegister) Raised() fpstatus.Flags { return r.flags }
func (r *scriptedRegister) Clear()                 { r.flags = 0 }

var globalCounter = 1

func TestIntegerReferences(t *testing.T) {
	// Scenario A: only reference effects permitted.
	c := effects.New(kind.Reference, kind.Terminating)

	counter := effects.AdmitRef(c, &globalCounter)
	assert.Equal(t, kind.Reference, c.Kind())
	assert.True(t, c.HasReference())

	counter.Set(counter.Get() + 1)
	assert.Equal(t, 2, globalCounter)
	assert.Equal(t, 2, counter.Get())
	assert.True(t, c.Valid())
	assert.Equal(t, kind.Reference, c.Kind())
	globalCounter = 1

	c.Clear()
	j := 2
	constant := effects.AdmitConst(c, &j)
	value := effects.Admit(c, 3)
	assert.Equal(t, 5, constant.Get()+value.Get())
	assert.True(t, c.IsPure())
	assert.True(t, c.Valid())
}

func TestFloatingPointExceptions(t *testing.T) {
	reg := new(fpstatus.SoftRegister)
	c := effects.New(kind.Reference|kind.FPE, kind.Terminating,
		effects.WithRegister(reg))

	// Scenario B: 0.0/0.0 raises the invalid operation.
	effects.Admit(c, softfp.DivOn(reg, 0.0, 0.0))
	assert.Equal(t, kind.Reference|kind.FPE|kind.FPEInvalid, c.Kind())
	assert.False(t, c.IsPure())
	assert.True(t, c.Valid())
	c.Clear()

	// Scenario C: 1.0/0.0 raises divide-by-zero.
	effects.Admit(c, softfp.DivOn(reg, 1.0, 0.0))
	assert.Equal(t, kind.Reference|kind.FPE|kind.FPEDivideByZero, c.Kind())
	assert.False(t, c.IsPure())
	assert.True(t, c.Valid())
	c.Clear()

	effects.Admit(c, softfp.MulOn(reg, math.MaxFloat64, 2.0))
	assert.Equal(t,
		kind.Reference|kind.FPE|kind.FPEOverflow|kind.FPEInexact,
		c.Kind())
	c.Clear()

	effects.Admit(c, softfp.DivOn(reg, 2.2250738585072014e-308, 3.0))
	assert.Equal(t,
		kind.Reference|kind.FPE|kind.FPEUnderflow|kind.FPEInexact,
		c.Kind())
	assert.True(t, c.Valid())
	c.Clear()

	effects.Admit(c, softfp.SqrtOn(reg, 2.0))
	assert.Equal(t,
		kind.Reference|kind.FPE|kind.FPEInexact,
		c.Kind())
	assert.False(t, c.IsPure())
	assert.True(t, c.Valid())
	assert.True(t, c.HasFPE())
	assert.Equal(t, kind.FPEInexact, c.FPEKind())
}

func TestFloatAdmissionAlwaysReferences(t *testing.T) {
	// Reference is recorded for floating-point use even when no exception
	// flag is pending.
	reg := new(fpstatus.SoftRegister)
	c := effects.New(kind.Reference, kind.Terminating,
		effects.WithRegister(reg))

	effects.Admit(c, 1.5) // exactly representable, no flags raised
	assert.Equal(t, kind.Reference, c.Kind())
	assert.True(t, c.Valid())
}

func TestPointerClassification(t *testing.T) {
	c := effects.New(kind.Reference|kind.Write|kind.FPE, kind.Terminating,
		effects.WithRegister(new(fpstatus.SoftRegister)))

	// Scenario D: a heap pointer is exactly a write effect.
	p := effects.Admit(c, new(int))
	*p.Get() = 1
	assert.Equal(t, kind.Write, c.Kind())
	assert.True(t, c.Valid())

	p.Set(nil)
	assert.Equal(t, kind.Write, c.Kind(), "reassignment never clears bits")
	c.Clear()
	assert.True(t, c.IsPure())

	// A null pointer denotes nothing referenced, hence pure.
	effects.Admit(c, (*int)(nil))
	assert.True(t, c.IsPure())
	assert.True(t, c.Valid())
	c.Clear()

	// A pointer to a float is a write effect and, the type being
	// floating point under the indirection, a reference effect too.
	effects.Admit(c, ptrTo(2.0))
	assert.Equal(t, kind.Reference|kind.Write, c.Kind())
	c.Clear()

	// The heuristic cannot tell stack addresses from heap addresses:
	// this over-reports a write, which is expected and accepted.
	onStack := 42
	effects.Admit(c, &onStack)
	assert.Equal(t, kind.Write, c.Kind())
	assert.True(t, c.Valid())
}

func TestAccumulationIsMonotonic(t *testing.T) {
	// Scenario E: sequential admissions OR their classifications.
	c := effects.New(kind.Bitmask, kind.Terminating)

	n := 7
	effects.AdmitRef(c, &n)
	assert.Equal(t, kind.Reference, c.Kind())

	effects.Admit(c, new(int))
	assert.Equal(t, kind.Reference|kind.Write, c.Kind())

	effects.Admit(c, 1) // pure admission cannot clear anything
	assert.Equal(t, kind.Reference|kind.Write, c.Kind())
	assert.True(t, c.Valid())
}

func TestValidityOverMaskCombinations(t *testing.T) {
	permittedMasks := []kind.Kind{
		kind.Pure,
		kind.Reference,
		kind.Write,
		kind.Reference | kind.Write,
		kind.Exception | kind.VariationOS,
		kind.Bitmask,
	}
	n := 3
	observe := func(c *effects.Context) kind.Kind {
		effects.AdmitRef(c, &n)    // reference
		effects.Admit(c, new(int)) // write
		c.SetException()
		return kind.Reference | kind.Write | kind.Exception
	}
	for _, permitted := range permittedMasks {
		c := effects.New(permitted, kind.Terminating)
		observed := observe(c)
		want := observed & ^permitted & kind.Bitmask
		assert.Equal(t, want == 0, c.Valid(),
			"permitted=%v observed=%v", permitted, observed)
	}
}

func TestClearAlwaysRestoresPurity(t *testing.T) {
	c := effects.New(kind.Pure, kind.Diverging)
	require.True(t, c.HasNonterminating())

	c.SetException()
	c.SetVariationOS()
	c.SetVariationHardware()
	effects.Admit(c, new(int))
	require.False(t, c.IsPure())

	c.Clear()
	assert.True(t, c.IsPure())
	assert.True(t, c.Valid())
}

func TestTerminationSeed(t *testing.T) {
	c := effects.New(kind.Pure, kind.Diverging)
	assert.True(t, c.HasNonterminating())
	assert.False(t, c.Valid())

	permissive := effects.New(kind.Nonterminating, kind.Diverging)
	assert.True(t, permissive.Valid())

	terminating := effects.New(kind.Pure, kind.Terminating)
	assert.False(t, terminating.HasNonterminating())
	assert.True(t, terminating.IsPure())
}

func TestManualSetters(t *testing.T) {
	c := effects.New(kind.Pure, kind.Terminating)

	c.SetException()
	assert.True(t, c.HasException())
	assert.False(t, c.Valid())

	c.SetVariationOS()
	assert.True(t, c.HasVariationOS())

	c.SetVariationHardware()
	assert.True(t, c.HasVariationHardware())

	assert.Equal(t,
		kind.Exception|kind.VariationOS|kind.VariationHardware,
		c.Kind())
}

func TestConstructionDiscardsStaleExceptions(t *testing.T) {
	reg := &scriptedRegister{flags: fpstatus.Invalid}
	c := effects.New(kind.Pure, kind.Terminating,
		effects.WithRegister(reg))

	// Exceptions raised before the context opened belong to nobody.
	assert.True(t, c.IsPure())
	assert.True(t, c.Valid())
}

func TestAccessorsReconcilePendingStatus(t *testing.T) {
	reg := new(scriptedRegister)
	c := effects.New(kind.Bitmask, kind.Terminating,
		effects.WithRegister(reg))

	reg.flags = fpstatus.DivideByZero

	// Kind is a raw read and must not reconcile.
	assert.Equal(t, kind.Pure, c.Kind())

	// Any query accessor folds the pending status in first.
	assert.True(t, c.HasFPE())
	assert.Equal(t, kind.FPE|kind.FPEDivideByZero, c.Kind())
	assert.Equal(t, fpstatus.Flags(0), reg.Raised(), "reconcile clears the register")
}

func TestValidReconcilesPendingStatus(t *testing.T) {
	reg := new(scriptedRegister)
	c := effects.New(kind.Reference, kind.Terminating,
		effects.WithRegister(reg))

	reg.flags = fpstatus.Inexact
	assert.False(t, c.Valid(), "pending FPE must fail a context that does not permit it")
	assert.Equal(t, kind.FPE|kind.FPEInexact, c.Kind())
}

func TestDebugLoggingDoesNotAffectTracking(t *testing.T) {
	c := effects.New(kind.Reference|kind.Write, kind.Terminating,
		effects.WithLogger(effects.NewDebugLogger()))

	effects.Admit(c, new(int))
	n := 1
	effects.AdmitRef(c, &n)

	assert.Equal(t, kind.Reference|kind.Write, c.Kind())
	assert.True(t, c.Valid())
}

func TestContextIdentity(t *testing.T) {
	a := effects.New(kind.Pure, kind.Terminating)
	b := effects.New(kind.Pure, kind.Terminating)
	assert.NotEqual(t, a.ID(), b.ID())
}

func ptrTo[T any](v T) *T { return &v }
