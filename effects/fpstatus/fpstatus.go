// Package fpstatus models the floating-point exception status register as an
// injected capability instead of ambient hardware state.
//
// A Register exposes the raised-exception flags and a way to clear them.
// Contexts consult and clear the register whenever a floating-point-typed
// value is admitted, so each classification event reports only the
// exceptions raised since the last clear. The default implementation is a
// SoftRegister fed by the checked arithmetic in the softfp subpackage; tests
// may inject their own Register to script exception scenarios.
package fpstatus

import (
	"strings"

	"github.com/out-of-band/efftrack/effects/kind"
)

// Flags is a bitset of currently raised floating-point exceptions.
type Flags uint8

const (
	// Invalid is raised by an invalid operation, e.g. 0/0 or sqrt(-1).
	Invalid Flags = 1 << iota
	// DivideByZero is raised by dividing a finite nonzero value by zero.
	DivideByZero
	// Overflow is raised when a finite result rounds to infinity.
	Overflow
	// Underflow is raised when a tiny inexact result loses precision.
	Underflow
	// Inexact is raised when a result had to be rounded.
	Inexact
)

// All is every flag a Register can raise.
const All = Invalid | DivideByZero | Overflow | Underflow | Inexact

var flagNames = []struct {
	flag Flags
	name string
}{
	{Invalid, "invalid"},
	{DivideByZero, "divide_by_zero"},
	{Overflow, "overflow"},
	{Underflow, "underflow"},
	{Inexact, "inexact"},
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	parts := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Kind translates raised flags into effect kind bits: the FPE primary kind
// plus one sub-kind bit per raised flag. Zero flags translate to Pure.
func (f Flags) Kind() kind.Kind {
	if f == 0 {
		return kind.Pure
	}
	k := kind.FPE
	if f&Invalid != 0 {
		k |= kind.FPEInvalid
	}
	if f&DivideByZero != 0 {
		k |= kind.FPEDivideByZero
	}
	if f&Overflow != 0 {
		k |= kind.FPEOverflow
	}
	if f&Underflow != 0 {
		k |= kind.FPEUnderflow
	}
	if f&Inexact != 0 {
		k |= kind.FPEInexact
	}
	return k
}

// Register is the injected floating-point status capability:
// read the currently raised exception flags, and clear them.
type Register interface {
	Raised() Flags
	Clear()
}

// Raiser is the producer side of a register, implemented by environments
// that detect exceptions (softfp, fakes in tests).
type Raiser interface {
	Raise(Flags)
}

// SoftRegister is the default software status register.
//
// IMPORTANT: a SoftRegister is intentionally NOT goroutine safe. It models
// the thread-local hardware register of a floating-point environment, and
// the read-and-clear protocol a context runs against it is not atomic.
// Share one register per goroutine-bound tracking scope, never across
// goroutines.
type SoftRegister struct {
	flags Flags
}

var _ Register = (*SoftRegister)(nil)
var _ Raiser = (*SoftRegister)(nil)

// Raise adds flags to the raised set.
func (r *SoftRegister) Raise(f Flags) {
	r.flags |= f
}

// Raised returns the currently raised flags without clearing them.
func (r *SoftRegister) Raised() Flags {
	return r.flags
}

// Clear discards all raised flags.
func (r *SoftRegister) Clear() {
	r.flags = 0
}

var ambient = new(SoftRegister)

// Ambient returns the process-default SoftRegister. Contexts constructed
// without an explicit register reconcile against it, and the plain softfp
// arithmetic raises into it.
func Ambient() *SoftRegister {
	return ambient
}
