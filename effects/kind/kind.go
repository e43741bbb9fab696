// Package kind defines the closed vocabulary of runtime effect kinds.
//
// A Kind is a 16-bit mask: the low byte holds the primary effect kinds and
// the high byte holds the floating-point exception sub-kinds. The two halves
// never overlap, and the sub-kind bits carry no meaning unless FPE is also
// set in the low byte.
package kind

import "strings"

// Kind is one bit (or a union of bits) in the effect vocabulary.
// Kinds combine with bitwise OR and are never removed once observed,
// except through an explicit context reset.
type Kind uint16

// Primary effect kinds.
const (
	// Pure marks mathematical purity: no effect observed.
	Pure Kind = 0x0000
	// Nonterminating marks execution that may not terminate.
	Nonterminating Kind = 0x0001
	// Exception marks a throw/panic, an unignored signal, or a call path
	// that terminates the process (exit, abort).
	Exception Kind = 0x0002
	// Reference marks a read of global data the scope does not own.
	Reference Kind = 0x0004
	// Write marks a write to heap data the scope owns.
	Write Kind = 0x0008
	// FPE marks one or more floating-point exceptions; the specific
	// exceptions are recorded in the FPE sub-kind bits.
	FPE Kind = 0x0010
	// VariationOS marks output that varies with the operating system,
	// e.g. a filepath built with '/' on UNIX and '\' on Windows.
	VariationOS Kind = 0x0020
	// VariationHardware marks output that varies with the hardware,
	// e.g. a result bounded by a word size that differs across
	// 32-bit and 64-bit architectures.
	VariationHardware Kind = 0x0040

	// Bitmask covers every primary kind.
	Bitmask Kind = 0x00ff
)

// Floating-point exception sub-kinds, meaningful only alongside FPE.
const (
	FPENone         Kind = 0x0000
	FPEInvalid      Kind = 0x0100
	FPEDivideByZero Kind = 0x0400
	FPEOverflow     Kind = 0x0800
	FPEUnderflow    Kind = 0x1000
	FPEInexact      Kind = 0x2000

	// FPEBitmask covers every floating-point exception sub-kind.
	FPEBitmask Kind = 0xff00
)

// Has reports whether any of the given bits are set in k.
func (k Kind) Has(bits Kind) bool {
	return k&bits != 0
}

// Termination declares, at context construction, whether the tracked scope
// is guaranteed to finish in a finite amount of time.
type Termination int

const (
	// Terminating means execution always terminates: no timeout is set to
	// infinity and no infinite loop is present.
	Terminating Termination = iota
	// Diverging means it is possible for execution to not terminate.
	Diverging
)

func (t Termination) String() string {
	if t == Diverging {
		return "diverging"
	}
	return "terminating"
}

var primaryNames = []struct {
	bit  Kind
	name string
}{
	{Nonterminating, "nonterminating"},
	{Exception, "exception"},
	{Reference, "reference"},
	{Write, "write"},
	{VariationOS, "variation_os"},
	{VariationHardware, "variation_hardware"},
}

var fpeNames = []struct {
	bit  Kind
	name string
}{
	{FPEInvalid, "invalid"},
	{FPEDivideByZero, "divide_by_zero"},
	{FPEOverflow, "overflow"},
	{FPEUnderflow, "underflow"},
	{FPEInexact, "inexact"},
}

// String renders a mask for logs and failure messages,
// e.g. "reference|write|fpe(invalid|inexact)".
func (k Kind) String() string {
	if k == Pure {
		return "pure"
	}
	parts := make([]string, 0, len(primaryNames)+1)
	for _, pn := range primaryNames {
		if k.Has(pn.bit) {
			parts = append(parts, pn.name)
		}
	}
	if k.Has(FPE) {
		subs := make([]string, 0, len(fpeNames))
		for _, fn := range fpeNames {
			if k.Has(fn.bit) {
				subs = append(subs, fn.name)
			}
		}
		if len(subs) == 0 {
			parts = append(parts, "fpe")
		} else {
			parts = append(parts, "fpe("+strings.Join(subs, "|")+")")
		}
	}
	return strings.Join(parts, "|")
}
