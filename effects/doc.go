// Package effects turns "this function is pure" from a comment into a
// checked runtime fact.
//
// A Context tracks one logical execution scope. It is constructed with the
// effect kinds the scope is permitted to have, and every value the scope
// reads or writes is handed to it through an admit operation, which returns
// a thin region handle wrapping the value. Constructing a region and
// reassigning through it are the only trigger points: each classifies the
// value (ownership, floating-point use) and merges the resulting effect
// bits into the context. At the end of the scope, Valid reports whether
// anything outside the permitted set was observed.
//
// # What is tracked
//
//   - kind.Write — the value is a non-null pointer, assumed to reference
//     owned heap memory
//   - kind.Reference — access to data the scope does not own, including any
//     floating-point use (which depends on the ambient rounding mode)
//   - kind.FPE — floating-point exceptions pending on the status register
//     when a floating-point-typed value is admitted
//   - kind.Nonterminating — seeded at construction from the termination
//     marker
//
// # What is not tracked
//
// Effects the runtime cannot see must be annotated by hand: call
// SetException wherever a panic, unignored signal, or process-terminating
// path exists, and SetVariationOS / SetVariationHardware wherever output
// depends on the environment. Forgetting an annotation under-reports; the
// classification heuristics only ever over-report.
//
// # Scoping
//
// One context per scope, per goroutine. Contexts are not copyable and not
// goroutine safe; regions must not outlive the context that issued them.
//
// Example:
//
//	func mutateCounter(counter *int) bool {
//	    c := effects.New(kind.Reference, kind.Terminating)
//	    n := effects.AdmitRef(c, counter)
//	    n.Set(n.Get() + 1)
//	    return c.Valid()
//	}
package effects
