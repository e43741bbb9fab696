// Package purefn lifts ordinary functions into audited functions.
//
// An audited function is not just a wrapper that returns an error.
// Audited is a tool that *forces the developer to ask*:
//
//	→ "Is this function really pure?"
//	→ "Which effects am I actually willing to permit here?"
//
// That question is not about performance—it's about trust and meaning.
// Declaring a whitelist of effect kinds turns referential transparency from
// a comment into a fact that is checked on every single call.
//
// Each call to an audited function runs inside a fresh effects.Context
// bounded to the declared whitelist. The wrapped function admits the values
// it touches through that context; when the call finishes, the verdict is
// taken. A call whose observed effects stay inside the whitelist returns
// normally; any other call returns ErrInvalidContext wrapped with the
// observed and permitted masks.
//
// Features:
//   - AuditedI1O1 to AuditedI2O2: typed, generic wrappers for common arities.
//   - A fresh, independent tracking session per call.
//   - Context options (register, logger, journal) forwarded per wrapper.
//
// WARNING: auditing cannot see effects the wrapped function never admits or
// annotates. An unwrapped global read stays invisible; that is an
// under-reporting risk of the caller's discipline, not of the audit.
package purefn
