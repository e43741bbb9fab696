package effects

import (
	"reflect"

	"github.com/out-of-band/efftrack/effects/internal/typeinfo"
	"github.com/out-of-band/efftrack/effects/kind"
)

// The region family wraps one value each and feeds classification results
// back into the owning context. Constructing a region and reassigning
// through it are the only trigger points; reading never reclassifies.
//
// The shape is a static choice made at the call site:
//
//	Admit      — the expression produces a new value the region will own
//	AdmitConst — the value is immutable, externally supplied data
//	AdmitRef   — the value is mutable storage the scope does not own
//
// Classification is total. A value is classified kind.Write iff it is a
// non-null pointer; see typeinfo.IsOwnedPointer for the over-reporting this
// heuristic accepts. A floating-point-typed admission additionally consults
// and clears the context's status register.

// Region is the owned-value shape: it holds the value itself and owns it
// for its lifetime, until Move transfers it out.
type Region[T any] struct {
	ctx   *Context
	value T
	moved bool
}

// Admit brings a newly produced value under tracking and returns the
// owned-value region wrapping it.
func Admit[T any](c *Context, v T) *Region[T] {
	c.observe(classifyValue(v), isFloat[T](), ShapeValue, typeName[T]())
	return &Region[T]{ctx: c, value: v}
}

// Get copies the wrapped value out. After Move it returns the zero value.
func (r *Region[T]) Get() T {
	return r.value
}

// Move transfers the wrapped value out, emptying the region. Ownership
// leaves a region at most once: a second Move panics.
func (r *Region[T]) Move() T {
	if r.moved {
		panic("effects: value already moved out of region")
	}
	r.moved = true
	v := r.value
	var zero T
	r.value = zero
	return v
}

// Set reassigns the wrapped value. The new value is classified exactly as
// at construction and the result is merged; previously observed bits are
// never cleared. Set after Move refills the region.
func (r *Region[T]) Set(v T) {
	r.value = v
	r.moved = false
	r.ctx.observe(classifyValue(v), isFloat[T](), ShapeValue, typeName[T]())
}

// ConstRegion is the immutable-reference shape: a non-owning, read-only
// view of externally supplied data. The referenced storage's lifetime is
// the caller's responsibility.
type ConstRegion[T any] struct {
	ctx *Context
	ptr *T
}

// AdmitConst brings an immutable value under tracking. p must be non-nil.
func AdmitConst[T any](c *Context, p *T) *ConstRegion[T] {
	delta := kind.Pure
	if typeinfo.IsOwnedPointer(*p) {
		delta |= kind.Write
	}
	c.observe(delta, isFloat[T](), ShapeConstant, typeName[T]())
	return &ConstRegion[T]{ctx: c, ptr: p}
}

// Get copies the referenced value out.
func (r *ConstRegion[T]) Get() T {
	return *r.ptr
}

// RefRegion is the mutable-reference shape: a non-owning view of mutable
// storage assumed to be global or shared data the scope does not own.
// Admitting one always records kind.Reference.
type RefRegion[T any] struct {
	ctx *Context
	ptr *T
}

// AdmitRef brings externally owned mutable storage under tracking.
// p must be non-nil.
func AdmitRef[T any](c *Context, p *T) *RefRegion[T] {
	delta := kind.Reference
	if typeinfo.IsOwnedPointer(*p) {
		delta |= kind.Write
	}
	c.observe(delta, isFloat[T](), ShapeReference, typeName[T]())
	return &RefRegion[T]{ctx: c, ptr: p}
}

// Get copies the live current value of the referenced storage.
func (r *RefRegion[T]) Get() T {
	return *r.ptr
}

// Set writes through to the referenced storage and reclassifies the new
// value as a reference admission.
func (r *RefRegion[T]) Set(v T) {
	*r.ptr = v
	delta := kind.Reference
	if typeinfo.IsOwnedPointer(v) {
		delta |= kind.Write
	}
	r.ctx.observe(delta, isFloat[T](), ShapeReference, typeName[T]())
}

// classifyValue applies the owned-value rules: write for a non-null
// pointer, reference for floating-point use (floating point is treated as
// depending on the ambient rounding mode, a global the scope does not own).
func classifyValue[T any](v T) kind.Kind {
	delta := kind.Pure
	if typeinfo.IsOwnedPointer(v) {
		delta |= kind.Write
	}
	if isFloat[T]() {
		delta |= kind.Reference
	}
	return delta
}

func isFloat[T any]() bool {
	return typeinfo.IsFloatingPoint(reflect.TypeOf((*T)(nil)).Elem())
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
