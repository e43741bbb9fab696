package purefn

import (
	"errors"
	"fmt"

	"github.com/out-of-band/efftrack/effects"
	"github.com/out-of-band/efftrack/effects/kind"
)

// ErrInvalidContext reports that a call observed effect kinds outside the
// whitelist its wrapper declared.
var ErrInvalidContext = errors.New("effects outside permitted set")

// AuditedI1O1 lifts fn into a function audited on every call: a fresh
// context bounded to the permitted kinds is opened, fn runs inside it, and
// the verdict decides whether the result is returned or ErrInvalidContext.
// The given options are applied to every per-call context.
func AuditedI1O1[I1, O1 any](
	permitted kind.Kind,
	term kind.Termination,
	fn func(*effects.Context, I1) O1,
	opts ...effects.Option,
) func(I1) (O1, error) {
	return func(i1 I1) (O1, error) {
		c := effects.New(permitted, term, opts...)
		o1 := fn(c, i1)
		if err := verdict(c, permitted); err != nil {
			var zero O1
			return zero, err
		}
		return o1, nil
	}
}

// AuditedI2O1 is AuditedI1O1 for two inputs.
func AuditedI2O1[I1, I2, O1 any](
	permitted kind.Kind,
	term kind.Termination,
	fn func(*effects.Context, I1, I2) O1,
	opts ...effects.Option,
) func(I1, I2) (O1, error) {
	return func(i1 I1, i2 I2) (O1, error) {
		c := effects.New(permitted, term, opts...)
		o1 := fn(c, i1, i2)
		if err := verdict(c, permitted); err != nil {
			var zero O1
			return zero, err
		}
		return o1, nil
	}
}

// AuditedI1O2 is AuditedI1O1 for two outputs.
func AuditedI1O2[I1, O1, O2 any](
	permitted kind.Kind,
	term kind.Termination,
	fn func(*effects.Context, I1) (O1, O2),
	opts ...effects.Option,
) func(I1) (O1, O2, error) {
	return func(i1 I1) (O1, O2, error) {
		c := effects.New(permitted, term, opts...)
		o1, o2 := fn(c, i1)
		if err := verdict(c, permitted); err != nil {
			var zero1 O1
			var zero2 O2
			return zero1, zero2, err
		}
		return o1, o2, nil
	}
}

// AuditedI2O2 is AuditedI1O1 for two inputs and two outputs.
func AuditedI2O2[I1, I2, O1, O2 any](
	permitted kind.Kind,
	term kind.Termination,
	fn func(*effects.Context, I1, I2) (O1, O2),
	opts ...effects.Option,
) func(I1, I2) (O1, O2, error) {
	return func(i1 I1, i2 I2) (O1, O2, error) {
		c := effects.New(permitted, term, opts...)
		o1, o2 := fn(c, i1, i2)
		if err := verdict(c, permitted); err != nil {
			var zero1 O1
			var zero2 O2
			return zero1, zero2, err
		}
		return o1, o2, nil
	}
}

func verdict(c *effects.Context, permitted kind.Kind) error {
	if c.Valid() {
		return nil
	}
	return fmt.Errorf("%w: observed %v, permitted %v",
		ErrInvalidContext, c.Kind(), permitted)
}
