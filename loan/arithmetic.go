/*
arithmetic.go - Numeric backends for schedule computation

PURPOSE:
  The schedule algorithms are written once against the Arithmetic
  interface. The backend decides how each operation is carried out and how
  a value is reported in a Record.

BACKENDS:
  Float:   IEEE-754 float64 arithmetic. Reported values are rounded half
           away from zero to Precision decimal places.
  Decimal: Arbitrary-precision decimal arithmetic. Every operation result
           is truncated to Scale decimal places. Reported values keep that
           scale and Precision is not applied.

Values cross the interface as decimal.Decimal in both cases. A float64
converted with decimal.NewFromFloat uses the shortest representation that
parses back to the same float64, so the Float backend loses nothing on the
way in or out.

FAILURES:
  Operations never panic. A division by zero, or a float result that is
  not finite, yields zero and records a ValidationError that Err reports
  for the rest of the computation. Each computation uses its own backend
  value from Params.Arithmetic.
*/
package loan

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Arithmetic is the operation set the schedule algorithms are built on.
type Arithmetic interface {
	Add(a, b decimal.Decimal) decimal.Decimal
	Sub(a, b decimal.Decimal) decimal.Decimal
	Mul(a, b decimal.Decimal) decimal.Decimal
	Div(a, b decimal.Decimal) decimal.Decimal
	Pow(base decimal.Decimal, exp int) decimal.Decimal

	// Report converts a running value into the value shown in a Record.
	Report(v decimal.Decimal) decimal.Decimal

	// Err returns the first failed operation, if any.
	Err() error
}

// =============================================================================
// FLOAT - Native float64 arithmetic
// =============================================================================

type Float struct {
	Precision int32

	err error
}

func (f *Float) Add(a, b decimal.Decimal) decimal.Decimal {
	return f.result(a.InexactFloat64() + b.InexactFloat64())
}

func (f *Float) Sub(a, b decimal.Decimal) decimal.Decimal {
	return f.result(a.InexactFloat64() - b.InexactFloat64())
}

func (f *Float) Mul(a, b decimal.Decimal) decimal.Decimal {
	return f.result(a.InexactFloat64() * b.InexactFloat64())
}

// Div fails on a zero divisor. In a schedule that only happens when the
// rate is too small to change 1+rate at float64 precision.
func (f *Float) Div(a, b decimal.Decimal) decimal.Decimal {
	divisor := b.InexactFloat64()
	if divisor == 0 {
		f.fail(&ValidationError{
			Field:   "interest",
			Message: "interest rate is too small for native arithmetic, use high precision mode",
			Err:     ErrInvalidParameter,
		})
		return decimal.Zero
	}
	return f.result(a.InexactFloat64() / divisor)
}

func (f *Float) Pow(base decimal.Decimal, exp int) decimal.Decimal {
	return f.result(math.Pow(base.InexactFloat64(), float64(exp)))
}

// Report rounds half away from zero, so 2.675 reports as 2.68 at two places.
func (f *Float) Report(v decimal.Decimal) decimal.Decimal {
	return v.Round(f.Precision)
}

func (f *Float) Err() error { return f.err }

func (f *Float) result(v float64) decimal.Decimal {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		f.fail(&ValidationError{
			Message: "parameters exceed the range of native arithmetic, use high precision mode",
			Err:     ErrInvalidParameter,
		})
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func (f *Float) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

// =============================================================================
// DECIMAL - Arbitrary-precision arithmetic at a fixed scale
// =============================================================================

type Decimal struct {
	Scale int32

	err error
}

func (d *Decimal) Add(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b).Truncate(d.Scale)
}

func (d *Decimal) Sub(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Truncate(d.Scale)
}

func (d *Decimal) Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(d.Scale)
}

// Div truncates toward zero at Scale places. A zero divisor means Scale
// truncated away everything the rate contributes.
func (d *Decimal) Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		if d.err == nil {
			d.err = &ValidationError{
				Field:   "scale",
				Message: fmt.Sprintf("scale %d is too small for the interest rate", d.Scale),
				Err:     ErrInvalidParameter,
			}
		}
		return decimal.Zero
	}
	q, _ := a.QuoRem(b, d.Scale)
	return q
}

// Pow raises base to an integer power. A negative exponent is computed as
// the reciprocal of the positive power.
func (d *Decimal) Pow(base decimal.Decimal, exp int) decimal.Decimal {
	n := exp
	if n < 0 {
		n = -n
	}

	result := decimal.NewFromInt(1)
	factor := base
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(factor)
		}
		n >>= 1
		if n > 0 {
			factor = factor.Mul(factor)
		}
	}

	if exp < 0 {
		return d.Div(decimal.NewFromInt(1), result)
	}
	return result.Truncate(d.Scale)
}

func (d *Decimal) Report(v decimal.Decimal) decimal.Decimal {
	return v.Truncate(d.Scale)
}

func (d *Decimal) Err() error { return d.err }
