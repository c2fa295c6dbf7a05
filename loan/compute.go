/*
compute.go - The four schedule algorithms

PURPOSE:
  Turns a validated Params snapshot into a Schedule. Compute is a pure
  function: it reads nothing but its arguments, so concurrent calls with
  independent snapshots never interfere.

FAILURES:
  Parameters that pass Validate can still be beyond what the backend can
  represent: a rate truncated away by a small Scale, or a float result
  that is not finite. Compute then returns the backend's ValidationError
  and no records.

RUNNING TOTALS vs REPORTED VALUES:
  remaining and amortized are carried at full backend precision from one
  period to the next. Only the copy written into each Record goes through
  Arithmetic.Report.

ALGORITHMS (r = rate, n = periods, C = capital):
  Equal payment:
    installment  = C*r / (1 - (1+r)^-n)     (C/n when r == 0)
    interest     = remaining * r
    amortization = installment - interest

  Constant amortization:
    amortization = C / n
    interest     = remaining * r
    installment  = interest + amortization

  Interest only:
    amortization = 0 until the last period, then C
    installment  = interest + amortization

  Single repayment:
    interest capitalizes: remaining += interest every period
    installment = amortization = 0 until the last period, where both are
    the accrued balance (remaining + interest)
*/
package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Compute validates p and generates the schedule for method.
func Compute(method Method, p Params) (Schedule, error) {
	if err := p.Validate(); err != nil {
		return Schedule{}, err
	}

	a := p.Arithmetic()

	var records []Record
	switch method {
	case MethodEqualPayment:
		records = equalPayment(p, a)
	case MethodConstantAmortization:
		records = constantAmortization(p, a)
	case MethodInterestOnly:
		records = interestOnly(p, a)
	case MethodSingleRepayment:
		records = singleRepayment(p, a)
	default:
		return Schedule{}, unknownMethod(method)
	}
	if err := a.Err(); err != nil {
		return Schedule{}, err
	}

	return Schedule{Method: method, Params: p, Records: records}, nil
}

func unknownMethod(method Method) error {
	return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}

// =============================================================================
// ALGORITHMS
// =============================================================================

func equalPayment(p Params, a Arithmetic) []Record {
	one := decimal.NewFromInt(1)
	periods := decimal.NewFromInt(int64(p.Periods))

	var installment decimal.Decimal
	if p.Rate.IsZero() {
		installment = a.Div(p.Capital, periods)
	} else {
		discount := a.Sub(one, a.Pow(a.Add(one, p.Rate), -p.Periods))
		installment = a.Div(a.Mul(p.Capital, p.Rate), discount)
		if a.Err() != nil {
			return nil
		}
	}

	run := newRunning(a, p.Capital, p.Periods)
	for i := 1; i <= p.Periods; i++ {
		interest := a.Mul(run.remaining, p.Rate)
		amortization := a.Sub(installment, interest)
		run.repay(i, installment, interest, amortization)
	}
	return run.records
}

func constantAmortization(p Params, a Arithmetic) []Record {
	amortization := a.Div(p.Capital, decimal.NewFromInt(int64(p.Periods)))

	run := newRunning(a, p.Capital, p.Periods)
	for i := 1; i <= p.Periods; i++ {
		interest := a.Mul(run.remaining, p.Rate)
		installment := a.Add(interest, amortization)
		run.repay(i, installment, interest, amortization)
	}
	return run.records
}

func interestOnly(p Params, a Arithmetic) []Record {
	run := newRunning(a, p.Capital, p.Periods)
	for i := 1; i <= p.Periods; i++ {
		amortization := decimal.Zero
		if i == p.Periods {
			amortization = p.Capital
		}
		interest := a.Mul(run.remaining, p.Rate)
		installment := a.Add(interest, amortization)
		run.repay(i, installment, interest, amortization)
	}
	return run.records
}

func singleRepayment(p Params, a Arithmetic) []Record {
	run := newRunning(a, p.Capital, p.Periods)
	for i := 1; i <= p.Periods; i++ {
		amortization := decimal.Zero
		installment := decimal.Zero

		interest := a.Mul(run.remaining, p.Rate)
		if i == p.Periods {
			amortization = a.Add(run.remaining, interest)
			installment = amortization
		}

		run.remaining = a.Add(run.remaining, interest)
		run.amortized = a.Add(run.amortized, amortization)
		run.emit(i, installment, interest, amortization)
	}
	return run.records
}

// =============================================================================
// RUNNING TOTALS
// =============================================================================

type running struct {
	a         Arithmetic
	remaining decimal.Decimal
	amortized decimal.Decimal
	records   []Record
}

func newRunning(a Arithmetic, capital decimal.Decimal, periods int) *running {
	return &running{
		a:         a,
		remaining: capital,
		amortized: decimal.Zero,
		records:   make([]Record, 0, periods),
	}
}

// repay applies a principal repayment to the running totals and records
// the period.
func (r *running) repay(period int, installment, interest, amortization decimal.Decimal) {
	r.remaining = r.a.Sub(r.remaining, amortization)
	r.amortized = r.a.Add(r.amortized, amortization)
	r.emit(period, installment, interest, amortization)
}

func (r *running) emit(period int, installment, interest, amortization decimal.Decimal) {
	r.records = append(r.records, Record{
		Period:       period,
		Amount:       r.a.Report(installment),
		Interest:     r.a.Report(interest),
		Amortization: r.a.Report(amortization),
		Amortized:    r.a.Report(r.amortized),
		Remaining:    r.a.Report(r.remaining),
	})
}
