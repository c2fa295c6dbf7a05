/*
Package loan computes amortization schedules for fixed-rate loans.

PURPOSE:
  Given a principal (capital), a per-period interest rate and a number of
  periods, produce one Record per period describing what is paid, how it
  splits between interest and principal, and how much is still owed.

KEY CONCEPTS IN THIS FILE (types.go):
  - Method: The repayment method (equal payment, constant amortization,
    interest-only, single repayment)
  - Params: An immutable snapshot of loan parameters
  - Record: One period of a schedule
  - Schedule: The ordered records plus the parameters that produced them

DESIGN PRINCIPLES:
  1. Immutability: Records are values; generation never mutates its inputs
  2. Precision: Reported values are decimal.Decimal, whatever the backend
  3. Snapshots: Every generation runs against a validated Params copy

USAGE:
  g := loan.NewGenerator()
  g.SetCapital(1000)
  g.SetInterest(0.03)
  g.SetPeriods(4)

  schedule, err := g.GenerateEqualPayment()

SEE ALSO:
  - generator.go: Setter-based generator and validation
  - compute.go: The four schedule algorithms
  - arithmetic.go: Float and decimal arithmetic backends
*/
package loan

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// METHOD - Repayment method
// =============================================================================

type Method string

const (
	MethodEqualPayment         Method = "equal_payment"         // Same installment every period (annuity)
	MethodConstantAmortization Method = "constant_amortization" // Same principal every period
	MethodInterestOnly         Method = "interest_only"         // Interest each period, capital at the end
	MethodSingleRepayment      Method = "single_repayment"      // Interest capitalizes, everything paid at the end
)

// Methods returns every supported method in display order.
func Methods() []Method {
	return []Method{
		MethodEqualPayment,
		MethodConstantAmortization,
		MethodInterestOnly,
		MethodSingleRepayment,
	}
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	for _, known := range Methods() {
		if m == known {
			return true
		}
	}
	return false
}

// =============================================================================
// PARAMS - Loan parameters snapshot
// =============================================================================

const (
	DefaultPrecision int32 = 2
	DefaultScale     int32 = 10
)

// Params is the full input of a schedule computation.
//
// Precision applies to reported values in native float mode. In high
// precision mode every operation is truncated to Scale decimal places and
// Precision is not used.
type Params struct {
	Capital       decimal.Decimal `json:"capital"`
	Rate          decimal.Decimal `json:"rate"`
	Periods       int             `json:"periods"`
	Precision     int32           `json:"precision"`
	HighPrecision bool            `json:"high_precision"`
	Scale         int32           `json:"scale"`
}

// NewParams builds a snapshot with the default precision and scale.
func NewParams(capital, rate float64, periods int) Params {
	return Params{
		Capital:   decimal.NewFromFloat(capital),
		Rate:      decimal.NewFromFloat(rate),
		Periods:   periods,
		Precision: DefaultPrecision,
		Scale:     DefaultScale,
	}
}

// Validate checks the snapshot before any computation starts.
func (p Params) Validate() error {
	if p.Periods == 0 {
		return &ValidationError{Field: "periods", Message: "Periods can't be 0", Err: ErrZeroPeriods}
	}
	if p.Periods < 0 {
		return invalid("periods", "periods must be positive")
	}
	if !p.Capital.IsPositive() {
		return invalid("capital", "capital must be positive")
	}
	if p.Rate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("interest", "interest rate must be greater than -1")
	}
	if p.Precision < 0 {
		return invalid("precision", "precision can't be negative")
	}
	if p.HighPrecision && p.Scale < 0 {
		return invalid("scale", "scale can't be negative")
	}
	return nil
}

// Arithmetic returns a fresh backend selected by the snapshot.
func (p Params) Arithmetic() Arithmetic {
	if p.HighPrecision {
		return &Decimal{Scale: p.Scale}
	}
	return &Float{Precision: p.Precision}
}

// =============================================================================
// RECORD - One period of a schedule
// =============================================================================

// Record is one row of a schedule. Values are already rounded for display;
// the running totals used to compute the next row are kept separately.
type Record struct {
	Period       int             `json:"period"`
	Amount       decimal.Decimal `json:"amount"`       // Total due this period
	Interest     decimal.Decimal `json:"interest"`     // Interest portion
	Amortization decimal.Decimal `json:"amortization"` // Principal portion
	Amortized    decimal.Decimal `json:"amortized"`    // Principal repaid so far
	Remaining    decimal.Decimal `json:"remaining"`    // Balance after this period
}

// =============================================================================
// SCHEDULE - Ordered records
// =============================================================================

type Schedule struct {
	Method  Method   `json:"method"`
	Params  Params   `json:"params"`
	Records []Record `json:"records"`
}

// Len returns the number of periods in the schedule.
func (s Schedule) Len() int { return len(s.Records) }

// Last returns the final record. ok is false for an empty schedule.
func (s Schedule) Last() (Record, bool) {
	if len(s.Records) == 0 {
		return Record{}, false
	}
	return s.Records[len(s.Records)-1], true
}

// TotalPaid sums the reported installments.
func (s Schedule) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Records {
		total = total.Add(r.Amount)
	}
	return total
}

// TotalInterest sums the reported interest.
func (s Schedule) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Records {
		total = total.Add(r.Interest)
	}
	return total
}
