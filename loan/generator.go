package loan

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Generator holds loan parameters set one at a time and produces schedules
// from them. Each Generate call validates and snapshots the current
// parameters, so no state carries over from one schedule to the next.
//
// A Generator is safe for concurrent use, but a caller that interleaves
// setters and generate calls from several goroutines must serialize the
// whole set-then-generate sequence itself, or call Compute with an explicit
// Params value.
type Generator struct {
	mu sync.RWMutex

	capital   decimal.Decimal
	rate      decimal.Decimal
	periods   int
	precision int32
	scale     int32
	high      bool

	// Track which required parameters were provided
	capitalSet bool
	rateSet    bool
	periodsSet bool
}

// NewGenerator returns a Generator with precision 2, scale 10 and native
// float arithmetic.
func NewGenerator() *Generator {
	return &Generator{
		precision: DefaultPrecision,
		scale:     DefaultScale,
	}
}

func (g *Generator) SetCapital(capital float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.capital = decimal.NewFromFloat(capital)
	g.capitalSet = true
}

// SetInterest sets the per-period rate. An annual rate of 3% paid monthly
// is 0.03/12.
func (g *Generator) SetInterest(rate float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rate = decimal.NewFromFloat(rate)
	g.rateSet = true
}

// SetPeriods sets the number of payments, e.g. 4*12 for four years paid monthly.
func (g *Generator) SetPeriods(periods int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.periods = periods
	g.periodsSet = true
}

// SetPrecision sets the decimal places of reported values. Not used in
// high precision mode.
func (g *Generator) SetPrecision(precision int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.precision = int32(precision)
}

func (g *Generator) SetHighPrecisionMode(enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.high = enabled
}

// SetScale sets the decimal places kept by every high precision operation.
func (g *Generator) SetScale(scale int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = int32(scale)
}

// Params returns a validated snapshot of the current parameters.
func (g *Generator) Params() (Params, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.capitalSet || !g.rateSet || !g.periodsSet {
		return Params{}, &ValidationError{Message: "Missing parameters", Err: ErrMissingParameters}
	}

	p := Params{
		Capital:       g.capital,
		Rate:          g.rate,
		Periods:       g.periods,
		Precision:     g.precision,
		HighPrecision: g.high,
		Scale:         g.scale,
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Generate produces the schedule for any supported method.
func (g *Generator) Generate(method Method) (Schedule, error) {
	if !method.Valid() {
		return Schedule{}, unknownMethod(method)
	}
	p, err := g.Params()
	if err != nil {
		return Schedule{}, err
	}
	return Compute(method, p)
}

// GenerateEqualPayment produces a schedule with the same installment every period.
func (g *Generator) GenerateEqualPayment() (Schedule, error) {
	return g.Generate(MethodEqualPayment)
}

// GenerateConstantAmortization produces a schedule repaying the same
// principal every period.
func (g *Generator) GenerateConstantAmortization() (Schedule, error) {
	return g.Generate(MethodConstantAmortization)
}

// GenerateInterestOnly produces a schedule paying only interest until the
// last period, which also repays the capital.
func (g *Generator) GenerateInterestOnly() (Schedule, error) {
	return g.Generate(MethodInterestOnly)
}

// GenerateSingleRepayment produces a bullet schedule: interest is added to
// the balance every period and the whole balance is paid at the end.
func (g *Generator) GenerateSingleRepayment() (Schedule, error) {
	return g.Generate(MethodSingleRepayment)
}
