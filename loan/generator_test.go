package loan_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loan-schedule/loan"
)

func newExampleGenerator() *loan.Generator {
	g := loan.NewGenerator()
	g.SetCapital(1000)
	g.SetInterest(0.03)
	g.SetPeriods(4)
	return g
}

type generateFunc func(g *loan.Generator) (loan.Schedule, error)

func generators() map[string]generateFunc {
	return map[string]generateFunc{
		"equal payment":         (*loan.Generator).GenerateEqualPayment,
		"constant amortization": (*loan.Generator).GenerateConstantAmortization,
		"interest only":         (*loan.Generator).GenerateInterestOnly,
		"single repayment":      (*loan.Generator).GenerateSingleRepayment,
	}
}

func TestGenerator_Defaults(t *testing.T) {
	p, err := newExampleGenerator().Params()
	require.NoError(t, err)

	assert.Equal(t, loan.DefaultPrecision, p.Precision)
	assert.Equal(t, loan.DefaultScale, p.Scale)
	assert.False(t, p.HighPrecision)
	assert.True(t, p.Capital.Equal(dec("1000")))
	assert.True(t, p.Rate.Equal(dec("0.03")))
	assert.Equal(t, 4, p.Periods)
}

func TestGenerator_MissingParameters(t *testing.T) {
	cases := map[string]func(g *loan.Generator){
		"nothing set": func(g *loan.Generator) {},
		"no capital": func(g *loan.Generator) {
			g.SetInterest(0.03)
			g.SetPeriods(4)
		},
		"no interest": func(g *loan.Generator) {
			g.SetCapital(1000)
			g.SetPeriods(4)
		},
		"no periods": func(g *loan.Generator) {
			g.SetCapital(1000)
			g.SetInterest(0.03)
		},
	}

	for name, setup := range cases {
		for method, generate := range generators() {
			t.Run(name+"/"+method, func(t *testing.T) {
				g := loan.NewGenerator()
				setup(g)

				_, err := generate(g)
				require.ErrorIs(t, err, loan.ErrMissingParameters)
				assert.Equal(t, "Missing parameters", err.Error())
				assert.True(t, loan.IsValidation(err))
			})
		}
	}
}

func TestGenerator_ZeroPeriods(t *testing.T) {
	for method, generate := range generators() {
		t.Run(method, func(t *testing.T) {
			g := newExampleGenerator()
			g.SetPeriods(0)

			_, err := generate(g)
			require.ErrorIs(t, err, loan.ErrZeroPeriods)

			var verr *loan.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "periods", verr.Field)
			assert.Equal(t, "Periods can't be 0", verr.Message)
		})
	}
}

func TestGenerator_InvalidParameters(t *testing.T) {
	cases := []struct {
		name  string
		setup func(g *loan.Generator)
		field string
	}{
		{"zero capital", func(g *loan.Generator) { g.SetCapital(0) }, "capital"},
		{"negative capital", func(g *loan.Generator) { g.SetCapital(-10) }, "capital"},
		{"negative periods", func(g *loan.Generator) { g.SetPeriods(-3) }, "periods"},
		{"rate at -100%", func(g *loan.Generator) { g.SetInterest(-1) }, "interest"},
		{"negative precision", func(g *loan.Generator) { g.SetPrecision(-1) }, "precision"},
		{"negative scale", func(g *loan.Generator) {
			g.SetHighPrecisionMode(true)
			g.SetScale(-2)
		}, "scale"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newExampleGenerator()
			tc.setup(g)

			_, err := g.GenerateEqualPayment()
			require.ErrorIs(t, err, loan.ErrInvalidParameter)

			var verr *loan.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestGenerator_ZeroInterestIsAllowed(t *testing.T) {
	// GIVEN: A rate explicitly set to zero
	g := newExampleGenerator()
	g.SetInterest(0)

	// WHEN: Generating any schedule
	for method, generate := range generators() {
		s, err := generate(g)

		// THEN: It succeeds; zero is a rate, not a missing value
		require.NoError(t, err, method)
		assert.Equal(t, 4, s.Len(), method)
		assert.True(t, s.TotalInterest().IsZero(), method)
	}
}

func TestGenerator_Precision(t *testing.T) {
	g := newExampleGenerator()
	g.SetPrecision(4)

	s, err := g.GenerateEqualPayment()
	require.NoError(t, err)
	assert.True(t, s.Records[0].Amount.Equal(dec("269.0270")), "got %s", s.Records[0].Amount)

	g.SetPrecision(0)
	s, err = g.GenerateEqualPayment()
	require.NoError(t, err)
	assert.True(t, s.Records[0].Amount.Equal(dec("269")), "got %s", s.Records[0].Amount)
}

func TestGenerator_HighPrecisionIgnoresPrecision(t *testing.T) {
	g := newExampleGenerator()
	g.SetPrecision(0)
	g.SetHighPrecisionMode(true)
	g.SetScale(6)

	s, err := g.GenerateEqualPayment()
	require.NoError(t, err)

	assert.True(t, s.Params.HighPrecision)
	assert.Equal(t, "269.026929", s.Records[0].Amount.String())
}

func TestGenerator_CallsAreIndependent(t *testing.T) {
	// GIVEN: One generator used twice
	g := newExampleGenerator()

	first, err := g.GenerateEqualPayment()
	require.NoError(t, err)

	// WHEN: Generating again (another method in between)
	_, err = g.GenerateSingleRepayment()
	require.NoError(t, err)
	second, err := g.GenerateEqualPayment()
	require.NoError(t, err)

	// THEN: Nothing carried over
	require.Equal(t, first.Len(), second.Len())
	for i := range first.Records {
		assertRow(t, row{
			amount:       first.Records[i].Amount.String(),
			interest:     first.Records[i].Interest.String(),
			amortization: first.Records[i].Amortization.String(),
			amortized:    first.Records[i].Amortized.String(),
			remaining:    first.Records[i].Remaining.String(),
		}, second.Records[i])
	}
}

func TestGenerator_Generate(t *testing.T) {
	g := newExampleGenerator()

	s, err := g.Generate(loan.MethodConstantAmortization)
	require.NoError(t, err)
	assert.Equal(t, loan.MethodConstantAmortization, s.Method)

	_, err = g.Generate("balloon")
	require.ErrorIs(t, err, loan.ErrUnknownMethod)
}

func TestGenerator_ConcurrentGenerate(t *testing.T) {
	g := newExampleGenerator()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, m := range loan.Methods() {
				s, err := g.Generate(m)
				assert.NoError(t, err)
				assert.Equal(t, 4, s.Len())
			}
		}()
	}
	wg.Wait()
}
