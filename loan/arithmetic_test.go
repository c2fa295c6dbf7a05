package loan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFloat_ReportRoundsHalfAwayFromZero(t *testing.T) {
	f := Float{Precision: 2}

	tests := []struct {
		in, want string
	}{
		{"2.675", "2.68"},
		{"-2.675", "-2.68"},
		{"1.005", "1.01"},
		{"760.9729548069179", "760.97"},
		{"0.0000000000013642", "0"},
		{"-0.0000000000013642", "0"},
	}
	for _, tt := range tests {
		got := f.Report(d(tt.in))
		assert.Truef(t, got.Equal(d(tt.want)), "Report(%s) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestFloat_Operations(t *testing.T) {
	f := Float{Precision: 2}

	assert.Equal(t, 0.30000000000000004, f.Add(d("0.1"), d("0.2")).InexactFloat64())
	assert.Equal(t, 0.5, f.Sub(d("1"), d("0.5")).InexactFloat64())
	assert.Equal(t, 30.0, f.Mul(d("1000"), d("0.03")).InexactFloat64())
	assert.Equal(t, 250.0, f.Div(d("1000"), d("4")).InexactFloat64())
	assert.InDelta(t, 0.888487047, f.Pow(d("1.03"), -4).InexactFloat64(), 1e-9)
}

func TestDecimal_TruncatesEveryOperation(t *testing.T) {
	a := Decimal{Scale: 4}

	assert.Equal(t, "0.3333", a.Div(d("1"), d("3")).String())
	assert.Equal(t, "0.6666", a.Div(d("2"), d("3")).String())
	assert.Equal(t, "-0.6666", a.Div(d("-2"), d("3")).String())
	assert.Equal(t, "1.2345", a.Mul(d("1.23456"), d("1")).String())
	assert.Equal(t, "0.3", a.Add(d("0.1"), d("0.2")).String())
	assert.Equal(t, "0.0001", a.Sub(d("0.00019"), d("0.00009")).String())
}

func TestDecimal_Pow(t *testing.T) {
	a := Decimal{Scale: 10}

	assert.Equal(t, "1.12550881", a.Pow(d("1.03"), 4).String())
	assert.Equal(t, "0.8884870479", a.Pow(d("1.03"), -4).String())
	assert.Equal(t, "1", a.Pow(d("1.03"), 0).String())
	assert.Equal(t, "2.5", a.Pow(d("2.5"), 1).String())
}

func TestParams_ArithmeticSelection(t *testing.T) {
	p := NewParams(1000, 0.03, 4)
	assert.Equal(t, &Float{Precision: 2}, p.Arithmetic())

	p.HighPrecision = true
	p.Scale = 8
	assert.Equal(t, &Decimal{Scale: 8}, p.Arithmetic())
}

func TestDecimal_DivByZeroRecordsError(t *testing.T) {
	a := Decimal{Scale: 1}

	assert.True(t, a.Div(d("30"), d("0")).IsZero())
	assert.True(t, a.Div(d("1"), d("0")).IsZero())

	err := a.Err()
	var verr *ValidationError
	if assert.ErrorAs(t, err, &verr) {
		assert.Equal(t, "scale", verr.Field)
	}
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestFloat_NonFiniteRecordsError(t *testing.T) {
	f := Float{Precision: 2}
	assert.NoError(t, f.Err())

	assert.True(t, f.Div(d("30"), d("0")).IsZero())
	assert.ErrorIs(t, f.Err(), ErrInvalidParameter)

	g := Float{Precision: 2}
	assert.True(t, g.Mul(d("1e300"), d("1e300")).IsZero())
	assert.ErrorIs(t, g.Err(), ErrInvalidParameter)
}
