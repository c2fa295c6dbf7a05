/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupled from the
  loan package types.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMBERS:
  Request amounts accept JSON numbers or strings ("1000.50"). Response
  amounts are always strings so no client parses them through a float.
  They carry a fixed number of decimal places: Precision in native mode,
  Scale in high precision mode.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/loan-schedule/loan"
)

// ScheduleRequest is the body of preview and create requests. Pointer
// fields distinguish "not sent" from zero.
type ScheduleRequest struct {
	Method        string           `json:"method"`
	Capital       *decimal.Decimal `json:"capital"`
	Interest      *decimal.Decimal `json:"interest"`
	Periods       *int             `json:"periods"`
	Precision     *int             `json:"precision,omitempty"`
	HighPrecision bool             `json:"high_precision"`
	Scale         *int             `json:"scale,omitempty"`
}

// ParamsDTO echoes the parameters a schedule was computed with.
type ParamsDTO struct {
	Capital       string `json:"capital"`
	Interest      string `json:"interest"`
	Periods       int    `json:"periods"`
	Precision     int32  `json:"precision"`
	HighPrecision bool   `json:"high_precision"`
	Scale         int32  `json:"scale"`
}

// RecordDTO is one period of a schedule.
type RecordDTO struct {
	Period       int    `json:"period"`
	Amount       string `json:"amount"`
	Interest     string `json:"interest"`
	Amortization string `json:"amortization"`
	Amortized    string `json:"amortized"`
	Remaining    string `json:"remaining"`
}

// ScheduleDTO represents a computed or saved schedule.
type ScheduleDTO struct {
	ID            string      `json:"id,omitempty"`
	Method        string      `json:"method"`
	Params        ParamsDTO   `json:"params"`
	Records       []RecordDTO `json:"records"`
	TotalPaid     string      `json:"total_paid"`
	TotalInterest string      `json:"total_interest"`
	CreatedAt     string      `json:"created_at,omitempty"`
	Cached        bool        `json:"cached,omitempty"`
}

// MethodDTO describes a repayment method.
type MethodDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// places returns the decimal places reported values are shown with.
func places(p loan.Params) int32 {
	if p.HighPrecision {
		return p.Scale
	}
	return p.Precision
}

func toScheduleDTO(s loan.Schedule) ScheduleDTO {
	n := places(s.Params)
	records := make([]RecordDTO, len(s.Records))
	for i, r := range s.Records {
		records[i] = RecordDTO{
			Period:       r.Period,
			Amount:       r.Amount.StringFixed(n),
			Interest:     r.Interest.StringFixed(n),
			Amortization: r.Amortization.StringFixed(n),
			Amortized:    r.Amortized.StringFixed(n),
			Remaining:    r.Remaining.StringFixed(n),
		}
	}

	return ScheduleDTO{
		Method: string(s.Method),
		Params: ParamsDTO{
			Capital:       s.Params.Capital.String(),
			Interest:      s.Params.Rate.String(),
			Periods:       s.Params.Periods,
			Precision:     s.Params.Precision,
			HighPrecision: s.Params.HighPrecision,
			Scale:         s.Params.Scale,
		},
		Records:       records,
		TotalPaid:     s.TotalPaid().StringFixed(n),
		TotalInterest: s.TotalInterest().StringFixed(n),
	}
}

func toSavedScheduleDTO(saved loan.SavedSchedule) ScheduleDTO {
	dto := toScheduleDTO(saved.Schedule)
	dto.ID = saved.ID
	dto.CreatedAt = saved.CreatedAt.Format(time.RFC3339)
	return dto
}

var methodDescriptions = map[loan.Method]string{
	loan.MethodEqualPayment:         "Same installment every period (annuity)",
	loan.MethodConstantAmortization: "Same principal repaid every period",
	loan.MethodInterestOnly:         "Interest every period, capital repaid with the last payment",
	loan.MethodSingleRepayment:      "Interest capitalizes, everything repaid with the last payment",
}
