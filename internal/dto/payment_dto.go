package dto

import (
	"time"

	"compromisos/internal/core/domain"

	"github.com/shopspring/decimal"
)

// UpsertPaymentRequest defines the payload for recording or correcting the
// payment of one commitment period. PeriodDate uses the "2006-01" form. A nil
// PaymentDate records the period as expected but unsettled.
type UpsertPaymentRequest struct {
	PeriodDate      string          `json:"periodDate" binding:"required,len=7"`
	PaymentDate     *time.Time      `json:"paymentDate"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode    string          `json:"currencyCode" binding:"omitempty,min=2,max=8,uppercase"`
	Note            string          `json:"note" binding:"omitempty,max=500"`
	DueDateOverride *time.Time      `json:"dueDateOverride"`
}

// PaymentRangeParams defines query parameters for listing payments across
// commitments by period range. Both bounds use the "2006-01" form.
type PaymentRangeParams struct {
	From string `form:"from" binding:"required,len=7"`
	To   string `form:"to" binding:"required,len=7"`
}

// PaymentResponse defines the payment representation returned by the API.
type PaymentResponse struct {
	PaymentID       string          `json:"paymentID"`
	CommitmentID    string          `json:"commitmentID"`
	TermID          string          `json:"termID"`
	PeriodDate      domain.Period   `json:"periodDate"`
	PaymentDate     *time.Time      `json:"paymentDate,omitempty"`
	CurrencyCode    string          `json:"currencyCode"`
	OriginalAmount  decimal.Decimal `json:"originalAmount"`
	FxRate          decimal.Decimal `json:"fxRate"`
	BaseAmount      decimal.Decimal `json:"baseAmount"`
	Note            string          `json:"note,omitempty"`
	DueDateOverride *time.Time      `json:"dueDateOverride,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:       payment.PaymentID,
		CommitmentID:    payment.CommitmentID,
		TermID:          payment.TermID,
		PeriodDate:      payment.PeriodDate,
		PaymentDate:     payment.PaymentDate,
		CurrencyCode:    payment.CurrencyCode,
		OriginalAmount:  payment.OriginalAmount,
		FxRate:          payment.FxRate,
		BaseAmount:      payment.BaseAmount,
		Note:            payment.Note,
		DueDateOverride: payment.DueDateOverride,
		CreatedAt:       payment.CreatedAt,
	}
}

// ToListPaymentResponse converts a slice of domain.Payments to DTOs
func ToListPaymentResponse(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
