package mapping

import (
	"database/sql"

	"compromisos/internal/core/domain"
	"compromisos/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	m := models.Payment{
		PaymentID:      d.PaymentID,
		CommitmentID:   d.CommitmentID,
		TermID:         d.TermID,
		PeriodDate:     d.PeriodDate.Time(),
		CurrencyCode:   d.CurrencyCode,
		OriginalAmount: d.OriginalAmount,
		FxRate:         d.FxRate,
		BaseAmount:     d.BaseAmount,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	if d.PaymentDate != nil {
		m.PaymentDate = sql.NullTime{Time: *d.PaymentDate, Valid: true}
	}
	if d.Note != "" {
		m.Note = sql.NullString{String: d.Note, Valid: true}
	}
	if d.DueDateOverride != nil {
		m.DueDateOverride = sql.NullTime{Time: *d.DueDateOverride, Valid: true}
	}
	return m
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	d := domain.Payment{
		PaymentID:      m.PaymentID,
		CommitmentID:   m.CommitmentID,
		TermID:         m.TermID,
		PeriodDate:     domain.PeriodOf(m.PeriodDate),
		CurrencyCode:   m.CurrencyCode,
		OriginalAmount: m.OriginalAmount,
		FxRate:         m.FxRate,
		BaseAmount:     m.BaseAmount,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	if m.PaymentDate.Valid {
		t := m.PaymentDate.Time
		d.PaymentDate = &t
	}
	if m.Note.Valid {
		d.Note = m.Note.String
	}
	if m.DueDateOverride.Valid {
		t := m.DueDateOverride.Time
		d.DueDateOverride = &t
	}
	return d
}

// ToDomainPaymentSlice converts a slice of model Payments to domain Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}
