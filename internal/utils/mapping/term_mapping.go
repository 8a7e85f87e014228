package mapping

import (
	"database/sql"

	"compromisos/internal/core/domain"
	"compromisos/internal/models"
)

// ToModelTerm converts a domain Term to a model Term. Periods become
// first-of-month dates.
func ToModelTerm(d domain.Term) models.Term {
	m := models.Term{
		TermID:         d.TermID,
		CommitmentID:   d.CommitmentID,
		Version:        d.Version,
		EffectiveFrom:  d.EffectiveFrom.Time(),
		Frequency:      string(d.Frequency),
		CurrencyCode:   d.CurrencyCode,
		OriginalAmount: d.OriginalAmount,
		FxRate:         d.FxRate,
		BaseAmount:     d.BaseAmount,
		EstimationMode: string(d.EstimationMode),
		DividedAmount:  d.DividedAmount,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	if d.EffectiveUntil != nil {
		m.EffectiveUntil = sql.NullTime{Time: d.EffectiveUntil.Time(), Valid: true}
	}
	if d.InstallmentsCount != nil {
		m.InstallmentsCount = sql.NullInt32{Int32: int32(*d.InstallmentsCount), Valid: true}
	}
	if d.DueDay != nil {
		m.DueDay = sql.NullInt32{Int32: int32(*d.DueDay), Valid: true}
	}
	return m
}

// ToDomainTerm converts a model Term to a domain Term
func ToDomainTerm(m models.Term) domain.Term {
	d := domain.Term{
		TermID:         m.TermID,
		CommitmentID:   m.CommitmentID,
		Version:        m.Version,
		EffectiveFrom:  domain.PeriodOf(m.EffectiveFrom),
		Frequency:      domain.Frequency(m.Frequency),
		CurrencyCode:   m.CurrencyCode,
		OriginalAmount: m.OriginalAmount,
		FxRate:         m.FxRate,
		BaseAmount:     m.BaseAmount,
		EstimationMode: domain.EstimationMode(m.EstimationMode),
		DividedAmount:  m.DividedAmount,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	if m.EffectiveUntil.Valid {
		p := domain.PeriodOf(m.EffectiveUntil.Time)
		d.EffectiveUntil = &p
	}
	if m.InstallmentsCount.Valid {
		n := int(m.InstallmentsCount.Int32)
		d.InstallmentsCount = &n
	}
	if m.DueDay.Valid {
		n := int(m.DueDay.Int32)
		d.DueDay = &n
	}
	return d
}

// ToDomainTermSlice converts a slice of model Terms to domain Terms
func ToDomainTermSlice(ms []models.Term) []domain.Term {
	ds := make([]domain.Term, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTerm(m)
	}
	return ds
}
