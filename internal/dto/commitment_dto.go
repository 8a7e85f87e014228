package dto

import (
	"time"

	"compromisos/internal/core/domain"

	"github.com/shopspring/decimal"
)

// TermRequest defines the conditions payload shared by commitment creation
// and term changes. EffectiveFrom uses the "2006-01" period form.
type TermRequest struct {
	EffectiveFrom     string          `json:"effectiveFrom" binding:"required,len=7"`
	Frequency         string          `json:"frequency" binding:"required,oneof=ONCE MONTHLY BIMONTHLY QUARTERLY SEMIANNUALLY ANNUALLY"`
	InstallmentsCount *int            `json:"installmentsCount" binding:"omitempty,min=1"`
	DueDay            *int            `json:"dueDay" binding:"omitempty,min=1,max=31"`
	CurrencyCode      string          `json:"currencyCode" binding:"required,min=2,max=8,uppercase"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	EstimationMode    string          `json:"estimationMode" binding:"omitempty,oneof=FIXED AVERAGE LAST"`
	DividedAmount     bool            `json:"dividedAmount"`
}

// CreateCommitmentRequest defines the payload for creating a commitment with
// its initial term.
type CreateCommitmentRequest struct {
	Name               string      `json:"name" binding:"required,min=1,max=200"`
	CategoryID         string      `json:"categoryID" binding:"omitempty,uuid"`
	Flow               string      `json:"flow" binding:"required,oneof=EXPENSE INCOME"`
	Important          bool        `json:"important"`
	LinkedCommitmentID *string     `json:"linkedCommitmentID" binding:"omitempty,uuid"`
	LinkRole           *string     `json:"linkRole" binding:"omitempty,max=50"`
	Term               TermRequest `json:"term" binding:"required"`
}

// UpdateCommitmentRequest defines the descriptive fields that can change
// without creating a new term version.
type UpdateCommitmentRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=1,max=200"`
	CategoryID         *string `json:"categoryID" binding:"omitempty,uuid"`
	Important          *bool   `json:"important"`
	LinkedCommitmentID *string `json:"linkedCommitmentID" binding:"omitempty,uuid"`
	LinkRole           *string `json:"linkRole" binding:"omitempty,max=50"`
}

// ChangeTermsRequest defines the payload for registering new conditions. The
// open term is closed the month before EffectiveFrom and a new version opens.
type ChangeTermsRequest struct {
	TermRequest
}

// ListCommitmentsParams defines query parameters for listing commitments.
type ListCommitmentsParams struct {
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// TermResponse defines the term representation returned by the API.
type TermResponse struct {
	TermID            string          `json:"termID"`
	Version           int             `json:"version"`
	EffectiveFrom     domain.Period   `json:"effectiveFrom"`
	EffectiveUntil    *domain.Period  `json:"effectiveUntil,omitempty"`
	Frequency         string          `json:"frequency"`
	InstallmentsCount *int            `json:"installmentsCount,omitempty"`
	DueDay            *int            `json:"dueDay,omitempty"`
	CurrencyCode      string          `json:"currencyCode"`
	OriginalAmount    decimal.Decimal `json:"originalAmount"`
	FxRate            decimal.Decimal `json:"fxRate"`
	BaseAmount        decimal.Decimal `json:"baseAmount"`
	EstimationMode    string          `json:"estimationMode"`
	DividedAmount     bool            `json:"dividedAmount"`
}

// CommitmentResponse defines the commitment representation returned by the API.
type CommitmentResponse struct {
	CommitmentID       string         `json:"commitmentID"`
	Name               string         `json:"name"`
	CategoryID         string         `json:"categoryID,omitempty"`
	Flow               string         `json:"flow"`
	Important          bool           `json:"important"`
	LinkedCommitmentID *string        `json:"linkedCommitmentID,omitempty"`
	LinkRole           *string        `json:"linkRole,omitempty"`
	Terms              []TermResponse `json:"terms"`
	CreatedAt          time.Time      `json:"createdAt"`
	LastUpdatedAt      time.Time      `json:"lastUpdatedAt"`
}

// ListCommitmentsResponse wraps a page of commitments.
type ListCommitmentsResponse struct {
	Commitments []CommitmentResponse `json:"commitments"`
	NextToken   string               `json:"nextToken,omitempty"`
}

// ToTermResponse converts a domain.Term to TermResponse DTO
func ToTermResponse(term *domain.Term) TermResponse {
	return TermResponse{
		TermID:            term.TermID,
		Version:           term.Version,
		EffectiveFrom:     term.EffectiveFrom,
		EffectiveUntil:    term.EffectiveUntil,
		Frequency:         string(term.Frequency),
		InstallmentsCount: term.InstallmentsCount,
		DueDay:            term.DueDay,
		CurrencyCode:      term.CurrencyCode,
		OriginalAmount:    term.OriginalAmount,
		FxRate:            term.FxRate,
		BaseAmount:        term.BaseAmount,
		EstimationMode:    string(term.EstimationMode),
		DividedAmount:     term.DividedAmount,
	}
}

// ToCommitmentResponse converts a domain.Commitment to CommitmentResponse DTO
func ToCommitmentResponse(commitment *domain.Commitment) CommitmentResponse {
	terms := make([]TermResponse, len(commitment.Terms))
	for i := range commitment.Terms {
		terms[i] = ToTermResponse(&commitment.Terms[i])
	}
	return CommitmentResponse{
		CommitmentID:       commitment.CommitmentID,
		Name:               commitment.Name,
		CategoryID:         commitment.CategoryID,
		Flow:               string(commitment.Flow),
		Important:          commitment.Important,
		LinkedCommitmentID: commitment.LinkedCommitmentID,
		LinkRole:           commitment.LinkRole,
		Terms:              terms,
		CreatedAt:          commitment.CreatedAt,
		LastUpdatedAt:      commitment.LastUpdatedAt,
	}
}

// ToListCommitmentsResponse converts a page of domain.Commitments to the list DTO
func ToListCommitmentsResponse(commitments []domain.Commitment, nextToken string) ListCommitmentsResponse {
	responses := make([]CommitmentResponse, len(commitments))
	for i := range commitments {
		responses[i] = ToCommitmentResponse(&commitments[i])
	}
	return ListCommitmentsResponse{
		Commitments: responses,
		NextToken:   nextToken,
	}
}
