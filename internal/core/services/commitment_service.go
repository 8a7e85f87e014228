package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"compromisos/internal/apperrors"
	"compromisos/internal/core/domain"
	portsrepo "compromisos/internal/core/ports/repositories"
	portssvc "compromisos/internal/core/ports/services"
	"compromisos/internal/core/projection"
	"compromisos/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// commitmentService implements the CommitmentSvcFacade interface
type commitmentService struct {
	BaseService
	commitmentRepo portsrepo.CommitmentRepositoryFacade
	paymentRepo    portsrepo.PaymentRepositoryFacade
	categoryRepo   portsrepo.CategoryReader
	rateRepo       portsrepo.ExchangeRateReader
	baseCurrency   string
}

// NewCommitmentService creates a new commitment service
func NewCommitmentService(
	commitmentRepo portsrepo.CommitmentRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	rateRepo portsrepo.ExchangeRateReader,
	baseCurrency string,
) portssvc.CommitmentSvcFacade {
	return &commitmentService{
		commitmentRepo: commitmentRepo,
		paymentRepo:    paymentRepo,
		categoryRepo:   categoryRepo,
		rateRepo:       rateRepo,
		baseCurrency:   strings.ToUpper(baseCurrency),
	}
}

var _ portssvc.CommitmentSvcFacade = (*commitmentService)(nil)

// ownedCommitment loads a commitment with its terms and verifies the caller
// owns it.
func (s *commitmentService) ownedCommitment(ctx context.Context, userID, commitmentID string) (*domain.Commitment, error) {
	commitment, err := s.commitmentRepo.FindCommitmentByID(ctx, commitmentID)
	if err != nil {
		return nil, err
	}
	if commitment.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return commitment, nil
}

// resolveToBase computes the fx rate and base amount for an amount in the
// given currency, using the rate stored at this moment. The base currency
// converts at 1.
func (s *commitmentService) resolveToBase(ctx context.Context, amount decimal.Decimal, currencyCode string) (decimal.Decimal, decimal.Decimal, error) {
	if currencyCode == s.baseCurrency {
		return decimal.NewFromInt(1), amount, nil
	}
	rate, err := s.rateRepo.FindRateByCurrency(ctx, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, decimal.Zero, apperrors.NewValidationError(fmt.Sprintf("no exchange rate registered for %s", currencyCode))
		}
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to look up exchange rate: %w", err)
	}
	return rate.RateToBase, amount.Mul(rate.RateToBase), nil
}

// checkCategoryRef verifies a referenced category exists, belongs to the
// user and carries the commitment's flow type. Not-found and not-owned
// collapse into the same validation error so a payload cannot probe other
// users' categories.
func (s *commitmentService) checkCategoryRef(ctx context.Context, userID, categoryID string, flow domain.FlowType) error {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("category not found")
		}
		return fmt.Errorf("failed to look up category: %w", err)
	}
	if category.UserID != userID {
		return apperrors.NewValidationError("category not found")
	}
	if category.Kind != flow {
		return apperrors.NewValidationError("category kind does not match commitment flow")
	}
	return nil
}

// checkLinkRef verifies a link target exists and belongs to the user.
func (s *commitmentService) checkLinkRef(ctx context.Context, userID, linkedCommitmentID string) error {
	target, err := s.commitmentRepo.FindCommitmentByID(ctx, linkedCommitmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("linked commitment not found")
		}
		return fmt.Errorf("failed to look up linked commitment: %w", err)
	}
	if target.UserID != userID {
		return apperrors.NewValidationError("linked commitment not found")
	}
	return nil
}

// buildTerm validates the conditions payload and materializes a term version.
// The fx rate is captured here, at save time.
func (s *commitmentService) buildTerm(ctx context.Context, commitmentID, userID string, version int, from domain.Period, req dto.TermRequest) (domain.Term, error) {
	if !req.Amount.IsPositive() {
		return domain.Term{}, apperrors.NewValidationError("amount must be positive")
	}
	frequency := domain.Frequency(req.Frequency)
	if frequency == domain.Once && req.InstallmentsCount != nil && *req.InstallmentsCount != 1 {
		return domain.Term{}, apperrors.NewValidationError("a one-off term cannot have more than one installment")
	}
	mode := domain.EstimationMode(req.EstimationMode)
	if req.EstimationMode == "" {
		mode = domain.EstimationFixed
	}

	currencyCode := strings.ToUpper(req.CurrencyCode)
	fxRate, baseAmount, err := s.resolveToBase(ctx, req.Amount, currencyCode)
	if err != nil {
		return domain.Term{}, err
	}

	now := time.Now()
	return domain.Term{
		TermID:            uuid.NewString(),
		CommitmentID:      commitmentID,
		Version:           version,
		EffectiveFrom:     from,
		Frequency:         frequency,
		InstallmentsCount: req.InstallmentsCount,
		DueDay:            req.DueDay,
		CurrencyCode:      currencyCode,
		OriginalAmount:    req.Amount,
		FxRate:            fxRate,
		BaseAmount:        baseAmount,
		EstimationMode:    mode,
		DividedAmount:     req.DividedAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

func (s *commitmentService) CreateCommitment(ctx context.Context, userID string, req dto.CreateCommitmentRequest) (*domain.Commitment, error) {
	if req.CategoryID != "" {
		if err := s.checkCategoryRef(ctx, userID, req.CategoryID, domain.FlowType(req.Flow)); err != nil {
			return nil, err
		}
	}
	if req.LinkRole != nil && *req.LinkRole != "" && (req.LinkedCommitmentID == nil || *req.LinkedCommitmentID == "") {
		return nil, apperrors.NewValidationError("linkRole requires linkedCommitmentID")
	}
	if req.LinkedCommitmentID != nil && *req.LinkedCommitmentID != "" {
		if err := s.checkLinkRef(ctx, userID, *req.LinkedCommitmentID); err != nil {
			return nil, err
		}
	}

	from, err := domain.ParsePeriod(req.Term.EffectiveFrom)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := time.Now()
	commitment := domain.Commitment{
		CommitmentID: uuid.NewString(),
		UserID:       userID,
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		Flow:         domain.FlowType(req.Flow),
		Important:    req.Important,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.LinkedCommitmentID != nil && *req.LinkedCommitmentID != "" {
		commitment.LinkedCommitmentID = req.LinkedCommitmentID
		commitment.LinkRole = req.LinkRole
	}

	term, err := s.buildTerm(ctx, commitment.CommitmentID, userID, 1, from, req.Term)
	if err != nil {
		return nil, err
	}

	if err := s.commitmentRepo.SaveCommitment(ctx, commitment, term); err != nil {
		s.LogError(ctx, err, "Failed to save commitment", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save commitment: %w", err)
	}

	commitment.Terms = []domain.Term{term}
	return &commitment, nil
}

func (s *commitmentService) GetCommitmentByID(ctx context.Context, userID, commitmentID string) (*domain.Commitment, error) {
	return s.ownedCommitment(ctx, userID, commitmentID)
}

func (s *commitmentService) ListCommitments(ctx context.Context, userID string, limit int, nextToken string) ([]domain.Commitment, string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	commitments, token, err := s.commitmentRepo.FindCommitmentsByUser(ctx, userID, limit, nextToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list commitments: %w", err)
	}
	return commitments, token, nil
}

func (s *commitmentService) UpdateCommitment(ctx context.Context, userID, commitmentID string, req dto.UpdateCommitmentRequest) (*domain.Commitment, error) {
	commitment, err := s.ownedCommitment(ctx, userID, commitmentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		commitment.Name = *req.Name
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			commitment.CategoryID = ""
		} else {
			if err := s.checkCategoryRef(ctx, userID, *req.CategoryID, commitment.Flow); err != nil {
				return nil, err
			}
			commitment.CategoryID = *req.CategoryID
		}
	}
	if req.Important != nil {
		commitment.Important = *req.Important
	}
	if req.LinkedCommitmentID != nil {
		if *req.LinkedCommitmentID == "" {
			commitment.LinkedCommitmentID = nil
			commitment.LinkRole = nil
		} else {
			if *req.LinkedCommitmentID == commitmentID {
				return nil, apperrors.NewValidationError("a commitment cannot link to itself")
			}
			if err := s.checkLinkRef(ctx, userID, *req.LinkedCommitmentID); err != nil {
				return nil, err
			}
			commitment.LinkedCommitmentID = req.LinkedCommitmentID
		}
	}
	if req.LinkRole != nil {
		if commitment.LinkedCommitmentID == nil {
			return nil, apperrors.NewValidationError("linkRole requires linkedCommitmentID")
		}
		if *req.LinkRole == "" {
			commitment.LinkRole = nil
		} else {
			commitment.LinkRole = req.LinkRole
		}
	}
	commitment.LastUpdatedAt = time.Now()
	commitment.LastUpdatedBy = userID

	if err := s.commitmentRepo.UpdateCommitment(ctx, *commitment); err != nil {
		s.LogError(ctx, err, "Failed to update commitment", slog.String("commitment_id", commitmentID))
		return nil, fmt.Errorf("failed to update commitment: %w", err)
	}
	return commitment, nil
}

func (s *commitmentService) ChangeTerms(ctx context.Context, userID, commitmentID string, req dto.ChangeTermsRequest) (*domain.Commitment, error) {
	commitment, err := s.ownedCommitment(ctx, userID, commitmentID)
	if err != nil {
		return nil, err
	}
	latest := commitment.LatestTerm()
	if latest == nil {
		return nil, apperrors.NewInternalServerError("commitment has no terms")
	}

	from, err := domain.ParsePeriod(req.EffectiveFrom)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if !from.After(latest.EffectiveFrom) {
		return nil, apperrors.NewValidationError("new conditions must start after the current term starts")
	}
	if latest.EffectiveUntil != nil && !from.After(*latest.EffectiveUntil) {
		return nil, apperrors.NewValidationError("new conditions must start after the last term ends")
	}

	// Close the open term the month before the new conditions take effect;
	// an already-closed history just gets the new version appended.
	var closeUntil *domain.Period
	if latest.IsOpen() {
		until := from.AddMonths(-1)
		closeUntil = &until
	}

	term, err := s.buildTerm(ctx, commitmentID, userID, latest.Version+1, from, req.TermRequest)
	if err != nil {
		return nil, err
	}

	if err := s.commitmentRepo.SaveTermVersion(ctx, userID, closeUntil, term); err != nil {
		s.LogError(ctx, err, "Failed to save term version",
			slog.String("commitment_id", commitmentID), slog.Int("version", term.Version))
		return nil, fmt.Errorf("failed to save term version: %w", err)
	}

	return s.commitmentRepo.FindCommitmentByID(ctx, commitmentID)
}

func (s *commitmentService) DeleteCommitment(ctx context.Context, userID, commitmentID string) error {
	if _, err := s.ownedCommitment(ctx, userID, commitmentID); err != nil {
		return err
	}
	return s.commitmentRepo.MarkCommitmentDeleted(ctx, userID, commitmentID, time.Now(), userID)
}

func (s *commitmentService) UpsertPayment(ctx context.Context, userID, commitmentID string, req dto.UpsertPaymentRequest) (*domain.Payment, error) {
	commitment, err := s.ownedCommitment(ctx, userID, commitmentID)
	if err != nil {
		return nil, err
	}

	period, err := domain.ParsePeriod(req.PeriodDate)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	term, ok := projection.FindTermForPeriod(*commitment, period)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("no term covers period %s", period))
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be positive")
	}

	// An omitted currency means the payment was made in the commitment's own
	// currency for that period.
	currencyCode := strings.ToUpper(req.CurrencyCode)
	if currencyCode == "" {
		currencyCode = term.CurrencyCode
	}
	fxRate, baseAmount, err := s.resolveToBase(ctx, req.Amount, currencyCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := domain.Payment{
		PaymentID:       uuid.NewString(),
		CommitmentID:    commitmentID,
		TermID:          term.TermID,
		PeriodDate:      period,
		PaymentDate:     req.PaymentDate,
		CurrencyCode:    currencyCode,
		OriginalAmount:  req.Amount,
		FxRate:          fxRate,
		BaseAmount:      baseAmount,
		Note:            req.Note,
		DueDateOverride: req.DueDateOverride,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	stored, err := s.paymentRepo.UpsertPayment(ctx, userID, payment)
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert payment",
			slog.String("commitment_id", commitmentID), slog.String("period", period.String()))
		return nil, fmt.Errorf("failed to upsert payment: %w", err)
	}
	return stored, nil
}

func (s *commitmentService) ListPayments(ctx context.Context, userID, commitmentID string) ([]domain.Payment, error) {
	if _, err := s.ownedCommitment(ctx, userID, commitmentID); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindPaymentsByCommitment(ctx, commitmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *commitmentService) ListPaymentsInRange(ctx context.Context, userID string, from, to domain.Period) ([]domain.Payment, error) {
	if err := from.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid from period: %v", apperrors.ErrValidation, err)
	}
	if err := to.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid to period: %v", apperrors.ErrValidation, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range start %s is after end %s", apperrors.ErrValidation, from, to)
	}
	payments, err := s.paymentRepo.FindPaymentsByUser(ctx, userID, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments in range: %w", err)
	}
	return payments, nil
}

func (s *commitmentService) DeletePayment(ctx context.Context, userID, commitmentID, paymentID string) error {
	if _, err := s.ownedCommitment(ctx, userID, commitmentID); err != nil {
		return err
	}
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.CommitmentID != commitmentID {
		return apperrors.ErrNotFound
	}
	return s.paymentRepo.DeletePayment(ctx, userID, paymentID)
}
