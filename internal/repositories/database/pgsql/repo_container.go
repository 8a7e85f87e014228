package pgsql

import (
	portsrepo "compromisos/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	commitmentRepo := newPgxCommitmentRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)
	revisionRepo := newPgxRevisionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         userRepo,
		CategoryRepo:     categoryRepo,
		CommitmentRepo:   commitmentRepo,
		PaymentRepo:      paymentRepo,
		ExchangeRateRepo: exchangeRateRepo,
		RevisionRepo:     revisionRepo,
	}
}
