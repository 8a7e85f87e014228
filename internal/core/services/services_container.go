package services

import (
	portsrepo "compromisos/internal/core/ports/repositories"
	portssvc "compromisos/internal/core/ports/services"
	"compromisos/internal/platform/config"
)

// NewServiceContainer wires every service over the repository provider. The
// dashboard cache may be nil when no Redis is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache portsrepo.DashboardCache) *portssvc.ServiceContainer {
	userService := NewUserService(repos.UserRepo)

	return &portssvc.ServiceContainer{
		User:     userService,
		Category: NewCategoryService(repos.CategoryRepo),
		Commitment: NewCommitmentService(
			repos.CommitmentRepo,
			repos.PaymentRepo,
			repos.CategoryRepo,
			repos.ExchangeRateRepo,
			cfg.BaseCurrency,
		),
		ExchangeRate: NewExchangeRateService(repos.ExchangeRateRepo, cfg.BaseCurrency),
		Dashboard: NewDashboardService(
			repos.CommitmentRepo,
			repos.PaymentRepo,
			repos.ExchangeRateRepo,
			repos.RevisionRepo,
			cache,
			cfg.BaseCurrency,
			cfg.SortLocale,
			cfg.CacheTTL,
		),
		TokenService:       NewTokenService(cfg, userService),
		GoogleOAuthHandler: NewGoogleOAuthHandlerService(cfg),
	}
}
