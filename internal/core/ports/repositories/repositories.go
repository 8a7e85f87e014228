package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	CategoryRepo     CategoryRepositoryFacade
	CommitmentRepo   CommitmentRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	ExchangeRateRepo ExchangeRateRepositoryFacade
	RevisionRepo     RevisionReader
}
