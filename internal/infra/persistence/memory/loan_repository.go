// Package memory contains the reference in-memory implementation of the
// persistence layer. It backs local development and tests, and sets the
// consistency bar networked adapters have to match: a single keyed store
// with atomic insert-if-absent per loan ID.
package memory

import (
	"context"
	"sync"

	"loaner/internal/domain/entity"
	"loaner/internal/domain/repository"
)

type loanRepository struct {
	mu    sync.RWMutex
	loans map[string]entity.Loan
}

// NewLoanRepository is the constructor for the in-memory loanRepository.
func NewLoanRepository() repository.LoanRepository {
	return &loanRepository{
		loans: make(map[string]entity.Loan),
	}
}

// Create stores a new loan. Insert-if-absent under the lock gives the
// per-identifier atomicity the repository contract requires.
func (repo *loanRepository) Create(_ context.Context, loan entity.Loan) (entity.Loan, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.loans[loan.ID]; exists {
		return entity.Loan{}, repository.ErrDuplicateLoan
	}
	repo.loans[loan.ID] = loan

	return loan, nil
}

// FindByID retrieves a loan by its ID.
func (repo *loanRepository) FindByID(_ context.Context, id string) (entity.Loan, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	loan, exists := repo.loans[id]
	if !exists {
		return entity.Loan{}, repository.ErrLoanNotFound
	}

	return loan, nil
}

// Update replaces an existing record wholesale.
func (repo *loanRepository) Update(_ context.Context, loan entity.Loan) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.loans[loan.ID]; !exists {
		return repository.ErrLoanNotFound
	}
	repo.loans[loan.ID] = loan

	return nil
}

// ListAll returns every stored loan. Map iteration makes the order
// unspecified, which callers must not rely on.
func (repo *loanRepository) ListAll(_ context.Context) ([]entity.Loan, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	loans := make([]entity.Loan, 0, len(repo.loans))
	for _, loan := range repo.loans {
		loans = append(loans, loan)
	}

	return loans, nil
}

// FindActiveByUserID returns the given user's active loans.
func (repo *loanRepository) FindActiveByUserID(_ context.Context, userID string) ([]entity.Loan, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var loans []entity.Loan
	for _, loan := range repo.loans {
		if loan.UserID == userID && loan.Status == entity.LoanStatusActive {
			loans = append(loans, loan)
		}
	}

	return loans, nil
}
