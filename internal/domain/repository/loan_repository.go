// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"loaner/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for loan persistence.
var (
	// ErrLoanNotFound is returned when a loan is not found.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrDuplicateLoan is returned when a loan with the same ID already exists.
	ErrDuplicateLoan = errors.New("loan already exists")
)

// LoanRepository defines the interface for loan-related storage operations.
//
// Adapters must provide per-identifier write atomicity: concurrent Create
// calls with the same ID, and any Create/Update pair touching the same ID,
// must resolve to a single consistent record. Backends without transactional
// inserts need a unique constraint or conditional write keyed on the ID.
type LoanRepository interface {
	// Create persists a new loan keyed by its ID and returns the stored
	// snapshot. Returns ErrDuplicateLoan when a record with that ID exists.
	Create(ctx context.Context, loan entity.Loan) (entity.Loan, error)

	// FindByID retrieves a loan by its ID. Absence is signalled with
	// ErrLoanNotFound, never with a panic or a nil value.
	FindByID(ctx context.Context, id string) (entity.Loan, error)

	// Update replaces an existing record wholesale. Returns ErrLoanNotFound
	// if no record with that ID exists.
	Update(ctx context.Context, loan entity.Loan) error

	// ListAll returns every stored loan in unspecified order.
	ListAll(ctx context.Context) ([]entity.Loan, error)

	// FindActiveByUserID returns the given user's loans whose status is active.
	FindActiveByUserID(ctx context.Context, userID string) ([]entity.Loan, error)
}
