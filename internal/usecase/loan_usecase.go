package usecase

import (
	"context"
	"time"

	"loaner/internal/domain/entity"
	"loaner/internal/domain/service"

	"github.com/pkg/errors"
)

// Use-case level rejections. The messages are user-visible and mapped to
// a 400 response by the HTTP delivery.
var (
	// ErrAuthenticationRequired is returned before any domain or storage
	// work when the caller is not authenticated.
	ErrAuthenticationRequired = errors.New("Authentication required")
	// ErrLoanNotFound is returned when the referenced loan does not exist.
	ErrLoanNotFound = errors.New("Loan not found")
	// ErrUnknownLoanAction is returned for edit actions the use case does
	// not recognize. The action set is an open extension point, not a
	// closed enum.
	ErrUnknownLoanAction = errors.New("Unknown loan action")
)

// LoanActionReturn is the only edit action currently recognized.
const LoanActionReturn = "return"

// CreateLoanParams carries the transport-level input for CreateLoan.
// LoanedAt and LoanDurationHours are optional.
type CreateLoanParams struct {
	ID                string     `json:"id"`
	DeviceID          string     `json:"deviceId"`
	UserID            string     `json:"userId"`
	LoanedAt          *time.Time `json:"loanedAt,omitempty"`
	LoanDurationHours *int       `json:"loanDurationHours,omitempty"`
}

// EditLoanCommand identifies a loan and the action to apply to it.
type EditLoanCommand struct {
	LoanID string `json:"loanId"`
	Action string `json:"action"`
}

// ListLoansCommand optionally narrows the listing to one user's active loans.
type ListLoansCommand struct {
	UserID string `json:"userId,omitempty"`
}

// ListLoansResult is the successful outcome of ListLoans.
type ListLoansResult struct {
	Loans      []entity.Loan `json:"loans"`
	TotalCount int           `json:"totalCount"`
}

// LoanUsecase defines the interface for loan lifecycle use cases.
// Every method checks the caller's AuthContext before touching domain
// state or storage.
type LoanUsecase interface {
	// CreateLoan validates and persists a new loan, then publishes a
	// best-effort RESERVED availability event.
	CreateLoan(ctx context.Context, auth service.AuthContext, params CreateLoanParams) (entity.Loan, error)

	// EditLoan applies a domain action (currently only "return") to an
	// existing loan, then publishes a best-effort RETURNED event.
	EditLoan(ctx context.Context, auth service.AuthContext, command EditLoanCommand) (entity.Loan, error)

	// ListLoans returns one user's active loans, or every loan when no
	// user is given.
	ListLoans(ctx context.Context, auth service.AuthContext, command ListLoansCommand) (*ListLoansResult, error)
}
