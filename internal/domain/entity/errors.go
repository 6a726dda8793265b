package entity

import (
	"strings"

	"github.com/pkg/errors"
)

// Domain rule rejections. The messages are user-visible and surfaced
// verbatim by the use-case layer.
var (
	// ErrLoanAlreadyReturned is returned when Return is called on a loan
	// that has already been returned.
	ErrLoanAlreadyReturned = errors.New("Loan has already been returned.")
	// ErrLoanNotActive is returned when MarkOverdue is called on a loan
	// that is not active, regardless of time.
	ErrLoanNotActive = errors.New("Only active loans can become overdue.")
	// ErrLoanNotOverdueYet is returned when MarkOverdue is called on an
	// active loan whose due date has not passed.
	ErrLoanNotOverdueYet = errors.New("Loan is not overdue yet.")
)

// ValidationError carries one message per violated field constraint,
// in field order (id, deviceId, userId).
type ValidationError struct {
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
