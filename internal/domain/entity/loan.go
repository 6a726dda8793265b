// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"
)

// DefaultLoanDurationHours is applied when a loan is created without an
// explicit duration.
const DefaultLoanDurationHours = 48

// LoanStatus represents the lifecycle state of a loan.
type LoanStatus string

const (
	// LoanStatusActive marks a loan that is out and not yet returned.
	LoanStatusActive LoanStatus = "active"
	// LoanStatusReturned marks a loan whose device has been handed back.
	LoanStatusReturned LoanStatus = "returned"
	// LoanStatusOverdue marks an active loan that passed its due date.
	LoanStatusOverdue LoanStatus = "overdue"
)

// Loan represents a device borrowed by a user for a bounded period.
// It is an immutable value: transitions return a new snapshot and never
// mutate the receiver, so every holder of a Loan holds its own copy.
type Loan struct {
	ID         string     `json:"id"`                   // Caller-supplied identifier, globally unique.
	DeviceID   string     `json:"deviceId"`             // The borrowed device. Existence is the caller's concern.
	UserID     string     `json:"userId"`               // The borrowing user. Existence is the caller's concern.
	LoanedAt   time.Time  `json:"loanedAt"`             // Start of the loan period.
	DueAt      time.Time  `json:"dueAt"`                // LoanedAt + duration. May be <= LoanedAt for zero/negative durations.
	ReturnedAt *time.Time `json:"returnedAt,omitempty"` // Set exactly once, when the loan is returned.
	Status     LoanStatus `json:"status"`               // Current lifecycle state.
	CreatedAt  time.Time  `json:"createdAt"`            // Equal to LoanedAt, never changes.
	UpdatedAt  time.Time  `json:"updatedAt"`            // Timestamp of the last transition.
}

// CreateLoanParams carries the input for NewLoan. LoanedAt and
// LoanDurationHours are optional; nil means "default".
type CreateLoanParams struct {
	ID                string
	DeviceID          string
	UserID            string
	LoanedAt          *time.Time
	LoanDurationHours *int
}

// NewLoan validates params and constructs an active Loan.
// Validation collects every violated field constraint instead of failing
// fast, so the caller receives one message per blank field.
func NewLoan(params CreateLoanParams) (Loan, error) {
	var messages []string

	if strings.TrimSpace(params.ID) == "" {
		messages = append(messages, "id is required.")
	}
	if strings.TrimSpace(params.DeviceID) == "" {
		messages = append(messages, "deviceId is required.")
	}
	if strings.TrimSpace(params.UserID) == "" {
		messages = append(messages, "userId is required.")
	}

	if len(messages) > 0 {
		return Loan{}, &ValidationError{Messages: messages}
	}

	loanedAt := time.Now().UTC()
	if params.LoanedAt != nil {
		loanedAt = *params.LoanedAt
	}

	duration := DefaultLoanDurationHours
	if params.LoanDurationHours != nil {
		// Zero and negative durations are accepted and simply yield
		// DueAt <= LoanedAt.
		duration = *params.LoanDurationHours
	}

	return Loan{
		ID:        strings.TrimSpace(params.ID),
		DeviceID:  strings.TrimSpace(params.DeviceID),
		UserID:    strings.TrimSpace(params.UserID),
		LoanedAt:  loanedAt,
		DueAt:     loanedAt.Add(time.Duration(duration) * time.Hour),
		Status:    LoanStatusActive,
		CreatedAt: loanedAt,
		UpdatedAt: loanedAt,
	}, nil
}

// Return produces a returned snapshot of the loan.
// Returning twice is rejected; there is no transition out of "returned".
func (l Loan) Return() (Loan, error) {
	if l.Status == LoanStatusReturned {
		return Loan{}, ErrLoanAlreadyReturned
	}

	now := time.Now().UTC()
	l.Status = LoanStatusReturned
	l.ReturnedAt = &now
	l.UpdatedAt = now

	return l, nil
}

// MarkOverdue produces an overdue snapshot of an active loan that is past
// its due date. The due instant itself does not count as overdue.
func (l Loan) MarkOverdue() (Loan, error) {
	if l.Status != LoanStatusActive {
		return Loan{}, ErrLoanNotActive
	}
	if !time.Now().After(l.DueAt) {
		return Loan{}, ErrLoanNotOverdueYet
	}

	l.Status = LoanStatusOverdue
	l.UpdatedAt = time.Now().UTC()

	return l, nil
}

// IsOverdue reports whether the loan is active and strictly past its due date.
func (l Loan) IsOverdue() bool {
	return l.Status == LoanStatusActive && time.Now().After(l.DueAt)
}

// RemainingTime returns the time left until the due date, never negative.
func (l Loan) RemainingTime() time.Duration {
	remaining := time.Until(l.DueAt)
	if remaining < 0 {
		return 0
	}

	return remaining
}
