package impl

import (
	"context"
	"log/slog"
	"time"

	"loaner/internal/domain/entity"
	"loaner/internal/domain/repository"
	"loaner/internal/domain/service"
	"loaner/internal/errors"
	"loaner/internal/usecase"
)

type loanService struct {
	loanRepo  repository.LoanRepository
	publisher service.LoanEventPublisher
	logger    *slog.Logger
}

// NewLoanService creates a new loan service instance
func NewLoanService(loanRepo repository.LoanRepository, publisher service.LoanEventPublisher, logger *slog.Logger) usecase.LoanUsecase {
	return &loanService{
		loanRepo:  loanRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateLoan validates input through the domain factory, persists the loan
// and publishes a best-effort RESERVED event.
func (s *loanService) CreateLoan(ctx context.Context, auth service.AuthContext, params usecase.CreateLoanParams) (entity.Loan, error) {
	if !auth.Authenticated {
		return entity.Loan{}, usecase.ErrAuthenticationRequired
	}

	loan, err := entity.NewLoan(entity.CreateLoanParams{
		ID:                params.ID,
		DeviceID:          params.DeviceID,
		UserID:            params.UserID,
		LoanedAt:          params.LoanedAt,
		LoanDurationHours: params.LoanDurationHours,
	})
	if err != nil {
		return entity.Loan{}, err
	}

	stored, err := s.loanRepo.Create(ctx, loan)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateLoan) {
			// A concurrent create with the same ID won the race. The ID is
			// caller-supplied, so an identical payload is assumed and the
			// stored record is the outcome for both writers.
			return s.resolveDuplicateCreate(ctx, loan)
		}

		return entity.Loan{}, errors.Wrap(err, "Failed to save loan")
	}

	s.publishAvailabilityChange(ctx, stored.DeviceID, -1, service.ReasonReserved)

	return stored, nil
}

// EditLoan loads a loan, applies the requested domain action and persists
// the new snapshot.
func (s *loanService) EditLoan(ctx context.Context, auth service.AuthContext, command usecase.EditLoanCommand) (entity.Loan, error) {
	if !auth.Authenticated {
		return entity.Loan{}, usecase.ErrAuthenticationRequired
	}

	loan, err := s.loanRepo.FindByID(ctx, command.LoanID)
	if err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			return entity.Loan{}, usecase.ErrLoanNotFound
		}

		return entity.Loan{}, errors.Wrap(err, "Failed to update loan")
	}

	var updated entity.Loan
	switch command.Action {
	case usecase.LoanActionReturn:
		updated, err = loan.Return()
	default:
		return entity.Loan{}, usecase.ErrUnknownLoanAction
	}
	if err != nil {
		return entity.Loan{}, err
	}

	if err := s.loanRepo.Update(ctx, updated); err != nil {
		return entity.Loan{}, errors.Wrap(err, "Failed to update loan")
	}

	s.publishAvailabilityChange(ctx, updated.DeviceID, 1, service.ReasonReturned)

	return updated, nil
}

// ListLoans returns one user's active loans, or everything when no user
// is given.
func (s *loanService) ListLoans(ctx context.Context, auth service.AuthContext, command usecase.ListLoansCommand) (*usecase.ListLoansResult, error) {
	if !auth.Authenticated {
		return nil, usecase.ErrAuthenticationRequired
	}

	var loans []entity.Loan
	var err error
	if command.UserID != "" {
		loans, err = s.loanRepo.FindActiveByUserID(ctx, command.UserID)
	} else {
		loans, err = s.loanRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &usecase.ListLoansResult{
		Loans:      loans,
		TotalCount: len(loans),
	}, nil
}

// resolveDuplicateCreate resolves an idempotent create against the record
// that won the race. Falling back to the locally built loan keeps the call
// successful even when the read-back fails.
func (s *loanService) resolveDuplicateCreate(ctx context.Context, loan entity.Loan) (entity.Loan, error) {
	stored, err := s.loanRepo.FindByID(ctx, loan.ID)
	if err != nil {
		s.logger.Warn("Duplicate loan create could not read back stored record",
			slog.String("loan_id", loan.ID),
			slog.Any("error", err),
		)

		return loan, nil
	}

	return stored, nil
}

// publishAvailabilityChange publishes a loan update event. Publishing is
// fire-and-forget: a failure is logged and never alters the use case's
// outcome, which is already decided once persistence succeeded.
func (s *loanService) publishAvailabilityChange(ctx context.Context, deviceID string, delta int, reason service.LoanEventReason) {
	event := &service.LoanUpdateEvent{
		CatalogueItemID: deviceID,
		Delta:           delta,
		AvailableUnits:  nil, // Not tracked by the loan entity.
		Reason:          reason,
		OccurredAt:      time.Now().UTC(),
	}

	if err := s.publisher.PublishLoanUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish loan event",
			slog.String("catalogue_item_id", deviceID),
			slog.String("reason", string(reason)),
			slog.Any("error", err),
		)
	}
}
