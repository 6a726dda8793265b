package impl

import (
	"context"
	"testing"

	"loaner/internal/domain/entity"
	"loaner/internal/domain/repository"
	"loaner/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanService_CreateLoan_Unauthenticated(t *testing.T) {
	repo := &stubLoanRepo{}
	publisher := &recordingPublisher{}
	svc := NewLoanService(repo, publisher, testLogger())

	_, err := svc.CreateLoan(context.Background(), anonymous(), usecase.CreateLoanParams{
		ID: "loan-1", DeviceID: "device-1", UserID: "user-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrAuthenticationRequired)
	assert.Equal(t, "Authentication required", err.Error())

	// The rejection happens before any storage or publish work.
	assert.Equal(t, int64(0), repo.calls.Load())
	assert.Empty(t, publisher.published())
}

func TestLoanService_EditLoan_Unauthenticated(t *testing.T) {
	repo := &stubLoanRepo{}
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	_, err := svc.EditLoan(context.Background(), anonymous(), usecase.EditLoanCommand{
		LoanID: "loan-1",
		Action: usecase.LoanActionReturn,
	})
	assert.ErrorIs(t, err, usecase.ErrAuthenticationRequired)
	assert.Equal(t, int64(0), repo.calls.Load())
}

func TestLoanService_ListLoans_Unauthenticated(t *testing.T) {
	repo := &stubLoanRepo{}
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	_, err := svc.ListLoans(context.Background(), anonymous(), usecase.ListLoansCommand{})
	assert.ErrorIs(t, err, usecase.ErrAuthenticationRequired)
	assert.Equal(t, int64(0), repo.calls.Load())
}

func TestLoanService_CreateLoan_StorageFailure(t *testing.T) {
	repo := &stubLoanRepo{
		createFn: func(_ context.Context, _ entity.Loan) (entity.Loan, error) {
			return entity.Loan{}, errors.New("connection refused")
		},
	}
	publisher := &recordingPublisher{}
	svc := NewLoanService(repo, publisher, testLogger())

	_, err := svc.CreateLoan(context.Background(), authenticated(), usecase.CreateLoanParams{
		ID: "loan-1", DeviceID: "device-1", UserID: "user-1",
	})
	require.Error(t, err)
	assert.Equal(t, "Failed to save loan: connection refused", err.Error())
	assert.Empty(t, publisher.published())
}

func TestLoanService_CreateLoan_DuplicateResolvedToStoredRecord(t *testing.T) {
	winner := entity.Loan{ID: "loan-1", DeviceID: "device-1", UserID: "user-1", Status: entity.LoanStatusActive}
	repo := &stubLoanRepo{
		createFn: func(_ context.Context, _ entity.Loan) (entity.Loan, error) {
			return entity.Loan{}, repository.ErrDuplicateLoan
		},
		findByIDFn: func(_ context.Context, _ string) (entity.Loan, error) {
			return winner, nil
		},
	}
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	loan, err := svc.CreateLoan(context.Background(), authenticated(), usecase.CreateLoanParams{
		ID: "loan-1", DeviceID: "device-1", UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, winner, loan)
}

func TestLoanService_CreateLoan_DuplicateReadBackFailure(t *testing.T) {
	repo := &stubLoanRepo{
		createFn: func(_ context.Context, _ entity.Loan) (entity.Loan, error) {
			return entity.Loan{}, repository.ErrDuplicateLoan
		},
		findByIDFn: func(_ context.Context, _ string) (entity.Loan, error) {
			return entity.Loan{}, errors.New("connection refused")
		},
	}
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	// The create still succeeds, answering with the locally built loan.
	loan, err := svc.CreateLoan(context.Background(), authenticated(), usecase.CreateLoanParams{
		ID: "loan-1", DeviceID: "device-1", UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "loan-1", loan.ID)
	assert.Equal(t, entity.LoanStatusActive, loan.Status)
}

func TestLoanService_EditLoan_NotFound(t *testing.T) {
	repo := &stubLoanRepo{
		findByIDFn: func(_ context.Context, _ string) (entity.Loan, error) {
			return entity.Loan{}, repository.ErrLoanNotFound
		},
	}
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	_, err := svc.EditLoan(context.Background(), authenticated(), usecase.EditLoanCommand{
		LoanID: "missing",
		Action: usecase.LoanActionReturn,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrLoanNotFound)
	assert.Equal(t, "Loan not found", err.Error())
}

func TestLoanService_EditLoan_UnknownAction(t *testing.T) {
	loan := entity.Loan{ID: "loan-1", DeviceID: "device-1", UserID: "user-1", Status: entity.LoanStatusActive}
	repo := &stubLoanRepo{
		findByIDFn: func(_ context.Context, _ string) (entity.Loan, error) {
			return loan, nil
		},
		updateFn: func(_ context.Context, _ entity.Loan) error {
			t.Fatal("update must not be called for an unknown action")

			return nil
		},
	}
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	_, err := svc.EditLoan(context.Background(), authenticated(), usecase.EditLoanCommand{
		LoanID: "loan-1",
		Action: "extend",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrUnknownLoanAction)
	assert.Equal(t, "Unknown loan action", err.Error())
}

func TestLoanService_EditLoan_AlreadyReturned(t *testing.T) {
	returned := entity.Loan{ID: "loan-1", DeviceID: "device-1", UserID: "user-1", Status: entity.LoanStatusReturned}
	repo := &stubLoanRepo{
		findByIDFn: func(_ context.Context, _ string) (entity.Loan, error) {
			return returned, nil
		},
	}
	publisher := &recordingPublisher{}
	svc := NewLoanService(repo, publisher, testLogger())

	_, err := svc.EditLoan(context.Background(), authenticated(), usecase.EditLoanCommand{
		LoanID: "loan-1",
		Action: usecase.LoanActionReturn,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrLoanAlreadyReturned)
	assert.Empty(t, publisher.published())
}

func TestLoanService_EditLoan_UpdateFailure(t *testing.T) {
	active := entity.Loan{ID: "loan-1", DeviceID: "device-1", UserID: "user-1", Status: entity.LoanStatusActive}
	repo := &stubLoanRepo{
		findByIDFn: func(_ context.Context, _ string) (entity.Loan, error) {
			return active, nil
		},
		updateFn: func(_ context.Context, _ entity.Loan) error {
			return errors.New("connection refused")
		},
	}
	publisher := &recordingPublisher{}
	svc := NewLoanService(repo, publisher, testLogger())

	_, err := svc.EditLoan(context.Background(), authenticated(), usecase.EditLoanCommand{
		LoanID: "loan-1",
		Action: usecase.LoanActionReturn,
	})
	require.Error(t, err)
	assert.Equal(t, "Failed to update loan: connection refused", err.Error())
	assert.Empty(t, publisher.published())
}

func TestLoanService_ListLoans_StorageFailure(t *testing.T) {
	repo := &stubLoanRepo{
		listAllFn: func(_ context.Context) ([]entity.Loan, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	_, err := svc.ListLoans(context.Background(), authenticated(), usecase.ListLoansCommand{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
