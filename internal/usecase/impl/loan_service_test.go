package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"loaner/internal/domain/entity"
	"loaner/internal/domain/service"
	"loaner/internal/infra/persistence/memory"
	"loaner/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func TestLoanService_CreateLoan_Success(t *testing.T) {
	repo := memory.NewLoanRepository()
	publisher := &recordingPublisher{}
	svc := NewLoanService(repo, publisher, testLogger())

	ctx := context.Background()
	loanedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	loan, err := svc.CreateLoan(ctx, authenticated(), usecase.CreateLoanParams{
		ID:                "loan-1",
		DeviceID:          "device-1",
		UserID:            "user-1",
		LoanedAt:          timePtr(loanedAt),
		LoanDurationHours: intPtr(12),
	})
	require.NoError(t, err)

	assert.Equal(t, "loan-1", loan.ID)
	assert.Equal(t, entity.LoanStatusActive, loan.Status)
	assert.Equal(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), loan.DueAt)

	stored, err := repo.FindByID(ctx, "loan-1")
	require.NoError(t, err)
	assert.Equal(t, loan, stored)

	events := publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, "device-1", events[0].CatalogueItemID)
	assert.Equal(t, -1, events[0].Delta)
	assert.Equal(t, service.ReasonReserved, events[0].Reason)
	assert.Nil(t, events[0].AvailableUnits)
}

func TestLoanService_CreateLoan_ValidationFailure(t *testing.T) {
	repo := &stubLoanRepo{}
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	_, err := svc.CreateLoan(context.Background(), authenticated(), usecase.CreateLoanParams{})
	require.Error(t, err)

	var validationErr *entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{
		"id is required.",
		"deviceId is required.",
		"userId is required.",
	}, validationErr.Messages)

	// Invalid input never reaches storage.
	assert.Equal(t, int64(0), repo.calls.Load())
}

func TestLoanService_CreateLoan_ConcurrentSameID(t *testing.T) {
	repo := memory.NewLoanRepository()
	publisher := &recordingPublisher{}
	svc := NewLoanService(repo, publisher, testLogger())

	ctx := context.Background()
	loanedAt := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	params := usecase.CreateLoanParams{
		ID:       "loan-race",
		DeviceID: "device-1",
		UserID:   "user-1",
		LoanedAt: timePtr(loanedAt),
	}

	const writers = 16

	var wg sync.WaitGroup
	results := make([]entity.Loan, writers)
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.CreateLoan(ctx, authenticated(), params)
		}()
	}
	wg.Wait()

	// Every writer succeeds and observes the single stored record.
	stored, err := repo.FindByID(ctx, "loan-race")
	require.NoError(t, err)
	for i := range writers {
		require.NoError(t, errs[i])
		assert.Equal(t, stored, results[i])
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLoanService_EditLoan_Return(t *testing.T) {
	repo := memory.NewLoanRepository()
	publisher := &recordingPublisher{}
	svc := NewLoanService(repo, publisher, testLogger())

	ctx := context.Background()
	created, err := svc.CreateLoan(ctx, authenticated(), usecase.CreateLoanParams{
		ID:       "loan-1",
		DeviceID: "device-1",
		UserID:   "user-1",
	})
	require.NoError(t, err)

	returned, err := svc.EditLoan(ctx, authenticated(), usecase.EditLoanCommand{
		LoanID: created.ID,
		Action: usecase.LoanActionReturn,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.LoanStatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)

	stored, err := repo.FindByID(ctx, "loan-1")
	require.NoError(t, err)
	assert.Equal(t, entity.LoanStatusReturned, stored.Status)

	events := publisher.published()
	require.Len(t, events, 2)
	assert.Equal(t, service.ReasonReturned, events[1].Reason)
	assert.Equal(t, 1, events[1].Delta)
	assert.Equal(t, "device-1", events[1].CatalogueItemID)
}

func TestLoanService_ListLoans_All(t *testing.T) {
	repo := memory.NewLoanRepository()
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	ctx := context.Background()
	for _, id := range []string{"loan-1", "loan-2", "loan-3"} {
		_, err := svc.CreateLoan(ctx, authenticated(), usecase.CreateLoanParams{
			ID:       id,
			DeviceID: "device-" + id,
			UserID:   "user-1",
		})
		require.NoError(t, err)
	}

	result, err := svc.ListLoans(ctx, authenticated(), usecase.ListLoansCommand{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount)
	assert.Len(t, result.Loans, 3)
}

func TestLoanService_ListLoans_ByUser(t *testing.T) {
	repo := memory.NewLoanRepository()
	svc := NewLoanService(repo, &recordingPublisher{}, testLogger())

	ctx := context.Background()
	_, err := svc.CreateLoan(ctx, authenticated(), usecase.CreateLoanParams{
		ID: "loan-1", DeviceID: "device-1", UserID: "user-a",
	})
	require.NoError(t, err)
	_, err = svc.CreateLoan(ctx, authenticated(), usecase.CreateLoanParams{
		ID: "loan-2", DeviceID: "device-2", UserID: "user-b",
	})
	require.NoError(t, err)
	_, err = svc.CreateLoan(ctx, authenticated(), usecase.CreateLoanParams{
		ID: "loan-3", DeviceID: "device-3", UserID: "user-a",
	})
	require.NoError(t, err)

	// A returned loan drops out of the per-user active listing.
	_, err = svc.EditLoan(ctx, authenticated(), usecase.EditLoanCommand{
		LoanID: "loan-3",
		Action: usecase.LoanActionReturn,
	})
	require.NoError(t, err)

	result, err := svc.ListLoans(ctx, authenticated(), usecase.ListLoansCommand{UserID: "user-a"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Loans, 1)
	assert.Equal(t, "loan-1", result.Loans[0].ID)
}

func TestLoanService_ListLoans_Empty(t *testing.T) {
	svc := NewLoanService(memory.NewLoanRepository(), &recordingPublisher{}, testLogger())

	result, err := svc.ListLoans(context.Background(), authenticated(), usecase.ListLoansCommand{})
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalCount)
	assert.Empty(t, result.Loans)
}

func TestLoanService_PublisherFailureDoesNotFailCreate(t *testing.T) {
	repo := memory.NewLoanRepository()
	publisher := &recordingPublisher{failErr: assert.AnError}
	svc := NewLoanService(repo, publisher, testLogger())

	ctx := context.Background()
	loan, err := svc.CreateLoan(ctx, authenticated(), usecase.CreateLoanParams{
		ID: "loan-1", DeviceID: "device-1", UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "loan-1", loan.ID)

	_, err = svc.EditLoan(ctx, authenticated(), usecase.EditLoanCommand{
		LoanID: "loan-1",
		Action: usecase.LoanActionReturn,
	})
	require.NoError(t, err)

	// Both publish attempts were made even though they failed.
	assert.Len(t, publisher.published(), 2)
}
