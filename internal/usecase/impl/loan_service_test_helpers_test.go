package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"loaner/internal/domain/entity"
	"loaner/internal/domain/repository"
	"loaner/internal/domain/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authenticated() service.AuthContext {
	return service.AuthContext{
		Authenticated: true,
		Subject:       "test-subject",
		Scopes:        []string{"loans.readwrite"},
	}
}

func anonymous() service.AuthContext {
	return service.AuthContext{Error: "No Authorization header or Bearer token found"}
}

// stubLoanRepo lets each repository method be overridden per test and counts
// every call, so auth-gating tests can assert the repository was never touched.
type stubLoanRepo struct {
	calls atomic.Int64

	createFn           func(ctx context.Context, loan entity.Loan) (entity.Loan, error)
	findByIDFn         func(ctx context.Context, id string) (entity.Loan, error)
	updateFn           func(ctx context.Context, loan entity.Loan) error
	listAllFn          func(ctx context.Context) ([]entity.Loan, error)
	findActiveByUserFn func(ctx context.Context, userID string) ([]entity.Loan, error)
}

var _ repository.LoanRepository = (*stubLoanRepo)(nil)

func (s *stubLoanRepo) Create(ctx context.Context, loan entity.Loan) (entity.Loan, error) {
	s.calls.Add(1)
	if s.createFn == nil {
		return loan, nil
	}

	return s.createFn(ctx, loan)
}

func (s *stubLoanRepo) FindByID(ctx context.Context, id string) (entity.Loan, error) {
	s.calls.Add(1)
	if s.findByIDFn == nil {
		return entity.Loan{}, repository.ErrLoanNotFound
	}

	return s.findByIDFn(ctx, id)
}

func (s *stubLoanRepo) Update(ctx context.Context, loan entity.Loan) error {
	s.calls.Add(1)
	if s.updateFn == nil {
		return nil
	}

	return s.updateFn(ctx, loan)
}

func (s *stubLoanRepo) ListAll(ctx context.Context) ([]entity.Loan, error) {
	s.calls.Add(1)
	if s.listAllFn == nil {
		return nil, nil
	}

	return s.listAllFn(ctx)
}

func (s *stubLoanRepo) FindActiveByUserID(ctx context.Context, userID string) ([]entity.Loan, error) {
	s.calls.Add(1)
	if s.findActiveByUserFn == nil {
		return nil, nil
	}

	return s.findActiveByUserFn(ctx, userID)
}

// recordingPublisher records every published event and optionally fails.
type recordingPublisher struct {
	mu      sync.Mutex
	events  []service.LoanUpdateEvent
	failErr error
}

var _ service.LoanEventPublisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) PublishLoanUpdated(_ context.Context, event *service.LoanUpdateEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, *event)

	return p.failErr
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []service.LoanUpdateEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	events := make([]service.LoanUpdateEvent, len(p.events))
	copy(events, p.events)

	return events
}
