package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"loaner/config"
	"loaner/internal/domain/entity"
	"loaner/internal/domain/repository"
	logs "loaner/internal/infra/log"
	"loaner/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
)

type sampleLoan struct {
	id            string
	deviceID      string
	userID        string
	loanedAt      string
	durationHours int
}

var sampleLoans = []sampleLoan{
	{id: "loan-1", deviceID: "device-1", userID: "user-1", loanedAt: "2025-12-01T10:00:00Z", durationHours: 24},
	{id: "loan-2", deviceID: "device-2", userID: "user-2", loanedAt: "2025-12-02T11:00:00Z", durationHours: 48},
}

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		slog.Error("Failed to create logger", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Seeding failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Seeding complete")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := pgLib.New(cfg.Postgres)
	if err != nil {
		return errors.Wrap(err, "failed to create PostgreSQL client")
	}

	repo := postgres.NewLoanRepository(db)

	for _, sample := range sampleLoans {
		loanedAt, err := time.Parse(time.RFC3339, sample.loanedAt)
		if err != nil {
			return errors.Wrapf(err, "invalid loanedAt for %s", sample.id)
		}

		duration := sample.durationHours
		loan, err := entity.NewLoan(entity.CreateLoanParams{
			ID:                sample.id,
			DeviceID:          sample.deviceID,
			UserID:            sample.userID,
			LoanedAt:          &loanedAt,
			LoanDurationHours: &duration,
		})
		if err != nil {
			return errors.Wrapf(err, "invalid sample loan %s", sample.id)
		}

		if _, err := repo.Create(ctx, loan); err != nil {
			if errors.Is(err, repository.ErrDuplicateLoan) {
				logger.Info("Loan already seeded", slog.String("loanId", sample.id))
				continue
			}

			return errors.Wrapf(err, "failed to seed loan %s", sample.id)
		}

		logger.Info("Seeded loan", slog.String("loanId", sample.id))
	}

	return nil
}
