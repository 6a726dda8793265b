package main

import (
	"context"
	"log/slog"
	"os"

	"loaner/config"
	"loaner/internal/delivery"
	"loaner/internal/delivery/http"
	"loaner/internal/delivery/http/middleware"
	"loaner/internal/delivery/http/router/handler"
	"loaner/internal/domain/constants"
	"loaner/internal/domain/repository"
	"loaner/internal/infra/auth"
	logs "loaner/internal/infra/log"
	"loaner/internal/infra/persistence/memory"
	"loaner/internal/infra/persistence/postgres"
	"loaner/internal/infra/pubsub"
	"loaner/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

type loanRepositoryParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// newLoanRepository selects the storage backend. The Postgres client is
// only constructed when the postgres driver is selected, so a memory-backed
// process starts without a database.
func newLoanRepository(params loanRepositoryParams) (repository.LoanRepository, error) {
	driver := constants.PersistenceDriverPostgres
	if params.Config.Persistence != nil && params.Config.Persistence.Driver != "" {
		driver = params.Config.Persistence.Driver
	}

	switch driver {
	case constants.PersistenceDriverMemory:
		return memory.NewLoanRepository(), nil

	case constants.PersistenceDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		return postgres.NewLoanRepository(db), nil

	default:
		return nil, errors.Errorf("unknown persistence driver: %s", driver)
	}
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newLoanRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewOAuth2Validator,
		),
		pubsub.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewLoanService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewLoanHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
