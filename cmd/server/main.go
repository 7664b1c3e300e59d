package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "livepoll/docs"
	"livepoll/internal/config"
	"livepoll/internal/domain/poll"
	"livepoll/internal/domain/results"
	"livepoll/internal/domain/user"
	"livepoll/internal/domain/vote"
	api "livepoll/internal/http"
	"livepoll/internal/metrics"
	"livepoll/internal/platform/database"
	"livepoll/internal/realtime"
	"livepoll/internal/repository/postgres"
	"livepoll/internal/repository/sqlite"
	"livepoll/internal/worker"
)

type store struct {
	db    *sql.DB
	users user.Repository
	polls poll.Repository
	votes vote.Repository
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := database.NewSQLite(ctx, cfg.DB_DSN)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{db: db, users: sqlite.NewUserRepo(db), polls: sqlite.NewPollRepo(db), votes: sqlite.NewVoteRepo(db)}, nil
	default:
		db, err := database.NewPostgres(ctx, cfg.DB_DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{db: db, users: postgres.NewUserRepo(db), polls: postgres.NewPollRepo(db), votes: postgres.NewVoteRepo(db)}, nil
	}
}

// @title           Live Poll API
// @version         1.0
// @description     Polling service with live results over websocket
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("db connect error", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer st.db.Close()

	registry := realtime.NewRegistry(logger)
	broadcaster := realtime.NewBroadcaster(registry, logger)
	aggregator := results.NewAggregator(st.polls, st.votes)
	dispatcher := worker.NewDispatcher(aggregator, broadcaster, cfg.BroadcastWorkers, logger)
	ledger := vote.NewLedger(st.votes, dispatcher, logger)

	router := api.NewRouter(
		user.NewService(st.users),
		poll.NewService(st.polls),
		ledger,
		aggregator,
		registry,
		st.db,
		api.Options{
			Conn: realtime.Options{
				SendBuffer:   cfg.WSSendBuffer,
				WriteTimeout: cfg.WSWriteTimeout,
				PingInterval: cfg.WSPingInterval,
			},
			VoteRatePerMinute: cfg.VoteRatePerMinute,
			VoteRateBurst:     cfg.VoteRateBurst,
		},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(dispatchCtx)
	}()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// no request can commit a vote after this, so the dispatcher gets the
	// final notifications before it drains and stops
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	cancelDispatch()
	wg.Wait()
	registry.Shutdown()

	logger.Info("server stopped")
}
