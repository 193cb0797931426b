package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldDesk/internal/api"
	"yieldDesk/internal/chain"
	"yieldDesk/internal/config"
	"yieldDesk/internal/tvl"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	chains, err := chain.Dial(ctx, cfg.Chains, logger)
	if err != nil {
		return err
	}
	defer chains.Close()

	reader, err := tvl.NewReader(readerConfig(cfg.TVL), chains, logger)
	if err != nil {
		return err
	}

	srv, err := api.NewServer(store, reader, chains, logger, api.Options{
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	if cfg.SnapshotSchedule != "" {
		scheduler, err := startSnapshots(ctx, cfg.SnapshotSchedule, tvl.NewJob(reader, store, store, logger), logger)
		if err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("api start",
		zap.String("addr", cfg.Addr),
		zap.String("store", cfg.Store.Driver),
		zap.Uint64s("chains", chains.ChainIDs()),
		zap.String("strategy_method", cfg.TVL.Method),
		zap.String("tvl_snapshot", cfg.SnapshotSchedule),
		zap.Float64("rate_limit", cfg.RateLimit),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("api shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func readerConfig(opts config.TVLOptions) tvl.Config {
	return tvl.Config{
		Method:       opts.Method,
		Timeout:      opts.Timeout,
		MaxRetries:   opts.MaxRetries,
		RetryBackoff: opts.RetryBackoff,
		Concurrency:  opts.Concurrency,
	}
}

// startSnapshots schedules job on a cron schedule. Overlapping runs are skipped.
func startSnapshots(ctx context.Context, schedule string, job *tvl.Job, logger *zap.Logger) (*cron.Cron, error) {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := scheduler.AddFunc(schedule, func() {
		if _, err := job.Run(ctx); err != nil {
			logger.Error("tvl snapshot failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid tvl-snapshot schedule %q: %w", schedule, err)
	}
	scheduler.Start()
	logger.Info("tvl snapshots scheduled", zap.String("schedule", schedule))
	return scheduler, nil
}
