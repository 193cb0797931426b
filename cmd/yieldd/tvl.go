package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yieldDesk/internal/chain"
	"yieldDesk/internal/config"
	"yieldDesk/internal/model"
	"yieldDesk/internal/storage"
	"yieldDesk/internal/tvl"
)

func runTVL(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTVL(cfgFile, cmd.Flags())
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

	pools, err := loadPools(ctx, cfg, store)
	if err != nil {
		return err
	}

	logger.Info("tvl start",
		zap.Int("pools", len(pools)),
		zap.Uint64s("chains", chains.ChainIDs()),
		zap.String("method", cfg.TVL.Method),
		zap.String("pools_file", cfg.Pools),
		zap.String("out", cfg.Out),
		zap.Bool("save", cfg.Save),
	)

	snapshots := reader.AllTVL(ctx, pools)
	if err := storage.NewJsonlStorage(cfg.Out).PutSnapshotBatch(snapshots); err != nil {
		return err
	}
	if cfg.Save {
		if err := store.SaveTVLSnapshots(ctx, snapshots); err != nil {
			return err
		}
	}

	logger.Info("tvl done", zap.Int("snapshots", len(snapshots)))
	return nil
}

func loadPools(ctx context.Context, cfg config.TVLConfig, store storage.Store) ([]model.Pool, error) {
	filter := storage.PoolFilter{ChainID: cfg.ChainID}
	if cfg.ActiveOnly {
		filter.Status = model.StatusActive
	}
	if cfg.Pools == "" {
		return tvl.CollectPools(ctx, store, filter)
	}

	all, err := storage.ReadPoolsJsonl(cfg.Pools)
	if err != nil {
		return nil, err
	}
	pools := all[:0]
	for _, pool := range all {
		if filter.Status != "" && pool.Status != filter.Status {
			continue
		}
		if filter.ChainID != 0 && pool.ChainID != filter.ChainID {
			continue
		}
		pools = append(pools, pool)
	}
	return pools, nil
}
