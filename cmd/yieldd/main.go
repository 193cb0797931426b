package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "yieldd",
		Short:        "Multi-chain yield platform backend",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("addr", ":8080", "listen address")
	addStoreFlags(serveCmd)
	addTVLFlags(serveCmd)
	serveCmd.Flags().String("tvl-snapshot", "", "cron spec for periodic TVL snapshots (e.g. \"@every 5m\"), empty disables")
	serveCmd.Flags().Float64("rate-limit", 20, "requests per second per client, 0 disables")
	serveCmd.Flags().Int("rate-burst", 40, "rate limit burst size")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	tvlCmd := &cobra.Command{
		Use:   "tvl",
		Short: "Read strategy TVL for stored pools and write JSONL",
		RunE:  runTVL,
	}

	addStoreFlags(tvlCmd)
	addTVLFlags(tvlCmd)
	tvlCmd.Flags().String("pools", "", "read pools from a JSONL file instead of the store")
	tvlCmd.Flags().String("out", "-", "output JSONL path, - for stdout")
	tvlCmd.Flags().Bool("save", false, "also store snapshots in the selected store")
	tvlCmd.Flags().Bool("active-only", true, "skip inactive pools")
	tvlCmd.Flags().Uint64("chain-id", 0, "only read pools on this chain")
	tvlCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(tvlCmd)

	rolesCmd := &cobra.Command{
		Use:   "roles",
		Short: "Print the admin role table",
		RunE:  runRoles,
	}

	root.AddCommand(rolesCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "memory", "store backend (memory, postgres, mongo)")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN")
	cmd.Flags().String("mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().String("mongo-db", "yielddesk", "MongoDB database name")
}

func addTVLFlags(cmd *cobra.Command) {
	cmd.Flags().String("chains", "", "chain RPCs (comma-separated id=url, e.g. 56=https://...)")
	cmd.Flags().String("strategy-method", "balanceOf", "strategy view method returning TVL (balanceOf, totalAssets, getTVL)")
	cmd.Flags().Duration("tvl-timeout", 10*time.Second, "per-call strategy read timeout")
	cmd.Flags().Int("tvl-max-retries", 0, "retries per strategy read")
	cmd.Flags().Duration("tvl-retry-backoff", 200*time.Millisecond, "initial retry backoff")
	cmd.Flags().Int("tvl-concurrency", 1, "concurrent strategy reads")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
