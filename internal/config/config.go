package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "YIELDDESK"

// Store drivers accepted by --store.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// StoreConfig selects and addresses the persistence backend.
type StoreConfig struct {
	Driver   string
	PGDSN    string
	MongoURI string
	MongoDB  string
}

// TVLOptions tunes strategy reads.
type TVLOptions struct {
	Method       string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Concurrency  int
}

// ServeConfig holds configuration for the API server.
type ServeConfig struct {
	Addr             string
	Store            StoreConfig
	Chains           map[uint64]string
	TVL              TVLOptions
	SnapshotSchedule string
	RateLimit        float64
	RateBurst        int
	ShutdownTimeout  time.Duration
	LogLevel         string
}

// TVLConfig holds configuration for the one-shot tvl command.
type TVLConfig struct {
	Store      StoreConfig
	Chains     map[uint64]string
	TVL        TVLOptions
	Pools      string
	Out        string
	Save       bool
	ActiveOnly bool
	ChainID    uint64
	LogLevel   string
}

// newViper layers defaults, environment, flags and an optional config file.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("store", StoreMemory)
	v.SetDefault("mongo-db", "yielddesk")
	v.SetDefault("strategy-method", "balanceOf")
	v.SetDefault("tvl-timeout", 10*time.Second)
	v.SetDefault("tvl-max-retries", 0)
	v.SetDefault("tvl-retry-backoff", 200*time.Millisecond)
	v.SetDefault("tvl-concurrency", 1)
	v.SetDefault("log-level", "info")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func storeConfig(v *viper.Viper) (StoreConfig, error) {
	cfg := StoreConfig{
		Driver:   strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		PGDSN:    v.GetString("pg-dsn"),
		MongoURI: v.GetString("mongo-uri"),
		MongoDB:  v.GetString("mongo-db"),
	}
	switch cfg.Driver {
	case StoreMemory:
	case StorePostgres:
		if cfg.PGDSN == "" {
			return cfg, fmt.Errorf("pg dsn is required for the postgres store")
		}
	case StoreMongo:
		if cfg.MongoURI == "" {
			return cfg, fmt.Errorf("mongo uri is required for the mongo store")
		}
	default:
		return cfg, fmt.Errorf("unknown store %q (memory, postgres, mongo)", cfg.Driver)
	}
	return cfg, nil
}

func tvlOptions(v *viper.Viper) (TVLOptions, error) {
	opts := TVLOptions{
		Method:       strings.TrimSpace(v.GetString("strategy-method")),
		Timeout:      v.GetDuration("tvl-timeout"),
		MaxRetries:   v.GetInt("tvl-max-retries"),
		RetryBackoff: v.GetDuration("tvl-retry-backoff"),
		Concurrency:  v.GetInt("tvl-concurrency"),
	}
	if opts.MaxRetries < 0 {
		return opts, fmt.Errorf("tvl-max-retries must not be negative")
	}
	if opts.Concurrency < 1 {
		return opts, fmt.Errorf("tvl-concurrency must be at least 1")
	}
	return opts, nil
}

// Load merges config file, environment variables, and flags into ServeConfig.
func Load(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"addr":             ":8080",
		"rate-limit":       20.0,
		"rate-burst":       40,
		"shutdown-timeout": 10 * time.Second,
	})
	if err != nil {
		return ServeConfig{}, err
	}

	store, err := storeConfig(v)
	if err != nil {
		return ServeConfig{}, err
	}
	chains, err := getChains(v, "chains")
	if err != nil {
		return ServeConfig{}, err
	}
	tvl, err := tvlOptions(v)
	if err != nil {
		return ServeConfig{}, err
	}

	cfg := ServeConfig{
		Addr:             v.GetString("addr"),
		Store:            store,
		Chains:           chains,
		TVL:              tvl,
		SnapshotSchedule: strings.TrimSpace(v.GetString("tvl-snapshot")),
		RateLimit:        v.GetFloat64("rate-limit"),
		RateBurst:        v.GetInt("rate-burst"),
		ShutdownTimeout:  v.GetDuration("shutdown-timeout"),
		LogLevel:         v.GetString("log-level"),
	}
	return cfg, nil
}

// LoadTVL merges config file, environment variables, and flags into TVLConfig.
func LoadTVL(cfgFile string, flags *pflag.FlagSet) (TVLConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"out":         "-",
		"active-only": true,
	})
	if err != nil {
		return TVLConfig{}, err
	}

	store, err := storeConfig(v)
	if err != nil {
		return TVLConfig{}, err
	}
	chains, err := getChains(v, "chains")
	if err != nil {
		return TVLConfig{}, err
	}
	tvl, err := tvlOptions(v)
	if err != nil {
		return TVLConfig{}, err
	}

	cfg := TVLConfig{
		Store:      store,
		Chains:     chains,
		TVL:        tvl,
		Pools:      strings.TrimSpace(v.GetString("pools")),
		Out:        v.GetString("out"),
		Save:       v.GetBool("save"),
		ActiveOnly: v.GetBool("active-only"),
		ChainID:    v.GetUint64("chain-id"),
		LogLevel:   v.GetString("log-level"),
	}
	if cfg.Save && cfg.Store.Driver == StoreMemory {
		return cfg, fmt.Errorf("--save needs a persistent store")
	}
	if cfg.Save && cfg.Pools != "" {
		return cfg, fmt.Errorf("--save cannot be combined with --pools")
	}
	return cfg, nil
}
