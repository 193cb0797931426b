package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func serveFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags.String("addr", ":8080", "")
	flags.String("store", "memory", "")
	flags.String("pg-dsn", "", "")
	flags.String("chains", "", "")
	flags.Int("tvl-concurrency", 1, "")
	flags.Float64("rate-limit", 20, "")
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	cfg, err := Load("", serveFlags(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Store.Driver != StoreMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TVL.Method != "balanceOf" || cfg.TVL.Timeout != 10*time.Second || cfg.TVL.MaxRetries != 0 || cfg.TVL.Concurrency != 1 {
		t.Fatalf("unexpected tvl defaults: %+v", cfg.TVL)
	}
	if len(cfg.Chains) != 0 {
		t.Fatalf("chains should be empty: %v", cfg.Chains)
	}
}

func TestLoadFlagsAndEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("YIELDDESK_STRATEGY_METHOD", "totalAssets")
	t.Setenv("YIELDDESK_TVL_MAX_RETRIES", "3")

	flags := serveFlags(t, "--addr", ":9090", "--chains", "56=https://bsc.example,1=https://eth.example")
	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr = %s", cfg.Addr)
	}
	if cfg.TVL.Method != "totalAssets" || cfg.TVL.MaxRetries != 3 {
		t.Fatalf("env not applied: %+v", cfg.TVL)
	}
	if cfg.Chains[56] != "https://bsc.example" || cfg.Chains[1] != "https://eth.example" {
		t.Fatalf("chains = %v", cfg.Chains)
	}
}

func TestLoadConfigFileChainsMap(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "yielddesk.yaml")
	body := "store: postgres\npg-dsn: postgres://localhost/yield\nchains:\n  56: https://bsc.example\n  137: https://polygon.example\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != StorePostgres || cfg.Store.PGDSN == "" {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if len(cfg.Chains) != 2 || cfg.Chains[137] != "https://polygon.example" {
		t.Fatalf("chains = %v", cfg.Chains)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdirTemp(t)
	cases := map[string][]string{
		"unknown store":   {"--store", "redis"},
		"postgres no dsn": {"--store", "postgres"},
		"bad chain id":    {"--chains", "bsc=https://bsc.example"},
		"bad rpc url":     {"--chains", "56=not a url"},
		"zero workers":    {"--tvl-concurrency", "0"},
	}
	for name, args := range cases {
		if _, err := Load("", serveFlags(t, args...)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadTVLSaveNeedsStore(t *testing.T) {
	chdirTemp(t)
	flags := pflag.NewFlagSet("tvl", pflag.ContinueOnError)
	flags.Bool("save", false, "")
	if err := flags.Parse([]string{"--save"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := LoadTVL("", flags); err == nil {
		t.Fatalf("expected error saving to the memory store")
	}
}

func TestLoadTVLPoolsFile(t *testing.T) {
	chdirTemp(t)
	flags := pflag.NewFlagSet("tvl", pflag.ContinueOnError)
	flags.String("pools", "", "")
	flags.Bool("save", false, "")
	flags.String("store", "memory", "")
	flags.String("pg-dsn", "", "")
	if err := flags.Parse([]string{"--pools", " pools.jsonl "}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := LoadTVL("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pools != "pools.jsonl" || cfg.Out != "-" || !cfg.ActiveOnly {
		t.Fatalf("unexpected tvl config: %+v", cfg)
	}

	if err := flags.Parse([]string{"--save", "--store", "postgres", "--pg-dsn", "postgres://localhost/yield"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := LoadTVL("", flags); err == nil {
		t.Fatalf("expected error saving snapshots of file pools")
	}
}

func TestParseStringMap(t *testing.T) {
	got := parseStringMap(" 56 = https://a , broken, =x, 1=https://b ")
	if len(got) != 2 || got["56"] != "https://a" || got["1"] != "https://b" {
		t.Fatalf("unexpected map: %v", got)
	}
}
