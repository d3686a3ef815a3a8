package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kemerald25/wallet-app/internal/app"
	"github.com/kemerald25/wallet-app/internal/config"
	"github.com/kemerald25/wallet-app/internal/dex"
	"github.com/kemerald25/wallet-app/internal/history"
	"github.com/kemerald25/wallet-app/internal/metrics"
	"github.com/kemerald25/wallet-app/internal/network"
	"github.com/kemerald25/wallet-app/internal/pool"
	"github.com/kemerald25/wallet-app/internal/util"
	"github.com/kemerald25/wallet-app/internal/wallet"
)

const defaultConfigPath = "config.yaml"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Solana wallet with pool swaps",
	Long: `wallet connects a local keypair to a Solana RPC endpoint and swaps between
the assets of a fixed pool table through the Jupiter aggregator.

Examples:
  wallet tui
  wallet swap 1 ORCA to SOL
  wallet pools
  wallet balance <address>`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to YAML config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// runtime bundles everything built from config for one command invocation.
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	catalog *dex.Catalog
	pools   *pool.Table
	history *history.Log
	metrics *http.Server
	closers []func() error
}

func (r *runtime) Close() {
	for _, c := range r.closers {
		_ = c()
	}
	if r.metrics != nil {
		_ = r.metrics.Close()
	}
}

func loadRuntime(console bool) (*runtime, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Network.RpcURL = getEnv("SOLANA_RPC_URL", cfg.Network.RpcURL)
	cfg.Network.Commitment = getEnv("SOLANA_COMMITMENT", cfg.Network.Commitment)
	cfg.Exchange.JupiterBase = getEnv("JUPITER_BASE_URL", cfg.Exchange.JupiterBase)

	level := cfg.App.LogLevel
	if verbose {
		level = "debug"
	}
	rt := &runtime{cfg: cfg}
	if console {
		rt.log = util.NewConsoleLogger(os.Stderr, level)
	} else {
		rt.log = util.NewLogger(level)
	}

	if rt.catalog, err = dex.CatalogFromConfig(cfg.Tokens); err != nil {
		return nil, err
	}
	entries := pool.DefaultEntries()
	for _, p := range cfg.Pools {
		entries = append(entries, pool.Entry{Config: pool.Config(p.Config), TokenA: p.TokenA, TokenB: p.TokenB})
	}
	if rt.pools, err = pool.NewTable(entries); err != nil {
		return nil, fmt.Errorf("pools: %w", err)
	}
	for _, e := range rt.pools.Entries() {
		for _, sym := range []string{e.TokenA, e.TokenB} {
			if _, err := rt.catalog.Lookup(sym); err != nil {
				return nil, fmt.Errorf("pool %s: %w", e.Config, err)
			}
		}
	}

	var sinks []history.Recorder
	if cfg.History.AuditPath != "" {
		rec, err := history.NewJSONLRecorder(cfg.History.AuditPath)
		if err != nil {
			return nil, fmt.Errorf("history audit: %w", err)
		}
		sinks = append(sinks, rec)
		rt.closers = append(rt.closers, rec.Close)
	}
	rt.history = history.NewLog(sinks...)

	if cfg.App.MetricsAddr != "" {
		rt.metrics = metrics.Serve(cfg.App.MetricsAddr)
		rt.log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")
	}
	return rt, nil
}

func (r *runtime) timeout() time.Duration {
	return time.Duration(r.cfg.Exchange.TimeoutMs) * time.Millisecond
}

func (r *runtime) dial(ctx context.Context) (*network.RPC, error) {
	return network.Establish(ctx, r.cfg.Network.RpcURL, r.cfg.Network.Commitment)
}

func (r *runtime) exchange(net network.Client) *dex.Jupiter {
	return dex.NewJupiter(r.cfg.Exchange.JupiterBase, net, r.catalog, r.pools, r.timeout())
}

// newWallet builds the view-model from config.
func (r *runtime) newWallet() *app.Wallet {
	return app.New(r.log,
		app.WithDialer(func(ctx context.Context) (network.Client, error) { return r.dial(ctx) }),
		app.WithDetector(func() (wallet.Provider, error) { return wallet.Detect(r.cfg.Wallet) }),
		app.WithExchange(func(net network.Client) dex.Exchange { return r.exchange(net) }),
		app.WithPools(r.pools),
		app.WithAssets(r.catalog.Symbols()),
		app.WithRegistry(wallet.NewRegistry(wallet.StaticSource(r.cfg.Wallet.Addresses))),
		app.WithHistory(r.history),
		app.WithSlippage(r.cfg.Exchange.SlippageBps),
	)
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
