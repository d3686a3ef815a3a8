// Package app is the wallet view-model: it owns the session, the swap form and the history log,
// and exposes the user actions as handlers that log failures instead of returning them.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kemerald25/wallet-app/internal/config"
	"github.com/kemerald25/wallet-app/internal/dex"
	"github.com/kemerald25/wallet-app/internal/history"
	"github.com/kemerald25/wallet-app/internal/metrics"
	"github.com/kemerald25/wallet-app/internal/network"
	"github.com/kemerald25/wallet-app/internal/pool"
	"github.com/kemerald25/wallet-app/internal/swap"
	"github.com/kemerald25/wallet-app/internal/wallet"
)

// DialFunc establishes the network client.
type DialFunc func(ctx context.Context) (network.Client, error)

// DetectFunc looks up the wallet provider; nil means none is installed.
type DetectFunc func() (wallet.Provider, error)

// ExchangeFunc builds the exchange client on top of an established network client.
type ExchangeFunc func(net network.Client) dex.Exchange

// Option configures Wallet construction parameters.
type Option func(*Wallet)

// WithDialer overrides how the network client is established.
func WithDialer(d DialFunc) Option { return func(w *Wallet) { w.dial = d } }

// WithDetector overrides wallet provider detection.
func WithDetector(d DetectFunc) Option { return func(w *Wallet) { w.detect = d } }

// WithExchange overrides the exchange constructor.
func WithExchange(e ExchangeFunc) Option { return func(w *Wallet) { w.exchangeFor = e } }

// WithPools replaces the pair table.
func WithPools(t *pool.Table) Option { return func(w *Wallet) { w.pools = t } }

// WithAssets sets the symbols offered by the form.
func WithAssets(assets []string) Option { return func(w *Wallet) { w.assets = assets } }

// WithRegistry replaces the wallet registry.
func WithRegistry(r *wallet.Registry) Option { return func(w *Wallet) { w.registry = r } }

// WithHistory replaces the transaction log.
func WithHistory(h *history.Log) Option { return func(w *Wallet) { w.history = h } }

// WithSlippage sets the quote tolerance in basis points.
func WithSlippage(bps int) Option { return func(w *Wallet) { w.slippageBps = bps } }

// View is everything a front-end needs to render the wallet.
type View struct {
	Session      wallet.State
	NetworkReady bool
	Form         swap.Request
	Assets       []string
	Wallets      []string
	Selected     string
	ShowHistory  bool
	History      []history.Record
}

// Wallet is the single view-model instance behind the UI.
type Wallet struct {
	log         zerolog.Logger
	dial        DialFunc
	detect      DetectFunc
	exchangeFor ExchangeFunc
	pools       *pool.Table
	assets      []string
	slippageBps int
	registry    *wallet.Registry
	history     *history.Log
	session     *wallet.Session

	mu          sync.Mutex
	client      network.Client
	swaps       *swap.Service
	provider    wallet.Provider
	form        swap.Request
	showHistory bool
}

// New builds a Wallet with devnet/Jupiter defaults; options override each collaborator.
func New(log zerolog.Logger, opts ...Option) *Wallet {
	catalog := dex.NewCatalog(dex.DefaultTokens())
	w := &Wallet{
		log:         log,
		pools:       pool.DefaultTable(),
		assets:      catalog.Symbols(),
		slippageBps: 50,
		registry:    wallet.NewRegistry(nil),
		history:     history.NewLog(),
		session:     wallet.NewSession(),
		form:        swap.Request{From: "ORCA", To: "SOL", Amount: "1"},
	}
	w.dial = func(ctx context.Context) (network.Client, error) {
		return network.Establish(ctx, config.DevnetRPC, config.CommitmentConfirmed)
	}
	w.detect = func() (wallet.Provider, error) { return wallet.Detect(config.Wallet{}) }
	w.exchangeFor = func(net network.Client) dex.Exchange {
		return dex.NewJupiter(config.DefaultJupiterBase, net, catalog, w.pools, 8*time.Second)
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Mount establishes the network client and loads the wallet list. Failures are logged only.
func (w *Wallet) Mount(ctx context.Context) {
	w.establishConnection(ctx)
	w.loadWallets(ctx)
}

func (w *Wallet) establishConnection(ctx context.Context) {
	client, err := w.dial(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to connect to Solana network")
		return
	}
	var exchange dex.Exchange
	if w.exchangeFor != nil {
		exchange = w.exchangeFor(client)
	}
	w.mu.Lock()
	w.client = client
	w.swaps = swap.NewService(w.log, w.pools, exchange, w.history, w.slippageBps)
	w.mu.Unlock()
}

func (w *Wallet) loadWallets(ctx context.Context) {
	wallets, err := w.registry.Load(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to load wallets")
		return
	}
	w.log.Debug().Int("count", len(wallets)).Str("selected", w.registry.Selected()).Msg("wallets loaded")
}

// ConnectWallet connects the detected provider and loads its balance.
func (w *Wallet) ConnectWallet(ctx context.Context) {
	provider, err := w.detect()
	if err != nil {
		metrics.WalletEventsTotal.WithLabelValues("connect", "error").Inc()
		w.log.Error().Err(err).Msg("failed to detect wallet provider")
		return
	}
	w.mu.Lock()
	client := w.client
	w.mu.Unlock()

	if err := w.session.Connect(ctx, provider, client); err != nil {
		metrics.WalletEventsTotal.WithLabelValues("connect", "error").Inc()
		w.log.Error().Err(err).Msg("failed to connect wallet")
		return
	}
	w.mu.Lock()
	w.provider = provider
	w.mu.Unlock()
	metrics.WalletEventsTotal.WithLabelValues("connect", "ok").Inc()
	st := w.session.State()
	w.log.Info().Str("address", st.Address).Float64("balance", st.Balance).Msg("wallet connected")
}

// DisconnectWallet resets the session using the connected provider, or a freshly detected one.
func (w *Wallet) DisconnectWallet(ctx context.Context) {
	w.mu.Lock()
	provider := w.provider
	w.mu.Unlock()
	if provider == nil {
		provider, _ = w.detect()
	}
	if err := w.session.Disconnect(ctx, provider); err != nil {
		metrics.WalletEventsTotal.WithLabelValues("disconnect", "error").Inc()
		w.log.Error().Err(err).Msg("wallet disconnect")
		if provider == nil {
			return
		}
	} else {
		metrics.WalletEventsTotal.WithLabelValues("disconnect", "ok").Inc()
	}
	w.mu.Lock()
	w.provider = nil
	w.mu.Unlock()
}

// SetForm replaces the swap form values. Nothing is validated here.
func (w *Wallet) SetForm(from, to, amount string) {
	w.mu.Lock()
	w.form = swap.Request{From: from, To: to, Amount: amount}
	w.mu.Unlock()
}

// Form returns the current swap form values.
func (w *Wallet) Form() swap.Request {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// ready returns the swap service, form and owner when a wallet is connected and the network is up.
func (w *Wallet) ready() (*swap.Service, swap.Request, wallet.Provider, bool) {
	st := w.session.State()
	w.mu.Lock()
	svc, form, client := w.swaps, w.form, w.client
	w.mu.Unlock()
	if !st.Connected || st.Address == "" || client == nil || svc == nil {
		return nil, form, nil, false
	}
	owner, err := w.session.Owner()
	if err != nil {
		return nil, form, nil, false
	}
	return svc, form, owner, true
}

// PerformSwap runs the form's swap. It is a no-op while disconnected.
func (w *Wallet) PerformSwap(ctx context.Context) {
	svc, form, owner, ok := w.ready()
	if !ok {
		w.log.Debug().Msg("swap ignored: wallet not connected")
		return
	}
	if _, err := svc.Swap(ctx, owner, form); err != nil {
		w.log.Error().Err(err).Str("from", form.From).Str("to", form.To).Str("amount", form.Amount).Msg("failed to perform swap")
	}
}

// HandleStaking reports that staking has no venue.
func (w *Wallet) HandleStaking(ctx context.Context) {
	svc, form, owner, ok := w.ready()
	if !ok {
		return
	}
	if err := svc.Stake(ctx, owner, form); err != nil {
		w.log.Warn().Err(err).Msg("failed to stake assets")
	}
}

// HandleYieldFarming reports that yield farming has no venue.
func (w *Wallet) HandleYieldFarming(ctx context.Context) {
	svc, form, owner, ok := w.ready()
	if !ok {
		return
	}
	if err := svc.YieldFarm(ctx, owner, form); err != nil {
		w.log.Warn().Err(err).Msg("failed to yield farm assets")
	}
}

// ToggleHistory flips history visibility and returns the new value.
func (w *Wallet) ToggleHistory() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.showHistory = !w.showHistory
	return w.showHistory
}

// SwitchWallet makes addr the active wallet. The swap form is left as is.
func (w *Wallet) SwitchWallet(addr string) {
	if err := w.registry.Select(addr); err != nil {
		w.log.Error().Err(err).Msg("failed to switch wallet")
	}
}

// RefreshBalance re-reads the connected wallet's balance.
func (w *Wallet) RefreshBalance(ctx context.Context) {
	if _, err := w.session.RefreshBalance(ctx); err != nil {
		w.log.Error().Err(err).Msg("failed to refresh balance")
	}
}

// View snapshots the wallet for rendering.
func (w *Wallet) View() View {
	st := w.session.State()
	w.mu.Lock()
	v := View{
		Session:      st,
		NetworkReady: w.client != nil,
		Form:         w.form,
		Assets:       append([]string(nil), w.assets...),
		ShowHistory:  w.showHistory,
	}
	w.mu.Unlock()
	v.Wallets = w.registry.Wallets()
	v.Selected = w.registry.Selected()
	v.History = w.history.Snapshot()
	return v
}
