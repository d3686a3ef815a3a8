package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kemerald25/wallet-app/internal/dex"
	"github.com/kemerald25/wallet-app/internal/history"
	"github.com/kemerald25/wallet-app/internal/network"
	"github.com/kemerald25/wallet-app/internal/pool"
	"github.com/kemerald25/wallet-app/internal/wallet"
)

type stubNet struct{ lamports uint64 }

func (s stubNet) GetBalance(context.Context, solana.PublicKey) (uint64, error) {
	return s.lamports, nil
}

func (s stubNet) SendTransaction(context.Context, *solana.Transaction) (solana.Signature, error) {
	return solana.Signature{}, errors.New("not used")
}

type stubPayload struct{ err error }

func (p stubPayload) Execute(context.Context) (solana.Signature, error) {
	return solana.Signature{4, 2}, p.err
}

type stubPool struct {
	cfg      pool.Config
	a, b     dex.Token
	quoted   []uint64
	quoteErr error
	execErr  error
}

func (p *stubPool) Config() pool.Config { return p.cfg }
func (p *stubPool) TokenA() dex.Token   { return p.a }
func (p *stubPool) TokenB() dex.Token   { return p.b }

func (p *stubPool) GetQuote(_ context.Context, in dex.Token, amount uint64, _ int) (*dex.Quote, error) {
	p.quoted = append(p.quoted, amount)
	if p.quoteErr != nil {
		return nil, p.quoteErr
	}
	return &dex.Quote{Input: in, InAmount: amount, MinimumOutAmount: 1}, nil
}

func (p *stubPool) Swap(context.Context, dex.Owner, dex.Token, uint64, uint64) (dex.Payload, error) {
	return stubPayload{err: p.execErr}, nil
}

type stubExchange struct {
	pools map[pool.Config]*stubPool
	calls int
}

func (e *stubExchange) GetPool(cfg pool.Config) (dex.Pool, error) {
	e.calls++
	p, ok := e.pools[cfg]
	if !ok {
		return nil, pool.ErrUnknownPool
	}
	return p, nil
}

func newStubExchange() *stubExchange {
	catalog := dex.NewCatalog(dex.DefaultTokens())
	orca, _ := catalog.Lookup("ORCA")
	sol, _ := catalog.Lookup("SOL")
	return &stubExchange{pools: map[pool.Config]*stubPool{
		pool.OrcaSol: {cfg: pool.OrcaSol, a: orca, b: sol},
	}}
}

type harness struct {
	w        *Wallet
	ex       *stubExchange
	logs     *bytes.Buffer
	provider *wallet.KeypairProvider
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		ex:       newStubExchange(),
		logs:     &bytes.Buffer{},
		provider: wallet.NewKeypairProvider(solana.NewWallet().PrivateKey),
	}
	base := []Option{
		WithDialer(func(context.Context) (network.Client, error) { return stubNet{lamports: 1_250_000_000}, nil }),
		WithDetector(func() (wallet.Provider, error) { return h.provider, nil }),
		WithExchange(func(network.Client) dex.Exchange { return h.ex }),
	}
	h.w = New(zerolog.New(h.logs), append(base, opts...)...)
	h.w.Mount(context.Background())
	return h
}

func TestMountWithNetwork(t *testing.T) {
	h := newHarness(t)
	v := h.w.View()
	assert.True(t, v.NetworkReady)
	assert.False(t, v.Session.Connected)
	assert.Empty(t, v.Wallets)
	assert.Equal(t, []string{"ORCA", "SOL", "USDC", "ETH"}, v.Assets)
	assert.Equal(t, "ORCA", v.Form.From)
	assert.Equal(t, "SOL", v.Form.To)
}

func TestMountNetworkFailureIsSwallowed(t *testing.T) {
	h := newHarness(t, WithDialer(func(context.Context) (network.Client, error) {
		return nil, errors.New("dial tcp: no route to host")
	}))
	assert.False(t, h.w.View().NetworkReady)
	assert.Contains(t, h.logs.String(), "failed to connect to Solana network")

	h.w.ConnectWallet(context.Background())
	assert.False(t, h.w.View().Session.Connected)
}

func TestConnectWithoutProvider(t *testing.T) {
	h := newHarness(t, WithDetector(func() (wallet.Provider, error) { return nil, nil }))

	assert.NotPanics(t, func() { h.w.ConnectWallet(context.Background()) })
	assert.False(t, h.w.View().Session.Connected)
	assert.Contains(t, h.logs.String(), wallet.ErrProviderMissing.Error())
}

func TestConnectAndDisconnect(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.w.ConnectWallet(ctx)
	v := h.w.View()
	require.True(t, v.Session.Connected)
	assert.Equal(t, 1.25, v.Session.Balance)
	assert.NotEmpty(t, v.Session.Address)

	h.w.DisconnectWallet(ctx)
	v = h.w.View()
	assert.False(t, v.Session.Connected)
	assert.Equal(t, 0.0, v.Session.Balance)
	assert.Equal(t, "", v.Session.Address)
}

func TestDisconnectWithoutProviderKeepsState(t *testing.T) {
	h := newHarness(t, WithDetector(func() (wallet.Provider, error) { return nil, nil }))
	h.w.DisconnectWallet(context.Background())
	assert.Contains(t, h.logs.String(), wallet.ErrProviderMissing.Error())
}

func TestPerformSwapScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.w.ConnectWallet(ctx)
	h.w.SetForm("ORCA", "SOL", "1")

	h.w.PerformSwap(ctx)

	p := h.ex.pools[pool.OrcaSol]
	require.Len(t, p.quoted, 1)
	assert.Equal(t, uint64(1_000_000), p.quoted[0])

	v := h.w.View()
	require.Len(t, v.History, 1)
	rec := v.History[0]
	assert.Equal(t, "ORCA", rec.From)
	assert.Equal(t, "SOL", rec.To)
	assert.Equal(t, "1", rec.Amount)
	assert.Equal(t, history.Pending, rec.Status)
}

func TestPerformSwapUnsupportedPair(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.w.ConnectWallet(ctx)
	h.w.SetForm("ETH", "SOL", "1")

	h.w.PerformSwap(ctx)

	assert.Empty(t, h.w.View().History)
	assert.Equal(t, 0, h.ex.calls)
	assert.Contains(t, h.logs.String(), "unsupported asset pair")
}

func TestPerformSwapFailuresRecordNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.w.ConnectWallet(ctx)

	h.ex.pools[pool.OrcaSol].quoteErr = errors.New("no route")
	h.w.PerformSwap(ctx)
	assert.Empty(t, h.w.View().History)

	h.ex.pools[pool.OrcaSol].quoteErr = nil
	h.ex.pools[pool.OrcaSol].execErr = errors.New("transaction simulation failed")
	h.w.PerformSwap(ctx)
	assert.Empty(t, h.w.View().History)
	assert.Contains(t, h.logs.String(), "failed to perform swap")
}

func TestPerformSwapWhileDisconnectedIsNoop(t *testing.T) {
	h := newHarness(t)
	h.w.PerformSwap(context.Background())
	assert.Equal(t, 0, h.ex.calls)
	assert.Empty(t, h.w.View().History)
}

func TestStakingAndFarmingDoNotRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.w.ConnectWallet(ctx)

	h.w.HandleStaking(ctx)
	h.w.HandleYieldFarming(ctx)

	assert.Empty(t, h.w.View().History)
	assert.Contains(t, h.logs.String(), "not implemented")
}

func TestToggleHistory(t *testing.T) {
	h := newHarness(t)
	assert.True(t, h.w.ToggleHistory())
	assert.True(t, h.w.View().ShowHistory)
	assert.False(t, h.w.ToggleHistory())
}

func TestSwitchWalletKeepsForm(t *testing.T) {
	a := solana.NewWallet().PublicKey().String()
	b := solana.NewWallet().PublicKey().String()
	h := newHarness(t, WithRegistry(wallet.NewRegistry(wallet.StaticSource{a, b})))
	h.w.SetForm("SOL", "USDC", "3")

	v := h.w.View()
	assert.Equal(t, a, v.Selected)

	h.w.SwitchWallet(b)
	v = h.w.View()
	assert.Equal(t, b, v.Selected)
	assert.Equal(t, "SOL", v.Form.From)
	assert.Equal(t, "3", v.Form.Amount)

	h.w.SwitchWallet("unknown")
	assert.Equal(t, b, h.w.View().Selected)
	assert.Contains(t, h.logs.String(), "failed to switch wallet")
}
