package integration

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/rs/zerolog"

	"github.com/kemerald25/wallet-app/internal/app"
	"github.com/kemerald25/wallet-app/internal/dex"
	"github.com/kemerald25/wallet-app/internal/history"
	"github.com/kemerald25/wallet-app/internal/network"
	"github.com/kemerald25/wallet-app/internal/pool"
	"github.com/kemerald25/wallet-app/internal/wallet"
)

// chain is an in-memory network client that checks signatures before accepting a tx.
type chain struct {
	mu       sync.Mutex
	lamports uint64
	sent     []*solana.Transaction
}

func (c *chain) GetBalance(context.Context, solana.PublicKey) (uint64, error) {
	return c.lamports, nil
}

func (c *chain) SendTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := tx.VerifySignatures(); err != nil {
		return solana.Signature{}, err
	}
	c.mu.Lock()
	c.sent = append(c.sent, tx)
	c.mu.Unlock()
	return tx.Signatures[0], nil
}

func jupiterStub(t *testing.T, payer solana.PublicKey, quotes *int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v6/quote", func(w http.ResponseWriter, r *http.Request) {
		*quotes++
		q := r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"inputMint":            q.Get("inputMint"),
			"outputMint":           q.Get("outputMint"),
			"inAmount":             q.Get("amount"),
			"outAmount":            "2500000",
			"otherAmountThreshold": "2487500",
			"slippageBps":          50,
			"priceImpactPct":       "0.001",
		})
	})
	mux.HandleFunc("/v6/swap", func(w http.ResponseWriter, r *http.Request) {
		tx, err := solana.NewTransaction(
			[]solana.Instruction{system.NewTransferInstruction(1, payer, solana.NewWallet().PublicKey()).Build()},
			solana.Hash{9},
			solana.TransactionPayer(payer),
		)
		if err != nil {
			t.Errorf("build tx: %v", err)
			return
		}
		tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
		raw, err := tx.MarshalBinary()
		if err != nil {
			t.Errorf("marshal tx: %v", err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"swapTransaction": base64.StdEncoding.EncodeToString(raw)})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newWallet(t *testing.T, net *chain, provider wallet.Provider, base string, buf *bytes.Buffer) (*app.Wallet, *history.Log) {
	t.Helper()
	log := history.NewLog()
	pools := pool.DefaultTable()
	catalog := dex.NewCatalog(dex.DefaultTokens())
	w := app.New(zerolog.New(buf),
		app.WithDialer(func(context.Context) (network.Client, error) { return net, nil }),
		app.WithDetector(func() (wallet.Provider, error) { return provider, nil }),
		app.WithExchange(func(c network.Client) dex.Exchange {
			return dex.NewJupiter(base, c, catalog, pools, 0)
		}),
		app.WithPools(pools),
		app.WithHistory(log),
	)
	return w, log
}

func TestSwapFlowRecordsSignedTransaction(t *testing.T) {
	ctx := context.Background()
	key := solana.NewWallet().PrivateKey
	provider := wallet.NewKeypairProvider(key)
	net := &chain{lamports: 3 * network.LamportsPerSOL}
	quotes := 0
	server := jupiterStub(t, key.PublicKey(), &quotes)

	var buf bytes.Buffer
	w, log := newWallet(t, net, provider, server.URL, &buf)
	w.Mount(ctx)
	w.ConnectWallet(ctx)

	v := w.View()
	if !v.Session.Connected || v.Session.Address != key.PublicKey().String() {
		t.Fatalf("expected connected session for %s, got %+v", key.PublicKey(), v.Session)
	}
	if v.Session.Balance != 3 {
		t.Fatalf("expected balance 3 SOL, got %v", v.Session.Balance)
	}

	w.SetForm("ORCA", "SOL", "1")
	w.PerformSwap(ctx)

	if quotes != 1 {
		t.Fatalf("expected one quote request, got %d", quotes)
	}
	if len(net.sent) != 1 {
		t.Fatalf("expected one submitted transaction, got %d (log: %s)", len(net.sent), buf.String())
	}
	records := log.Snapshot()
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	rec := records[0]
	if rec.ID != net.sent[0].Signatures[0].String() {
		t.Fatalf("record id %s does not match signature %s", rec.ID, net.sent[0].Signatures[0])
	}
	if rec.From != "ORCA" || rec.To != "SOL" || rec.Amount != "1" || rec.Status != history.Pending {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !strings.Contains(buf.String(), "swap transaction submitted") {
		t.Fatalf("expected submission log, got %s", buf.String())
	}

	w.DisconnectWallet(ctx)
	v = w.View()
	if v.Session.Connected || v.Session.Address != "" || v.Session.Balance != 0 {
		t.Fatalf("expected cleared session, got %+v", v.Session)
	}
	if len(v.History) != 1 {
		t.Fatalf("history must survive disconnect, got %d", len(v.History))
	}
}

func TestSwapFlowUnsupportedPairSkipsExchange(t *testing.T) {
	ctx := context.Background()
	key := solana.NewWallet().PrivateKey
	net := &chain{lamports: network.LamportsPerSOL}
	quotes := 0
	server := jupiterStub(t, key.PublicKey(), &quotes)

	var buf bytes.Buffer
	w, log := newWallet(t, net, wallet.NewKeypairProvider(key), server.URL, &buf)
	w.Mount(ctx)
	w.ConnectWallet(ctx)

	w.SetForm("ETH", "SOL", "1")
	w.PerformSwap(ctx)

	if quotes != 0 || len(net.sent) != 0 {
		t.Fatalf("expected no exchange traffic, got %d quotes and %d txs", quotes, len(net.sent))
	}
	if log.Len() != 0 {
		t.Fatalf("expected empty history, got %d", log.Len())
	}
	if !strings.Contains(buf.String(), "failed to perform swap") {
		t.Fatalf("expected logged failure, got %s", buf.String())
	}
}
