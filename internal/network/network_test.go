package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

func newRPCServer(t *testing.T, results map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc request: %v", err)
			return
		}
		result, ok := results[req.Method]
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestParseCommitment(t *testing.T) {
	if ParseCommitment("finalized") != rpc.CommitmentFinalized {
		t.Fatalf("expected finalized")
	}
	if ParseCommitment("PROCESSED") != rpc.CommitmentProcessed {
		t.Fatalf("expected processed")
	}
	if ParseCommitment("") != rpc.CommitmentConfirmed {
		t.Fatalf("expected confirmed default")
	}
}

func TestNewDefaultsToDevnet(t *testing.T) {
	c := New("", "")
	if c.Endpoint != rpc.DevNet_RPC {
		t.Fatalf("expected devnet endpoint, got %s", c.Endpoint)
	}
	if c.Commit != rpc.CommitmentConfirmed {
		t.Fatalf("expected confirmed commitment, got %s", c.Commit)
	}
}

func TestEstablishAndGetBalance(t *testing.T) {
	server := newRPCServer(t, map[string]any{
		"getHealth":  "ok",
		"getBalance": map[string]any{"context": map[string]any{"slot": 1}, "value": 2_500_000_000},
	})
	defer server.Close()

	c, err := Establish(context.Background(), server.URL, "confirmed")
	if err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	lamports, err := c.GetBalance(context.Background(), solana.NewWallet().PublicKey())
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if lamports != 2_500_000_000 {
		t.Fatalf("expected 2.5 SOL in lamports, got %d", lamports)
	}
}

func TestEstablishFailsWhenNodeUnreachable(t *testing.T) {
	server := newRPCServer(t, map[string]any{})
	defer server.Close()

	if _, err := Establish(context.Background(), server.URL, "confirmed"); err == nil {
		t.Fatalf("expected error when getHealth fails")
	}
}
