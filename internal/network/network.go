// Package network owns the read-only RPC handle used for balance lookups and transaction submission.
package network

import (
	"context"
	"fmt"
	"strings"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// LamportsPerSOL is the scale between lamports and display units.
const LamportsPerSOL = 1_000_000_000

// Client is the network boundary the wallet and exchange depend on.
type Client interface {
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// RPC is a Client backed by a Solana JSON-RPC endpoint.
type RPC struct {
	Endpoint string
	Commit   rpc.CommitmentType
	rpc      *rpc.Client
}

// ParseCommitment maps processed|confirmed|finalized, defaulting to confirmed.
func ParseCommitment(commit string) rpc.CommitmentType {
	switch strings.ToLower(strings.TrimSpace(commit)) {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	}
	return rpc.CommitmentConfirmed
}

// New builds an RPC client without touching the network.
func New(endpoint, commit string) *RPC {
	if endpoint == "" {
		endpoint = rpc.DevNet_RPC
	}
	return &RPC{
		Endpoint: endpoint,
		Commit:   ParseCommitment(commit),
		rpc:      rpc.New(endpoint),
	}
}

// Establish builds a client and checks the node answers getHealth.
func Establish(ctx context.Context, endpoint, commit string) (*RPC, error) {
	c := New(endpoint, commit)
	health, err := c.rpc.GetHealth(ctx)
	if err != nil {
		return nil, fmt.Errorf("rpc %s: %w", c.Endpoint, err)
	}
	if health != rpc.HealthOk {
		return nil, fmt.Errorf("rpc %s: unhealthy (%s)", c.Endpoint, health)
	}
	return c, nil
}

// GetBalance returns the owner's balance in lamports.
func (c *RPC) GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	out, err := c.rpc.GetBalance(ctx, owner, c.Commit)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return out.Value, nil
}

// SendTransaction submits a signed transaction with preflight at the client commitment.
func (c *RPC) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.Commit,
	})
	if err != nil {
		return sig, fmt.Errorf("send transaction: %w", err)
	}
	return sig, nil
}
