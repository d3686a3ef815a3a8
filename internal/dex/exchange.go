package dex

import (
	"context"

	solana "github.com/gagliardetto/solana-go"

	"github.com/kemerald25/wallet-app/internal/pool"
)

// Owner is the account that pays for and signs a swap.
type Owner interface {
	PublicKey() solana.PublicKey
	SignTransaction(ctx context.Context, tx *solana.Transaction) error
}

// Sender submits signed transactions to the network.
type Sender interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Quote is the exchange's answer for swapping InAmount of Input.
type Quote struct {
	Input            Token
	Output           Token
	InAmount         uint64
	OutAmount        uint64
	MinimumOutAmount uint64 // after slippage
	SlippageBps      int
	PriceImpactPct   float64
}

// Payload is a built swap waiting to be signed and sent.
type Payload interface {
	Execute(ctx context.Context) (solana.Signature, error)
}

// Pool trades TokenA against TokenB.
type Pool interface {
	Config() pool.Config
	TokenA() Token
	TokenB() Token
	GetQuote(ctx context.Context, input Token, amount uint64, slippageBps int) (*Quote, error)
	Swap(ctx context.Context, owner Owner, input Token, amount, minimumOut uint64) (Payload, error)
}

// Exchange hands out pools by config.
type Exchange interface {
	GetPool(cfg pool.Config) (Pool, error)
}
