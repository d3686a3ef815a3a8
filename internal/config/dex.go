// Package config also contains DEX-specific configuration surfaces.
package config

const (
	// DevnetRPC is the public Solana development cluster endpoint.
	DevnetRPC = "https://api.devnet.solana.com"
	// DefaultJupiterBase is the public Jupiter aggregator API.
	DefaultJupiterBase = "https://quote-api.jup.ag"

	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// Network defines the RPC endpoint used for balance lookups and transaction submission.
type Network struct {
	RpcURL     string `yaml:"rpc_url"`
	Commitment string `yaml:"commitment"` // processed|confirmed|finalized
}

// Exchange configures the swap venue.
type Exchange struct {
	JupiterBase string `yaml:"jupiter_base"`
	SlippageBps int    `yaml:"slippage_bps"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// Token maps an asset symbol to its mint.
type Token struct {
	Symbol   string `yaml:"symbol"`
	Mint     string `yaml:"mint"`
	Decimals uint8  `yaml:"decimals"`
}

// Pool names a liquidity pair between two token symbols.
type Pool struct {
	Config string `yaml:"config"` // e.g. ORCA_SOL
	TokenA string `yaml:"token_a"`
	TokenB string `yaml:"token_b"`
}

// Wallet stores env-backed signing material metadata and the watched address list.
type Wallet struct {
	PrivateKeyBase58 string   `yaml:"private_key_base58"`
	KeypairPath      string   `yaml:"keypair_path"`
	Addresses        []string `yaml:"addresses"`
}
