// Package wallet models the connected wallet: the provider capability, the session it drives, and the address registry.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	solana "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/mr-tron/base58"

	"github.com/kemerald25/wallet-app/internal/config"
)

// EnvPrivateKey names the environment variable holding a base-58 secret key.
const EnvPrivateKey = "SOLANA_PRIVATE_KEY_BASE58"

// ErrProviderDisconnected is returned when a provider is used before Connect.
var ErrProviderDisconnected = errors.New("wallet provider not connected")

// Provider is the wallet capability: it connects, exposes the owner key and signs.
type Provider interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	PublicKey() solana.PublicKey
	SignTransaction(ctx context.Context, tx *solana.Transaction) error
}

// KeypairProvider is a Provider holding a local keypair.
type KeypairProvider struct {
	mu        sync.Mutex
	key       solana.PrivateKey
	connected bool
}

// NewKeypairProvider wraps key; the provider starts disconnected.
func NewKeypairProvider(key solana.PrivateKey) *KeypairProvider {
	return &KeypairProvider{key: key}
}

func (p *KeypairProvider) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.connected = true
	p.mu.Unlock()
	return nil
}

func (p *KeypairProvider) Disconnect(context.Context) error {
	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()
	return nil
}

// PublicKey is the zero key while disconnected.
func (p *KeypairProvider) PublicKey() solana.PublicKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return solana.PublicKey{}
	}
	return p.key.PublicKey()
}

// SignTransaction adds the owner signature to tx.
func (p *KeypairProvider) SignTransaction(ctx context.Context, tx *solana.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	connected := p.connected
	p.mu.Unlock()
	if !connected {
		return ErrProviderDisconnected
	}
	owner := p.key.PublicKey()
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(owner) {
			return &p.key
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	return nil
}

// Detect returns the configured provider, or nil when no key material is available.
// Lookup order: SOLANA_PRIVATE_KEY_BASE58 (including .env), wallet.private_key_base58, wallet.keypair_path.
func Detect(cfg config.Wallet) (Provider, error) {
	_ = godotenv.Load() // best-effort
	if b58 := os.Getenv(EnvPrivateKey); b58 != "" {
		key, err := solana.PrivateKeyFromBase58(b58)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvPrivateKey, err)
		}
		return NewKeypairProvider(key), nil
	}
	if cfg.PrivateKeyBase58 != "" {
		key, err := solana.PrivateKeyFromBase58(cfg.PrivateKeyBase58)
		if err != nil {
			return nil, fmt.Errorf("wallet.private_key_base58: %w", err)
		}
		return NewKeypairProvider(key), nil
	}
	if cfg.KeypairPath != "" {
		key, err := LoadPrivateKeyFromFile(cfg.KeypairPath)
		if err != nil {
			return nil, err
		}
		return NewKeypairProvider(key), nil
	}
	return nil, nil
}

// LoadPrivateKeyFromFile reads a solana-keygen JSON array or a base-58 text file.
func LoadPrivateKeyFromFile(path string) (solana.PrivateKey, error) {
	path = expandHome(path)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair: %w", err)
	}
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, "[") {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
		if err != nil {
			return nil, fmt.Errorf("parse keypair %s: %w", path, err)
		}
		return key, nil
	}
	decoded, err := base58.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("parse keypair %s: %w", path, err)
	}
	if len(decoded) != 64 {
		return nil, fmt.Errorf("parse keypair %s: expected 64 bytes, got %d", path, len(decoded))
	}
	return solana.PrivateKey(decoded), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
