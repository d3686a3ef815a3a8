package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	solana "github.com/gagliardetto/solana-go"
)

// ErrUnknownWallet is returned by Select for addresses that were never loaded.
var ErrUnknownWallet = errors.New("unknown wallet")

// Source enumerates externally held wallet addresses.
type Source interface {
	Wallets(ctx context.Context) ([]string, error)
}

// EmptySource yields no wallets.
type EmptySource struct{}

func (EmptySource) Wallets(context.Context) ([]string, error) { return nil, nil }

// StaticSource yields a fixed address list, typically wallet.addresses from config.
type StaticSource []string

func (s StaticSource) Wallets(context.Context) ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// Registry holds the loaded wallet list and which one is active. It is never persisted.
type Registry struct {
	mu       sync.Mutex
	source   Source
	wallets  []string
	selected string
}

// NewRegistry wraps src; nil means EmptySource.
func NewRegistry(src Source) *Registry {
	if src == nil {
		src = EmptySource{}
	}
	return &Registry{source: src}
}

// Load replaces the wallet list from the source and selects the first entry, if any.
func (r *Registry) Load(ctx context.Context) ([]string, error) {
	raw, err := r.source.Wallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load wallets: %w", err)
	}
	wallets := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, addr := range raw {
		pk, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("load wallets: %q: %w", addr, err)
		}
		key := pk.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		wallets = append(wallets, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets = wallets
	r.selected = ""
	if len(wallets) > 0 {
		r.selected = wallets[0]
	}
	out := make([]string, len(wallets))
	copy(out, wallets)
	return out, nil
}

// Wallets returns the loaded addresses.
func (r *Registry) Wallets() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.wallets))
	copy(out, r.wallets)
	return out
}

// Select makes addr the active wallet.
func (r *Registry) Select(addr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wallets {
		if w == addr {
			r.selected = w
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownWallet, addr)
}

// Selected returns the active address, or "" when none is loaded.
func (r *Registry) Selected() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}
