package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kemerald25/wallet-app/internal/network"
)

var (
	// ErrProviderMissing means no wallet provider is installed.
	ErrProviderMissing = errors.New("wallet provider is not installed")
	// ErrNoNetwork means the network client was never established.
	ErrNoNetwork = errors.New("network client unavailable")
	// ErrNotConnected means the session has no connected wallet.
	ErrNotConnected = errors.New("wallet not connected")
)

// lamportExp is the decimal exponent between lamports and SOL.
const lamportExp = -9

// State is a read-only view of the session.
type State struct {
	Connected bool
	Address   string
	Balance   float64
}

// Session tracks the connected wallet. Transitions go through Connect and Disconnect only.
type Session struct {
	mu       sync.Mutex
	state    State
	provider Provider
	client   network.Client
}

// NewSession returns a disconnected session.
func NewSession() *Session { return &Session{} }

// LamportsToSOL converts smallest units to display units.
func LamportsToSOL(lamports uint64) float64 {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), lamportExp).InexactFloat64()
}

// Connect asks the provider to connect, loads the balance and marks the session connected.
// On any error the previous state is kept.
func (s *Session) Connect(ctx context.Context, p Provider, client network.Client) error {
	if p == nil {
		return ErrProviderMissing
	}
	if client == nil {
		return ErrNoNetwork
	}
	if err := p.Connect(ctx); err != nil {
		return fmt.Errorf("provider connect: %w", err)
	}
	owner := p.PublicKey()
	if owner.IsZero() {
		return fmt.Errorf("provider connect: %w", ErrProviderDisconnected)
	}
	lamports, err := client.GetBalance(ctx, owner)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state = State{Connected: true, Address: owner.String(), Balance: LamportsToSOL(lamports)}
	s.provider = p
	s.client = client
	s.mu.Unlock()
	return nil
}

// Disconnect clears the session. The provider's own disconnect is not awaited for confirmation:
// local state is reset even if it reports an error, which is returned for logging.
func (s *Session) Disconnect(ctx context.Context, p Provider) error {
	if p == nil {
		return ErrProviderMissing
	}
	err := p.Disconnect(ctx)

	s.mu.Lock()
	s.state = State{}
	s.provider = nil
	s.client = nil
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("provider disconnect: %w", err)
	}
	return nil
}

// State returns a copy of the current session view.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Owner returns the connected provider, which signs on behalf of the address.
func (s *Session) Owner() (Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Connected || s.state.Address == "" || s.provider == nil {
		return nil, ErrNotConnected
	}
	return s.provider, nil
}

// RefreshBalance re-reads the balance of the connected address.
func (s *Session) RefreshBalance(ctx context.Context) (float64, error) {
	s.mu.Lock()
	provider, client, connected := s.provider, s.client, s.state.Connected
	s.mu.Unlock()
	if !connected || provider == nil {
		return 0, ErrNotConnected
	}
	lamports, err := client.GetBalance(ctx, provider.PublicKey())
	if err != nil {
		return 0, err
	}
	bal := LamportsToSOL(lamports)

	s.mu.Lock()
	if s.state.Connected && s.provider == provider {
		s.state.Balance = bal
	}
	s.mu.Unlock()
	return bal, nil
}
