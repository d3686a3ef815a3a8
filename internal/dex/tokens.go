// Package dex is the exchange boundary: pools expose two named tokens, quote an input amount and build swaps.
package dex

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	solana "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/kemerald25/wallet-app/internal/config"
)

var (
	// ErrUnknownToken is returned for symbols missing from the catalog.
	ErrUnknownToken = errors.New("unknown token")
	// ErrInvalidAmount is returned when an amount cannot be expressed in token units.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Token is an SPL mint known by a display name.
type Token struct {
	Name     string
	Mint     solana.PublicKey
	Decimals uint8
}

// ToUnits converts a human amount such as "1.25" to the token's integer units.
// The amount must be positive and carry no more precision than Decimals.
func (t Token) ToUnits(amount string) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidAmount, amount, err)
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidAmount, amount)
	}
	units := d.Shift(int32(t.Decimals))
	if !units.IsInteger() {
		return 0, fmt.Errorf("%w %q: %s supports %d decimals", ErrInvalidAmount, amount, t.Name, t.Decimals)
	}
	n := units.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w %q: overflows u64", ErrInvalidAmount, amount)
	}
	return n.Uint64(), nil
}

// FromUnits renders integer units as a decimal string.
func (t Token) FromUnits(units uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(t.Decimals)).String()
}

// DefaultTokens are the assets offered by the swap form.
func DefaultTokens() []Token {
	return []Token{
		{Name: "ORCA", Mint: solana.MustPublicKeyFromBase58("orcaEKTdK7LKz57vaAYr9QeNsVEPfiu6QeMU1kektZE"), Decimals: 6},
		{Name: "SOL", Mint: solana.SolMint, Decimals: 9},
		{Name: "USDC", Mint: solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"), Decimals: 6},
		{Name: "ETH", Mint: solana.MustPublicKeyFromBase58("7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs"), Decimals: 8},
	}
}

// Catalog indexes tokens by symbol, keeping insertion order.
type Catalog struct {
	bySymbol map[string]Token
	order    []string
}

// NewCatalog indexes tokens; later entries replace earlier ones with the same symbol.
func NewCatalog(tokens []Token) *Catalog {
	c := &Catalog{bySymbol: make(map[string]Token, len(tokens))}
	for _, t := range tokens {
		t.Name = strings.ToUpper(strings.TrimSpace(t.Name))
		if _, ok := c.bySymbol[t.Name]; !ok {
			c.order = append(c.order, t.Name)
		}
		c.bySymbol[t.Name] = t
	}
	return c
}

// CatalogFromConfig merges configured tokens over DefaultTokens.
func CatalogFromConfig(tokens []config.Token) (*Catalog, error) {
	all := DefaultTokens()
	for _, ct := range tokens {
		mint, err := solana.PublicKeyFromBase58(ct.Mint)
		if err != nil {
			return nil, fmt.Errorf("token %s: mint: %w", ct.Symbol, err)
		}
		all = append(all, Token{Name: ct.Symbol, Mint: mint, Decimals: ct.Decimals})
	}
	return NewCatalog(all), nil
}

// Lookup finds a token by symbol.
func (c *Catalog) Lookup(symbol string) (Token, error) {
	t, ok := c.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Token{}, fmt.Errorf("%w: %s", ErrUnknownToken, symbol)
	}
	return t, nil
}

// Symbols lists every token symbol in catalog order.
func (c *Catalog) Symbols() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
