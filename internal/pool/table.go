// Package pool maps asset pairs onto the exchange pool that trades them.
package pool

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Config identifies a liquidity pair on the exchange, e.g. ORCA_SOL.
type Config string

const (
	OrcaSol  Config = "ORCA_SOL"
	OrcaUsdc Config = "ORCA_USDC"
	SolUsdc  Config = "SOL_USDC"
)

var (
	// ErrUnsupportedPair is returned when no pool trades the requested assets.
	ErrUnsupportedPair = errors.New("unsupported asset pair")
	// ErrUnknownPool is returned when a config has no table entry.
	ErrUnknownPool = errors.New("unknown pool config")
)

// Entry binds a pool config to its two token symbols.
type Entry struct {
	Config Config
	TokenA string
	TokenB string
}

type pairKey struct{ lo, hi string }

func keyOf(a, b string) pairKey {
	a, b = normalize(a), normalize(b)
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

func normalize(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }

// Table resolves unordered asset pairs to pool configs.
type Table struct {
	byPair   map[pairKey]Entry
	byConfig map[Config]Entry
}

// DefaultEntries is the built-in pool set: ORCA/SOL, ORCA/USDC and SOL/USDC.
func DefaultEntries() []Entry {
	return []Entry{
		{Config: OrcaSol, TokenA: "ORCA", TokenB: "SOL"},
		{Config: OrcaUsdc, TokenA: "ORCA", TokenB: "USDC"},
		{Config: SolUsdc, TokenA: "SOL", TokenB: "USDC"},
	}
}

// DefaultTable builds a Table from DefaultEntries.
func DefaultTable() *Table {
	t, _ := NewTable(DefaultEntries())
	return t
}

// NewTable validates entries and indexes them by pair and config.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		byPair:   make(map[pairKey]Entry, len(entries)),
		byConfig: make(map[Config]Entry, len(entries)),
	}
	for _, e := range entries {
		if err := t.add(e); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(e Entry) error {
	e.Config = Config(normalize(string(e.Config)))
	e.TokenA, e.TokenB = normalize(e.TokenA), normalize(e.TokenB)
	if e.Config == "" {
		return errors.New("pool entry missing config")
	}
	if e.TokenA == "" || e.TokenB == "" || e.TokenA == e.TokenB {
		return fmt.Errorf("pool %s: needs two distinct tokens", e.Config)
	}
	k := keyOf(e.TokenA, e.TokenB)
	if prev, ok := t.byPair[k]; ok {
		return fmt.Errorf("pool %s: pair already served by %s", e.Config, prev.Config)
	}
	if _, ok := t.byConfig[e.Config]; ok {
		return fmt.Errorf("pool %s: duplicate config", e.Config)
	}
	t.byPair[k] = e
	t.byConfig[e.Config] = e
	return nil
}

// Resolve returns the pool trading from and to. (A,B) and (B,A) resolve identically.
func (t *Table) Resolve(from, to string) (Config, error) {
	e, ok := t.byPair[keyOf(from, to)]
	if !ok || normalize(from) == normalize(to) {
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPair, normalize(from), normalize(to))
	}
	return e.Config, nil
}

// Lookup returns the entry registered under cfg.
func (t *Table) Lookup(cfg Config) (Entry, error) {
	e, ok := t.byConfig[Config(normalize(string(cfg)))]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownPool, cfg)
	}
	return e, nil
}

// Entries lists the table sorted by config.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.byConfig))
	for _, e := range t.byConfig {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Config < out[j].Config })
	return out
}

// Assets lists every symbol that appears in at least one pool.
func (t *Table) Assets() []string {
	seen := make(map[string]struct{})
	for _, e := range t.byConfig {
		seen[e.TokenA] = struct{}{}
		seen[e.TokenB] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
