package dex

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"

	"github.com/kemerald25/wallet-app/internal/pool"
)

const defaultSlippageBps = 50

// Jupiter is an Exchange backed by the Jupiter v6 aggregator HTTP API.
type Jupiter struct {
	Base   string
	Http   *http.Client
	Net    Sender
	Tokens *Catalog
	Pools  *pool.Table
}

// jupiterQuote holds the fields read from /v6/quote; Raw is the full route forwarded to /v6/swap.
type jupiterQuote struct {
	InputMint      string `json:"inputMint"`
	OutputMint     string `json:"outputMint"`
	InAmount       string `json:"inAmount"`
	OutAmount      string `json:"outAmount"`
	OtherAmount    string `json:"otherAmountThreshold"`
	SlippageBps    int    `json:"slippageBps"`
	PriceImpactPct string `json:"priceImpactPct"`
	Raw            []byte `json:"-"`
}

// NewJupiter wires the aggregator to a network sender and the token/pool tables.
func NewJupiter(base string, net Sender, tokens *Catalog, pools *pool.Table, timeout time.Duration) *Jupiter {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Jupiter{
		Base:   strings.TrimSuffix(base, "/"),
		Http:   &http.Client{Timeout: timeout},
		Net:    net,
		Tokens: tokens,
		Pools:  pools,
	}
}

// GetPool resolves cfg to its two tokens.
func (j *Jupiter) GetPool(cfg pool.Config) (Pool, error) {
	entry, err := j.Pools.Lookup(cfg)
	if err != nil {
		return nil, err
	}
	a, err := j.Tokens.Lookup(entry.TokenA)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", cfg, err)
	}
	b, err := j.Tokens.Lookup(entry.TokenB)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", cfg, err)
	}
	return &jupiterPool{j: j, cfg: entry.Config, a: a, b: b, routes: make(map[routeKey]*jupiterQuote)}, nil
}

// amount is in smallest units (lamports for SOL; token decimals apply).
func (j *Jupiter) quote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*jupiterQuote, error) {
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(slippageBps))
	q.Set("onlyDirectRoutes", "false")
	u := j.Base + "/v6/quote?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter quote status %d", resp.StatusCode)
	}
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	var out jupiterQuote
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

// buildSwap asks Jupiter for a ready-to-sign transaction for owner.
func (j *Jupiter) buildSwap(ctx context.Context, owner solana.PublicKey, quote *jupiterQuote) (*solana.Transaction, error) {
	payload := map[string]any{
		"userPublicKey":             owner.String(),
		"wrapAndUnwrapSol":          true,
		"asLegacyTransaction":       false,
		"useTokenLedger":            false,
		"prioritizationFeeLamports": 0,
		"quoteResponse":             json.RawMessage(quote.Raw),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.Base+"/v6/swap", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jupiter swap status %d", resp.StatusCode)
	}
	var sr struct {
		SwapTransaction string `json:"swapTransaction"` // base64-encoded tx (unsigned)
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(sr.SwapTransaction)
	if err != nil {
		return nil, fmt.Errorf("decode tx: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal tx: %w", err)
	}
	return tx, nil
}

type routeKey struct {
	input  solana.PublicKey
	amount uint64
}

type jupiterPool struct {
	j    *Jupiter
	cfg  pool.Config
	a, b Token

	mu     sync.Mutex
	routes map[routeKey]*jupiterQuote
}

func (p *jupiterPool) Config() pool.Config { return p.cfg }
func (p *jupiterPool) TokenA() Token       { return p.a }
func (p *jupiterPool) TokenB() Token       { return p.b }

func (p *jupiterPool) other(input Token) (Token, error) {
	switch {
	case input.Mint.Equals(p.a.Mint):
		return p.b, nil
	case input.Mint.Equals(p.b.Mint):
		return p.a, nil
	}
	return Token{}, fmt.Errorf("%w: %s is not traded by %s", ErrUnknownToken, input.Name, p.cfg)
}

func (p *jupiterPool) GetQuote(ctx context.Context, input Token, amount uint64, slippageBps int) (*Quote, error) {
	output, err := p.other(input)
	if err != nil {
		return nil, err
	}
	if slippageBps <= 0 {
		slippageBps = defaultSlippageBps
	}
	jq, err := p.j.quote(ctx, input.Mint.String(), output.Mint.String(), amount, slippageBps)
	if err != nil {
		return nil, err
	}
	out, err := parseUnits(jq.OutAmount)
	if err != nil {
		return nil, fmt.Errorf("quote outAmount: %w", err)
	}
	minOut, err := parseUnits(jq.OtherAmount)
	if err != nil {
		return nil, fmt.Errorf("quote otherAmountThreshold: %w", err)
	}
	impact, _ := strconv.ParseFloat(jq.PriceImpactPct, 64)

	p.mu.Lock()
	p.routes[routeKey{input: input.Mint, amount: amount}] = jq
	p.mu.Unlock()

	return &Quote{
		Input:            input,
		Output:           output,
		InAmount:         amount,
		OutAmount:        out,
		MinimumOutAmount: minOut,
		SlippageBps:      jq.SlippageBps,
		PriceImpactPct:   impact,
	}, nil
}

// Swap reuses the route from the matching GetQuote call, fetching one if none is cached,
// and pins its threshold to minimumOut.
func (p *jupiterPool) Swap(ctx context.Context, owner Owner, input Token, amount, minimumOut uint64) (Payload, error) {
	output, err := p.other(input)
	if err != nil {
		return nil, err
	}
	key := routeKey{input: input.Mint, amount: amount}
	p.mu.Lock()
	jq := p.routes[key]
	delete(p.routes, key)
	p.mu.Unlock()
	if jq == nil {
		if jq, err = p.j.quote(ctx, input.Mint.String(), output.Mint.String(), amount, defaultSlippageBps); err != nil {
			return nil, err
		}
	}
	if err := jq.pinThreshold(minimumOut); err != nil {
		return nil, err
	}
	tx, err := p.j.buildSwap(ctx, owner.PublicKey(), jq)
	if err != nil {
		return nil, err
	}
	return &swapPayload{tx: tx, owner: owner, net: p.j.Net}, nil
}

func (q *jupiterQuote) pinThreshold(minimumOut uint64) error {
	var fields map[string]any
	if err := json.Unmarshal(q.Raw, &fields); err != nil {
		return fmt.Errorf("route: %w", err)
	}
	q.OtherAmount = strconv.FormatUint(minimumOut, 10)
	fields["otherAmountThreshold"] = q.OtherAmount
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("route: %w", err)
	}
	q.Raw = raw
	return nil
}

type swapPayload struct {
	tx    *solana.Transaction
	owner Owner
	net   Sender
}

// Execute signs with the owner and submits through the network sender.
func (s *swapPayload) Execute(ctx context.Context) (solana.Signature, error) {
	if s.net == nil {
		return solana.Signature{}, fmt.Errorf("execute: no network sender")
	}
	if err := s.owner.SignTransaction(ctx, s.tx); err != nil {
		return solana.Signature{}, err
	}
	return s.net.SendTransaction(ctx, s.tx)
}

func parseUnits(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
}
