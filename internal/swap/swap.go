// Package swap orchestrates a swap: pool lookup, amount conversion, quote, build, execute, record.
package swap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kemerald25/wallet-app/internal/dex"
	"github.com/kemerald25/wallet-app/internal/history"
	"github.com/kemerald25/wallet-app/internal/metrics"
	"github.com/kemerald25/wallet-app/internal/pool"
	"github.com/kemerald25/wallet-app/internal/wallet"
)

// ErrNotImplemented is returned by staking and yield farming, which have no backing venue yet.
var ErrNotImplemented = errors.New("not implemented")

// Request carries the swap form values as entered.
type Request struct {
	From   string
	To     string
	Amount string
}

// Service runs swaps against an exchange and records them in a history log.
type Service struct {
	log         zerolog.Logger
	pools       *pool.Table
	exchange    dex.Exchange
	history     *history.Log
	slippageBps int
	now         func() time.Time
}

// NewService wires the orchestrator. slippageBps is passed to every quote.
func NewService(log zerolog.Logger, pools *pool.Table, exchange dex.Exchange, hist *history.Log, slippageBps int) *Service {
	return &Service{
		log:         log,
		pools:       pools,
		exchange:    exchange,
		history:     hist,
		slippageBps: slippageBps,
		now:         time.Now,
	}
}

// Swap trades req.Amount of req.From into req.To for owner and prepends a Pending record.
// Nothing is recorded unless the transaction was submitted.
func (s *Service) Swap(ctx context.Context, owner dex.Owner, req Request) (history.Record, error) {
	if owner == nil {
		return history.Record{}, wallet.ErrNotConnected
	}
	if s.exchange == nil {
		return history.Record{}, wallet.ErrNoNetwork
	}

	cfg, err := s.pools.Resolve(req.From, req.To)
	if err != nil {
		metrics.SwapsTotal.WithLabelValues("none", "unsupported_pair").Inc()
		return history.Record{}, err
	}
	label := string(cfg)

	p, err := s.exchange.GetPool(cfg)
	if err != nil {
		metrics.SwapsTotal.WithLabelValues(label, "pool_failed").Inc()
		return history.Record{}, fmt.Errorf("get pool %s: %w", cfg, err)
	}
	input, output, err := sides(p, req.From, req.To)
	if err != nil {
		metrics.SwapsTotal.WithLabelValues(label, "pool_failed").Inc()
		return history.Record{}, err
	}
	amount, err := input.ToUnits(req.Amount)
	if err != nil {
		metrics.SwapsTotal.WithLabelValues(label, "invalid_amount").Inc()
		return history.Record{}, err
	}

	quote, err := p.GetQuote(ctx, input, amount, s.slippageBps)
	if err != nil {
		metrics.SwapsTotal.WithLabelValues(label, "quote_failed").Inc()
		return history.Record{}, fmt.Errorf("quote: %w", err)
	}
	s.log.Debug().
		Str("pool", label).
		Str("in", input.FromUnits(amount)+" "+input.Name).
		Str("min_out", output.FromUnits(quote.MinimumOutAmount)+" "+output.Name).
		Msg("quote received")

	payload, err := p.Swap(ctx, owner, input, amount, quote.MinimumOutAmount)
	if err != nil {
		metrics.SwapsTotal.WithLabelValues(label, "swap_failed").Inc()
		return history.Record{}, fmt.Errorf("build swap: %w", err)
	}
	sig, err := payload.Execute(ctx)
	if err != nil {
		metrics.SwapsTotal.WithLabelValues(label, "execute_failed").Inc()
		return history.Record{}, fmt.Errorf("execute swap: %w", err)
	}

	rec := history.Record{
		ID:        sig.String(),
		Timestamp: s.now(),
		Amount:    req.Amount,
		From:      req.From,
		To:        req.To,
		Status:    history.Pending,
	}
	s.history.Prepend(rec)
	metrics.SwapsTotal.WithLabelValues(label, "ok").Inc()
	metrics.TransactionsRecorded.WithLabelValues(req.From, req.To).Inc()
	s.log.Info().Str("tx", rec.ID).Str("pool", label).Msg("swap transaction submitted")
	return rec, nil
}

// Stake has no venue wired; it never writes to history.
func (s *Service) Stake(_ context.Context, owner dex.Owner, req Request) error {
	return s.unimplemented("staking", owner, req)
}

// YieldFarm has no venue wired; it never writes to history.
func (s *Service) YieldFarm(_ context.Context, owner dex.Owner, req Request) error {
	return s.unimplemented("yield farming", owner, req)
}

func (s *Service) unimplemented(action string, owner dex.Owner, req Request) error {
	if owner == nil {
		return wallet.ErrNotConnected
	}
	s.log.Info().Str("action", action).Str("amount", req.Amount).Msg("action requested")
	return fmt.Errorf("%s: %w", action, ErrNotImplemented)
}

// sides matches the form symbols against the pool's token names.
func sides(p dex.Pool, from, to string) (dex.Token, dex.Token, error) {
	a, b := p.TokenA(), p.TokenB()
	pick := func(symbol string) (dex.Token, bool) {
		switch {
		case strings.EqualFold(symbol, a.Name):
			return a, true
		case strings.EqualFold(symbol, b.Name):
			return b, true
		}
		return dex.Token{}, false
	}
	input, ok := pick(from)
	if !ok {
		return dex.Token{}, dex.Token{}, fmt.Errorf("pool %s does not trade %s", p.Config(), from)
	}
	output, ok := pick(to)
	if !ok {
		return dex.Token{}, dex.Token{}, fmt.Errorf("pool %s does not trade %s", p.Config(), to)
	}
	return input, output, nil
}
