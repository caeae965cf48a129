// Package scan assembles a per-token market snapshot from the three
// scan-time data sources and scores it. Sources return partial data;
// normalization happens here, at the boundary, so the scorer and the
// metric derivations only ever see typed nullable fields.
package scan

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"paperdex/internal/api"
	"paperdex/internal/derive"
	"paperdex/internal/health"
)

// Base58 body of a token mint, 32-44 characters. Format rejection is a
// precondition: no source is contacted for a malformed address.
var tokenMintPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// ErrInvalidTokenMint is returned for addresses that fail the format check.
type ErrInvalidTokenMint struct {
	Mint string
}

func (e *ErrInvalidTokenMint) Error() string {
	return fmt.Sprintf("invalid token address: %q", e.Mint)
}

// ValidateTokenMint checks the address format without touching the network.
func ValidateTokenMint(mint string) error {
	if !tokenMintPattern.MatchString(mint) {
		return &ErrInvalidTokenMint{Mint: mint}
	}
	return nil
}

// MarketSnapshot is the ephemeral per-scan view of a token's market data.
// Nil fields were unavailable upstream and stayed unavailable after the
// sticky fallback.
type MarketSnapshot struct {
	TokenMint          string
	Price              *float64
	Supply             *float64
	MarketCap          *float64
	Volume24h          *float64
	TxCount24h         *int
	PriceChange24hPct  *float64
	LiquidityLockedPct *float64
	RiskLabel          health.RiskLabel
	PairAgeMinutes     *float64
	Holders            *int
	ScannedAt          time.Time
}

// Result couples the snapshot with its health verdict.
type Result struct {
	Snapshot MarketSnapshot
	Verdict  health.Verdict
}

// DataSource is the slice of the API client the scanner needs.
type DataSource interface {
	GetReport(ctx context.Context, mint string) (*api.SafetyReport, error)
	GetQuote(ctx context.Context, mint string) (*api.PriceQuote, error)
	GetPairInfo(ctx context.Context, mint string) (*api.PairInfo, error)
}

// stickySet is the retained last-known-good display state for one mint.
type stickySet struct {
	price     derive.Sticky
	supply    derive.Sticky
	marketCap derive.Sticky
}

// Scanner fetches, normalizes and scores token data. It keeps per-mint
// sticky display state for the lifetime of the session.
type Scanner struct {
	source         DataSource
	rules          health.Rules
	fallbackSupply float64
	logger         *zap.Logger
	now            func() time.Time

	mu     sync.Mutex
	sticky map[string]stickySet
}

// NewScanner creates a scanner. A non-positive fallbackSupply selects the
// default.
func NewScanner(source DataSource, rules health.Rules, fallbackSupply float64, logger *zap.Logger) *Scanner {
	if fallbackSupply <= 0 {
		fallbackSupply = derive.DefaultFallbackSupply
	}
	return &Scanner{
		source:         source,
		rules:          rules,
		fallbackSupply: fallbackSupply,
		logger:         logger.Named("scan"),
		now:            time.Now,
		sticky:         make(map[string]stickySet),
	}
}

// Scan validates the mint, pulls the three sources concurrently, builds
// the snapshot and scores it. A failed source fails the scan; sparse but
// well-formed data does not.
func (s *Scanner) Scan(ctx context.Context, mint string) (*Result, error) {
	if err := ValidateTokenMint(mint); err != nil {
		return nil, err
	}

	var (
		report *api.SafetyReport
		quote  *api.PriceQuote
		pair   *api.PairInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report, err = s.source.GetReport(gctx, mint)
		return err
	})
	g.Go(func() error {
		var err error
		quote, err = s.source.GetQuote(gctx, mint)
		return err
	})
	g.Go(func() error {
		var err error
		pair, err = s.source.GetPairInfo(gctx, mint)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", mint, err)
	}

	snapshot := s.buildSnapshot(mint, report, quote, pair)
	verdict := s.rules.Score(health.Signals{
		VolToMC:           derive.VolumeToMarketCap(snapshot.Volume24h, snapshot.MarketCap),
		LPLockedPct:       snapshot.LiquidityLockedPct,
		Tx24:              snapshot.TxCount24h,
		PriceChange24hPct: snapshot.PriceChange24hPct,
		RiskLabel:         snapshot.RiskLabel,
		AgeMinutes:        snapshot.PairAgeMinutes,
		MarketCap:         snapshot.MarketCap,
	})

	s.logger.Info("token scanned",
		zap.String("token_mint", mint),
		zap.String("verdict", string(verdict.Label)),
		zap.Float64("score", verdict.Score),
		zap.Strings("reasons", verdict.Reasons))

	return &Result{Snapshot: snapshot, Verdict: verdict}, nil
}

func (s *Scanner) buildSnapshot(mint string, report *api.SafetyReport, quote *api.PriceQuote, pair *api.PairInfo) MarketSnapshot {
	now := s.now()

	decimals := 0
	if report.Decimals != nil {
		decimals = *report.Decimals
	}
	supply := derive.SupplyOrFallback(report.Supply, decimals, s.fallbackSupply)

	var age *float64
	if pair.PairCreatedAtMs != nil && *pair.PairCreatedAtMs > 0 {
		minutes := now.Sub(time.UnixMilli(*pair.PairCreatedAtMs)).Minutes()
		age = &minutes
	}

	riskLabel := health.RiskUnknown
	switch health.RiskLabel(pair.RiskLabel) {
	case health.RiskSafe, health.RiskCaution, health.RiskDanger:
		riskLabel = health.RiskLabel(pair.RiskLabel)
	}

	// Fold the tick into the per-mint sticky state so a source dropping
	// out for one scan does not blank the display.
	s.mu.Lock()
	set := s.sticky[mint]
	set.price = set.price.Observe(quote.PriceUSD)
	set.supply = set.supply.Observe(&supply)
	set.marketCap = set.marketCap.Observe(derive.MarketCap(set.price.Value(), set.supply.Value()))
	s.sticky[mint] = set
	s.mu.Unlock()

	return MarketSnapshot{
		TokenMint:          mint,
		Price:              set.price.Value(),
		Supply:             set.supply.Value(),
		MarketCap:          set.marketCap.Value(),
		Volume24h:          pair.Volume24h,
		TxCount24h:         pair.TxCount24h,
		PriceChange24hPct:  pair.PriceChange24hPct,
		LiquidityLockedPct: report.LPLockedPct,
		RiskLabel:          riskLabel,
		PairAgeMinutes:     age,
		Holders:            report.Holders,
		ScannedAt:          now,
	}
}
