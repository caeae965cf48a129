// Package derive holds the pure metric computations behind the dashboard:
// supply/market-cap arithmetic, position and ledger PnL, and the sticky
// last-known-good display values. Missing or non-finite inputs yield nil
// results, never a fabricated zero.
package derive

import (
	"math"

	"paperdex/internal/portfolio"
)

// DefaultFallbackSupply substitutes for tokens whose safety report carries
// no usable supply. Product-tuned value, overridable via config.
const DefaultFallbackSupply = 1_000_000_000

// Supply converts a raw on-chain supply to a UI supply using the token's
// decimals. Nil when the raw supply is missing, non-finite or non-positive.
func Supply(raw *float64, decimals int) *float64 {
	v, ok := positive(raw)
	if !ok || decimals < 0 {
		return nil
	}
	supply := v / math.Pow(10, float64(decimals))
	return &supply
}

// SupplyOrFallback is Supply with the configured fallback substituted for
// an unusable source value.
func SupplyOrFallback(raw *float64, decimals int, fallback float64) float64 {
	if s := Supply(raw, decimals); s != nil {
		return *s
	}
	return fallback
}

// MarketCap is price * supply, nil if either operand is unusable.
func MarketCap(price, supply *float64) *float64 {
	p, ok := finite(price)
	if !ok {
		return nil
	}
	s, ok := finite(supply)
	if !ok {
		return nil
	}
	mc := p * s
	return &mc
}

// PositionPnL is the unrealized PnL of a holding at the current price.
// Zero when the quantity is zero or the price is unknown.
func PositionPnL(current *float64, avgEntry, quantity float64) float64 {
	p, ok := finite(current)
	if !ok || quantity == 0 {
		return 0
	}
	return (p - avgEntry) * quantity
}

// PositionPnLPercent is the unrealized PnL relative to the cost basis.
// Nil when the entry price is non-positive or the current price unknown.
func PositionPnLPercent(current *float64, avgEntry float64) *float64 {
	p, ok := finite(current)
	if !ok || avgEntry <= 0 {
		return nil
	}
	pct := (p - avgEntry) / avgEntry * 100
	return &pct
}

// EntryMarketCap estimates the market cap at the position's entry price by
// scaling the current market cap. Nil if any operand is missing or the
// current price is zero.
func EntryMarketCap(marketCap, current *float64, avgEntry float64) *float64 {
	mc, ok := finite(marketCap)
	if !ok {
		return nil
	}
	p, ok := finite(current)
	if !ok || p == 0 {
		return nil
	}
	est := mc * (avgEntry / p)
	return &est
}

// VolumeToMarketCap is the 24h volume over market cap ratio, nil unless
// the market cap is known and positive.
func VolumeToMarketCap(volume24h, marketCap *float64) *float64 {
	v, ok := finite(volume24h)
	if !ok {
		return nil
	}
	mc, ok := positive(marketCap)
	if !ok {
		return nil
	}
	ratio := v / mc
	return &ratio
}

// RealizedPnL is the ledger-wide realized profit: sell proceeds minus buy
// cost minus all fees, over the full history.
func RealizedPnL(history []portfolio.HistoryEntry) float64 {
	var buys, sells, fees float64
	for i := range history {
		entry := history[i]
		fees += entry.Fee
		switch entry.Side {
		case portfolio.SideBuy:
			buys += entry.Value
		case portfolio.SideSell:
			sells += entry.Value
		}
	}
	return sells - buys - fees
}

// Profit is the balance-based profit: current balance minus everything
// ever deposited.
func Profit(balance float64, deposits []portfolio.Deposit) float64 {
	total := 0.0
	for i := range deposits {
		total += deposits[i].AmountUSD
	}
	return balance - total
}

func finite(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0, false
	}
	return *p, true
}

func positive(p *float64) (float64, bool) {
	v, ok := finite(p)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
