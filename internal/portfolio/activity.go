package portfolio

import (
	"sort"
	"time"
)

// TokenActivity is the per-token rollup of the trade history. Pointer
// fields are nil when the underlying ratio is undefined (no buys, or a
// zero denominator), never silently zero.
type TokenActivity struct {
	TokenMint string
	Name      string
	Symbol    string

	BuyCount  int
	SellCount int

	BuyCost      float64
	SellProceeds float64
	Fees         float64

	RealizedPnL float64
	PnLPercent  *float64

	AvgBuyPrice  *float64
	AvgSellPrice *float64

	QuantityBought float64
	QuantitySold   float64

	LastBuy  *HistoryEntry
	LastSell *HistoryEntry

	// LastActivity is the timestamp of the most recent entry on either
	// side and is the sort key for the aggregate output.
	LastActivity time.Time
}

// AggregateActivity folds the flat history into one TokenActivity per
// distinct token, ordered by most recent activity first. The input is
// never mutated; an empty history yields an empty slice.
func AggregateActivity(history []HistoryEntry) []TokenActivity {
	type accum struct {
		activity     TokenActivity
		buyPriceQty  float64
		sellPriceQty float64
	}

	groups := make(map[string]*accum)
	order := make([]string, 0)

	for i := range history {
		entry := history[i]

		acc, ok := groups[entry.TokenMint]
		if !ok {
			acc = &accum{activity: TokenActivity{
				TokenMint: entry.TokenMint,
				Name:      entry.Name,
				Symbol:    entry.Symbol,
			}}
			groups[entry.TokenMint] = acc
			order = append(order, entry.TokenMint)
		}

		a := &acc.activity
		if entry.Name != "" {
			a.Name = entry.Name
		}
		if entry.Symbol != "" {
			a.Symbol = entry.Symbol
		}
		a.Fees += entry.Fee
		if entry.Timestamp.After(a.LastActivity) {
			a.LastActivity = entry.Timestamp
		}

		switch entry.Side {
		case SideBuy:
			a.BuyCount++
			a.BuyCost += entry.Value
			a.QuantityBought += entry.Quantity
			acc.buyPriceQty += entry.Price * entry.Quantity
			if a.LastBuy == nil || entry.Timestamp.After(a.LastBuy.Timestamp) {
				e := entry
				a.LastBuy = &e
			}
		case SideSell:
			a.SellCount++
			a.SellProceeds += entry.Value
			a.QuantitySold += entry.Quantity
			acc.sellPriceQty += entry.Price * entry.Quantity
			if a.LastSell == nil || entry.Timestamp.After(a.LastSell.Timestamp) {
				e := entry
				a.LastSell = &e
			}
		}
	}

	result := make([]TokenActivity, 0, len(groups))
	for _, mint := range order {
		acc := groups[mint]
		a := acc.activity

		a.RealizedPnL = a.SellProceeds - a.BuyCost - a.Fees
		if a.BuyCost > 0 {
			pct := a.RealizedPnL / a.BuyCost * 100
			a.PnLPercent = &pct
		}
		if a.QuantityBought > 0 {
			avg := acc.buyPriceQty / a.QuantityBought
			a.AvgBuyPrice = &avg
		}
		if a.QuantitySold > 0 {
			avg := acc.sellPriceQty / a.QuantitySold
			a.AvgSellPrice = &avg
		}

		result = append(result, a)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LastActivity.After(result[j].LastActivity)
	})

	return result
}
