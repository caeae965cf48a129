package api

import (
	"time"

	"paperdex/internal/portfolio"
)

// Wire payloads for the paper-trading state service. Upstream responses
// are partial by design, so every numeric that can be absent is a pointer
// here and normalized before it reaches the derivation layer.

type userPayload struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type positionPayload struct {
	Quantity      float64 `json:"quantityHeld"`
	AvgEntryPrice float64 `json:"averageEntryPrice"`
	Name          string  `json:"displayName,omitempty"`
	Symbol        string  `json:"symbol,omitempty"`
}

type historyPayload struct {
	ID               string   `json:"id"`
	TimestampMs      int64    `json:"timestampMs"`
	Side             string   `json:"side"`
	TokenMint        string   `json:"tokenAddress"`
	Name             string   `json:"displayName,omitempty"`
	Symbol           string   `json:"symbol,omitempty"`
	Price            float64  `json:"price"`
	Quantity         float64  `json:"quantity"`
	Value            float64  `json:"value"`
	Fee              *float64 `json:"fee,omitempty"`
	MarketCapAtTrade *float64 `json:"marketCapAtTrade,omitempty"`
}

type depositPayload struct {
	TimestampMs int64   `json:"timestampMs"`
	AmountUSD   float64 `json:"amountUsd"`
}

type statePayload struct {
	User      userPayload                `json:"user"`
	Positions map[string]positionPayload `json:"positions"`
	History   []historyPayload           `json:"history"`
	Deposits  []depositPayload           `json:"deposits"`
}

// SafetyReport is the token-safety source: supply, decimals, liquidity
// lock and holder data for one mint.
type SafetyReport struct {
	Supply      *float64 `json:"supply"`
	Decimals    *int     `json:"decimals"`
	LPLockedPct *float64 `json:"lpLockedPct"`
	Holders     *int     `json:"holders"`
	RiskScore   *float64 `json:"riskScore"`
}

// PriceQuote is the live price source.
type PriceQuote struct {
	PriceUSD *float64 `json:"priceUsd"`
}

// PairInfo is the dex-info blob: rolling volume/transaction windows,
// price changes, a categorical risk label and the pair creation time.
type PairInfo struct {
	Volume24h         *float64 `json:"volume24h"`
	TxCount24h        *int     `json:"txCount24h"`
	PriceChange24hPct *float64 `json:"priceChange24hPct"`
	RiskLabel         string   `json:"riskLabel"`
	PairCreatedAtMs   *int64   `json:"pairCreatedAt"`
}

// buyRequest / sellRequest / depositRequest are the mutation bodies. A
// nil sell quantity means "sell the whole position" and is resolved by
// the service, which also rejects oversells.
type buyRequest struct {
	TokenMint string  `json:"tokenAddress"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Name      string  `json:"displayName,omitempty"`
	Symbol    string  `json:"symbol,omitempty"`
}

type sellRequest struct {
	TokenMint string   `json:"tokenAddress"`
	Price     float64  `json:"price"`
	Quantity  *float64 `json:"quantity,omitempty"`
}

type depositRequest struct {
	AmountUSD float64 `json:"amountUsd"`
}

func (p *statePayload) toSnapshot() *portfolio.StateSnapshot {
	snap := &portfolio.StateSnapshot{
		User: portfolio.User{
			Name:    p.User.Name,
			Balance: p.User.Balance,
		},
		Positions: make(map[string]portfolio.Position, len(p.Positions)),
		History:   make([]portfolio.HistoryEntry, 0, len(p.History)),
		Deposits:  make([]portfolio.Deposit, 0, len(p.Deposits)),
	}

	for mint, pos := range p.Positions {
		snap.Positions[mint] = portfolio.Position{
			TokenMint:     mint,
			Name:          pos.Name,
			Symbol:        pos.Symbol,
			Quantity:      pos.Quantity,
			AvgEntryPrice: pos.AvgEntryPrice,
		}
	}

	for _, h := range p.History {
		entry := portfolio.HistoryEntry{
			ID:               h.ID,
			Timestamp:        time.UnixMilli(h.TimestampMs),
			Side:             portfolio.Side(h.Side),
			TokenMint:        h.TokenMint,
			Name:             h.Name,
			Symbol:           h.Symbol,
			Price:            h.Price,
			Quantity:         h.Quantity,
			Value:            h.Value,
			MarketCapAtTrade: h.MarketCapAtTrade,
		}
		if h.Fee != nil {
			entry.Fee = *h.Fee
		}
		snap.History = append(snap.History, entry)
	}

	for _, d := range p.Deposits {
		snap.Deposits = append(snap.Deposits, portfolio.Deposit{
			Timestamp: time.UnixMilli(d.TimestampMs),
			AmountUSD: d.AmountUSD,
		})
	}

	return snap
}
