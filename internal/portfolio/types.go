package portfolio

import "time"

// Side identifies the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Position is the user's current holding in one token. The state service
// owns the lifecycle (created on first buy, removed at zero quantity);
// this package only reads snapshots of it.
type Position struct {
	TokenMint     string
	Name          string
	Symbol        string
	Quantity      float64
	AvgEntryPrice float64
}

// HistoryEntry is an immutable record of one executed paper trade.
// Fee is zero when the service did not charge one. MarketCapAtTrade is
// nil when no market cap was known at execution time.
type HistoryEntry struct {
	ID               string
	Timestamp        time.Time
	Side             Side
	TokenMint        string
	Name             string
	Symbol           string
	Price            float64
	Quantity         float64
	Value            float64
	Fee              float64
	MarketCapAtTrade *float64
}

// Deposit is one append-only ledger entry of cash added to the paper balance.
type Deposit struct {
	Timestamp time.Time
	AmountUSD float64
}

// User holds the account identity and current paper balance.
type User struct {
	Name    string
	Balance float64
}

// StateSnapshot is one read of the full account state from the service.
type StateSnapshot struct {
	User      User
	Positions map[string]Position
	History   []HistoryEntry
	Deposits  []Deposit
}
