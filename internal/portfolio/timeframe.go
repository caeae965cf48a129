package portfolio

import "time"

// Window is one of the fixed rolling timeframes the dashboard can report
// PnL for. The set is an enum, not a free-form duration.
type Window int

const (
	WindowAll Window = iota
	Window1h
	Window6h
	Window12h
	Window24h
	Window7d
)

// Windows lists all supported timeframes in display order.
var Windows = []Window{Window1h, Window6h, Window12h, Window24h, Window7d, WindowAll}

// Start returns the inclusive lower bound of the window relative to now.
// WindowAll returns the zero time, meaning unbounded.
func (w Window) Start(now time.Time) time.Time {
	switch w {
	case Window1h:
		return now.Add(-time.Hour)
	case Window6h:
		return now.Add(-6 * time.Hour)
	case Window12h:
		return now.Add(-12 * time.Hour)
	case Window24h:
		return now.Add(-24 * time.Hour)
	case Window7d:
		return now.Add(-7 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}

func (w Window) String() string {
	switch w {
	case Window1h:
		return "1h"
	case Window6h:
		return "6h"
	case Window12h:
		return "12h"
	case Window24h:
		return "24h"
	case Window7d:
		return "7d"
	default:
		return "all"
	}
}

// WindowStats holds the realized PnL and ROI for one timeframe. ROI is
// nil when no buys fall inside the window.
type WindowStats struct {
	PnL float64
	ROI *float64
}

// AggregateWindow computes realized PnL and ROI over the history entries
// with Timestamp >= start. A zero start includes everything.
func AggregateWindow(history []HistoryEntry, start time.Time) WindowStats {
	var buys, sells, fees float64

	for i := range history {
		entry := history[i]
		if !start.IsZero() && entry.Timestamp.Before(start) {
			continue
		}
		fees += entry.Fee
		switch entry.Side {
		case SideBuy:
			buys += entry.Value
		case SideSell:
			sells += entry.Value
		}
	}

	stats := WindowStats{PnL: sells - buys - fees}
	if buys > 0 {
		roi := stats.PnL / buys * 100
		stats.ROI = &roi
	}
	return stats
}
