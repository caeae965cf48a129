package ui

import (
	"fmt"
	"strings"

	"paperdex/internal/portfolio"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.state == nil {
		return mutedStyle.Render("connecting to paper-trading service...")
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTimeframes())
	b.WriteString("\n\n")
	b.WriteString(paneStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.scanResult != nil {
		b.WriteString(m.renderScanPane())
		b.WriteString("\n")
	}

	if m.mode != modeDashboard {
		b.WriteString(promptStyle.Render(m.input.View()))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	user := m.state.User
	profit := m.profit()
	realized := m.realizedPnL()

	return fmt.Sprintf("%s  %s  %s  %s  %s",
		headerStyle.Render("paperdex"),
		subtextStyle.Render(user.Name),
		balanceStyle.Render("balance "+fmtUSD(user.Balance)),
		pnlStyle(profit).Render("profit "+fmtSigned(profit)),
		pnlStyle(realized).Render("realized "+fmtSigned(realized)))
}

func (m Model) renderTimeframes() string {
	parts := make([]string, 0, len(portfolio.Windows))
	for i, w := range portfolio.Windows {
		stats := m.windowStats(w)
		cell := fmt.Sprintf("%s %s %s", w, fmtSigned(stats.PnL), fmtPercent(stats.ROI))
		if i == m.windowIdx {
			parts = append(parts, headerStyle.Render(cell))
		} else {
			parts = append(parts, mutedStyle.Render(cell))
		}
	}
	return strings.Join(parts, subtextStyle.Render(" │ "))
}

func (m Model) renderScanPane() string {
	snap := m.scanResult.Snapshot
	verdict := m.scanResult.Verdict

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		subtextStyle.Render("scan"),
		balanceStyle.Render(shortMint(snap.TokenMint)))
	fmt.Fprintf(&b, "price %s  supply %s  mcap %s\n",
		fmtPtrUSD(snap.Price), fmtPtrNum(snap.Supply), fmtPtrUSD(snap.MarketCap))
	fmt.Fprintf(&b, "vol24h %s  tx24 %s  Δ24h %s  LP locked %s  age %s  holders %s\n",
		fmtPtrUSD(snap.Volume24h),
		fmtPtrInt(snap.TxCount24h),
		fmtPtrPercent(snap.PriceChange24hPct),
		fmtPtrPercent(snap.LiquidityLockedPct),
		fmtPtrMinutes(snap.PairAgeMinutes),
		fmtPtrInt(snap.Holders))
	fmt.Fprintf(&b, "verdict %s (%.0f)",
		verdictStyle(string(verdict.Label)).Render(string(verdict.Label)),
		verdict.Score)
	if len(verdict.Reasons) > 0 {
		fmt.Fprintf(&b, "\n%s", mutedStyle.Render(strings.Join(verdict.Reasons, "; ")))
	}

	return paneStyle.Render(b.String())
}

func (m Model) renderHelp() string {
	keys := []string{
		"s scan", "b buy", "x sell", "d deposit",
		"e export", "tab timeframe", "r refresh", "q quit",
	}
	return mutedStyle.Render(strings.Join(keys, "  "))
}

// Formatting helpers. The em dash stands in for values that are not
// known yet; per the sticky-value policy it only ever appears before the
// first valid observation.

func fmtUSD(v float64) string {
	return fmt.Sprintf("$%.4f", v)
}

func fmtSigned(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

func fmtPercent(p *float64) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%+.1f%%", *p)
}

func fmtPtrUSD(p *float64) string {
	if p == nil {
		return "—"
	}
	if *p < 0.01 {
		return fmt.Sprintf("$%.8f", *p)
	}
	return fmt.Sprintf("$%.2f", *p)
}

func fmtPtrNum(p *float64) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f", *p)
}

func fmtPtrInt(p *int) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%d", *p)
}

func fmtPtrPercent(p *float64) string {
	if p == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", *p)
}

func fmtPtrMinutes(p *float64) string {
	if p == nil {
		return "—"
	}
	if *p >= 60 {
		return fmt.Sprintf("%.1fh", *p/60)
	}
	return fmt.Sprintf("%.0fm", *p)
}

func shortMint(mint string) string {
	if len(mint) <= 12 {
		return mint
	}
	return mint[:6] + ".." + mint[len(mint)-4:]
}
