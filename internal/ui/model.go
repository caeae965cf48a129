// Package ui is the bubbletea dashboard over the paper-trading service:
// portfolio and activity tables, rolling PnL timeframes, token scans and
// trade prompts. All numbers shown here come from the derivation packages;
// the UI layer does no arithmetic of its own.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"paperdex/internal/api"
	"paperdex/internal/derive"
	"paperdex/internal/export"
	"paperdex/internal/portfolio"
	"paperdex/internal/scan"
)

// Backend is the slice of the API client the dashboard drives.
type Backend interface {
	GetState(ctx context.Context) (*portfolio.StateSnapshot, error)
	Buy(ctx context.Context, mint string, price, quantity float64, name, symbol string) (*portfolio.StateSnapshot, error)
	Sell(ctx context.Context, mint string, price float64, quantity *float64) (*portfolio.StateSnapshot, error)
	Deposit(ctx context.Context, amountUSD float64) (*portfolio.StateSnapshot, error)
	GetQuote(ctx context.Context, mint string) (*api.PriceQuote, error)
}

// TokenScanner runs a scan for one mint.
type TokenScanner interface {
	Scan(ctx context.Context, mint string) (*scan.Result, error)
}

type mode int

const (
	modeDashboard mode = iota
	modeScanInput
	modeBuyInput
	modeSellInput
	modeDepositInput
)

// Options configures the dashboard shell.
type Options struct {
	PollInterval   time.Duration
	RequestTimeout time.Duration
	ExportDir      string
}

// Model is the single top-level bubbletea model.
type Model struct {
	backend  Backend
	scanner  TokenScanner
	exporter *export.HistoryExporter
	logger   *zap.Logger
	keys     KeyMap
	opts     Options

	mode  mode
	input textinput.Model
	table table.Model

	state      *portfolio.StateSnapshot
	activity   []portfolio.TokenActivity
	rowMints   []string
	windowIdx  int
	scanResult *scan.Result
	status     string

	width  int
	height int
}

// New creates the dashboard model.
func New(backend Backend, scanner TokenScanner, exporter *export.HistoryExporter, opts Options, logger *zap.Logger) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	input := textinput.New()
	input.CharLimit = 64

	columns := []table.Column{
		{Title: "Token", Width: 10},
		{Title: "Qty", Width: 14},
		{Title: "Avg Entry", Width: 12},
		{Title: "Realized PnL", Width: 14},
		{Title: "PnL %", Width: 9},
		{Title: "Last Trade", Width: 17},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return Model{
		backend:  backend,
		scanner:  scanner,
		exporter: exporter,
		logger:   logger.Named("ui"),
		keys:     DefaultKeyMap(),
		opts:     opts,
		input:    input,
		table:    tbl,
	}
}

// Init starts the first state fetch and the poll ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchState(), m.tick())
}

// Update routes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchState(), m.tick())

	case stateMsg:
		m.state = msg.Snapshot
		m.activity = portfolio.AggregateActivity(msg.Snapshot.History)
		m.rebuildRows()
		return m, nil

	case scanDoneMsg:
		m.scanResult = msg.Result
		m.status = fmt.Sprintf("scanned %s: %s", shortMint(msg.Result.Snapshot.TokenMint), msg.Result.Verdict.Label)
		return m, nil

	case exportDoneMsg:
		m.status = "exported " + msg.Path
		return m, nil

	case errMsg:
		m.status = fmt.Sprintf("%s failed: %v", msg.Op, msg.Err)
		m.logger.Warn("operation failed", zap.String("op", msg.Op), zap.Error(msg.Err))
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeDashboard {
			return m.updatePrompt(msg)
		}
		return m.updateDashboard(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchState()

	case key.Matches(msg, m.keys.Window):
		m.windowIdx = (m.windowIdx + 1) % len(portfolio.Windows)
		return m, nil

	case key.Matches(msg, m.keys.Scan):
		return m.enterPrompt(modeScanInput, "token address"), nil

	case key.Matches(msg, m.keys.Buy):
		if m.scanResult == nil || m.scanResult.Snapshot.Price == nil {
			m.status = "scan a token with a known price before buying"
			return m, nil
		}
		return m.enterPrompt(modeBuyInput, "quantity to buy"), nil

	case key.Matches(msg, m.keys.Sell):
		if len(m.rowMints) == 0 {
			m.status = "no position selected"
			return m, nil
		}
		return m.enterPrompt(modeSellInput, "quantity to sell (empty = all)"), nil

	case key.Matches(msg, m.keys.Deposit):
		return m.enterPrompt(modeDepositInput, "deposit amount USD"), nil

	case key.Matches(msg, m.keys.Export):
		if m.state == nil || len(m.state.History) == 0 {
			m.status = "nothing to export"
			return m, nil
		}
		return m, m.doExport(m.state.History)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeDashboard
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		from := m.mode
		m.mode = modeDashboard
		m.input.Blur()
		cmd := m.dispatchPrompt(from, value)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) enterPrompt(target mode, placeholder string) Model {
	m.mode = target
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m *Model) dispatchPrompt(from mode, value string) tea.Cmd {
	switch from {
	case modeScanInput:
		return m.doScan(value)

	case modeBuyInput:
		quantity, err := strconv.ParseFloat(value, 64)
		if err != nil || quantity <= 0 {
			m.status = "invalid quantity"
			return nil
		}
		return m.doBuy(m.scanResult.Snapshot.TokenMint, *m.scanResult.Snapshot.Price, quantity)

	case modeSellInput:
		var quantity *float64
		if value != "" {
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil || parsed <= 0 {
				m.status = "invalid quantity"
				return nil
			}
			quantity = &parsed
		}
		mint := m.selectedMint()
		if mint == "" {
			m.status = "no position selected"
			return nil
		}
		return m.doSell(mint, quantity)

	case modeDepositInput:
		amount, err := strconv.ParseFloat(value, 64)
		if err != nil || amount <= 0 {
			m.status = "invalid amount"
			return nil
		}
		return m.doDeposit(amount)
	}
	return nil
}

func (m *Model) selectedMint() string {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rowMints) {
		return ""
	}
	return m.rowMints[cursor]
}

func (m *Model) rebuildRows() {
	rows := make([]table.Row, 0, len(m.activity))
	mints := make([]string, 0, len(m.activity))

	for _, act := range m.activity {
		label := act.Symbol
		if label == "" {
			label = shortMint(act.TokenMint)
		}
		qty := 0.0
		if m.state != nil {
			if pos, ok := m.state.Positions[act.TokenMint]; ok {
				qty = pos.Quantity
			}
		}
		avgEntry := "—"
		if act.AvgBuyPrice != nil {
			avgEntry = fmtUSD(*act.AvgBuyPrice)
		}
		rows = append(rows, table.Row{
			label,
			strconv.FormatFloat(qty, 'f', -1, 64),
			avgEntry,
			fmtSigned(act.RealizedPnL),
			fmtPercent(act.PnLPercent),
			act.LastActivity.Format("01-02 15:04:05"),
		})
		mints = append(mints, act.TokenMint)
	}

	m.table.SetRows(rows)
	m.rowMints = mints
}

// Commands

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchState() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.RequestTimeout)
		defer cancel()

		snapshot, err := m.backend.GetState(ctx)
		if err != nil {
			return errMsg{Op: "refresh", Err: err}
		}
		return stateMsg{Snapshot: snapshot}
	}
}

func (m Model) doScan(mint string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.RequestTimeout)
		defer cancel()

		result, err := m.scanner.Scan(ctx, mint)
		if err != nil {
			return errMsg{Op: "scan", Err: err}
		}
		return scanDoneMsg{Result: result}
	}
}

func (m Model) doBuy(mint string, price, quantity float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.RequestTimeout)
		defer cancel()

		snapshot, err := m.backend.Buy(ctx, mint, price, quantity, "", "")
		if err != nil {
			return errMsg{Op: "buy", Err: err}
		}
		return stateMsg{Snapshot: snapshot}
	}
}

// doSell quotes first: a sell is always priced at the live quote, and a
// token with no live price cannot be sold from the dashboard.
func (m Model) doSell(mint string, quantity *float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.RequestTimeout)
		defer cancel()

		quote, err := m.backend.GetQuote(ctx, mint)
		if err != nil {
			return errMsg{Op: "sell", Err: err}
		}
		if quote.PriceUSD == nil {
			return errMsg{Op: "sell", Err: fmt.Errorf("no live price for %s", shortMint(mint))}
		}

		snapshot, err := m.backend.Sell(ctx, mint, *quote.PriceUSD, quantity)
		if err != nil {
			return errMsg{Op: "sell", Err: err}
		}
		return stateMsg{Snapshot: snapshot}
	}
}

func (m Model) doDeposit(amount float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.RequestTimeout)
		defer cancel()

		snapshot, err := m.backend.Deposit(ctx, amount)
		if err != nil {
			return errMsg{Op: "deposit", Err: err}
		}
		return stateMsg{Snapshot: snapshot}
	}
}

func (m Model) doExport(history []portfolio.HistoryEntry) tea.Cmd {
	return func() tea.Msg {
		path, err := m.exporter.Export(history, export.Options{
			Format:    export.FormatCSV,
			OutputDir: m.opts.ExportDir,
		})
		if err != nil {
			return errMsg{Op: "export", Err: err}
		}
		return exportDoneMsg{Path: path}
	}
}

// derived view values

func (m Model) profit() float64 {
	if m.state == nil {
		return 0
	}
	return derive.Profit(m.state.User.Balance, m.state.Deposits)
}

func (m Model) realizedPnL() float64 {
	if m.state == nil {
		return 0
	}
	return derive.RealizedPnL(m.state.History)
}

func (m Model) windowStats(w portfolio.Window) portfolio.WindowStats {
	if m.state == nil {
		return portfolio.WindowStats{}
	}
	return portfolio.AggregateWindow(m.state.History, w.Start(time.Now()))
}
