package ui

import (
	"time"

	"paperdex/internal/portfolio"
	"paperdex/internal/scan"
)

// Tea message types for the dashboard.

// tickMsg triggers a periodic state refresh.
type tickMsg time.Time

// stateMsg carries a fresh state snapshot from the service.
type stateMsg struct {
	Snapshot *portfolio.StateSnapshot
}

// scanDoneMsg carries a finished token scan.
type scanDoneMsg struct {
	Result *scan.Result
}

// exportDoneMsg carries the path of a finished history export.
type exportDoneMsg struct {
	Path string
}

// errMsg carries a failed operation. The dashboard shows it in the
// status line and keeps the last good state on screen.
type errMsg struct {
	Op  string
	Err error
}
