package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusKind indicates severity for status messages/spinners.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

// Canonical short status messages used across the app.
const (
	MsgLoading        = "Loading…"
	MsgLoadingMore    = "Loading more…"
	MsgNoResults      = "No results"
	MsgNoMoreResults  = "No more results"
	MsgBusy           = "Still loading, try again in a moment"
	MsgEmptyQuery     = "Enter a search term"
	MsgCopied         = "Link copied to clipboard"
	MsgShareSkipped   = "Nothing to share: article has no valid link"
	MsgOpening        = "Opening in browser…"
	MsgFilterTooShort = "Type at least 2 characters"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgQueryResults(query string, n int, more bool) string {
	base := fmt.Sprintf("%s • %s", strings.TrimSpace(query), MsgResultsCount(n))
	if !more {
		base += " • end"
	}
	return base
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

func statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}
