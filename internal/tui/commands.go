package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/detail"
)

// fetchInitial asks the controller for the default query. The result
// arrives through the notifier, so the command itself carries no message.
func (a *App) fetchInitial() tea.Cmd {
	return func() tea.Msg {
		if !a.controller.FetchInitial() {
			debuglog.Debugf("tui: initial fetch skipped")
		}
		return nil
	}
}

func (a *App) renderDetail(view *detail.View) tea.Cmd {
	markdown := view.Markdown()
	return func() tea.Msg {
		r, err := a.getRenderer()
		if err != nil {
			return articleRenderedMsg{content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(markdown)
		if err != nil {
			debuglog.Warnf("tui: render failed: %v", err)
			return articleRenderedMsg{content: fmt.Sprintf("Failed to render article: %s\n\n%s", err.Error(), markdown)}
		}
		return articleRenderedMsg{content: rendered}
	}
}

func (a *App) filterArticles(query string) tea.Cmd {
	filter := a.filter
	limit := a.config.UI.FilterLimit
	return func() tea.Msg {
		if filter == nil {
			return errorMsg{err: errors.New("filter unavailable")}
		}
		hits, err := filter.Filter(query, limit)
		if err != nil {
			return errorMsg{err: wrapErr("filter", err)}
		}
		return filterResultsMsg{query: query, hits: hits}
	}
}

func (a *App) openURL(rawURL string) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		if err := launcher.Open(rawURL); err != nil {
			return errorMsg{err: wrapErr("open "+truncateMiddle(rawURL, 60), err)}
		}
		return statusMsg{text: MsgOpening, kind: StatusInfo}
	}
}

func (a *App) shareArticle(view *detail.View) tea.Cmd {
	req, ok := view.ShareRequest()
	if !ok {
		return func() tea.Msg { return statusMsg{text: MsgShareSkipped, kind: StatusWarn} }
	}

	sharer := a.sharer
	return func() tea.Msg {
		if !sharer.Available() {
			return statusMsg{text: "Clipboard unavailable: " + req.URL, kind: StatusWarn}
		}
		if err := sharer.Share(req); err != nil {
			return errorMsg{err: wrapErr("share", err)}
		}
		return statusMsg{text: MsgCopied, kind: StatusSuccess}
	}
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
