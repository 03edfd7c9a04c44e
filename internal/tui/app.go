// Package tui is the terminal front end. It drives a session.Controller and
// renders what the controller reports.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/detail"
	"github.com/pders01/brief/internal/newsapi"
	"github.com/pders01/brief/internal/search"
	"github.com/pders01/brief/internal/session"
	"github.com/pders01/brief/internal/share"
)

const eventBuffer = 64

type App struct {
	config     *config.Config
	controller *session.Controller
	notifier   *channelNotifier
	filter     search.Filterer
	sharer     *share.Sharer
	launcher   *share.Launcher
	keyHandler *KeyHandler

	resultList  list.Model
	filterList  list.Model
	searchInput textinput.Model
	filterInput textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model

	view           View
	cameFromFilter bool
	articles       []newsapi.Article
	current        *detail.View
	loading        bool
	filterQuery    string

	status     string
	statusKind StatusKind
	err        error

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

// NewApp wires a controller over fetcher. The App owns the controller and
// tears it down in Close.
func NewApp(fetcher session.Fetcher, cfg *config.Config) *App {
	notifier := newChannelNotifier(eventBuffer)

	resultList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	resultList.Title = "› news"
	resultList.SetShowStatusBar(false)
	resultList.SetFilteringEnabled(false)
	resultList.SetShowHelp(true)

	filterList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	filterList.Title = "› matches"
	filterList.SetShowStatusBar(false)
	filterList.SetFilteringEnabled(false)
	filterList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search the news..."
	si.CharLimit = 256

	fi := textinput.New()
	fi.Placeholder = "Filter loaded articles..."
	fi.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	var filter search.Filterer
	if idx, err := search.NewIndex(); err != nil {
		debuglog.Warnf("tui: filter index unavailable: %v", err)
	} else {
		filter = idx
	}

	app := &App{
		config:      cfg,
		controller:  session.NewController(fetcher, notifier, cfg),
		notifier:    notifier,
		filter:      filter,
		sharer:      share.NewSharer(),
		launcher:    share.NewLauncher(cfg),
		resultList:  resultList,
		filterList:  filterList,
		searchInput: si,
		filterInput: fi,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		view:        ViewResults,
	}

	app.keyHandler = NewKeyHandler(app, cfg)
	return app
}

// Close stops the controller and the notification pump. Safe to call more
// than once.
func (a *App) Close() {
	a.controller.Close()
	a.notifier.close()
	if c, ok := a.filter.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.Article.WordWrapMaxWidth
	minWidth := a.config.UI.Article.WordWrapMinWidth
	if maxWidth <= 0 {
		maxWidth = 120
	}
	if minWidth <= 0 {
		minWidth = 40
	}

	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > maxWidth {
		wordWrapWidth = maxWidth
	}
	if wordWrapWidth < minWidth {
		wordWrapWidth = minWidth
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.notifier.waitForEvent(),
		a.fetchInitial(),
		a.spinner.Tick,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resultList.SetSize(msg.Width, msg.Height-3)
		filterListHeight := msg.Height - 10
		if filterListHeight < 5 {
			filterListHeight = 5
		}
		a.filterList.SetSize(msg.Width, filterListHeight)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3

		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = msg.Width
		}
		a.searchInput.Width = inputWidth
		a.filterInput.Width = inputWidth

		if a.view == ViewDetail && a.current != nil {
			cmds = append(cmds, a.renderDetail(a.current))
		}

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case loadingStartedMsg:
		a.loading = true
		a.err = nil
		if len(a.articles) > 0 {
			a.setStatus(MsgLoadingMore, StatusInfo)
		} else {
			a.setStatus(MsgLoading, StatusInfo)
		}
		return a, a.notifier.waitForEvent()

	case loadingFinishedMsg:
		a.loading = false
		return a, a.notifier.waitForEvent()

	case articlesUpdatedMsg:
		a.applyArticles(msg.articles)
		return a, a.notifier.waitForEvent()

	case sessionErrorMsg:
		a.loading = false
		a.err = errors.New(msg.message)
		a.clearStatus()
		return a, a.notifier.waitForEvent()

	case navigateMsg:
		a.openDetail(msg.article)
		return a, tea.Batch(a.notifier.waitForEvent(), a.renderDetail(a.current))

	case articleRenderedMsg:
		if a.view == ViewDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}

	case filterResultsMsg:
		if a.view == ViewFilter && msg.query == a.filterQuery {
			a.applyFilterResults(msg.hits)
		}

	case statusMsg:
		a.setStatus(msg.text, msg.kind)

	case errorMsg:
		a.err = msg.err
	}

	switch a.view {
	case ViewResults:
		var cmd tea.Cmd
		a.resultList, cmd = a.resultList.Update(msg)
		cmds = append(cmds, cmd)
	case ViewDetail:
		switch msg.(type) {
		case tea.MouseMsg:
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

// applyArticles replaces the displayed list with the controller's snapshot.
func (a *App) applyArticles(articles []newsapi.Article) {
	a.articles = articles

	items := make([]list.Item, len(articles))
	for i, art := range articles {
		items[i] = articleItem{article: art, maxDesc: a.config.UI.Article.MaxDescriptionLength}
	}
	cursor := a.resultList.Index()
	a.resultList.SetItems(items)
	if len(items) == 0 {
		a.resultList.ResetSelected()
	} else if cursor < len(items) {
		a.resultList.Select(cursor)
	}

	state := a.controller.State()
	a.resultList.Title = "› news: " + truncateEnd(state.Query, 40)

	if a.filter != nil {
		if err := a.filter.Reset(articles); err != nil {
			debuglog.Warnf("tui: filter reset failed: %v", err)
		}
	}

	switch {
	case len(articles) == 0 && !state.HasMorePages:
		a.setStatus(MsgNoResults, StatusWarn)
	case len(articles) == 0:
		a.clearStatus()
	case !state.HasMorePages:
		a.setStatus(MsgQueryResults(state.Query, len(articles), false), StatusInfo)
	default:
		a.setStatus(MsgQueryResults(state.Query, len(articles), true), StatusInfo)
	}
}

func (a *App) applyFilterResults(hits []search.Hit) {
	items := make([]list.Item, 0, len(hits))
	for _, h := range hits {
		if h.Index < 0 || h.Index >= len(a.articles) {
			continue
		}
		items = append(items, filterItem{
			hit:     h,
			article: a.articles[h.Index],
			maxDesc: a.config.UI.Article.MaxDescriptionLength,
		})
	}
	a.filterList.SetItems(items)
	a.setStatus(MsgResultsCount(len(items)), StatusInfo)
}

func (a *App) openDetail(article newsapi.Article) {
	a.current = detail.New(article)
	a.cameFromFilter = a.view == ViewFilter
	a.view = ViewDetail
	a.viewport.SetContent("")
	a.err = nil
}

func (a *App) View() string {
	var content string
	bodyHeight := a.height - 3

	switch a.view {
	case ViewResults:
		if len(a.articles) == 0 {
			message := GetWelcomeMessage(a.keyHandler.keys.search)
			if a.loading {
				message = GetCompactBanner(a.spinner.View() + " " + MsgLoading)
			}
			content = renderCentered(a.width, bodyHeight, message)
		} else {
			content = a.resultList.View()
		}

	case ViewSearch:
		content = renderCentered(a.width, bodyHeight, lipgloss.JoinVertical(
			lipgloss.Center,
			TitleStyle.Render("› search news"),
			"",
			renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
			"",
			renderHelp("Enter: search • Esc: cancel"),
		))

	case ViewDetail:
		if a.current == nil {
			content = renderCentered(a.width, bodyHeight, renderMuted("No article selected"))
		} else {
			content = a.viewport.View()
		}

	case ViewFilter:
		helpText := "Type to filter • Tab/↓: matches • Esc: back"
		if !a.filterInput.Focused() {
			if len(a.filterList.Items()) > 0 {
				helpText = "↑↓: navigate • Enter: open • Tab: filter box • Esc: back"
			} else {
				helpText = "No matches • Tab: filter box • Esc: back"
			}
		}

		filterContent := lipgloss.JoinVertical(
			lipgloss.Top,
			renderHeader("› filter loaded articles", MsgResultsCount(len(a.articles))+" loaded", a.width),
			"",
			renderInputFrame(a.filterInput.View(), a.filterInput.Focused(), a.filterInput.Width),
			renderMuted(helpText),
			"",
			a.filterList.View(),
		)
		content = lipgloss.NewStyle().
			Width(a.width).
			Height(bodyHeight).
			MaxHeight(bodyHeight).
			Render(filterContent)
	}

	return lipgloss.JoinVertical(lipgloss.Top, content, renderSeparator(a.width-1), a.statusBar())
}

func (a *App) statusBar() string {
	style := StatusBarStyle.Width(a.width)

	if a.err != nil {
		return style.Render(StatusErrorStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	var parts []string
	if a.loading {
		parts = append(parts, a.spinner.View())
	}
	if a.status != "" {
		parts = append(parts, statusStyle(a.statusKind).Render(a.status))
	}
	if a.view == ViewDetail && a.current != nil && a.current.Article().URL != "" {
		parts = append(parts, TimeStyle.Render(truncateMiddle(a.current.Article().URL, 40)))
	}
	if help := a.keyHandler.GetHelpForCurrentView(); len(help) > 0 {
		parts = append(parts, strings.Join(help, " • "))
	}

	return style.Render(strings.Join(parts, "  "))
}

type articleItem struct {
	article newsapi.Article
	maxDesc int
}

func (i articleItem) Title() string {
	return HeadlineStyle.Render(singleLine(i.article.DisplayTitle()))
}

func (i articleItem) Description() string {
	return describe(i.article, i.maxDesc)
}

func (i articleItem) FilterValue() string { return i.article.DisplayTitle() }

type filterItem struct {
	hit     search.Hit
	article newsapi.Article
	maxDesc int
}

func (i filterItem) Title() string {
	return fmt.Sprintf("%d. %s", i.hit.Index+1, singleLine(i.article.DisplayTitle()))
}

func (i filterItem) Description() string {
	return describe(i.article, i.maxDesc)
}

func (i filterItem) FilterValue() string { return i.article.DisplayTitle() }

// describe builds the second list row: source, publish time and a
// shortened description.
func describe(article newsapi.Article, maxDesc int) string {
	if maxDesc <= 0 {
		maxDesc = 80
	}

	var parts []string
	if name := article.SourceName(); name != "" {
		parts = append(parts, SourceStyle.Render(name))
	}
	if article.PublishedAt != "" {
		parts = append(parts, TimeStyle.Render(detail.FormatPublished(article.PublishedAt)))
	}
	if desc := singleLine(article.Description); desc != "" {
		parts = append(parts, renderMuted(truncateEnd(desc, maxDesc)))
	}
	return strings.Join(parts, " • ")
}

type articleRenderedMsg struct {
	content string
}

type filterResultsMsg struct {
	query string
	hits  []search.Hit
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}
