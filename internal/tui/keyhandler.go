package tui

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/search"
)

// keyMap holds resolved key strings as bubbletea reports them. Quit and back
// are used as configured; the rest take the modifier.
type keyMap struct {
	quit    string
	search  string
	filter  string
	refresh string
	open    string
	share   string
	back    string
}

func newKeyMap(cfg *config.Config) keyMap {
	modifier := ""
	if cfg.Keys.Modifier != "" {
		modifier = cfg.Keys.Modifier + "+"
	}
	b := cfg.Keys.Bindings
	return keyMap{
		quit:    b.Quit,
		search:  modifier + b.Search,
		filter:  modifier + b.Filter,
		refresh: modifier + b.Refresh,
		open:    modifier + b.Open,
		share:   modifier + b.Share,
		back:    b.Back,
	}
}

type KeyHandler struct {
	app    *App
	config *config.Config
	keys   keyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, config: cfg, keys: newKeyMap(cfg)}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.searchInput.Focused()
	case ViewFilter:
		return kh.app.filterInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case kh.keys.back, "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewFilter {
			if len(kh.app.filterList.Items()) > 0 {
				kh.app.filterInput.Blur()
				kh.app.filterList.Select(0)
			}
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		return kh.submitSearch()

	case ViewFilter:
		if items := kh.app.filterList.Items(); len(items) > 0 {
			if i, ok := items[0].(filterItem); ok {
				return kh.selectHit(i.hit)
			}
		}
		return kh.app, nil

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		var cmd tea.Cmd
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)
		return kh.app, cmd

	case ViewFilter:
		var cmd tea.Cmd
		kh.app.filterInput, cmd = kh.app.filterInput.Update(msg)

		query := sanitizeQuery(kh.app.filterInput.Value())
		if query == kh.app.filterQuery {
			return kh.app, cmd
		}
		kh.app.filterQuery = query

		if utf8.RuneCountInString(query) < search.MinQueryLength {
			kh.app.filterList.SetItems([]list.Item{})
			if query == "" {
				kh.app.clearStatus()
			} else {
				kh.app.setStatus(MsgFilterTooShort, StatusInfo)
			}
			return kh.app, cmd
		}
		return kh.app, tea.Batch(cmd, kh.app.filterArticles(query))

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", kh.keys.quit:
		return kh.app, tea.Quit, true
	case kh.keys.back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.keys.search:
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.keys.filter:
		model, cmd := kh.enterFilterMode()
		return model, cmd, true
	case kh.keys.refresh:
		if !kh.app.controller.Refresh() {
			kh.app.setStatus(MsgBusy, StatusWarn)
		}
		kh.app.view = ViewResults
		kh.app.resultList.ResetSelected()
		return kh.app, nil, true
	}

	switch kh.app.view {
	case ViewResults:
		return kh.handleResultsCustomKeys(key)
	case ViewDetail:
		return kh.handleDetailCustomKeys(key)
	case ViewFilter:
		return kh.handleFilterCustomKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleResultsCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	if key == kh.keys.open {
		if i, ok := kh.app.resultList.SelectedItem().(articleItem); ok && i.article.URL != "" {
			return kh.app, kh.app.openURL(i.article.URL), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleDetailCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	if kh.app.current == nil {
		return kh.app, nil, false
	}

	switch key {
	case kh.keys.open:
		if u := kh.app.current.Article().URL; u != "" {
			return kh.app, kh.app.openURL(u), true
		}
		kh.app.setStatus(MsgShareSkipped, StatusWarn)
		return kh.app, nil, true
	case kh.keys.share:
		return kh.app, kh.app.shareArticle(kh.app.current), true
	}
	return kh.app, nil, false
}

// handleFilterCustomKeys moves focus back to the filter box from the list.
func (kh *KeyHandler) handleFilterCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "tab", "shift+tab", "/":
		kh.app.filterInput.Focus()
		return kh.app, textinput.Blink, true
	case "up":
		if kh.app.filterList.Index() == 0 {
			kh.app.filterInput.Focus()
			return kh.app, textinput.Blink, true
		}
	}
	return kh.app, nil, false
}

// delegateToCharm lets the bubbles components handle everything else.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewResults:
		kh.app.resultList, cmd = kh.app.resultList.Update(msg)
		if msg.String() == "enter" && len(kh.app.articles) > 0 {
			return kh.selectArticle(kh.app.resultList.Index())
		}
		kh.maybeLoadMore()
		return kh.app, cmd

	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	case ViewFilter:
		kh.app.filterList, cmd = kh.app.filterList.Update(msg)
		if msg.String() == "enter" {
			if i, ok := kh.app.filterList.SelectedItem().(filterItem); ok {
				return kh.selectHit(i.hit)
			}
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// maybeLoadMore asks for the next page once the cursor is within the
// configured threshold of the last row.
func (kh *KeyHandler) maybeLoadMore() {
	count := len(kh.app.articles)
	if count == 0 || kh.app.loading {
		return
	}

	threshold := kh.config.UI.LoadMoreThreshold
	cursor := kh.app.resultList.Index()
	if cursor < count-threshold {
		return
	}

	if !kh.app.controller.LoadMore() && cursor == count-1 && !kh.app.controller.State().HasMorePages {
		kh.app.setStatus(MsgNoMoreResults, StatusInfo)
	}
}

func (kh *KeyHandler) selectArticle(index int) (tea.Model, tea.Cmd) {
	if err := kh.app.controller.SelectArticle(index); err != nil {
		return kh.app, func() tea.Msg { return errorMsg{err: err} }
	}
	kh.app.setStatus(MsgLoading, StatusInfo)
	return kh.app, nil
}

func (kh *KeyHandler) selectHit(hit search.Hit) (tea.Model, tea.Cmd) {
	return kh.selectArticle(hit.Index)
}

func (kh *KeyHandler) submitSearch() (tea.Model, tea.Cmd) {
	query := sanitizeQuery(kh.app.searchInput.Value())
	if query == "" {
		kh.app.setStatus(MsgEmptyQuery, StatusWarn)
		return kh.app, nil
	}

	if !kh.app.controller.Search(query) {
		kh.app.setStatus(MsgBusy, StatusWarn)
		return kh.app, nil
	}

	debuglog.Debugf("tui: search submitted %q", query)
	kh.app.searchInput.Blur()
	kh.app.searchInput.Reset()
	kh.app.view = ViewResults
	return kh.app, nil
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		kh.app.view = ViewResults
		kh.app.searchInput.Blur()
		kh.app.searchInput.Reset()
		return kh.app, nil

	case ViewFilter:
		kh.app.view = ViewResults
		kh.app.filterInput.Blur()
		kh.app.filterInput.Reset()
		kh.app.filterQuery = ""
		kh.app.filterList.SetItems([]list.Item{})
		kh.app.clearStatus()
		return kh.app, nil

	case ViewDetail:
		kh.app.current = nil
		if kh.app.cameFromFilter {
			kh.app.view = ViewFilter
			kh.app.cameFromFilter = false
			kh.app.filterInput.Blur()
			return kh.app, nil
		}
		kh.app.view = ViewResults
		return kh.app, nil

	default:
		kh.app.err = nil
		return kh.app, nil
	}
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.view = ViewSearch
	kh.app.searchInput.Reset()
	kh.app.searchInput.Placeholder = kh.app.controller.State().Query
	kh.app.searchInput.Focus()
	return kh.app, textinput.Blink
}

func (kh *KeyHandler) enterFilterMode() (tea.Model, tea.Cmd) {
	if len(kh.app.articles) == 0 {
		kh.app.setStatus(MsgNoResults, StatusWarn)
		return kh.app, nil
	}

	kh.app.view = ViewFilter
	kh.app.filterInput.Reset()
	kh.app.filterInput.Focus()
	kh.app.filterQuery = ""
	kh.app.filterList.SetItems([]list.Item{})

	if ds, ok := kh.app.filter.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			debuglog.Debugf("tui: filter index holds %d articles", n)
		}
	}
	kh.app.clearStatus()
	return kh.app, textinput.Blink
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	k := kh.keys
	switch kh.app.view {
	case ViewResults:
		return []string{k.search + ": search", k.filter + ": filter", k.open + ": open", k.refresh + ": refresh"}

	case ViewDetail:
		return []string{k.open + ": open", k.share + ": share", k.back + ": back"}

	case ViewSearch:
		return []string{"enter: search", k.back + ": cancel"}

	case ViewFilter:
		return []string{"enter: open", k.back + ": back"}

	default:
		return []string{}
	}
}
