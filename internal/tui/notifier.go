package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/brief/internal/newsapi"
)

type loadingStartedMsg struct{}

type loadingFinishedMsg struct{}

type articlesUpdatedMsg struct {
	articles []newsapi.Article
}

type sessionErrorMsg struct {
	message string
}

type navigateMsg struct {
	article newsapi.Article
}

// channelNotifier forwards controller notifications to the Bubble Tea loop.
// The controller calls it from its own goroutines; the program reads the
// channel through waitForEvent.
type channelNotifier struct {
	events chan tea.Msg
	done   chan struct{}
}

func newChannelNotifier(size int) *channelNotifier {
	return &channelNotifier{
		events: make(chan tea.Msg, size),
		done:   make(chan struct{}),
	}
}

func (n *channelNotifier) send(msg tea.Msg) {
	select {
	case n.events <- msg:
	case <-n.done:
	}
}

func (n *channelNotifier) LoadingStarted()  { n.send(loadingStartedMsg{}) }
func (n *channelNotifier) LoadingFinished() { n.send(loadingFinishedMsg{}) }

func (n *channelNotifier) ArticlesUpdated(articles []newsapi.Article) {
	n.send(articlesUpdatedMsg{articles: articles})
}

func (n *channelNotifier) Error(message string) {
	n.send(sessionErrorMsg{message: message})
}

func (n *channelNotifier) NavigateToDetail(article newsapi.Article) {
	n.send(navigateMsg{article: article})
}

// close stops delivery; pending and later events are discarded.
func (n *channelNotifier) close() {
	select {
	case <-n.done:
	default:
		close(n.done)
	}
}

// waitForEvent blocks until the next notification. Update re-arms it after
// every event it handles.
func (n *channelNotifier) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-n.events:
			return msg
		case <-n.done:
			return nil
		}
	}
}
