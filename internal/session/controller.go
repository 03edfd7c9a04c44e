// Package session owns the search and pagination state of one results
// screen. A Controller decides whether a search resets or extends the list,
// keeps at most one fetch in flight, and reports every change to a Notifier.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/newsapi"
)

// Fetcher returns one page of articles. *newsapi.Client satisfies it.
type Fetcher interface {
	FetchArticles(ctx context.Context, query string, page, pageSize int) ([]newsapi.Article, error)
}

// Notifier receives the observable effects of a Controller. Calls are made
// outside the controller lock: LoadingStarted and NavigateToDetail on the
// caller's goroutine, the rest on the fetch goroutine. Implementations that
// drive a UI must hand the events to their own loop.
type Notifier interface {
	LoadingStarted()
	LoadingFinished()
	ArticlesUpdated(articles []newsapi.Article)
	Error(message string)
	NavigateToDetail(article newsapi.Article)
}

// State is a snapshot of the session.
type State struct {
	Query        string
	Page         int
	Count        int
	Loading      bool
	HasMorePages bool
}

// Controller drives one results list against a Fetcher.
type Controller struct {
	fetcher      Fetcher
	notifier     Notifier
	defaultQuery string
	pageSize     int

	mu       sync.Mutex
	query    string
	page     int
	articles []newsapi.Article
	loading  bool
	hasMore  bool
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController returns an idle controller positioned at page 1 of the
// configured default query.
func NewController(fetcher Fetcher, notifier Notifier, cfg *config.Config) *Controller {
	defaultQuery := strings.TrimSpace(cfg.API.DefaultQuery)
	if defaultQuery == "" {
		defaultQuery = config.DefaultQuery
	}
	pageSize := cfg.API.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		fetcher:      fetcher,
		notifier:     notifier,
		defaultQuery: defaultQuery,
		pageSize:     pageSize,
		query:        defaultQuery,
		page:         1,
		hasMore:      true,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// FetchInitial resets the session to the default query and fetches its
// first page. It returns false without doing anything while a fetch is in
// flight.
func (c *Controller) FetchInitial() bool {
	c.mu.Lock()
	if c.closed || c.loading {
		debuglog.Debugf("session: initial fetch skipped (loading=%v closed=%v)", c.loading, c.closed)
		c.mu.Unlock()
		return false
	}

	cleared := c.resetLocked(c.defaultQuery)
	query, page := c.beginLocked()
	c.mu.Unlock()

	c.announce(cleared)
	go c.run(query, page)
	return true
}

// Search fetches query. A query different from the current one starts over
// at page 1 with an empty list; the current query continues from the
// current page. An empty query repeats the current query. Search returns
// false, and changes nothing, while a fetch is in flight.
func (c *Controller) Search(query string) bool {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	if c.closed || c.loading {
		c.mu.Unlock()
		debuglog.Debugf("session: search %q ignored, fetch in flight", query)
		return false
	}

	if query == "" {
		query = c.query
	}

	cleared := false
	if query != c.query {
		cleared = c.resetLocked(query)
	}
	q, page := c.beginLocked()
	c.mu.Unlock()

	c.announce(cleared)
	go c.run(q, page)
	return true
}

// Refresh starts the current query over at page 1 with an empty list. Like
// Search it returns false while a fetch is in flight.
func (c *Controller) Refresh() bool {
	c.mu.Lock()
	if c.closed || c.loading {
		c.mu.Unlock()
		return false
	}

	cleared := c.resetLocked(c.query)
	query, page := c.beginLocked()
	c.mu.Unlock()

	debuglog.Debugf("session: refreshing %q", query)
	c.announce(cleared)
	go c.run(query, page)
	return true
}

// LoadMore fetches the next page of the current query. It is a silent no-op
// while a fetch is in flight or once an empty page has been seen.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	if c.closed || c.loading || !c.hasMore {
		debuglog.Debugf("session: load more skipped (loading=%v hasMore=%v closed=%v)", c.loading, c.hasMore, c.closed)
		c.mu.Unlock()
		return false
	}

	query, page := c.beginLocked()
	c.mu.Unlock()

	debuglog.Debugf("session: loading page %d of %q", page, query)
	c.announce(false)
	go c.run(query, page)
	return true
}

// SelectArticle reports the article at index through NavigateToDetail.
func (c *Controller) SelectArticle(index int) error {
	c.mu.Lock()
	count := len(c.articles)
	if index < 0 || index >= count {
		c.mu.Unlock()
		err := &IndexOutOfRangeError{Index: index, Count: count}
		debuglog.Warnf("session: %v", err)
		return err
	}
	article := c.articles[index]
	c.mu.Unlock()

	c.notifier.NavigateToDetail(article)
	return nil
}

// State returns a snapshot of the query, paging and loading flags.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Query:        c.query,
		Page:         c.page,
		Count:        len(c.articles),
		Loading:      c.loading,
		HasMorePages: c.hasMore,
	}
}

// Articles returns a copy of the loaded list in display order.
func (c *Controller) Articles() []newsapi.Article {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close tears the session down. The outstanding request is cancelled and
// whatever it returns is dropped without notifications.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

// Wait blocks until the outstanding fetch, if any, has been applied or
// dropped. It must not run concurrently with a call that starts a fetch.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// resetLocked switches to query at page 1 with an empty list and reports
// whether rows were cleared.
func (c *Controller) resetLocked(query string) bool {
	cleared := len(c.articles) > 0
	c.query = query
	c.page = 1
	c.articles = nil
	c.hasMore = true
	return cleared
}

func (c *Controller) beginLocked() (string, int) {
	c.loading = true
	c.wg.Add(1)
	return c.query, c.page
}

func (c *Controller) announce(cleared bool) {
	if cleared {
		c.notifier.ArticlesUpdated([]newsapi.Article{})
	}
	c.notifier.LoadingStarted()
}

func (c *Controller) snapshotLocked() []newsapi.Article {
	out := make([]newsapi.Article, len(c.articles))
	copy(out, c.articles)
	return out
}

func (c *Controller) run(query string, page int) {
	defer c.wg.Done()

	log := debuglog.WithFields(map[string]interface{}{"query": query, "page": page})
	fetched, err := c.fetcher.FetchArticles(c.ctx, query, page, c.pageSize)

	c.mu.Lock()
	if c.closed {
		c.loading = false
		c.mu.Unlock()
		log.Debugf("session: result dropped after close")
		return
	}
	c.loading = false

	if err != nil {
		c.mu.Unlock()
		log.Errorf("session: fetch failed: %v", err)
		c.notifier.LoadingFinished()
		c.notifier.Error(err.Error())
		return
	}

	c.articles = append(c.articles, fetched...)
	c.hasMore = len(fetched) > 0
	c.page++
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	log.Infof("session: %d articles, %d loaded", len(fetched), len(snapshot))
	c.notifier.ArticlesUpdated(snapshot)
	c.notifier.LoadingFinished()
}
