package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/brief/internal/config"
	"github.com/pders01/brief/internal/detail"
	"github.com/pders01/brief/internal/newsapi"
	"github.com/pders01/brief/internal/search"
	"github.com/pders01/brief/internal/session"
)

const apiKey = "integration-key"

type fixtureServer struct {
	mu       sync.Mutex
	requests []string
}

func (f *fixtureServer) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// newFixtureServer serves the JSON files under test/fixtures the way the
// news API would: Apple pages by number, an error body for a bad key and a
// body without articles for the "broken" query.
func newFixtureServer(t *testing.T) (*httptest.Server, *fixtureServer) {
	t.Helper()
	fixtures := filepath.Join("..", "fixtures")
	f := &fixtureServer{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f.mu.Lock()
		f.requests = append(f.requests, fmt.Sprintf("%s#%s", q.Get("q"), q.Get("page")))
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path != "/v2/everything" {
			http.NotFound(w, r)
			return
		}

		status := http.StatusOK
		var name string
		switch {
		case q.Get("apiKey") != apiKey:
			status = http.StatusUnauthorized
			name = "error-401.json"
		case q.Get("q") == "Apple":
			page, _ := strconv.Atoi(q.Get("page"))
			if page > 3 {
				page = 3
			}
			name = fmt.Sprintf("apple-page%d.json", page)
		case q.Get("q") == "broken":
			name = "missing-articles.json"
		default:
			name = "apple-page3.json"
		}

		data, err := os.ReadFile(filepath.Join(fixtures, name))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)

	return srv, f
}

type recorder struct {
	mu        sync.Mutex
	events    []string
	latest    []newsapi.Article
	errors    []string
	navigated []newsapi.Article
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) LoadingStarted()  { r.add("started") }
func (r *recorder) LoadingFinished() { r.add("finished") }

func (r *recorder) ArticlesUpdated(articles []newsapi.Article) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("updated(%d)", len(articles)))
	r.latest = articles
}

func (r *recorder) Error(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "error")
	r.errors = append(r.errors, message)
}

func (r *recorder) NavigateToDetail(article newsapi.Article) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "navigate")
	r.navigated = append(r.navigated, article)
}

func setupSession(t *testing.T, key string) (*session.Controller, *recorder, *fixtureServer) {
	t.Helper()
	srv, fixtures := newFixtureServer(t)

	cfg := config.TestConfig()
	cfg.API.BaseURL = srv.URL
	cfg.API.APIKey = key

	rec := &recorder{}
	ctrl := session.NewController(newsapi.NewClient(cfg), rec, cfg)
	t.Cleanup(func() {
		ctrl.Close()
		ctrl.Wait()
	})
	return ctrl, rec, fixtures
}

func TestIntegration_ApplePagination(t *testing.T) {
	ctrl, rec, fixtures := setupSession(t, apiKey)

	require.True(t, ctrl.FetchInitial())
	ctrl.Wait()
	state := ctrl.State()
	assert.Equal(t, 15, state.Count)
	assert.Equal(t, 2, state.Page)
	assert.True(t, state.HasMorePages)

	require.True(t, ctrl.LoadMore())
	ctrl.Wait()
	state = ctrl.State()
	assert.Equal(t, 18, state.Count)
	assert.True(t, state.HasMorePages)

	require.True(t, ctrl.LoadMore())
	ctrl.Wait()
	state = ctrl.State()
	assert.Equal(t, 18, state.Count)
	assert.False(t, state.HasMorePages)

	assert.False(t, ctrl.LoadMore())
	assert.Equal(t, []string{"Apple#1", "Apple#2", "Apple#3"}, fixtures.seen())

	articles := ctrl.Articles()
	assert.Equal(t, articles, rec.latest)
	assert.Equal(t, "Apple headline 1.1", articles[0].Title)
	assert.Equal(t, "Apple headline 2.3", articles[17].Title)
	assert.Nil(t, articles[2].Source, "null source decodes to nil")

	assert.Equal(t, []string{
		"started", "updated(15)", "finished",
		"started", "updated(18)", "finished",
		"started", "updated(18)", "finished",
	}, rec.events)
}

func TestIntegration_SelectAndShare(t *testing.T) {
	ctrl, rec, _ := setupSession(t, apiKey)

	require.True(t, ctrl.FetchInitial())
	ctrl.Wait()

	require.NoError(t, ctrl.SelectArticle(1))
	require.Len(t, rec.navigated, 1)

	view := detail.New(rec.navigated[0])
	assert.Equal(t, "Apple headline 1.2", view.Title())
	assert.Equal(t, "Body of apple story 1.2. More text follows", view.Body())
	assert.Contains(t, view.Byline(), "Reuters · Reporter 2")

	req, ok := view.ShareRequest()
	require.True(t, ok)
	assert.Equal(t, "Apple headline 1.2\nhttps://news.example/apple/1/2", req.Text())

	err := ctrl.SelectArticle(15)
	assert.ErrorIs(t, err, session.ErrIndexOutOfRange)
}

func TestIntegration_FilterLoadedArticles(t *testing.T) {
	ctrl, _, _ := setupSession(t, apiKey)

	require.True(t, ctrl.FetchInitial())
	ctrl.Wait()

	idx, err := search.NewIndex()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Reset(ctrl.Articles()))

	hits, err := idx.Filter("reuters", 0)
	require.NoError(t, err)

	var positions []int
	for _, h := range hits {
		positions = append(positions, h.Index)
	}
	assert.ElementsMatch(t, []int{1, 5, 9, 13}, positions)
}

func TestIntegration_InvalidKey(t *testing.T) {
	ctrl, rec, _ := setupSession(t, "wrong")

	require.True(t, ctrl.FetchInitial())
	ctrl.Wait()

	assert.Equal(t, []string{"started", "finished", "error"}, rec.events)
	assert.Equal(t, []string{"request failed: HTTP 401 Unauthorized"}, rec.errors)
	assert.Equal(t, 0, ctrl.State().Count)
	assert.Equal(t, 1, ctrl.State().Page)
	assert.True(t, ctrl.State().HasMorePages)
}

func TestIntegration_MissingArticlesField(t *testing.T) {
	ctrl, rec, _ := setupSession(t, apiKey)

	require.True(t, ctrl.Search("broken"))
	ctrl.Wait()

	require.Len(t, rec.errors, 1)
	assert.Equal(t, "decoding error: response has no articles field", rec.errors[0])
	assert.Equal(t, 0, ctrl.State().Count)
}

func TestIntegration_CredentialFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("API_KEY="+apiKey+"\n"), 0o600))

	key := config.LoadAPIKey(envFile, "API_KEY")
	require.Equal(t, apiKey, key)

	ctrl, _, _ := setupSession(t, key)
	require.True(t, ctrl.FetchInitial())
	ctrl.Wait()
	assert.Equal(t, 15, ctrl.State().Count)
}
