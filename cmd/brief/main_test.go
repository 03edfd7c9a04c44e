package main

import (
	"bytes"
	"encoding/json"
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

	"github.com/pders01/brief/internal/newsapi"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version", "--quiet")
	require.NoError(t, err)

	assert.Contains(t, out, "brief dev")
	assert.Contains(t, out, "github.com/pders01/brief")
	assert.NotContains(t, out, "news in your terminal")
}

func TestVersionCommandBanner(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "news in your terminal")
}

func TestGenerateConfigCommand(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := executeCommand(t, "config", "generate", "--config", configFile)
	require.NoError(t, err)

	assert.FileExists(t, configFile)
	assert.Contains(t, out, "Generated default configuration at: "+configFile)

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_query")
}

func TestConfigShowCommand(t *testing.T) {
	configFile := writeFile(t, t.TempDir(), "config.toml", "[api]\npage_size = 40\ndefault_query = \"climate\"\n")

	out, err := executeCommand(t, "config", "show", "--config", configFile)
	require.NoError(t, err)

	assert.Contains(t, out, "page_size = 40")
	assert.Contains(t, out, "climate")
	assert.NotContains(t, out, "test-key")
}

func TestConfigShowRejectsBadBaseURL(t *testing.T) {
	configFile := writeFile(t, t.TempDir(), "config.toml", "[api]\nbase_url = \"ftp://news.example\"\n")

	_, err := executeCommand(t, "config", "show", "--config", configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url")
}

type newsServer struct {
	mu     sync.Mutex
	pages  map[int]int
	status int
	seen   []string
}

func (s *newsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	s.seen = append(s.seen, fmt.Sprintf("q=%s page=%s size=%s key=%s", q.Get("q"), q.Get("page"), q.Get("pageSize"), q.Get("apiKey")))

	if s.status != 0 {
		w.WriteHeader(s.status)
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	articles := make([]map[string]any, s.pages[page])
	for i := range articles {
		articles[i] = map[string]any{
			"source":      map[string]any{"id": nil, "name": "Wire"},
			"title":       fmt.Sprintf("Story %d.%d", page, i+1),
			"url":         fmt.Sprintf("https://example.com/%d/%d", page, i+1),
			"publishedAt": "2024-03-01T10:15:00Z",
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "totalResults": 3, "articles": articles})
}

func (s *newsServer) requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seen...)
}

func searchFixture(t *testing.T, handler http.Handler) (configFile, envFile string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	configFile = writeFile(t, dir, "config.toml", fmt.Sprintf("[api]\nbase_url = %q\n", srv.URL))
	envFile = writeFile(t, dir, "news.env", "API_KEY=secret\n")
	return configFile, envFile
}

func TestSearchCommand(t *testing.T) {
	srv := &newsServer{pages: map[int]int{1: 2, 2: 1}}
	configFile, envFile := searchFixture(t, srv)

	out, err := executeCommand(t, "search", "golang", "--pages", "5", "--page-size", "2",
		"--config", configFile, "--env-file", envFile, "--log-level", "off")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"q=golang page=1 size=2 key=secret",
		"q=golang page=2 size=2 key=secret",
		"q=golang page=3 size=2 key=secret",
	}, srv.requests())

	assert.Contains(t, out, " 1. Story 1.1")
	assert.Contains(t, out, " 2. Story 1.2")
	assert.Contains(t, out, " 3. Story 2.1")
	assert.Contains(t, out, "https://example.com/2/1")
	assert.Contains(t, out, "Wire · ")
}

func TestSearchCommandJoinsArgs(t *testing.T) {
	srv := &newsServer{pages: map[int]int{1: 1}}
	configFile, envFile := searchFixture(t, srv)

	_, err := executeCommand(t, "search", "electric", "cars", "--config", configFile, "--env-file", envFile)
	require.NoError(t, err)

	require.Len(t, srv.requests(), 1)
	assert.Equal(t, "q=electric cars page=1 size=15 key=secret", srv.requests()[0])
}

func TestSearchCommandMissingCredential(t *testing.T) {
	srv := &newsServer{pages: map[int]int{}}
	configFile, _ := searchFixture(t, srv)
	missing := filepath.Join(t.TempDir(), "absent.env")

	out, err := executeCommand(t, "search", "golang", "--config", configFile, "--env-file", missing)
	require.NoError(t, err)

	assert.Equal(t, []string{"q=golang page=1 size=15 key="}, srv.requests())
	assert.Contains(t, out, "No results")
}

func TestSearchCommandHTTPError(t *testing.T) {
	srv := &newsServer{status: http.StatusUnauthorized}
	configFile, envFile := searchFixture(t, srv)

	_, err := executeCommand(t, "search", "golang", "--pages", "3", "--config", configFile, "--env-file", envFile)
	require.Error(t, err)
	assert.Equal(t, "request failed: HTTP 401 Unauthorized", err.Error())
	assert.Len(t, srv.requests(), 1)
}

func TestSearchCommandValidation(t *testing.T) {
	_, err := executeCommand(t, "search", "golang", "--pages", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--pages")

	_, err = executeCommand(t, "search")
	require.Error(t, err)
}

func TestSearchCommandRejectsLogFileOutsideBriefDirs(t *testing.T) {
	outside := filepath.Join(string(filepath.Separator), "srv", "brief", "brief.log")
	configFile := writeFile(t, t.TempDir(), "config.toml", fmt.Sprintf("[log]\nfile = %q\n", outside))

	_, err := executeCommand(t, "search", "golang", "--config", configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log path")
	assert.Contains(t, err.Error(), "not within allowed directories")
}

func TestSearchCommandLogsUnderHome(t *testing.T) {
	srv := &newsServer{pages: map[int]int{1: 1}}
	configFile, envFile := searchFixture(t, srv)

	_, err := executeCommand(t, "search", "golang", "--config", configFile, "--env-file", envFile, "--log-level", "info")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, ".brief", "brief.log"))
}

func TestSearchCommandTableFormat(t *testing.T) {
	srv := &newsServer{pages: map[int]int{1: 2}}
	configFile, envFile := searchFixture(t, srv)

	out, err := executeCommand(t, "search", "golang", "--format", "table", "--config", configFile, "--env-file", envFile)
	require.NoError(t, err)

	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Story 1.2")
	assert.Contains(t, out, "https://example.com/1/2")
	assert.Contains(t, out, "Wire")
}

func TestSearchCommandRejectsUnknownFormat(t *testing.T) {
	_, err := executeCommand(t, "search", "golang", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--format")
}

func TestPrinterList(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false)

	p.list(nil)
	assert.Equal(t, "No results\n", buf.String())

	buf.Reset()
	p.list([]newsapi.Article{{Title: "Only title"}, {Description: "Falls back", URL: "https://example.com/x"}})
	assert.Equal(t, " 1. Only title\n 2. Falls back\n    https://example.com/x\n", buf.String())
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "one two", clip("one\n  two", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}
