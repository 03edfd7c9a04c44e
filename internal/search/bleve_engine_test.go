package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/brief/internal/newsapi"
)

func sampleArticles() []newsapi.Article {
	return []newsapi.Article{
		{
			Source:      &newsapi.Source{Name: "The Verge"},
			Title:       "Apple announces new MacBook",
			Description: "Laptops get faster chips",
			URL:         "https://example.com/macbook",
		},
		{
			Source:      &newsapi.Source{ID: "wired"},
			Author:      "Grace Hopper",
			Title:       "Compilers at sixty",
			Description: "A history of programming languages",
			Content:     "Golang and Rust are discussed at length",
			URL:         "https://example.com/compilers",
		},
		{
			Title:       "Golang 1.24 released",
			Description: "Generic type aliases land",
			URL:         "https://example.com/go124",
		},
		{},
	}
}

func newTestIndex(t *testing.T, articles []newsapi.Article) *Index {
	t.Helper()
	idx, err := NewIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	require.NoError(t, idx.Reset(articles))
	return idx
}

func hitIndexes(hits []Hit) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.Index
	}
	return out
}

func TestIndex_Filter(t *testing.T) {
	idx := newTestIndex(t, sampleArticles())

	tests := []struct {
		name     string
		query    string
		expected []int
	}{
		{name: "title match", query: "macbook", expected: []int{0}},
		{name: "case insensitive", query: "APPLE", expected: []int{0}},
		{name: "prefix", query: "compil", expected: []int{1}},
		{name: "source name", query: "verge", expected: []int{0}},
		{name: "author", query: "hopper", expected: []int{1}},
		{name: "title ranks above content", query: "golang", expected: []int{2, 1}},
		{name: "no match", query: "weather", expected: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := idx.Filter(tt.query, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hitIndexes(hits))
		})
	}
}

func TestIndex_FilterShortQueries(t *testing.T) {
	idx := newTestIndex(t, sampleArticles())

	for _, query := range []string{"", " ", "a", " g ", "é"} {
		hits, err := idx.Filter(query, 10)
		require.NoError(t, err)
		assert.Empty(t, hits, "query %q", query)
	}
}

func TestIndex_FilterLimit(t *testing.T) {
	articles := make([]newsapi.Article, 20)
	for i := range articles {
		articles[i] = newsapi.Article{Title: "market update"}
	}
	idx := newTestIndex(t, articles)

	hits, err := idx.Filter("market", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 5)

	hits, err = idx.Filter("market", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 20)
}

func TestIndex_ResetReplacesDocuments(t *testing.T) {
	idx := newTestIndex(t, sampleArticles())

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	require.NoError(t, idx.Reset([]newsapi.Article{{Title: "Weather warning issued"}}))

	count, err = idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := idx.Filter("macbook", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Filter("weather", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, hitIndexes(hits))
}

func TestIndex_EmptyReset(t *testing.T) {
	idx := newTestIndex(t, nil)

	hits, err := idx.Filter("anything", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Closed(t *testing.T) {
	idx, err := NewIndex()
	require.NoError(t, err)
	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close())

	_, err = idx.Filter("apple", 10)
	assert.Error(t, err)

	_, err = idx.DocCount()
	assert.Error(t, err)
}

func TestIndex_ResetAfterClose(t *testing.T) {
	idx, err := NewIndex()
	require.NoError(t, err)
	require.NoError(t, idx.Reset(sampleArticles()))
	require.NoError(t, idx.Close())

	err = idx.Reset(sampleArticles())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")

	_, err = idx.Filter("apple", 10)
	assert.Error(t, err, "a rejected Reset must not reopen the index")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"a b cd", []string{"cd"}},
		{"Go-1.24", []string{"go", "24"}},
		{"Über straße", []string{"über", "straße"}},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tokenize(tt.input), "tokenize(%q)", tt.input)
	}
}
