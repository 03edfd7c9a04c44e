package search

import "github.com/pders01/brief/internal/newsapi"

// Filterer narrows the articles loaded in a session down to the ones
// matching a free-text query. Hits refer to articles by list position.
type Filterer interface {
	Reset(articles []newsapi.Article) error
	Filter(query string, limit int) ([]Hit, error)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

// Hit is one filter match. Index is the article's position in the list
// passed to the last Reset.
type Hit struct {
	Index int
	Score float64
}
