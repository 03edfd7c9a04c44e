package search

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/newsapi"
)

// MinQueryLength is the shortest query, in runes, that Filter answers.
const MinQueryLength = 2

var errIndexClosed = errors.New("search index closed")

// Index is an in-memory bleve index over one session's articles. Nothing is
// written to disk; Reset rebuilds it from scratch. Once closed it stays
// closed.
type Index struct {
	mu     sync.Mutex
	idx    bleve.Index
	count  int
	closed bool
}

var _ Filterer = (*Index)(nil)

func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.IncludeTermVectors = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name

	content := bleve.NewTextFieldMapping()
	content.Analyzer = standard.Name
	content.Store = false

	source := bleve.NewTextFieldMapping()
	source.Analyzer = standard.Name

	author := bleve.NewTextFieldMapping()
	author.Analyzer = standard.Name

	url := bleve.NewTextFieldMapping()
	url.Analyzer = standard.Name

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("content", content)
	dm.AddFieldMappingsAt("source", source)
	dm.AddFieldMappingsAt("author", author)
	dm.AddFieldMappingsAt("url", url)

	im.DefaultMapping = dm
	return im
}

// Reset replaces the indexed articles. Document ids are list positions.
func (i *Index) Reset(articles []newsapi.Article) error {
	if i.isClosed() {
		return errIndexClosed
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	batch := idx.NewBatch()
	for pos, a := range articles {
		if err := batch.Index(strconv.Itoa(pos), map[string]any{
			"title":       a.Title,
			"description": a.Description,
			"content":     a.Content,
			"source":      a.SourceName(),
			"author":      a.Author,
			"url":         a.URL,
		}); err != nil {
			idx.Close()
			return fmt.Errorf("indexing article %d: %w", pos, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return fmt.Errorf("indexing articles: %w", err)
	}

	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		_ = idx.Close()
		return errIndexClosed
	}
	old := i.idx
	i.idx = idx
	i.count = len(articles)
	i.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	debuglog.Debugf("search: indexed %d articles", len(articles))
	return nil
}

// Filter returns up to limit hits for query, best first. Queries shorter
// than MinQueryLength runes return no hits.
func (i *Index) Filter(query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Hit{}, nil
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Hit{}, nil
	}

	// OR of per-term matches across fields, title weighted highest.
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qs = append(qs,
			fieldMatch(tok, "title", 4.0),
			fieldPrefix(tok, "title", 3.5),
			fieldMatch(tok, "description", 2.0),
			fieldPrefix(tok, "description", 1.8),
			fieldMatch(tok, "source", 1.5),
			fieldMatch(tok, "author", 1.2),
			fieldMatch(tok, "content", 1.0),
			fieldPrefix(tok, "content", 0.8),
			fieldMatch(tok, "url", 0.5),
		)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.idx == nil {
		return nil, errIndexClosed
	}
	if limit <= 0 || limit > i.count {
		limit = i.count
	}
	if limit == 0 {
		return []Hit{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	res, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("filtering articles: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{Index: pos, Score: h.Score})
	}
	// Equal scores keep list order.
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Index < hits[b].Index
	})
	return hits, nil
}

// DocCount reports total documents in the index.
func (i *Index) DocCount() (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.idx == nil {
		return 0, errIndexClosed
	}
	n, err := i.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.closed = true
	if i.idx == nil {
		return nil
	}
	err := i.idx.Close()
	i.idx = nil
	i.count = 0
	return err
}

func (i *Index) isClosed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.closed
}

func fieldMatch(term, field string, boost float64) bleveQuery.Query {
	q := bleve.NewMatchQuery(term)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

func fieldPrefix(term, field string, boost float64) bleveQuery.Query {
	q := bleve.NewPrefixQuery(term)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// tokenize splits text into lowercase letter/number runs, skipping single
// characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	flush := func() {
		if utf8.RuneCountInString(current.String()) > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return terms
}
