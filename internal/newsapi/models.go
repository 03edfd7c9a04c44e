package newsapi

import "strings"

// Source identifies the publisher of an article. Either field may be empty.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is one search result. The upstream API guarantees none of its
// fields, so every field may be empty and Source may be nil. Articles carry
// no identity; a session identifies them by list position only.
type Article struct {
	Source      *Source `json:"source"`
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	URLToImage  string  `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     string  `json:"content"`
}

// DisplayTitle returns the title, falling back to the description and then
// to a placeholder.
func (a Article) DisplayTitle() string {
	if t := strings.TrimSpace(a.Title); t != "" {
		return t
	}
	if d := strings.TrimSpace(a.Description); d != "" {
		return d
	}
	return "Untitled"
}

// SourceName returns the publisher name, or the source id when no name is set.
func (a Article) SourceName() string {
	if a.Source == nil {
		return ""
	}
	if a.Source.Name != "" {
		return a.Source.Name
	}
	return a.Source.ID
}

// searchResponse is the body of /v2/everything. Articles is a pointer so a
// body that omits the field can be told apart from an empty page.
type searchResponse struct {
	Status       string     `json:"status"`
	TotalResults int        `json:"totalResults"`
	Articles     *[]Article `json:"articles"`
}
