// Package detail builds what the article detail screen shows and what it
// hands to the share collaborator.
package detail

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/newsapi"
	"github.com/pders01/brief/internal/validation"
)

// DefaultShareTitle is used when the article has no title.
const DefaultShareTitle = "News"

// PublishedLayout is how publish timestamps are displayed.
const PublishedLayout = "02 Jan, 15:04"

// truncationMarker matches the "… [+1234 chars]" suffix the upstream API
// appends to truncated content.
var truncationMarker = regexp.MustCompile(`\s*(…|\.\.\.)?\s*\[\+\d+ chars\]\s*$`)

// ShareRequest asks the share collaborator to share a title and link.
type ShareRequest struct {
	Title string
	URL   string
}

// Text is the clipboard form of the request.
func (r ShareRequest) Text() string {
	return r.Title + "\n" + r.URL
}

type View struct {
	article newsapi.Article
}

func New(article newsapi.Article) *View {
	return &View{article: article}
}

func (v *View) Article() newsapi.Article {
	return v.article
}

func (v *View) Title() string {
	return v.article.DisplayTitle()
}

// Byline joins source, author and publish date, skipping missing parts.
func (v *View) Byline() string {
	var parts []string
	if name := v.article.SourceName(); name != "" {
		parts = append(parts, name)
	}
	if author := strings.TrimSpace(v.article.Author); author != "" {
		parts = append(parts, author)
	}
	if v.article.PublishedAt != "" {
		parts = append(parts, FormatPublished(v.article.PublishedAt))
	}
	return strings.Join(parts, " · ")
}

// Body returns the article content without the truncation marker, falling
// back to the description.
func (v *View) Body() string {
	content := strings.TrimSpace(truncationMarker.ReplaceAllString(v.article.Content, ""))
	if content != "" {
		return content
	}
	return strings.TrimSpace(v.article.Description)
}

// Markdown renders the article for the detail viewport.
func (v *View) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", v.Title())

	if byline := v.Byline(); byline != "" {
		fmt.Fprintf(&b, "*%s*\n\n", byline)
	}

	description := strings.TrimSpace(v.article.Description)
	body := v.Body()
	if description != "" && description != body {
		fmt.Fprintf(&b, "**%s**\n\n", description)
	}
	if body != "" {
		fmt.Fprintf(&b, "%s\n\n", body)
	}

	if v.article.URL != "" {
		b.WriteString("---\n\n")
		fmt.Fprintf(&b, "[Read the full article](%s)\n", v.article.URL)
	}

	return b.String()
}

// ShareRequest returns the share request for the article. ok is false when
// the article has no usable link; sharing is then skipped.
func (v *View) ShareRequest() (ShareRequest, bool) {
	u, err := validation.ParseShareURL(v.article.URL)
	if err != nil {
		debuglog.Debugf("detail: share skipped: %v", err)
		return ShareRequest{}, false
	}

	title := strings.TrimSpace(v.article.Title)
	if title == "" {
		title = DefaultShareTitle
	}
	return ShareRequest{Title: title, URL: u.String()}, true
}

// FormatPublished renders an ISO-8601 timestamp in local time. Input that
// does not parse is returned unchanged.
func FormatPublished(raw string) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return t.Local().Format(PublishedLayout)
}
