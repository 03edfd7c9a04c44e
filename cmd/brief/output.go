package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pders01/brief/internal/detail"
	"github.com/pders01/brief/internal/newsapi"
)

const (
	formatList  = "list"
	formatTable = "table"

	maxTableTitle = 70
)

// useColor reports whether out is a terminal that accepts color. NO_COLOR
// and non-terminal stdout are handled by the color package.
func useColor(out io.Writer) bool {
	return out == io.Writer(os.Stdout) && !color.NoColor
}

type printer struct {
	out   io.Writer
	title *color.Color
	meta  *color.Color
	link  *color.Color
}

func newPrinter(out io.Writer, colors bool) *printer {
	p := &printer{
		out:   out,
		title: color.New(color.Bold),
		meta:  color.New(color.Faint),
		link:  color.New(color.FgCyan),
	}
	if !colors {
		p.title.DisableColor()
		p.meta.DisableColor()
		p.link.DisableColor()
	} else {
		p.title.EnableColor()
		p.meta.EnableColor()
		p.link.EnableColor()
	}
	return p
}

func (p *printer) list(articles []newsapi.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(p.out, "No results")
		return
	}

	for i, a := range articles {
		fmt.Fprintf(p.out, "%2d. %s\n", i+1, p.title.Sprint(a.DisplayTitle()))
		if meta := byline(a); meta != "" {
			fmt.Fprintf(p.out, "    %s\n", p.meta.Sprint(meta))
		}
		if a.URL != "" {
			fmt.Fprintf(p.out, "    %s\n", p.link.Sprint(a.URL))
		}
	}
}

func (p *printer) table(articles []newsapi.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(p.out, "No results")
		return
	}

	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	rows := make([][]string, 0, len(articles))
	for i, a := range articles {
		published := ""
		if a.PublishedAt != "" {
			published = detail.FormatPublished(a.PublishedAt)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			clip(a.DisplayTitle(), maxTableTitle),
			a.SourceName(),
			published,
			a.URL,
		})
	}

	table.Header([]string{"#", "Title", "Source", "Published", "URL"})
	table.Bulk(rows)
	table.Render()
}

func byline(a newsapi.Article) string {
	var meta []string
	if name := a.SourceName(); name != "" {
		meta = append(meta, name)
	}
	if a.PublishedAt != "" {
		meta = append(meta, detail.FormatPublished(a.PublishedAt))
	}
	return strings.Join(meta, " · ")
}

func clip(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
