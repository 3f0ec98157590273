package extract

import (
	"regexp"
	"strings"
)

// partial holds whatever one strategy could recover from a page. Empty fields
// mean "no match"; the pipeline merges first-non-empty per field.
type partial struct {
	Title       string
	Description string
	Author      string
}

// strategy is one markup pattern family. Strategies run in priority order and
// the first match per field wins.
type strategy struct {
	name string
	try  func(html string) partial
}

func regexField(re *regexp.Regexp, html string) string {
	m := re.FindStringSubmatch(html)
	if len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Video page patterns, newest markup first. YouTube has shipped several
// variants of the owner/channel structure over the years, so each gets its
// own strategy.
var (
	htmlTitleRe   = regexp.MustCompile(`<title>([^<]+)</title>`)
	jsonTitleRe   = regexp.MustCompile(`"title":"([^"]+)"`)
	ogTitleRe     = regexp.MustCompile(`<meta property="og:title" content="([^"]+)"`)
	metaDescRe    = regexp.MustCompile(`<meta name="description" content="([^"]+)"`)
	ogDescRe      = regexp.MustCompile(`<meta property="og:description" content="([^"]+)"`)
	ownerTextRe   = regexp.MustCompile(`"ownerText":\{"runs":\[\{"text":"([^"]+)"`)
	channelNameRe = regexp.MustCompile(`"channelName":"([^"]+)"`)
	ogVideoAuthRe = regexp.MustCompile(`<meta property="og:video:author" content="([^"]+)"`)
)

var videoStrategies = []strategy{
	{
		name: "page-markup",
		try: func(html string) partial {
			title := regexField(htmlTitleRe, html)
			title = strings.TrimSpace(strings.TrimSuffix(title, " - YouTube"))
			return partial{
				Title:       title,
				Description: regexField(metaDescRe, html),
				Author:      regexField(ownerTextRe, html),
			}
		},
	},
	{
		name: "player-json",
		try: func(html string) partial {
			return partial{
				Title:  regexField(jsonTitleRe, html),
				Author: regexField(channelNameRe, html),
			}
		},
	},
	{
		name: "open-graph",
		try: func(html string) partial {
			return partial{
				Title:       regexField(ogTitleRe, html),
				Description: regexField(ogDescRe, html),
				Author:      regexField(ogVideoAuthRe, html),
			}
		},
	},
}

// Article page patterns.
var (
	metaAuthorRe  = regexp.MustCompile(`<meta name="author" content="([^"]+)"`)
	articleAuthRe = regexp.MustCompile(`<meta property="article:author" content="([^"]+)"`)
	ogSiteNameRe  = regexp.MustCompile(`<meta property="og:site_name" content="([^"]+)"`)
)

var articleStrategies = []strategy{
	{
		name: "open-graph",
		try: func(html string) partial {
			return partial{
				Title:       regexField(ogTitleRe, html),
				Description: regexField(ogDescRe, html),
				Author:      regexField(articleAuthRe, html),
			}
		},
	},
	{
		name: "page-markup",
		try: func(html string) partial {
			return partial{
				Title:       regexField(htmlTitleRe, html),
				Description: regexField(metaDescRe, html),
				Author:      regexField(metaAuthorRe, html),
			}
		},
	},
	{
		name: "site-name",
		try: func(html string) partial {
			return partial{Author: regexField(ogSiteNameRe, html)}
		},
	},
}

// applyStrategies runs the ordered list and keeps the first non-empty value
// per field.
func applyStrategies(strategies []strategy, html string) partial {
	var out partial
	for _, s := range strategies {
		got := s.try(html)
		if out.Title == "" {
			out.Title = got.Title
		}
		if out.Description == "" {
			out.Description = got.Description
		}
		if out.Author == "" {
			out.Author = got.Author
		}
		if out.Title != "" && out.Description != "" && out.Author != "" {
			break
		}
	}
	return out
}
