// Package parser turns HTML and plain text into the structural pieces the
// analysis stages consume: stripped text, headings, paragraphs, lists,
// links, and page-level flags.
package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	schemaModifiedRe = regexp.MustCompile(`"dateModified":\s*"([^"]+)"`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// StripHTML removes all markup and collapses whitespace. Script and style
// bodies are dropped entirely. Falls back to a tag-stripping scrub when the
// input is not parseable.
func StripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapseWhitespace(regexp.MustCompile(`<[^>]+>`).ReplaceAllString(html, " "))
	}
	doc.Find("script, style, noscript").Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// PageStructure is the decomposed view of one HTML document.
type PageStructure struct {
	Title         string
	Headings      []string // h2-h4 in document order
	Paragraphs    []string // meaningful paragraphs only
	ListItems     []string
	InternalLinks int
	ExternalLinks int
	Images        int
	HasVideo      bool
	HasFAQ        bool
	HasTable      bool
	LastModified  string
}

// ParsePage decomposes an HTML document. baseURL decides whether a link
// counts as internal; pass "" to count only relative links as internal.
func ParsePage(html, baseURL string) PageStructure {
	var ps PageStructure

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		ps.Paragraphs = SplitParagraphs(StripHTML(html))
		return ps
	}
	doc.Find("script, style, noscript").Remove()

	ps.Title = strings.TrimSpace(doc.Find("title").First().Text())
	if ps.Title == "" {
		ps.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find("h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		if h := collapseWhitespace(s.Text()); h != "" {
			ps.Headings = append(ps.Headings, h)
		}
	})

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := collapseWhitespace(s.Text())
		if len(text) > 50 { // skip boilerplate fragments
			ps.Paragraphs = append(ps.Paragraphs, text)
		}
	})

	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		if item := collapseWhitespace(s.Text()); item != "" {
			ps.ListItems = append(ps.ListItems, item)
		}
	})

	baseDomain := ""
	if u, err := url.Parse(baseURL); err == nil {
		baseDomain = u.Hostname()
	}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		switch {
		case strings.HasPrefix(href, "/"):
			ps.InternalLinks++
		case strings.HasPrefix(href, "http"):
			u, err := url.Parse(href)
			if err != nil {
				return
			}
			if baseDomain != "" && u.Hostname() == baseDomain {
				ps.InternalLinks++
			} else {
				ps.ExternalLinks++
			}
		}
	})

	ps.Images = doc.Find("img").Length()
	ps.HasTable = doc.Find("table").Length() > 0

	lower := strings.ToLower(html)
	ps.HasVideo = doc.Find("video").Length() > 0 ||
		strings.Contains(lower, "youtube.com") ||
		strings.Contains(lower, "vimeo.com")
	ps.HasFAQ = strings.Contains(lower, "faq") ||
		strings.Contains(html, `itemtype="https://schema.org/FAQPage"`)

	if mod, ok := doc.Find(`meta[property="article:modified_time"]`).Attr("content"); ok {
		ps.LastModified = mod
	} else if m := schemaModifiedRe.FindStringSubmatch(html); m != nil {
		ps.LastModified = m[1]
	}

	return ps
}

// ExtractInternalAnchors returns anchors pointing at the site's own article
// namespace, in document order.
func ExtractInternalAnchors(html, pathPrefix string) []struct{ Target, Anchor string } {
	var links []struct{ Target, Anchor string }

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return links
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.HasPrefix(href, pathPrefix) {
			return
		}
		slug := strings.Trim(strings.TrimPrefix(href, pathPrefix), "/")
		anchor := collapseWhitespace(s.Text())
		if slug == "" || anchor == "" {
			return
		}
		links = append(links, struct{ Target, Anchor string }{slug, anchor})
	})

	return links
}
