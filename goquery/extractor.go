// Package goquery provides CSS-selector based implementations of content
// extraction, link rewriting, and stats collection.
package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagemark/pagemark"
	"golang.org/x/net/html"
)

// noiseSelectors matches structural and semantic elements that never
// belong to the primary content: navigation, ads, social widgets,
// comment sections, pagination, and modals.
var noiseSelectors = []string{
	"nav", "header", "footer", "aside",
	".navigation", ".nav", ".navbar", ".menu",
	".sidebar", ".side-bar", ".widget",
	".advertisement", ".ads", ".ad",
	".social", ".share", ".sharing",
	".comments", ".comment-section",
	".breadcrumb", ".breadcrumbs",
	".pagination", ".pager",
	".related", ".recommended",
	".popup", ".modal", ".overlay",
}

// mainSelectors is the priority chain for locating the primary content
// region. Order matters: the first non-empty match wins, semantic
// landmark tags before class/id conventions.
var mainSelectors = []string{
	"main",
	"article",
	".main-content",
	".content",
	".post-content",
	".entry-content",
	".article-content",
	"#main",
	"#content",
	".container .content",
	"[role=\"main\"]",
}

// Ensure Extractor implements pagemark.Extractor at compile time.
var _ pagemark.Extractor = (*Extractor)(nil)

// Extractor locates the primary content region of an HTML document after
// stripping noise nodes. It never fails: on any parse anomaly it degrades
// to returning the input unchanged.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*pagemark.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return &pagemark.ExtractResult{ContentHTML: rawHTML}, nil
	}

	cleanDocument(doc)

	title := strings.TrimSpace(doc.Find("title").First().Text())

	for _, selector := range mainSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if strings.TrimSpace(sel.Text()) == "" && sel.Find("img, video, audio").Length() == 0 {
			continue
		}
		if content, ok := renderSelection(sel); ok {
			return &pagemark.ExtractResult{Title: title, ContentHTML: content}, nil
		}
	}

	// No main region: fall back to the body, then to the whole document.
	body := doc.Find("body").First()
	if body.Length() > 0 {
		if content, ok := renderSelection(body); ok {
			return &pagemark.ExtractResult{Title: title, ContentHTML: content}, nil
		}
	}

	if content, err := doc.Html(); err == nil {
		return &pagemark.ExtractResult{Title: title, ContentHTML: content}, nil
	}
	return &pagemark.ExtractResult{Title: title, ContentHTML: rawHTML}, nil
}

// cleanDocument removes comment nodes, script/style/meta/link tags, the
// fixed noise selector list, and then prunes paragraph/div elements left
// with neither text nor embedded media. Pruning is a single pass, not
// iterated to a fixed point.
func cleanDocument(doc *goquery.Document) {
	removeComments(doc)

	doc.Find("script, style, noscript, meta, link").Remove()

	for _, selector := range noiseSelectors {
		doc.Find(selector).Remove()
	}

	doc.Find("p, div").Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) == "" && sel.Find("img, video, audio").Length() == 0 {
			sel.Remove()
		}
	})
}

// removeComments deletes all HTML comment nodes from the document tree.
func removeComments(doc *goquery.Document) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		child := n.FirstChild
		for child != nil {
			next := child.NextSibling
			if child.Type == html.CommentNode {
				n.RemoveChild(child)
			} else {
				walk(child)
			}
			child = next
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
}

// renderSelection renders the outer HTML of the first node in a selection.
func renderSelection(sel *goquery.Selection) (string, bool) {
	if len(sel.Nodes) == 0 {
		return "", false
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, sel.Nodes[0]); err != nil {
		return "", false
	}
	return buf.String(), true
}
