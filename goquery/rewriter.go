package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagemark/pagemark"
)

// Ensure Rewriter implements pagemark.Rewriter at compile time.
var _ pagemark.Rewriter = (*Rewriter)(nil)

// Rewriter rewrites relative image and link references to absolute form
// against a base URL, and synthesizes alt text for images missing one.
// Anomalies degrade per node: a reference that cannot be resolved is left
// untouched rather than failing the whole document.
type Rewriter struct{}

// NewRewriter creates a new Rewriter.
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// Absolutize resolves relative references against baseURL.
func (r *Rewriter) Absolutize(rawHTML string, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return rawHTML, pagemark.Errorf(pagemark.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML, nil
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		rewriteImage(sel, base)
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		rewriteAnchor(sel, base)
	})

	// A full document keeps its head content through the rewrite.
	if doc.Find("head").Children().Length() > 0 {
		if out, err := goquery.OuterHtml(doc.Find("html")); err == nil && out != "" {
			return out, nil
		}
	}

	// goquery parses fragments into a full document; return the body's
	// inner HTML so the caller gets back what it passed in.
	if inner, err := doc.Find("body").Html(); err == nil && inner != "" {
		return inner, nil
	}
	return rawHTML, nil
}

func rewriteImage(sel *goquery.Selection, base *url.URL) {
	src, exists := sel.Attr("src")
	if exists && src != "" && !strings.HasPrefix(src, "data:") && !isAbsolute(src) {
		if resolved := resolveRef(base, src); resolved != "" {
			sel.SetAttr("src", resolved)
			src = resolved
		}
	}

	if alt, _ := sel.Attr("alt"); alt == "" {
		sel.SetAttr("alt", altFromSource(src))
	}
}

func rewriteAnchor(sel *goquery.Selection, base *url.URL) {
	href, _ := sel.Attr("href")
	if href == "" || isAbsolute(href) || isNonWebLink(href) || strings.HasPrefix(href, "#") {
		return
	}
	if resolved := resolveRef(base, href); resolved != "" {
		sel.SetAttr("href", resolved)
	}
}

// altFromSource derives accessible text from the last path segment of an
// image source, replacing dashes and underscores with spaces. Falls back
// to "Image" when no filename can be derived.
func altFromSource(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return "Image"
	}
	segments := strings.Split(u.Path, "/")
	filename := segments[len(segments)-1]
	if filename == "" {
		return "Image"
	}
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		filename = filename[:idx]
	}
	alt := strings.ReplaceAll(filename, "-", " ")
	alt = strings.ReplaceAll(alt, "_", " ")
	alt = strings.TrimSpace(alt)
	if alt == "" {
		return "Image"
	}
	return alt
}

// resolveRef resolves a relative reference against a base URL.
// Returns empty string if the reference cannot be parsed.
func resolveRef(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(parsed).String()
}

func isAbsolute(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// isNonWebLink checks if a href uses a non-web scheme that should be
// left untouched.
func isNonWebLink(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "data:")
}
