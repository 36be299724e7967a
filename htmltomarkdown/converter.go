// Package htmltomarkdown converts HTML to Markdown using the
// html-to-markdown library.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/pagemark/pagemark"
	"golang.org/x/net/html"
)

// Ensure Converter implements pagemark.Converter at compile time.
var _ pagemark.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown with a fixed style policy: ATX
// headings, hyphen bullets, single-asterisk emphasis, double-asterisk
// strong, and no escaping of literal * and _ in prose. The escaping
// choice trades Markdown purity for natural reading of the original
// text.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithBulletListMarker("-"),
				commonmark.WithEmDelimiter("*"),
				commonmark.WithStrongDelimiter("**"),
			),
			table.NewTablePlugin(),
		),
		converter.WithEscapeMode(converter.EscapeModeDisabled),
	)
	conv.Register.PreRenderer(defaultLinkTitles, converter.PriorityStandard)
	return &Converter{conv: conv}
}

// defaultLinkTitles gives every anchor without an explicit title its href
// as the title, so rendered links carry a destination hint.
func defaultLinkTitles(_ converter.Context, doc *html.Node) {
	applyDefaultLinkTitles(doc)
}

func applyDefaultLinkTitles(node *html.Node) {
	if node.Type == html.ElementNode && node.Data == "a" {
		href := attrValue(node, "href")
		if href != "" && attrValue(node, "title") == "" {
			node.Attr = append(node.Attr, html.Attribute{Key: "title", Val: href})
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		applyDefaultLinkTitles(child)
	}
}

func attrValue(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", pagemark.Errorf(pagemark.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return result, nil
}
