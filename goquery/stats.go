package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagemark/pagemark"
)

// Ensure StatsCollector implements pagemark.StatsCollector at compile time.
var _ pagemark.StatsCollector = (*StatsCollector)(nil)

// StatsCollector derives size and structure metrics from the source HTML
// and the output Markdown. Counts come from the original HTML, before
// extraction, so they reflect the whole source page.
type StatsCollector struct{}

// NewStatsCollector creates a new StatsCollector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// ComputeStats derives conversion stats. It never fails: parse errors
// degrade to length-only stats.
func (s *StatsCollector) ComputeStats(rawHTML string, markdown string) pagemark.ConversionStats {
	stats := pagemark.ConversionStats{
		HTMLLength:     len(rawHTML),
		MarkdownLength: len(markdown),
	}
	if len(rawHTML) > 0 {
		stats.CompressionRatio = float64(len(markdown)) / float64(len(rawHTML))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return stats
	}

	stats.ImageCount = doc.Find("img").Length()
	stats.LinkCount = doc.Find("a").Length()
	stats.HeadingCount = doc.Find("h1, h2, h3, h4, h5, h6").Length()
	stats.ParagraphCount = doc.Find("p").Length()
	stats.ListCount = doc.Find("ul, ol").Length()
	stats.TableCount = doc.Find("table").Length()

	return stats
}
