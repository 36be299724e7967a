package pagemark

// ConversionStats describes size and structure metrics comparing the
// source HTML to the output Markdown. Counts are taken from the original
// HTML, before extraction, so they reflect the whole source page.
type ConversionStats struct {
	HTMLLength       int     `json:"html_length"`
	MarkdownLength   int     `json:"markdown_length"`
	CompressionRatio float64 `json:"compression_ratio"`
	ImageCount       int     `json:"image_count"`
	LinkCount        int     `json:"link_count"`
	HeadingCount     int     `json:"heading_count"`
	ParagraphCount   int     `json:"paragraph_count"`
	ListCount        int     `json:"list_count"`
	TableCount       int     `json:"table_count"`
}

// ConversionResult is the terminal artifact of the conversion pipeline.
// It is immutable once returned.
type ConversionResult struct {
	Markdown string          `json:"markdown"`
	Stats    ConversionStats `json:"stats"`
}

// StatsCollector derives conversion stats from source HTML and output
// Markdown. It never fails: errors degrade to zero-valued stats.
type StatsCollector interface {
	ComputeStats(html string, markdown string) ConversionStats
}

// DocumentConverter runs the HTML to Markdown conversion pipeline:
// content extraction, link absolutization, Markdown conversion, and
// normalization, with stats computed over the same inputs and outputs.
//
// Extraction and rewriting are best-effort stages: their failures
// degrade to passing the HTML through unchanged, because partial
// Markdown is more useful than none. Only a Converter failure aborts
// the conversion.
type DocumentConverter struct {
	Extractor Extractor
	Rewriter  Rewriter
	Converter Converter
	Stats     StatsCollector
}

// Convert transforms rendered HTML into normalized Markdown. The baseURL
// (typically the final URL after redirects) is used to absolutize
// relative references; pass "" to skip rewriting.
func (dc *DocumentConverter) Convert(html string, baseURL string) (*ConversionResult, error) {
	if html == "" {
		return nil, Errorf(EINVALID, "HTML content cannot be empty")
	}

	content := html
	if dc.Extractor != nil {
		if extracted, err := dc.Extractor.Extract(content); err == nil && extracted.ContentHTML != "" {
			content = extracted.ContentHTML
		}
	}

	if dc.Rewriter != nil && baseURL != "" {
		if rewritten, err := dc.Rewriter.Absolutize(content, baseURL); err == nil {
			content = rewritten
		}
	}

	markdown, err := dc.Converter.Convert(content)
	if err != nil {
		return nil, Errorf(EINTERNAL, "markdown conversion failed: %v", err)
	}
	markdown = NormalizeMarkdown(markdown)

	result := &ConversionResult{Markdown: markdown}
	if dc.Stats != nil {
		result.Stats = dc.Stats.ComputeStats(html, markdown)
	}
	return result, nil
}
