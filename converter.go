package pagemark

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	// Returns the Markdown representation of the content.
	Convert(html string) (string, error)
}

// Rewriter rewrites relative image and link references in an HTML
// fragment to absolute form against a base URL. Anomalies degrade to
// leaving the original markup untouched for the affected node only.
type Rewriter interface {
	// Absolutize resolves relative references against baseURL.
	Absolutize(html string, baseURL string) (string, error)
}
