package pagemark

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title, when the implementation can derive one.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Extraction is best-effort: implementations degrade to returning the
// input unchanged rather than failing the conversion.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}
