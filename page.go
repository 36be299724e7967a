package pagemark

import "context"

// RenderedPage holds the output of a browser render: the fully rendered
// HTML after JavaScript execution plus response metadata. The conversion
// pipeline treats it as read-only input.
type RenderedPage struct {
	HTML       string
	FinalURL   string
	StatusCode int
	Title      string
}

// Renderer retrieves rendered pages from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// content. The context controls timeout and cancellation; implementations
// classify their failures as ETIMEOUT, EUNAVAILABLE, or EINTERNAL.
type Renderer interface {
	// Render navigates to the URL, waits for the page to load,
	// and returns the rendered page.
	Render(ctx context.Context, url string) (*RenderedPage, error)

	// Close releases browser resources.
	// Must be called when the Renderer is no longer needed.
	Close() error
}
