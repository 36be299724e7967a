// Package http provides the HTTP surfaces of pagemark: the conversion
// server, a static (no JavaScript) Renderer, a threat-intelligence
// client, and sitemap discovery.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pagemark/pagemark"
)

// DefaultRenderTimeout is the default timeout for static fetches.
const DefaultRenderTimeout = 10 * time.Second

// Ensure Renderer implements pagemark.Renderer at compile time.
var _ pagemark.Renderer = (*Renderer)(nil)

// Renderer retrieves HTML content from URLs using plain HTTP requests.
// Unlike rod.Renderer it does not execute JavaScript and is suitable for
// static sites only.
type Renderer struct {
	client  *http.Client
	timeout time.Duration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRenderTimeout sets the timeout for HTTP requests.
// Defaults to DefaultRenderTimeout if not specified.
func WithRenderTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// NewRenderer creates a new HTTP-based Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		timeout: DefaultRenderTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.client = &http.Client{
		Timeout: r.timeout,
	}

	return r
}

// Render fetches the page at the given URL. The final URL reflects any
// redirects followed by the client. The title is left empty since the
// document is not parsed at this layer.
func (r *Renderer) Render(ctx context.Context, url string) (*pagemark.RenderedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pagemark.Errorf(pagemark.EINVALID, "invalid URL %q: %v", url, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, classifyFetchErr(err, url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyFetchErr(err, url)
	}

	return &pagemark.RenderedPage{
		HTML:       string(body),
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
	}, nil
}

// Close releases resources. For the HTTP renderer this is a no-op since
// http.Client doesn't require explicit cleanup.
func (r *Renderer) Close() error {
	return nil
}

func classifyFetchErr(err error, url string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return pagemark.Errorf(pagemark.ETIMEOUT, "fetching %s timed out", url)
	}
	// http.Client wraps its own timeout in a *url.Error with a Timeout()
	// method rather than context.DeadlineExceeded.
	var te interface{ Timeout() bool }
	if errors.As(err, &te) && te.Timeout() {
		return pagemark.Errorf(pagemark.ETIMEOUT, "fetching %s timed out", url)
	}
	if strings.Contains(err.Error(), "connection refused") || strings.Contains(err.Error(), "no such host") {
		return pagemark.Errorf(pagemark.EUNAVAILABLE, "fetching %s failed: %v", url, err)
	}
	return pagemark.Errorf(pagemark.EINTERNAL, "fetching %s failed: %v", url, err)
}
