// Package rod provides a pagemark.Renderer implementation using Chrome
// browser automation via go-rod.
package rod

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/pagemark/pagemark"
)

// DefaultRenderTimeout bounds a single page render, navigation and
// JavaScript execution included.
const DefaultRenderTimeout = 30 * time.Second

// Ensure Renderer implements pagemark.Renderer at compile time.
var _ pagemark.Renderer = (*Renderer)(nil)

// Renderer retrieves rendered pages using headless Chrome.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout sets the per-render timeout applied when the caller's
// context carries no deadline. Defaults to DefaultRenderTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// NewRenderer creates a Renderer backed by a managed headless Chrome
// browser. Close must be called when the Renderer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{timeout: DefaultRenderTimeout}
	for _, opt := range opts {
		opt(r)
	}

	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	r.manager = manager
	return r, nil
}

// Render navigates to the URL, waits for the page to load, and returns
// the rendered page. The literal-IP safety check runs before this call
// on the unresolved hostname; this layer does not re-validate the
// resolved address, a documented residual gap.
func (r *Renderer) Render(ctx context.Context, url string) (*pagemark.RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, classifyRenderErr(err, url)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	page, err := r.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, pagemark.Errorf(pagemark.EINTERNAL, "creating browser page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	// Capture the status code of the main document response.
	var statusCode int
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type == proto.NetworkResourceTypeDocument {
			statusCode = e.Response.Status
			return true
		}
		return false
	})

	if err := page.Navigate(url); err != nil {
		return nil, classifyRenderErr(err, url)
	}
	waitResponse()

	if err := page.WaitLoad(); err != nil {
		return nil, classifyRenderErr(err, url)
	}

	info, err := page.Info()
	if err != nil {
		return nil, classifyRenderErr(err, url)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, classifyRenderErr(err, url)
	}

	r.manager.IncrementPageCount()

	return &pagemark.RenderedPage{
		HTML:       html,
		FinalURL:   info.URL,
		StatusCode: statusCode,
		Title:      info.Title,
	}, nil
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	return r.manager.Close()
}

// classifyRenderErr maps browser failures onto the application error
// taxonomy: timeouts, network failures, and rendering failures are
// surfaced unchanged in class, never retried here.
func classifyRenderErr(err error, url string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return pagemark.Errorf(pagemark.ETIMEOUT, "render timed out: %s", url)
	case errors.Is(err, context.Canceled):
		return pagemark.Errorf(pagemark.ETIMEOUT, "render canceled: %s", url)
	case strings.Contains(err.Error(), "net::ERR"):
		return pagemark.Errorf(pagemark.EUNAVAILABLE, "network error for %s: %v", url, err)
	default:
		return pagemark.Errorf(pagemark.EINTERNAL, "rendering failed for %s: %v", url, err)
	}
}
