package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/stealth"
)

// RenderRequest describes one render: navigate to URL, optionally type a
// search term into a search box and submit it, wait for a selector that
// signals results are present, and return the rendered HTML.
type RenderRequest struct {
	URL          string
	SearchInput  string // CSS selector of the search box; empty = no typing step
	SearchTerm   string
	WaitSelector string // selector that signals results are rendered
	Timeout      time.Duration
}

// Renderer renders pages through the managed Chrome. Each Render call
// owns one isolated page, created at call start and closed on every exit
// path.
type Renderer struct {
	mgr    *Manager
	logger *slog.Logger
}

// NewRenderer creates a Renderer on a started Manager.
func NewRenderer(mgr *Manager, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{mgr: mgr, logger: logger}
}

// Render performs the request and returns the serialized DOM.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	b := r.mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: not started")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	defer page.Close()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	p := page.Context(ctx)

	if err := p.Navigate(req.URL); err != nil {
		return nil, fmt.Errorf("browser: navigate %s: %w", req.URL, err)
	}
	if err := p.WaitLoad(); err != nil {
		// Slow third-party assets shouldn't fail the scrape; the wait
		// selector below is the real readiness signal.
		r.logger.Warn("browser: wait load timeout", "url", req.URL, "error", err)
	}

	if req.SearchInput != "" && req.SearchTerm != "" {
		el, err := p.Element(req.SearchInput)
		if err != nil {
			return nil, fmt.Errorf("browser: search input %q: %w", req.SearchInput, err)
		}
		if err := el.Input(req.SearchTerm); err != nil {
			return nil, fmt.Errorf("browser: type search term: %w", err)
		}
		if err := el.Type(input.Enter); err != nil {
			return nil, fmt.Errorf("browser: submit search: %w", err)
		}
	}

	if req.WaitSelector != "" {
		if _, err := p.Element(req.WaitSelector); err != nil {
			return nil, fmt.Errorf("browser: wait for %q: %w", req.WaitSelector, err)
		}
	}

	res, err := p.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("browser: serialize DOM: %w", err)
	}
	return []byte(res.Value.Str()), nil
}
