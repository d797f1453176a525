// Package scrape collects grocery listings from online stores.
//
// Each store has an Adapter that renders the store's search page through
// a headless browser and parses listings out of the markup. The
// Orchestrator walks every (adapter, term) pair sequentially with a
// courtesy delay and hands the accumulated listings to the catalog merge
// as one batch. The Scheduler triggers full runs on a fixed interval.
package scrape

import (
	"context"
	"log/slog"

	"github.com/kitanda/pricewatch/catalog"
	"github.com/kitanda/pricewatch/scrape/internal/browser"
)

// Adapter scrapes one store. ScrapeListings never fails past its own
// boundary: on navigation timeouts, selector misses or network errors it
// logs and returns an empty slice. The error return exists for adapters
// with harder failure modes; the orchestrator logs it and continues.
type Adapter interface {
	Store() string
	ScrapeListings(ctx context.Context, term string) ([]catalog.Listing, error)
}

// RenderRequest describes one headless-browser render.
type RenderRequest = browser.RenderRequest

// Renderer is the injected fetch/render port. Production uses the rod
// implementation (NewBrowser/NewRenderer); tests use recorded fixtures.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// BrowserConfig configures the managed Chrome.
type BrowserConfig = browser.Config

// Browser re-exports the Chrome lifecycle manager.
type Browser = browser.Manager

// NewBrowser creates the Chrome manager. Call Start before rendering.
func NewBrowser(cfg BrowserConfig) *Browser {
	return browser.NewManager(cfg)
}

// NewRenderer creates the production rod Renderer on a started Browser.
func NewRenderer(b *Browser, logger *slog.Logger) Renderer {
	return browser.NewRenderer(b, logger)
}
