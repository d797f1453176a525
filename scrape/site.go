package scrape

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/kitanda/pricewatch/catalog"
	"github.com/kitanda/pricewatch/scrape/internal/dom"
)

// defaultCurrency stamps every listing; the deployment serves one market.
const defaultCurrency = "AOA"

// defaultCategory is applied when a site exposes no category markup.
const defaultCategory = "Alimentação"

// SelectorSet holds the CSS selectors for one store's markup. Each field
// may list several comma-separated alternatives; sites change their
// markup and the first matching pattern wins.
type SelectorSet struct {
	SearchInput string `yaml:"search_input"` // search box to type the term into
	WaitFor     string `yaml:"wait_for"`     // element signalling results are rendered
	Item        string `yaml:"item"`         // one listing container
	Name        string `yaml:"name"`
	NameAttr    string `yaml:"name_attr"` // attribute fallback when Name text is empty
	Price       string `yaml:"price"`
	Brand       string `yaml:"brand"`
}

// Site describes one scrapeable store.
type Site struct {
	Name      string      `yaml:"name"`
	BaseURL   string      `yaml:"base_url"`
	Category  string      `yaml:"category"`
	Selectors SelectorSet `yaml:"selectors"`
}

// SiteAdapter is the shared Adapter implementation: render the store's
// search results through the injected Renderer, parse listings with the
// site's selector set.
type SiteAdapter struct {
	site     Site
	renderer Renderer
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewSiteAdapter creates an Adapter for a site.
func NewSiteAdapter(site Site, r Renderer, timeout time.Duration, logger *slog.Logger) *SiteAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if site.Category == "" {
		site.Category = defaultCategory
	}
	return &SiteAdapter{
		site:     site,
		renderer: r,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Store returns the store label stamped on listings.
func (a *SiteAdapter) Store() string { return a.site.Name }

// ScrapeListings searches the store for term and returns the parsed
// listings. Never fails past its boundary: any render or parse failure is
// logged and degrades to an empty slice.
func (a *SiteAdapter) ScrapeListings(ctx context.Context, term string) ([]catalog.Listing, error) {
	sel := a.site.Selectors
	rendered, err := a.renderer.Render(ctx, RenderRequest{
		URL:          a.site.BaseURL,
		SearchInput:  sel.SearchInput,
		SearchTerm:   term,
		WaitSelector: sel.WaitFor,
		Timeout:      a.timeout,
	})
	if err != nil {
		a.logger.Warn("scrape: render failed",
			"store", a.site.Name, "term", term, "error", err)
		return nil, nil
	}

	root, err := dom.Parse(rendered)
	if err != nil {
		a.logger.Warn("scrape: parse failed",
			"store", a.site.Name, "term", term, "error", err)
		return nil, nil
	}

	capturedAt := a.now().UnixMilli()
	var listings []catalog.Listing
	for _, item := range dom.QueryAll(root, sel.Item) {
		name := dom.Text(dom.Query(item, sel.Name))
		if name == "" && sel.NameAttr != "" {
			name = dom.Attr(dom.Query(item, "a["+sel.NameAttr+"]"), sel.NameAttr)
		}

		price, ok := ParsePrice(dom.Text(dom.Query(item, sel.Price)))
		// Both a name and a parseable positive price, or the node is
		// navigation chrome rather than a listing.
		if name == "" || !ok {
			continue
		}

		l := catalog.Listing{
			Name:       name,
			Price:      price,
			Currency:   defaultCurrency,
			Store:      a.site.Name,
			StoreURL:   a.site.BaseURL,
			Category:   a.site.Category,
			InStock:    true,
			CapturedAt: capturedAt,
		}
		if sel.Brand != "" {
			l.Brand = dom.Text(dom.Query(item, sel.Brand))
		}
		l.ProductURL = a.absolutize(dom.Attr(dom.Query(item, "a"), "href"))
		l.ImageURL = a.absolutize(dom.Attr(dom.Query(item, "img"), "src"))
		listings = append(listings, l)
	}

	a.logger.Info("scrape: listings found",
		"store", a.site.Name, "term", term, "count", len(listings))
	return listings, nil
}

// absolutize resolves a possibly relative URL against the site base.
func (a *SiteAdapter) absolutize(ref string) string {
	if ref == "" {
		return ""
	}
	base, err := url.Parse(a.site.BaseURL)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
