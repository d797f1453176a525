package store

// Listing is one store's raw scraped record for a product at a point in
// time. Listings are ephemeral: they only exist between a scrape run and
// the merge that reconciles them into the catalog.
type Listing struct {
	Name       string  `json:"name"`
	Brand      string  `json:"brand,omitempty"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Store      string  `json:"store"`
	StoreURL   string  `json:"storeUrl"`
	ProductURL string  `json:"productUrl,omitempty"`
	Category   string  `json:"category,omitempty"`
	ImageURL   string  `json:"imageUrl,omitempty"`
	InStock    bool    `json:"inStock"`
	CapturedAt int64   `json:"capturedAt"` // unix millis
}

// PricePoint is one historical price observation.
type PricePoint struct {
	Price float64 `json:"price"`
	Date  int64   `json:"date"` // unix millis
}

// Product is the persisted, reconciled record for one (name_key, store)
// pair. PriceHistory is ordered oldest-first and capped at HistoryCap.
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	NameKey      string       `json:"-"`
	Brand        string       `json:"brand,omitempty"`
	Price        float64      `json:"price"`
	Currency     string       `json:"currency"`
	Store        string       `json:"store"`
	StoreURL     string       `json:"storeUrl"`
	ProductURL   string       `json:"productUrl,omitempty"`
	Category     string       `json:"category,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	InStock      bool         `json:"inStock"`
	PriceHistory []PricePoint `json:"priceHistory"`
	LastUpdated  int64        `json:"lastUpdated"`
	CreatedAt    int64        `json:"createdAt"`
}

// HistoryCap is the maximum number of retained price history entries per
// product. The oldest entries are dropped on overflow.
const HistoryCap = 30

// Match is a product returned by a relevance query, annotated with its
// text-relevance score (higher = better; uniform 1.0 for empty queries).
type Match struct {
	Product
	Score float64 `json:"score"`
}

// Filters narrows a catalog query. Zero values mean "no constraint".
type Filters struct {
	Store    string   `json:"store,omitempty"`    // exact match
	Category string   `json:"category,omitempty"` // exact match
	PriceMin *float64 `json:"priceMin,omitempty"` // inclusive
	PriceMax *float64 `json:"priceMax,omitempty"` // inclusive
	Limit    int      `json:"limit,omitempty"`    // page size, default 50
	Page     int      `json:"page,omitempty"`     // page number, default 1
}

// CatalogStats are aggregate counters over the in-stock catalog.
type CatalogStats struct {
	TotalProducts   int   `json:"totalProducts"`
	TotalStores     int   `json:"totalStores"`
	TotalCategories int   `json:"totalCategories"`
	LastUpdate      int64 `json:"lastUpdate,omitempty"` // unix millis, 0 if empty
}
