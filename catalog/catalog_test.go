package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kitanda/pricewatch/dbopen"
	_ "modernc.org/sqlite"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db := dbopen.OpenMemory(t)
	if err := ApplySchema(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return New(db, nil, nil)
}

func seed(t *testing.T, svc *Service, listings ...Listing) MergeResult {
	t.Helper()
	res, err := svc.MergeListings(context.Background(), listings)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	return res
}

func listing(name string, price float64, storeName string) Listing {
	return Listing{
		Name:     name,
		Price:    price,
		Currency: "AOA",
		Store:    storeName,
		StoreURL: "https://example.test/",
		Category: "Alimentação",
		InStock:  true,
	}
}

func TestService_MergeAndSearch_GroupsAcrossStores(t *testing.T) {
	// WHAT: End to end: merge two stores' listings, search, get one group with
	// cross-store price stats and the cheaper store as best deal.
	// WHY: This is the primary user journey through the whole stack.
	svc := testService(t)
	ctx := context.Background()

	res := seed(t, svc,
		listing("Arroz Agulha 1kg", 1200, "Kibabo Online"),
		listing("arroz  Agulha 1kg ", 1100, "MEUMERKADO"),
		listing("Feijão Catarino", 900, "Kibabo Online"),
	)
	if res.Created != 3 {
		t.Fatalf("seed result = %+v", res)
	}

	groups, err := svc.Search(ctx, "arroz", SearchFilters{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}

	g := groups[0]
	if g.ProductName != "arroz agulha 1kg" || g.StoreCount != 2 {
		t.Errorf("group = %q stores=%d", g.ProductName, g.StoreCount)
	}
	if g.PriceRange.Min != 1100 || g.PriceRange.Max != 1200 {
		t.Errorf("price range = %+v", g.PriceRange)
	}
	if g.BestDeal == nil || g.BestDeal.Store != "MEUMERKADO" {
		t.Errorf("best deal = %+v, want the cheaper store", g.BestDeal)
	}
}

func TestService_Search_MemoClearedByMerge(t *testing.T) {
	// WHAT: A merge invalidates memoized search results.
	// WHY: A scrape run that changes prices must be visible immediately.
	svc := testService(t)
	ctx := context.Background()

	seed(t, svc, listing("Leite Mimo 1L", 800, "A"))
	first, err := svc.Search(ctx, "leite", SearchFilters{})
	if err != nil || len(first) != 1 {
		t.Fatalf("first search: %v (%d groups)", err, len(first))
	}

	seed(t, svc, listing("Leite Mimo 1L", 700, "A"))
	second, err := svc.Search(ctx, "leite", SearchFilters{})
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if second[0].PriceRange.Min != 700 {
		t.Errorf("stale result after merge: %+v", second[0].PriceRange)
	}
}

func TestService_CompareByName(t *testing.T) {
	// WHAT: CompareByName ranks stores by best price for the matched product.
	// WHY: Exercises text match, store grouping and stats through the service layer.
	svc := testService(t)
	ctx := context.Background()

	seed(t, svc,
		listing("Óleo Fula 1L", 2200, "Kibabo Online"),
		listing("Óleo Fula 1L", 2000, "MEUMERKADO"),
	)

	c, err := svc.CompareByName(ctx, "óleo fula")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(c.Stores) != 2 || c.Stores[0].Store != "MEUMERKADO" {
		t.Errorf("stores = %+v, want cheapest first", c.Stores)
	}
	if c.LowestPrice.Price != 2000 || c.HighestPrice.Price != 2200 {
		t.Errorf("lowest/highest = %+v/%+v", c.LowestPrice, c.HighestPrice)
	}
	if len(c.Recommendations) == 0 || c.Recommendations[0].Type != "savings" {
		t.Errorf("recommendations = %+v", c.Recommendations)
	}
}

func TestService_CompareByName_NotFound(t *testing.T) {
	// WHAT: No matching in-stock entry yields ErrNotFound.
	// WHY: The HTTP layer maps this error to a 404.
	svc := testService(t)
	_, err := svc.CompareByName(context.Background(), "produto inexistente")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_StoresCategoriesStats(t *testing.T) {
	// WHAT: The catalog-wide listings reflect merged data.
	// WHY: These back the filter-options and dashboard endpoints.
	svc := testService(t)
	ctx := context.Background()

	seed(t, svc,
		listing("Pão", 100, "A"),
		listing("Frango", 3000, "B"),
	)

	stores, err := svc.Stores(ctx)
	if err != nil || len(stores) != 2 {
		t.Errorf("stores = %v (%v)", stores, err)
	}
	cats, err := svc.Categories(ctx)
	if err != nil || len(cats) != 1 {
		t.Errorf("categories = %v (%v)", cats, err)
	}
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 2 || stats.TotalStores != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestService_PersistentCache(t *testing.T) {
	// WHAT: The persistent cache tier round-trips payloads and honors TTL.
	// WHY: The HTTP layer depends on it surviving process restarts, unlike the memo.
	svc := testService(t)
	ctx := context.Background()

	svc.PutCachedJSON(ctx, "k", `{"x":1}`, time.Minute)
	payload, ok, err := svc.CachedJSON(ctx, "k")
	if err != nil || !ok || payload != `{"x":1}` {
		t.Errorf("cached = (%q, %v, %v)", payload, ok, err)
	}

	svc.PutCachedJSON(ctx, "dead", "v", -time.Second)
	if _, ok, _ := svc.CachedJSON(ctx, "dead"); ok {
		t.Error("expired entry served")
	}

	if _, err := svc.SweepCache(ctx); err != nil {
		t.Errorf("sweep: %v", err)
	}
}
