package group

import (
	"testing"

	"github.com/kitanda/pricewatch/catalog/internal/store"
)

func match(name, storeName string, price, score float64) *store.Match {
	return &store.Match{
		Product: store.Product{
			Name:    name,
			NameKey: store.NormalizeName(name),
			Store:   storeName,
			Price:   price,
		},
		Score: score,
	}
}

func TestBuild_FoldsNameVariantsIntoOneGroup(t *testing.T) {
	// WHAT: Matches whose names differ only in case and whitespace form one group.
	// WHY: The same product listed by two stores must be price-comparable, not two results.
	groups := Build([]*store.Match{
		match("Arroz Agulha 1kg", "A", 1200, 2),
		match("arroz  AGULHA 1kg ", "B", 1100, 2),
	}, 0)

	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.ProductName != "arroz agulha 1kg" {
		t.Errorf("group name = %q", g.ProductName)
	}
	if len(g.Products) != 2 || g.StoreCount != 2 {
		t.Errorf("members=%d stores=%d, want 2/2", len(g.Products), g.StoreCount)
	}
}

func TestBuild_PriceRangeStats(t *testing.T) {
	// WHAT: Min, max and 2-decimal-rounded average over the group members.
	// WHY: These numbers are displayed verbatim to users.
	groups := Build([]*store.Match{
		match("Feijão", "A", 900, 1),
		match("Feijão", "B", 1000, 1),
		match("Feijão", "C", 1001, 1),
	}, 0)

	pr := groups[0].PriceRange
	if pr.Min != 900 || pr.Max != 1001 {
		t.Errorf("range = %+v", pr)
	}
	if pr.Avg != 967.0 {
		t.Errorf("avg = %v, want 967.00 (rounded)", pr.Avg)
	}
}

func TestBuild_SortsByScoreThenMinPrice(t *testing.T) {
	// WHAT: Higher relevance wins; equal relevance falls back to cheaper min price.
	// WHY: The ordering contract users see on every search page.
	groups := Build([]*store.Match{
		match("Óleo Caro", "A", 3000, 1),
		match("Óleo Barato", "A", 1500, 1),
		match("Óleo Relevante", "A", 5000, 9),
	}, 0)

	if len(groups) != 3 {
		t.Fatalf("got %d groups", len(groups))
	}
	want := []string{"óleo relevante", "óleo barato", "óleo caro"}
	for i, g := range groups {
		if g.ProductName != want[i] {
			t.Errorf("position %d = %q, want %q", i, g.ProductName, want[i])
		}
	}
}

func TestBuild_GroupScoreIsMaxMemberScore(t *testing.T) {
	// WHAT: A group ranks by its best-matching member, not an average.
	// WHY: One store's poor listing text must not bury a strong match elsewhere.
	groups := Build([]*store.Match{
		match("Leite", "A", 800, 1),
		match("Leite", "B", 850, 8),
		match("Pão Relevante", "A", 100, 5),
	}, 0)

	if groups[0].ProductName != "leite" {
		t.Errorf("first group = %q, want the leite group ranked by its best score", groups[0].ProductName)
	}
}

func TestBuild_BestDealIsFirstMemberAtMinPrice(t *testing.T) {
	// WHAT: Ties at the minimum price resolve to the first-seen member.
	// WHY: BestDeal must be deterministic for a fixed input snapshot.
	first := match("Ovos", "A", 1500, 1)
	groups := Build([]*store.Match{
		first,
		match("Ovos", "B", 1500, 1),
		match("Ovos", "C", 1600, 1),
	}, 0)

	if groups[0].BestDeal != first {
		t.Errorf("best deal = %+v, want the first member at min price", groups[0].BestDeal)
	}
}

func TestBuild_LimitTruncates(t *testing.T) {
	// WHAT: At most limit groups come back; zero limit means the default.
	// WHY: Unbounded result pages would defeat the response cache.
	var matches []*store.Match
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		matches = append(matches, match(name, "S", 100, 1))
	}

	if got := Build(matches, 2); len(got) != 2 {
		t.Errorf("limit 2: got %d groups", len(got))
	}
	if got := Build(matches, 0); len(got) != 5 {
		t.Errorf("default limit: got %d groups, want all 5", len(got))
	}
}

func TestBuild_Empty(t *testing.T) {
	// WHAT: No matches yields no groups.
	// WHY: Empty search results are the common case and must not panic.
	if got := Build(nil, 10); len(got) != 0 {
		t.Errorf("got %d groups from nil input", len(got))
	}
}
