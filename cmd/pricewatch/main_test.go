package main

import (
	"net/url"
	"testing"
)

func TestSearchCacheKey_ParamOrderInsensitive(t *testing.T) {
	// WHAT: Reordered query strings with the same parameters yield one cache key.
	// WHY: Clients build query strings in arbitrary order; logically identical
	// requests must hit the same cache entry.
	a, _ := url.ParseQuery("q=arroz&store=Kibabo+Online&limit=20")
	b, _ := url.ParseQuery("limit=20&q=arroz&store=Kibabo+Online")

	if searchCacheKey(a) != searchCacheKey(b) {
		t.Errorf("keys differ: %q vs %q", searchCacheKey(a), searchCacheKey(b))
	}

	c, _ := url.ParseQuery("q=arroz&store=MEUMERKADO&limit=20")
	if searchCacheKey(a) == searchCacheKey(c) {
		t.Error("different requests share a key")
	}
}
