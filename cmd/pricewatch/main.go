// Entry point for the pricewatch HTTP service: chi router over the
// catalog engines, with the scrape scheduler running alongside.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kitanda/pricewatch/catalog"
	"github.com/kitanda/pricewatch/dbopen"
	"github.com/kitanda/pricewatch/scrape"
	_ "modernc.org/sqlite"
)

// Per-endpoint TTLs for the persistent response cache.
const (
	searchCacheTTL  = 15 * time.Minute
	compareCacheTTL = 30 * time.Minute
	listCacheTTL    = 60 * time.Minute
	statsCacheTTL   = 30 * time.Minute
)

func main() {
	port := env("PORT", "8086")
	catalogPath := env("CATALOG_DB", "db/catalog.db")
	configPath := env("CONFIG_FILE", "")
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Scrape configuration.
	var scfg *scrape.Config
	if configPath != "" {
		c, err := scrape.LoadConfigFile(configPath)
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
		scfg = c
	} else {
		scfg = &scrape.Config{}
		scfg.Browser.Remote = env("BROWSER_REMOTE", "")
		scfg.RunOnStart = env("SCRAPE_ON_START", "") == "true"
		scfg.Defaults()
	}

	// Catalog DB.
	db, err := dbopen.Open(catalogPath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("catalog db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := catalog.ApplySchema(db); err != nil {
		slog.Error("apply schema", "error", err)
		os.Exit(1)
	}

	svc := catalog.New(db, nil, logger)

	// Headless browser + store adapters.
	browser := scrape.NewBrowser(scrape.BrowserConfig{
		RemoteURL: scfg.Browser.Remote,
		Logger:    logger,
	})
	if err := browser.Start(); err != nil {
		slog.Error("browser start", "error", err)
		os.Exit(1)
	}
	defer browser.Close()

	renderer := scrape.NewRenderer(browser, logger)
	var adapters []scrape.Adapter
	if len(scfg.Sites) > 0 {
		for _, site := range scfg.Sites {
			adapters = append(adapters, scrape.NewSiteAdapter(site, renderer, scfg.Timeout, logger))
		}
	} else {
		adapters = scrape.DefaultAdapters(renderer, scfg.Timeout, logger)
	}

	orch := scrape.NewOrchestrator(adapters, svc, scfg.Terms, scfg.Delay, logger)

	// Scheduler.
	sched := scrape.NewScheduler(orch, scrape.SchedulerConfig{
		Interval:   scfg.Interval,
		RunOnStart: scfg.RunOnStart,
	}, logger)
	go sched.Run(ctx)

	// Hourly sweep of expired persistent cache rows.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := svc.SweepCache(ctx); err != nil {
					slog.Warn("cache sweep", "error", err)
				} else if n > 0 {
					slog.Debug("cache sweep", "removed", n)
				}
			}
		}
	}()

	// Guards the manual scrape trigger: one run at a time.
	var scrapeRunning sync.Mutex

	// Router.
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Get("/api/products/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		f := catalog.SearchFilters{
			Store:    r.URL.Query().Get("store"),
			Category: r.URL.Query().Get("category"),
			PriceMin: queryFloat(r, "minPrice"),
			PriceMax: queryFloat(r, "maxPrice"),
			Page:     queryInt(r, "page", 1),
			Limit:    queryInt(r, "limit", 20),
		}

		key := searchCacheKey(r.URL.Query())
		if serveCached(w, r, svc, key) {
			return
		}

		groups, err := svc.Search(r.Context(), q, f)
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeCached(w, r, svc, key, searchCacheTTL, searchResponse(q, groups, f.Page, f.Limit))
	})

	r.Get("/api/products/compare/{productName}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "productName")

		key := "http:compare:" + catalog.NormalizeName(name)
		if serveCached(w, r, svc, key) {
			return
		}

		cmp, err := svc.CompareByName(r.Context(), name)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				writeJSON(w, 404, map[string]string{"error": fmt.Sprintf("produto não encontrado: %s", name)})
				return
			}
			writeError(w, 500, err)
			return
		}
		writeCached(w, r, svc, key, compareCacheTTL, cmp)
	})

	r.Get("/api/stores", func(w http.ResponseWriter, r *http.Request) {
		if serveCached(w, r, svc, "http:stores") {
			return
		}
		stores, err := svc.Stores(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		if stores == nil {
			stores = []string{}
		}
		writeCached(w, r, svc, "http:stores", listCacheTTL, map[string]any{"stores": stores})
	})

	r.Get("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		if serveCached(w, r, svc, "http:categories") {
			return
		}
		categories, err := svc.Categories(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		if categories == nil {
			categories = []string{}
		}
		writeCached(w, r, svc, "http:categories", listCacheTTL, map[string]any{"categories": categories})
	})

	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		if serveCached(w, r, svc, "http:stats") {
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeCached(w, r, svc, "http:stats", statsCacheTTL, stats)
	})

	r.Post("/api/scraping/run", func(w http.ResponseWriter, _ *http.Request) {
		if !scrapeRunning.TryLock() {
			writeJSON(w, 409, map[string]string{"error": "scraping já em andamento"})
			return
		}
		go func() {
			defer scrapeRunning.Unlock()
			if _, err := orch.RunFullScrape(ctx); err != nil {
				slog.Error("manual scrape failed", "error", err)
			}
		}()
		writeJSON(w, 202, map[string]string{"status": "started"})
	})

	// HTTP server.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// searchResponse flattens the group members in group order and paginates
// that flat list; the groups themselves are returned whole so the client
// keeps the price-range and best-deal annotations.
func searchResponse(q string, groups []*catalog.Group, page, limit int) map[string]any {
	var flat []*catalog.Match
	for _, g := range groups {
		flat = append(flat, g.Products...)
	}
	total := len(flat)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	products := flat[start:end]
	if products == nil {
		products = []*catalog.Match{}
	}

	if groups == nil {
		groups = []*catalog.Group{}
	}
	return map[string]any{
		"query":    q,
		"groups":   groups,
		"products": products,
		"pagination": map[string]int{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + limit - 1) / limit,
		},
	}
}

// --- Response cache helpers ---

// searchCacheKey canonicalizes the search request parameters. Encode()
// sorts by key, so reordered but identical requests share one cache entry.
func searchCacheKey(q url.Values) string {
	return "http:search:" + q.Encode()
}

// serveCached writes a cached response body when present and fresh.
func serveCached(w http.ResponseWriter, r *http.Request, svc *catalog.Service, key string) bool {
	payload, ok, err := svc.CachedJSON(r.Context(), key)
	if err != nil || !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(200)
	w.Write([]byte(payload))
	return true
}

// writeCached serializes v, stores it under key with ttl, and writes it.
func writeCached(w http.ResponseWriter, r *http.Request, svc *catalog.Service, key string, ttl time.Duration, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	svc.PutCachedJSON(r.Context(), key, string(body), ttl)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(200)
	w.Write(body)
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func queryFloat(r *http.Request, key string) *float64 {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
