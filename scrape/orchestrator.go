package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/kitanda/pricewatch/catalog"
)

// Merger receives the accumulated listings of a full scrape as one batch.
// Satisfied by *catalog.Service.
type Merger interface {
	MergeListings(ctx context.Context, listings []catalog.Listing) (catalog.MergeResult, error)
}

// workItem is one (adapter, term) unit of a full scrape.
type workItem struct {
	adapter Adapter
	term    string
}

// Orchestrator drives all adapters across the term vocabulary, strictly
// sequentially with a courtesy delay between requests, and merges the
// accumulated listings in one batch. One failing (adapter, term) pair is
// logged and skipped; the run continues.
type Orchestrator struct {
	adapters []Adapter
	terms    []string
	delay    time.Duration
	merger   Merger
	logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator. Empty terms default to
// StapleTerms; a non-positive delay defaults to 2 seconds.
func NewOrchestrator(adapters []Adapter, merger Merger, terms []string, delay time.Duration, logger *slog.Logger) *Orchestrator {
	if len(terms) == 0 {
		terms = StapleTerms
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		adapters: adapters,
		terms:    terms,
		delay:    delay,
		merger:   merger,
		logger:   logger,
	}
}

// workList materializes the full (adapter x term) sequence up front so
// the run is an explicit cursor over work items rather than an implicit
// nested-loop state machine.
func (o *Orchestrator) workList() []workItem {
	items := make([]workItem, 0, len(o.adapters)*len(o.terms))
	for _, a := range o.adapters {
		for _, t := range o.terms {
			items = append(items, workItem{adapter: a, term: t})
		}
	}
	return items
}

// RunFullScrape walks every work item, accumulates listings, and hands
// them to the merger as one batch. Idempotent: safe to invoke from a
// scheduler or an API trigger. Cancelling ctx stops between items.
func (o *Orchestrator) RunFullScrape(ctx context.Context) (catalog.MergeResult, error) {
	started := time.Now()
	items := o.workList()
	o.logger.Info("scrape: full run starting",
		"adapters", len(o.adapters), "terms", len(o.terms), "items", len(items))

	var all []catalog.Listing
	for cursor, item := range items {
		if err := ctx.Err(); err != nil {
			return catalog.MergeResult{}, err
		}

		listings, err := item.adapter.ScrapeListings(ctx, item.term)
		if err != nil {
			o.logger.Error("scrape: item failed",
				"store", item.adapter.Store(), "term", item.term, "error", err)
		} else {
			all = append(all, listings...)
		}

		// Courtesy pause between requests. Not adaptive; the target
		// sites set the pace, not our throughput.
		if cursor < len(items)-1 {
			if err := sleepCtx(ctx, o.delay); err != nil {
				return catalog.MergeResult{}, err
			}
		}
	}

	o.logger.Info("scrape: collection complete",
		"listings", len(all), "elapsed", time.Since(started))

	res, err := o.merger.MergeListings(ctx, all)
	if err != nil {
		return res, err
	}

	o.logger.Info("scrape: full run finished",
		"created", res.Created, "updated", res.Updated,
		"elapsed", time.Since(started))
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
