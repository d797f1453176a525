package scrape

import (
	"context"
	"testing"
	"time"
)

func TestScheduler_RunOnStartAndTick(t *testing.T) {
	// WHAT: RunOnStart triggers an immediate run; the ticker adds more until cancelled.
	// WHY: The service must populate the catalog right after deploy, not 6 hours later.
	a := &fakeAdapter{name: "A"}
	m := &fakeMerger{}
	o := NewOrchestrator([]Adapter{a}, m, []string{"arroz"}, time.Millisecond, nil)

	s := NewScheduler(o, SchedulerConfig{Interval: 20 * time.Millisecond, RunOnStart: true}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if len(m.batches) < 2 {
		t.Errorf("got %d runs, want the immediate one plus at least one tick", len(m.batches))
	}
}

func TestScheduler_NoRunOnStart(t *testing.T) {
	// WHAT: Without RunOnStart nothing happens before the first tick.
	// WHY: Some deployments stagger scraping away from process start.
	a := &fakeAdapter{name: "A"}
	m := &fakeMerger{}
	o := NewOrchestrator([]Adapter{a}, m, []string{"arroz"}, time.Millisecond, nil)

	s := NewScheduler(o, SchedulerConfig{Interval: time.Hour}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	if len(m.batches) != 0 {
		t.Errorf("got %d runs before the first tick, want 0", len(m.batches))
	}
}
