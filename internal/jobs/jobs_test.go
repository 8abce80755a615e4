package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSessions struct {
	refreshed atomic.Int32
	pruned    atomic.Int32
	ttl       atomic.Int64
}

func (c *countingSessions) RefreshTraffic(ctx context.Context) int {
	c.refreshed.Add(1)
	return 0
}

func (c *countingSessions) PruneIdle(ttl time.Duration) int {
	c.pruned.Add(1)
	c.ttl.Store(int64(ttl))
	return 0
}

func TestScheduleRegistersJobs(t *testing.T) {
	s := &countingSessions{}
	c, err := Schedule(context.Background(), s, "@every 1s", time.Minute)
	if err != nil {
		t.Fatalf("Schedule() err = %v", err)
	}
	if got := len(c.Entries()); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}

	c.Start()
	defer c.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for s.refreshed.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if s.refreshed.Load() == 0 {
		t.Error("traffic refresh never ran")
	}
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	if _, err := Schedule(context.Background(), &countingSessions{}, "every now and then", time.Minute); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}
