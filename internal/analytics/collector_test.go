package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/resilience"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu      sync.Mutex
	batches [][]kafka.Event
	err     error
}

func (f *fakePublisher) PublishBatch(_ context.Context, events []kafka.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, events)
	return f.err
}

func (f *fakePublisher) events() []kafka.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []kafka.Event
	for _, b := range f.batches {
		all = append(all, b...)
	}
	return all
}

func TestCollectorPublishesAllOnClose(t *testing.T) {
	pub := &fakePublisher{}
	c := NewCollector(pub, 100, WithBatchSize(4))
	c.Start(context.Background())

	for i := 0; i < 25; i++ {
		c.Track(SearchEvent{Type: EventSearch, Returned: i})
	}
	c.Close()

	events := pub.events()
	require.Len(t, events, 25)
	for i, e := range events {
		assert.Equal(t, "analytics", e.Key)
		assert.Equal(t, i, e.Value.(SearchEvent).Returned)
	}
	for _, b := range pub.batches {
		assert.LessOrEqual(t, len(b), 4)
	}
}

func TestCollectorCloseWithoutStart(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	pub := &fakePublisher{}
	c := NewCollector(pub, 4, WithCollectorMetrics(m))
	c.Track(SearchEvent{Returned: 1})

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close blocked on a collector that was never started")
	}
	assert.Empty(t, pub.events())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AnalyticsDroppedTotal))
}

func TestCollectorStartIsIdempotent(t *testing.T) {
	pub := &fakePublisher{}
	c := NewCollector(pub, 10)
	c.Start(context.Background())
	c.Start(context.Background())
	c.Track(SearchEvent{Returned: 1})
	c.Close()
	assert.Len(t, pub.events(), 1)
}

func TestCollectorDrainsOnCancel(t *testing.T) {
	pub := &fakePublisher{}
	c := NewCollector(pub, 100)
	for i := 0; i < 10; i++ {
		c.Track(SearchEvent{Returned: i})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Start(ctx)

	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("collector did not stop after cancel")
	}
	assert.Len(t, pub.events(), 10)
}

func TestCollectorDropsWhenFull(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	c := NewCollector(&fakePublisher{}, 2, WithCollectorMetrics(m))

	for i := 0; i < 5; i++ {
		c.Track(SearchEvent{Returned: i})
	}
	assert.Equal(t, float64(3), testutil.ToFloat64(m.AnalyticsDroppedTotal))
	assert.Len(t, c.eventCh, 2)
}

func TestCollectorSurvivesPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	c := NewCollector(pub, 10, WithBatchSize(1))
	c.Start(context.Background())
	c.Track(SearchEvent{Returned: 1})
	c.Track(SearchEvent{Returned: 2})
	c.Close()

	assert.Len(t, pub.events(), 2)
}

// flakyPublisher fails its first failures calls.
type flakyPublisher struct {
	fakePublisher
	failures int
	calls    int
}

func (f *flakyPublisher) PublishBatch(ctx context.Context, events []kafka.Event) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("leader not available")
	}
	return f.fakePublisher.PublishBatch(ctx, events)
}

func TestCollectorRetriesFailedBatches(t *testing.T) {
	pub := &flakyPublisher{failures: 2}
	c := NewCollector(pub, 10, WithRetry(resilience.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	}))
	c.Start(context.Background())
	c.Track(SearchEvent{Returned: 1})
	c.Close()

	assert.Equal(t, 3, pub.calls)
	assert.Len(t, pub.events(), 1)
}

func TestCollectorBreakerDropsWhileOpen(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	cb := resilience.NewCircuitBreaker("analytics", resilience.CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Hour,
	})
	c := NewCollector(pub, 10, WithBatchSize(1), WithBreaker(cb), WithCollectorMetrics(m))
	c.Start(context.Background())
	for i := 0; i < 3; i++ {
		c.Track(SearchEvent{Returned: i})
	}
	c.Close()

	assert.Len(t, pub.events(), 1)
	assert.Equal(t, resilience.StateOpen, cb.State())
	assert.Equal(t, float64(3), testutil.ToFloat64(m.AnalyticsDroppedTotal))
}
