package analytics

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/resilience"
)

const (
	defaultBufferSize = 10000
	defaultBatchSize  = 100
	eventKey          = "analytics"
)

// Publisher delivers a batch of events. *kafka.Producer satisfies it.
type Publisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

// Collector buffers events and publishes them in batches from a single
// background goroutine. Track never blocks.
type Collector struct {
	publisher Publisher
	eventCh   chan any
	batchSize int
	retry     resilience.RetryConfig
	breaker   *resilience.CircuitBreaker
	metrics   *metrics.Metrics
	logger    *slog.Logger
	started   atomic.Bool
	done      chan struct{}
}

type CollectorOption func(*Collector)

func WithBatchSize(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithRetry retries each failed batch with backoff. Without it a batch is
// attempted once.
func WithRetry(cfg resilience.RetryConfig) CollectorOption {
	return func(c *Collector) { c.retry = cfg }
}

// WithBreaker stops publishing while the breaker is open; batches arriving
// then are dropped.
func WithBreaker(cb *resilience.CircuitBreaker) CollectorOption {
	return func(c *Collector) { c.breaker = cb }
}

func WithCollectorMetrics(m *metrics.Metrics) CollectorOption {
	return func(c *Collector) { c.metrics = m }
}

func NewCollector(publisher Publisher, bufferSize int, opts ...CollectorOption) *Collector {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	c := &Collector{
		publisher: publisher,
		eventCh:   make(chan any, bufferSize),
		batchSize: defaultBatchSize,
		retry:     resilience.RetryConfig{MaxAttempts: 1},
		logger:    slog.Default().With("component", "analytics-collector"),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the publishing loop. It runs until Close is called or ctx
// is cancelled; either way buffered events are flushed first. Calls after
// the first are no-ops.
func (c *Collector) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				batch, open := c.fill([]kafka.Event{{Key: eventKey, Value: event}})
				c.publish(ctx, batch)
				if !open {
					return
				}
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started",
		"buffer_size", cap(c.eventCh),
		"batch_size", c.batchSize,
	)
}

// Track queues event for publishing, dropping it when the buffer is full.
func (c *Collector) Track(event any) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
		if c.metrics != nil {
			c.metrics.AnalyticsDroppedTotal.Inc()
		}
	}
}

// Close stops accepting events and waits for the buffer to be published.
// If Start was never called, buffered events are discarded. Track must not
// be called after Close.
func (c *Collector) Close() {
	close(c.eventCh)
	if c.started.Load() {
		<-c.done
		return
	}
	if n := len(c.eventCh); n > 0 {
		c.logger.Warn("analytics collector closed before start, events discarded", "count", n)
		if c.metrics != nil {
			c.metrics.AnalyticsDroppedTotal.Add(float64(n))
		}
	}
}

// fill appends already-buffered events to batch without blocking, up to the
// batch size. open is false once the channel has been closed.
func (c *Collector) fill(batch []kafka.Event) (_ []kafka.Event, open bool) {
	for len(batch) < c.batchSize {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return batch, false
			}
			batch = append(batch, kafka.Event{Key: eventKey, Value: event})
		default:
			return batch, true
		}
	}
	return batch, true
}

func (c *Collector) publish(ctx context.Context, batch []kafka.Event) {
	if len(batch) == 0 {
		return
	}
	send := func() error {
		return resilience.Retry(ctx, "publish analytics batch", c.retry, func() error {
			return c.publisher.PublishBatch(ctx, batch)
		})
	}
	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(send)
	} else {
		err = send()
	}
	if err != nil {
		c.logger.Error("failed to publish analytics events",
			"count", len(batch),
			"error", err,
		)
		if c.metrics != nil {
			c.metrics.AnalyticsDroppedTotal.Add(float64(len(batch)))
		}
	}
}

func (c *Collector) drainRemaining() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		batch, open := c.fill(nil)
		if len(batch) == 0 {
			return
		}
		c.publish(ctx, batch)
		if !open {
			return
		}
	}
}
