package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/resilience"
)

// infra holds the optional metrics endpoint and analytics pipeline.
type infra struct {
	metrics *metrics.Metrics
	checker *health.Checker
	tracker analytics.Tracker
	closers []func()
}

func startInfra(ctx context.Context, cfg *config.Config) *infra {
	inf := &infra{}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		inf.metrics = metrics.New(reg)
		inf.checker = health.NewChecker()
		shutdown := metrics.StartServer(cfg.Metrics.Port, reg, inf.checker)
		inf.closers = append(inf.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", "error", err)
			}
		})
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		breaker := resilience.NewCircuitBreaker("analytics-publisher", resilience.CircuitBreakerConfig{
			OnStateChange: func(s resilience.State) {
				if inf.metrics == nil {
					return
				}
				open := 0.0
				if s != resilience.StateClosed {
					open = 1
				}
				inf.metrics.AnalyticsCircuitOpen.Set(open)
			},
		})
		collector := analytics.NewCollector(producer, 0,
			analytics.WithRetry(resilience.RetryConfig{}),
			analytics.WithBreaker(breaker),
			analytics.WithCollectorMetrics(inf.metrics),
		)
		collector.Start(ctx)
		inf.register("analytics", func(context.Context) health.ComponentHealth {
			if state := breaker.State(); state != resilience.StateClosed {
				return health.Degraded("publisher circuit " + state.String())
			}
			return health.Up(cfg.Kafka.Topic)
		})
		inf.tracker = collector
		inf.closers = append(inf.closers, func() {
			collector.Close()
			if err := producer.Close(); err != nil {
				slog.Error("kafka producer close failed", "error", err)
			}
		})
		slog.Info("analytics publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	return inf
}

func (i *infra) register(name string, check health.Check) {
	if i.checker != nil {
		i.checker.Register(name, check)
	}
}

// Close releases resources in reverse start order.
func (i *infra) Close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

type session struct {
	engine  *indexer.Engine
	history *analytics.RequestHistory
}

// newSession builds an engine from in and wraps it in a request history. A
// non-blank stop words line replaces the configured stop words.
func newSession(cfg *config.Config, in *input, inf *infra) (*session, error) {
	var opts []indexer.Option
	if inf.metrics != nil {
		opts = append(opts, indexer.WithMetrics(inf.metrics))
	}

	var (
		engine *indexer.Engine
		err    error
	)
	if strings.TrimSpace(in.StopWords) != "" {
		base := []indexer.Option{
			indexer.WithMaxResults(cfg.Search.MaxResults),
			indexer.WithEpsilon(cfg.Search.RelevanceEpsilon),
		}
		engine, err = indexer.NewEngineFromText(in.StopWords, append(base, opts...)...)
	} else {
		engine, err = indexer.NewEngineFromConfig(cfg.Search, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	for id, doc := range in.Documents {
		if err := engine.AddDocument(id, doc.Text, document.StatusActual, doc.Ratings); err != nil {
			return nil, fmt.Errorf("adding document %d: %w", id, err)
		}
		if inf.tracker != nil {
			inf.tracker.Track(analytics.IndexEvent{
				Type:       analytics.EventIndexDoc,
				DocumentID: id,
				Status:     document.StatusActual,
				Rating:     document.AverageRating(doc.Ratings),
				TermCount:  len(engine.WordFrequencies(id)),
				Timestamp:  time.Now().UTC(),
			})
		}
	}
	docCount := engine.DocumentCount()
	slog.Info("documents loaded",
		"documents", docCount,
		"stop_words", len(engine.StopWords()),
	)
	inf.register("index", func(context.Context) health.ComponentHealth {
		return health.Up(fmt.Sprintf("%d documents", docCount))
	})

	historyOpts := []analytics.HistoryOption{analytics.WithWindow(cfg.History.Window)}
	if inf.tracker != nil {
		historyOpts = append(historyOpts, analytics.WithTracker(inf.tracker))
	}
	if inf.metrics != nil {
		historyOpts = append(historyOpts, analytics.WithHistoryMetrics(inf.metrics))
	}
	return &session{
		engine:  engine,
		history: analytics.NewRequestHistory(engine, historyOpts...),
	}, nil
}
