// Package analytics tracks search requests: a sliding window over the most
// recent requests, and an asynchronous collector that ships events to Kafka.
package analytics

import (
	"iter"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
	"github.com/google/uuid"
)

// DefaultWindow is the number of requests kept, one per minute of a day.
const DefaultWindow = 1440

// Searcher is the search surface of the engine a RequestHistory wraps.
type Searcher interface {
	FindTopDocuments(rawQuery string) ([]document.Document, error)
	FindTopDocumentsByStatus(rawQuery string, status document.Status) ([]document.Document, error)
	FindTopDocumentsFunc(rawQuery string, predicate document.Predicate) ([]document.Document, error)
}

// Record is one successful search kept in the window.
type Record struct {
	ID        uuid.UUID
	Query     string
	Results   []document.Document
	Timestamp time.Time
}

func (r Record) NoResult() bool {
	return len(r.Results) == 0
}

type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// RequestHistory forwards searches to a Searcher and remembers the outcome
// of the last window requests. It does not own the Searcher, which must
// outlive it. Like the engine, it is not safe for concurrent use.
type RequestHistory struct {
	searcher Searcher
	window   int

	// ring buffer of size window; records[head] is the oldest
	records []Record
	head    int
	size    int

	noResult        int
	noResultQueries map[string]int

	tracker Tracker
	metrics *metrics.Metrics
	now     func() time.Time
	logger  *slog.Logger
}

type HistoryOption func(*RequestHistory)

// WithWindow sets how many requests are kept. Non-positive values are
// ignored.
func WithWindow(n int) HistoryOption {
	return func(h *RequestHistory) {
		if n > 0 {
			h.window = n
		}
	}
}

// WithTracker emits every recorded request as a SearchEvent.
func WithTracker(t Tracker) HistoryOption {
	return func(h *RequestHistory) { h.tracker = t }
}

func WithHistoryMetrics(m *metrics.Metrics) HistoryOption {
	return func(h *RequestHistory) { h.metrics = m }
}

func WithClock(now func() time.Time) HistoryOption {
	return func(h *RequestHistory) { h.now = now }
}

func NewRequestHistory(searcher Searcher, opts ...HistoryOption) *RequestHistory {
	h := &RequestHistory{
		searcher:        searcher,
		window:          DefaultWindow,
		noResultQueries: make(map[string]int),
		now:             time.Now,
		logger:          slog.Default().With("component", "request-history"),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.records = make([]Record, h.window)
	return h
}

func (h *RequestHistory) AddFindRequest(rawQuery string) ([]document.Document, error) {
	return h.record(rawQuery)(h.searcher.FindTopDocuments(rawQuery))
}

func (h *RequestHistory) AddFindRequestByStatus(rawQuery string, status document.Status) ([]document.Document, error) {
	return h.record(rawQuery)(h.searcher.FindTopDocumentsByStatus(rawQuery, status))
}

func (h *RequestHistory) AddFindRequestFunc(rawQuery string, predicate document.Predicate) ([]document.Document, error) {
	return h.record(rawQuery)(h.searcher.FindTopDocumentsFunc(rawQuery, predicate))
}

// record returns a function that stores the outcome of a search for
// rawQuery. Failed searches are passed through without being stored.
func (h *RequestHistory) record(rawQuery string) func([]document.Document, error) ([]document.Document, error) {
	return func(results []document.Document, err error) ([]document.Document, error) {
		if err != nil {
			return nil, err
		}
		rec := Record{
			ID:        uuid.New(),
			Query:     rawQuery,
			Results:   slices.Clone(results),
			Timestamp: h.now(),
		}
		h.push(rec)
		if h.tracker != nil {
			h.tracker.Track(newSearchEvent(rec))
		}
		return results, nil
	}
}

func (h *RequestHistory) push(rec Record) {
	if h.size == h.window {
		h.evictOldest()
	}
	h.records[(h.head+h.size)%h.window] = rec
	h.size++
	if rec.NoResult() {
		h.noResult++
		h.noResultQueries[rec.Query]++
	}
	if h.metrics != nil {
		h.metrics.HistoryNoResultQueries.Set(float64(h.noResult))
	}
}

func (h *RequestHistory) evictOldest() {
	old := h.records[h.head]
	h.records[h.head] = Record{}
	h.head = (h.head + 1) % h.window
	h.size--

	if old.NoResult() {
		h.noResult--
		if h.noResultQueries[old.Query] <= 1 {
			delete(h.noResultQueries, old.Query)
		} else {
			h.noResultQueries[old.Query]--
		}
	}
	h.logger.Debug("request evicted",
		"request_id", old.ID.String(),
		"query", old.Query,
		"no_result", old.NoResult(),
	)
	if h.metrics != nil {
		h.metrics.HistoryEvictionsTotal.Inc()
	}
}

// NoResultRequests returns how many requests in the window returned nothing.
func (h *RequestHistory) NoResultRequests() int {
	return h.noResult
}

func (h *RequestHistory) ResultRequests() int {
	return h.size - h.noResult
}

func (h *RequestHistory) Len() int {
	return h.size
}

func (h *RequestHistory) Window() int {
	return h.window
}

// Records yields the requests in the window, oldest first.
func (h *RequestHistory) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for i := 0; i < h.size; i++ {
			if !yield(h.records[(h.head+i)%h.window]) {
				return
			}
		}
	}
}

// TopNoResultQueries returns the queries that most often returned nothing
// within the window, most frequent first. A non-positive limit returns all.
func (h *RequestHistory) TopNoResultQueries(limit int) []QueryCount {
	result := make([]QueryCount, 0, len(h.noResultQueries))
	for query, count := range h.noResultQueries {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
