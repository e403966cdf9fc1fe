// Package indexer provides the search engine: it owns the stop words and the
// inverted index, and answers ranked queries against them.
//
// An Engine is built for a single goroutine. Embedders that share one across
// goroutines must hold an exclusive lock around AddDocument and a shared lock
// around every other method.
package indexer

import (
	"iter"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

type Engine struct {
	memIndex  *index.MemoryIndex
	stopWords tokenizer.StopWords
	executor  *executor.Executor
	params    ranker.RankParams
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Engine)

// WithMaxResults caps the number of documents a search returns.
func WithMaxResults(n int) Option {
	return func(e *Engine) { e.params.Limit = n }
}

// WithEpsilon sets the relevance difference below which two documents are
// ordered by rating instead.
func WithEpsilon(eps float64) Option {
	return func(e *Engine) { e.params.Epsilon = eps }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine builds an engine whose stop words are copied from stopWords. A
// nil or empty slice gives an engine without stop words.
func NewEngine(stopWords []string, opts ...Option) (*Engine, error) {
	stop, err := tokenizer.NewStopWords(stopWords)
	if err != nil {
		return nil, err
	}
	return newEngine(stop, opts), nil
}

// NewEngineFromText builds an engine from space-separated stop words.
func NewEngineFromText(stopWords string, opts ...Option) (*Engine, error) {
	stop, err := tokenizer.ParseStopWords(stopWords)
	if err != nil {
		return nil, err
	}
	return newEngine(stop, opts), nil
}

// NewEngineFromConfig builds an engine from the search section of the
// configuration. Options are applied after the config values.
func NewEngineFromConfig(cfg config.SearchConfig, opts ...Option) (*Engine, error) {
	base := []Option{WithMaxResults(cfg.MaxResults), WithEpsilon(cfg.RelevanceEpsilon)}
	return NewEngine(cfg.StopWords, append(base, opts...)...)
}

func newEngine(stop tokenizer.StopWords, opts []Option) *Engine {
	e := &Engine{
		memIndex:  index.NewMemoryIndex(),
		stopWords: stop,
		params: ranker.RankParams{
			Limit:   ranker.DefaultLimit,
			Epsilon: ranker.DefaultEpsilon,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "indexer")
	e.executor = executor.New(e.memIndex, e.params, e.logger)
	return e
}

// AddDocument indexes text under id. The document is either fully indexed or,
// on error, not recorded at all.
func (e *Engine) AddDocument(id int, text string, status document.Status, ratings []int) error {
	if err := e.validateDocument(id, text); err != nil {
		e.recordRejected(err)
		return err
	}
	tokens := e.stopWords.Filter(text)
	terms := make([]string, len(tokens))
	for i, t := range tokens {
		terms[i] = t.Term
	}
	meta := document.Metadata{
		Rating: document.AverageRating(ratings),
		Status: status,
	}
	if err := e.memIndex.AddDocument(id, terms, meta); err != nil {
		e.recordRejected(err)
		return err
	}

	e.logger.Debug("document indexed",
		"doc_id", id,
		"status", status.String(),
		"rating", meta.Rating,
		"token_count", len(terms),
	)
	if e.metrics != nil {
		e.metrics.DocsIndexedTotal.Inc()
		e.metrics.DocumentCount.Set(float64(e.memIndex.DocCount()))
	}
	return nil
}

func (e *Engine) validateDocument(id int, text string) error {
	if id < 0 {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "document id %d is negative", id)
	}
	if _, exists := e.memIndex.Metadata(id); exists {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "document id %d already exists", id)
	}
	if !tokenizer.IsValidWord(text) {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "document %d contains control characters", id)
	}
	return nil
}

func (e *Engine) recordRejected(err error) {
	if e.metrics != nil {
		e.metrics.DocsRejectedTotal.WithLabelValues(apperrors.Code(err)).Inc()
	}
}

// FindTopDocuments searches documents with status ACTUAL.
func (e *Engine) FindTopDocuments(rawQuery string) ([]document.Document, error) {
	return e.FindTopDocumentsByStatus(rawQuery, document.StatusActual)
}

func (e *Engine) FindTopDocumentsByStatus(rawQuery string, status document.Status) ([]document.Document, error) {
	return e.FindTopDocumentsFunc(rawQuery, document.WithStatus(status))
}

// FindTopDocumentsFunc returns at most the configured number of documents
// accepted by predicate, best first.
func (e *Engine) FindTopDocumentsFunc(rawQuery string, predicate document.Predicate) ([]document.Document, error) {
	start := time.Now()
	plan, err := parser.Parse(rawQuery, e.stopWords)
	if err != nil {
		e.logger.Debug("query rejected", "query", rawQuery, "error", err)
		e.recordSearch(start, nil, err)
		return nil, err
	}
	result := e.executor.Execute(plan, predicate)
	e.logger.Debug("search completed",
		"query", rawQuery,
		"candidates", result.Candidates,
		"excluded", result.Excluded,
		"term_stats", result.TermStats,
		"results", len(result.Results),
	)
	e.recordSearch(start, result, nil)
	return result.Results, nil
}

func (e *Engine) recordSearch(start time.Time, result *executor.SearchResult, err error) {
	if e.metrics == nil {
		return
	}
	if err != nil {
		e.metrics.SearchQueriesTotal.WithLabelValues(metrics.ResultError).Inc()
		return
	}
	resultType := metrics.ResultHit
	if len(result.Results) == 0 {
		resultType = metrics.ResultZeroResult
	}
	e.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	e.metrics.SearchResultsCount.Observe(float64(len(result.Results)))
	e.metrics.SearchCandidates.Observe(float64(result.Candidates))
	e.metrics.SearchExcludedTotal.Add(float64(result.Excluded))
	e.metrics.SearchLatency.Observe(time.Since(start).Seconds())
}

func (e *Engine) DocumentCount() int {
	return e.memIndex.DocCount()
}

// DocumentID returns the id of the document added at position pos.
func (e *Engine) DocumentID(pos int) (int, error) {
	id, ok := e.memIndex.DocIDAt(pos)
	if !ok {
		return 0, apperrors.Newf(apperrors.ErrOutOfRange, "document position %d outside [0, %d)", pos, e.memIndex.DocCount())
	}
	return id, nil
}

// DocumentIDs yields document ids in the order they were added.
func (e *Engine) DocumentIDs() iter.Seq[int] {
	return e.memIndex.DocIDs()
}

// WordFrequencies returns a copy of the term frequencies of document id.
func (e *Engine) WordFrequencies(id int) map[string]float64 {
	return e.memIndex.TermFrequencies(id)
}

// StopWords returns the engine's stop words in lexicographic order.
func (e *Engine) StopWords() []string {
	return e.stopWords.Words()
}

// MatchDocument returns the plus terms of rawQuery found in document id, in
// lexicographic order, together with its status. The list is empty when any
// minus term is found in the document.
func (e *Engine) MatchDocument(rawQuery string, id int) ([]string, document.Status, error) {
	plan, err := parser.Parse(rawQuery, e.stopWords)
	if err != nil {
		return nil, 0, err
	}
	if id < 0 {
		return nil, 0, apperrors.Newf(apperrors.ErrInvalidArgument, "document id %d is negative", id)
	}
	meta, ok := e.memIndex.Metadata(id)
	if !ok {
		return nil, 0, apperrors.Newf(apperrors.ErrOutOfRange, "document %d is not indexed", id)
	}

	for _, term := range plan.MinusTerms {
		if e.memIndex.HasPosting(term, id) {
			return []string{}, meta.Status, nil
		}
	}
	matched := make([]string, 0, len(plan.PlusTerms))
	for _, term := range plan.PlusTerms {
		if e.memIndex.HasPosting(term, id) {
			matched = append(matched, term)
		}
	}
	return matched, meta.Status, nil
}
