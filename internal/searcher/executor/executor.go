package executor

import (
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Source is the read side of the index the executor scores against.
type Source interface {
	Search(term string) index.PostingList
	DocFrequency(term string) int
	DocCount() int
	Metadata(docID int) (document.Metadata, bool)
}

type SearchResult struct {
	Query      string              `json:"query"`
	Candidates int                 `json:"candidates"`
	Excluded   uint64              `json:"excluded"`
	Results    []document.Document `json:"results"`
	TermStats  map[string]int      `json:"term_stats"`
}

type Executor struct {
	source Source
	params ranker.RankParams
	logger *slog.Logger
}

func New(source Source, params ranker.RankParams, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		source: source,
		params: params,
		logger: logger.With("component", "query-executor"),
	}
}

// Execute scores every document holding a plus term and accepted by
// predicate, then drops every document holding a minus term whether or not
// the predicate accepted it.
func (e *Executor) Execute(plan *parser.Query, predicate document.Predicate) *SearchResult {
	if plan.IsEmpty() {
		return &SearchResult{
			Query:   plan.RawQuery,
			Results: []document.Document{},
		}
	}

	totalDocs := e.source.DocCount()
	scores := make(map[int]float64)
	termStats := make(map[string]int)
	for _, term := range plan.PlusTerms {
		docFreq := e.source.DocFrequency(term)
		if docFreq == 0 {
			continue
		}
		termStats[term] = docFreq
		idf := ranker.ComputeIDF(totalDocs, docFreq)
		for _, p := range e.source.Search(term) {
			meta, _ := e.source.Metadata(p.DocID)
			if predicate(p.DocID, meta.Status, meta.Rating) {
				scores[p.DocID] += p.TermFreq * idf
			}
		}
	}

	excludeDocIDs := roaring64.New()
	for _, term := range plan.MinusTerms {
		for _, p := range e.source.Search(term) {
			excludeDocIDs.Add(uint64(p.DocID))
		}
	}
	candidates := len(scores)
	if !excludeDocIDs.IsEmpty() {
		for docID := range scores {
			if excludeDocIDs.Contains(uint64(docID)) {
				delete(scores, docID)
			}
		}
	}

	ratingOf := func(docID int) int {
		meta, _ := e.source.Metadata(docID)
		return meta.Rating
	}
	ranked := ranker.Rank(scores, ratingOf, e.params)
	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"plus_terms", plan.PlusTerms,
		"minus_terms", plan.MinusTerms,
		"candidates", candidates,
		"excluded", excludeDocIDs.GetCardinality(),
		"results", len(ranked),
	)
	return &SearchResult{
		Query:      plan.RawQuery,
		Candidates: candidates,
		Excluded:   excludeDocIDs.GetCardinality(),
		Results:    ranked,
		TermStats:  termStats,
	}
}
