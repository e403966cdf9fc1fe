package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
)

const (
	DefaultLimit   = 5
	DefaultEpsilon = 1e-6
)

type RankParams struct {
	Limit   int
	Epsilon float64
}

// ComputeIDF is ln(totalDocs / docFreq). docFreq must be positive: IDF is
// only defined for terms present in the index.
func ComputeIDF(totalDocs int, docFreq int) float64 {
	return math.Log(float64(totalDocs) / float64(docFreq))
}

// Rank turns accumulated scores into results ordered by Less and cut to
// params.Limit (no cut when Limit <= 0).
func Rank(scores map[int]float64, ratingOf func(docID int) int, params RankParams) []document.Document {
	result := make([]document.Document, 0, len(scores))
	for docID, score := range scores {
		result = append(result, document.Document{
			ID:        docID,
			Relevance: score,
			Rating:    ratingOf(docID),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return Less(result[i], result[j], params.Epsilon)
	})
	if params.Limit > 0 && len(result) > params.Limit {
		result = result[:params.Limit]
	}
	return result
}

// Less orders by relevance descending. Relevances closer than eps count as
// equal and fall back to rating descending, then id ascending.
func Less(a, b document.Document, eps float64) bool {
	if math.Abs(a.Relevance-b.Relevance) >= eps {
		return a.Relevance > b.Relevance
	}
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.ID < b.ID
}
