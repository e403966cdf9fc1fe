package executor

import (
	"math"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *index.MemoryIndex {
	t.Helper()
	mi := index.NewMemoryIndex()
	docs := []struct {
		id     int
		text   string
		status document.Status
		rating int
	}{
		{0, "белый кот модный ошейник", document.StatusActual, 2},
		{1, "пушистый кот пушистый хвост", document.StatusActual, 5},
		{2, "ухоженный пёс выразительные глаза", document.StatusActual, -1},
		{3, "ухоженный скворец евгений", document.StatusBanned, 9},
	}
	for _, d := range docs {
		terms := tokenizer.SplitIntoWords(d.text)
		require.NoError(t, mi.AddDocument(d.id, terms, document.Metadata{Rating: d.rating, Status: d.status}))
	}
	return mi
}

func parse(t *testing.T, query string) *parser.Query {
	t.Helper()
	q, err := parser.Parse(query, tokenizer.StopWords{})
	require.NoError(t, err)
	return q
}

func TestExecuteScoresWithTFIDF(t *testing.T) {
	exec := New(newTestIndex(t), ranker.RankParams{Limit: 5, Epsilon: 1e-6}, logger.Discard())

	res := exec.Execute(parse(t, "пушистый ухоженный кот"), document.WithStatus(document.StatusActual))
	require.Len(t, res.Results, 3)

	// doc 1: пушистый 0.5*ln(4) + кот 0.25*ln(2)
	want1 := 0.5*math.Log(4) + 0.25*math.Log(2)
	assert.Equal(t, 1, res.Results[0].ID)
	assert.InDelta(t, want1, res.Results[0].Relevance, 1e-9)

	// doc 0 (кот 0.25*ln2) and doc 2 (ухоженный 0.25*ln2) tie; rating decides.
	assert.Equal(t, 0, res.Results[1].ID)
	assert.Equal(t, 2, res.Results[2].ID)
	assert.InDelta(t, res.Results[1].Relevance, res.Results[2].Relevance, 1e-12)

	assert.Equal(t, 2, res.TermStats["кот"])
	assert.Equal(t, 2, res.TermStats["ухоженный"])
}

func TestExecuteMinusTermIgnoresPredicate(t *testing.T) {
	exec := New(newTestIndex(t), ranker.RankParams{Limit: 5, Epsilon: 1e-6}, nil)

	all := func(int, document.Status, int) bool { return true }
	res := exec.Execute(parse(t, "кот ухоженный -хвост -евгений"), all)

	ids := make([]int, 0, len(res.Results))
	for _, d := range res.Results {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []int{0, 2}, ids)
	assert.Equal(t, uint64(2), res.Excluded)
	assert.Equal(t, 4, res.Candidates)
}

func TestExecuteEmptyPlan(t *testing.T) {
	exec := New(newTestIndex(t), ranker.RankParams{Limit: 5}, nil)
	res := exec.Execute(parse(t, "-кот"), document.WithStatus(document.StatusActual))
	assert.Empty(t, res.Results)
}

func TestExecuteUnknownTerms(t *testing.T) {
	exec := New(newTestIndex(t), ranker.RankParams{Limit: 5}, nil)
	res := exec.Execute(parse(t, "жираф -слон"), document.WithStatus(document.StatusActual))
	assert.Empty(t, res.Results)
	assert.Empty(t, res.TermStats)
}
