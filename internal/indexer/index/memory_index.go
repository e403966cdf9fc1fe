// Package index holds the inverted index: term -> document -> term frequency,
// plus the metadata and insertion order of every document.
//
// MemoryIndex is not safe for concurrent mutation. Readers may run in
// parallel only while no AddDocument is in flight.
package index

import (
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

type MemoryIndex struct {
	index    map[string]map[int]float64
	docTerms map[int]map[string]float64
	docs     map[int]document.Metadata
	order    []int
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		index:    make(map[string]map[int]float64),
		docTerms: make(map[int]map[string]float64),
		docs:     make(map[int]document.Metadata),
	}
}

// AddDocument records terms (stop words already removed) for docID. Each
// occurrence adds 1/len(terms) to the term's frequency. A document without
// terms is recorded with no postings.
func (m *MemoryIndex) AddDocument(docID int, terms []string, meta document.Metadata) error {
	if docID < 0 {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "document id %d is negative", docID)
	}
	if _, exists := m.docs[docID]; exists {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "document id %d already exists", docID)
	}

	termData := make(map[string]float64, len(terms))
	if len(terms) > 0 {
		inv := 1.0 / float64(len(terms))
		for _, term := range terms {
			termData[term] += inv
		}
	}

	for term, tf := range termData {
		postings, exists := m.index[term]
		if !exists {
			postings = make(map[int]float64)
			m.index[term] = postings
		}
		postings[docID] = tf
	}
	m.docTerms[docID] = termData
	m.docs[docID] = meta
	m.order = append(m.order, docID)
	return nil
}

// Search returns the postings of term ordered by DocID, or nil when the term
// is not indexed.
func (m *MemoryIndex) Search(term string) PostingList {
	docs, exists := m.index[term]
	if !exists {
		return nil
	}
	result := make(PostingList, 0, len(docs))
	for docID, tf := range docs {
		result = append(result, Posting{DocID: docID, TermFreq: tf})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DocID < result[j].DocID
	})
	return result
}

// DocFrequency is the number of documents containing term.
func (m *MemoryIndex) DocFrequency(term string) int {
	return len(m.index[term])
}

func (m *MemoryIndex) HasPosting(term string, docID int) bool {
	_, ok := m.index[term][docID]
	return ok
}

func (m *MemoryIndex) Metadata(docID int) (document.Metadata, bool) {
	meta, ok := m.docs[docID]
	return meta, ok
}

func (m *MemoryIndex) DocCount() int {
	return len(m.docs)
}

func (m *MemoryIndex) TermCount() int {
	return len(m.index)
}

// DocIDAt returns the id added at zero-based position pos.
func (m *MemoryIndex) DocIDAt(pos int) (int, bool) {
	if pos < 0 || pos >= len(m.order) {
		return 0, false
	}
	return m.order[pos], true
}

// DocIDs yields document ids in insertion order.
func (m *MemoryIndex) DocIDs() iter.Seq[int] {
	return slices.Values(m.order)
}

// TermFrequencies returns a copy of the term frequencies of docID; empty for
// unknown documents.
func (m *MemoryIndex) TermFrequencies(docID int) map[string]float64 {
	terms, ok := m.docTerms[docID]
	if !ok {
		return map[string]float64{}
	}
	return maps.Clone(terms)
}
