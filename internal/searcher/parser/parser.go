// Package parser turns a raw query into plus and minus term sets.
//
// Grammar, per space-delimited word: a leading "-" marks a minus term. A bare
// "-", any "--", a trailing "-" and control characters are rejected. Stop
// words are dropped from both sets.
package parser

import (
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Query holds the de-duplicated, lexicographically ordered terms of a query.
type Query struct {
	PlusTerms  []string
	MinusTerms []string
	RawQuery   string
}

// IsEmpty reports a query with no plus terms; it can never match.
func (q *Query) IsEmpty() bool {
	return len(q.PlusTerms) == 0
}

type queryWord struct {
	term  string
	minus bool
}

func Parse(query string, stopWords tokenizer.StopWords) (*Query, error) {
	plan := &Query{
		PlusTerms:  make([]string, 0),
		MinusTerms: make([]string, 0),
		RawQuery:   query,
	}
	for _, word := range tokenizer.SplitIntoWords(query) {
		qw, err := parseWord(word)
		if err != nil {
			return nil, err
		}
		if stopWords.Contains(qw.term) {
			continue
		}
		if qw.minus {
			plan.MinusTerms = append(plan.MinusTerms, qw.term)
		} else {
			plan.PlusTerms = append(plan.PlusTerms, qw.term)
		}
	}
	plan.PlusTerms = sortUnique(plan.PlusTerms)
	plan.MinusTerms = sortUnique(plan.MinusTerms)
	return plan, nil
}

func parseWord(word string) (queryWord, error) {
	switch {
	case word == "-":
		return queryWord{}, apperrors.New(apperrors.ErrInvalidArgument, "minus without a word in query")
	case strings.Contains(word, "--"):
		return queryWord{}, apperrors.Newf(apperrors.ErrInvalidArgument, "double minus in query word %q", word)
	case strings.HasSuffix(word, "-"):
		return queryWord{}, apperrors.Newf(apperrors.ErrInvalidArgument, "query word %q ends with a minus", word)
	}

	qw := queryWord{term: word}
	if strings.HasPrefix(word, "-") {
		qw.minus = true
		qw.term = word[1:]
	}
	if qw.term == "" {
		return queryWord{}, apperrors.New(apperrors.ErrInvalidArgument, "empty query word")
	}
	if !tokenizer.IsValidWord(qw.term) {
		return queryWord{}, apperrors.Newf(apperrors.ErrInvalidArgument, "query word %q contains control characters", qw.term)
	}
	return qw, nil
}

func sortUnique(terms []string) []string {
	slices.Sort(terms)
	return slices.Compact(terms)
}
