// Package document defines the value types shared by the index, the ranker
// and the request history.
package document

import (
	"fmt"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Status is the lifecycle state recorded for a document at ingestion.
type Status int

const (
	StatusActual Status = iota
	StatusIrrelevant
	StatusBanned
	StatusRemoved
)

var statusNames = [...]string{
	StatusActual:     "ACTUAL",
	StatusIrrelevant: "IRRELEVANT",
	StatusBanned:     "BANNED",
	StatusRemoved:    "REMOVED",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus accepts a status name in any letter case.
func ParseStatus(name string) (Status, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range statusNames {
		if n == upper {
			return Status(i), nil
		}
	}
	return 0, apperrors.Newf(apperrors.ErrInvalidArgument, "unknown document status %q", name)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Metadata is what the index keeps per document besides its postings.
type Metadata struct {
	Rating int
	Status Status
}

// Document is a ranked search result.
type Document struct {
	ID        int     `json:"document_id"`
	Relevance float64 `json:"relevance"`
	Rating    int     `json:"rating"`
}

func (d Document) String() string {
	return fmt.Sprintf("{ document_id = %d, relevance = %g, rating = %d }", d.ID, d.Relevance, d.Rating)
}

// Predicate filters documents during search.
type Predicate func(id int, status Status, rating int) bool

// WithStatus returns a predicate accepting only documents in status.
func WithStatus(status Status) Predicate {
	return func(_ int, s Status, _ int) bool {
		return s == status
	}
}

// AverageRating is the integer mean of ratings, truncated toward zero; zero
// when there are no ratings.
func AverageRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}
