package analytics

import (
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	"github.com/google/uuid"
)

type EventType string

const (
	EventSearch     EventType = "search"
	EventZeroResult EventType = "zero_result"
	EventIndexDoc   EventType = "index_document"
)

type SearchEvent struct {
	Type        EventType `json:"type"`
	ID          uuid.UUID `json:"id"`
	Query       string    `json:"query"`
	Returned    int       `json:"returned"`
	DocumentIDs []int     `json:"document_ids"`
	Timestamp   time.Time `json:"timestamp"`
}

type IndexEvent struct {
	Type       EventType       `json:"type"`
	DocumentID int             `json:"document_id"`
	Status     document.Status `json:"status"`
	Rating     int             `json:"rating"`
	TermCount  int             `json:"term_count"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Tracker receives analytics events. Implementations must not block.
type Tracker interface {
	Track(event any)
}

func newSearchEvent(rec Record) SearchEvent {
	eventType := EventSearch
	if len(rec.Results) == 0 {
		eventType = EventZeroResult
	}
	ids := make([]int, len(rec.Results))
	for i, d := range rec.Results {
		ids[i] = d.ID
	}
	return SearchEvent{
		Type:        eventType,
		ID:          rec.ID,
		Query:       rec.Query,
		Returned:    len(rec.Results),
		DocumentIDs: ids,
		Timestamp:   rec.Timestamp,
	}
}
