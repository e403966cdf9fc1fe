// Package paginator splits a result slice into fixed-size pages.
package paginator

import (
	"iter"
	"slices"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

// Page is a window over the paginated slice. Items are not copied.
type Page[T any] struct {
	items []T
}

func (p Page[T]) Size() int {
	return len(p.items)
}

// Items returns the page contents. The slice aliases the input of Paginate.
func (p Page[T]) Items() []T {
	return p.items
}

func (p Page[T]) All() iter.Seq[T] {
	return slices.Values(p.items)
}

type Paginator[T any] struct {
	pages []Page[T]
}

// Paginate cuts items into consecutive pages of pageSize; the last page may
// be shorter. An empty slice gives zero pages.
func Paginate[T any](items []T, pageSize int) (*Paginator[T], error) {
	if pageSize <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "page size must be positive, got %d", pageSize)
	}
	pages := make([]Page[T], 0, (len(items)+pageSize-1)/pageSize)
	for chunk := range slices.Chunk(items, pageSize) {
		pages = append(pages, Page[T]{items: chunk})
	}
	return &Paginator[T]{pages: pages}, nil
}

func (p *Paginator[T]) Pages() []Page[T] {
	return p.pages
}

func (p *Paginator[T]) Len() int {
	return len(p.pages)
}

// All yields each page with its zero-based index.
func (p *Paginator[T]) All() iter.Seq2[int, Page[T]] {
	return slices.All(p.pages)
}
