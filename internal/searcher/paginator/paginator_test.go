package paginator

import (
	"slices"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateSizes(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		want     []int
	}{
		{"uneven", 7, 3, []int{3, 3, 1}},
		{"even", 6, 2, []int{2, 2, 2}},
		{"single page", 2, 5, []int{2}},
		{"page of one", 3, 1, []int{1, 1, 1}},
		{"empty", 0, 4, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.count)
			for i := range items {
				items[i] = i
			}
			p, err := Paginate(items, tt.pageSize)
			require.NoError(t, err)

			sizes := make([]int, 0, p.Len())
			for _, page := range p.Pages() {
				sizes = append(sizes, page.Size())
			}
			assert.Equal(t, tt.want, sizes)
		})
	}
}

func TestPaginateKeepsOrder(t *testing.T) {
	docs := []document.Document{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}
	p, err := Paginate(docs, 2)
	require.NoError(t, err)

	var seen []int
	for i, page := range p.All() {
		assert.LessOrEqual(t, page.Size(), 2, "page %d", i)
		for d := range page.All() {
			seen = append(seen, d.ID)
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
	assert.Equal(t, []document.Document{{ID: 5}}, p.Pages()[2].Items())
}

func TestPaginateItemsAliasInput(t *testing.T) {
	items := []string{"a", "b", "c"}
	p, err := Paginate(items, 2)
	require.NoError(t, err)

	items[0] = "z"
	assert.Equal(t, []string{"z", "b"}, p.Pages()[0].Items())
	assert.Equal(t, []string{"z", "b"}, slices.Collect(p.Pages()[0].All()))
}

func TestPaginateRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		_, err := Paginate([]int{1, 2, 3}, size)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	}
}
