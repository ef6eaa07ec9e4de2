package ginblog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbers(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = n - i
	}
	return items
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		items      int
		page       int
		contents   []int
		wantPage   int
		totalPages int
	}{
		{"first page", 12, 1, []int{12, 11, 10, 9, 8}, 1, 3},
		{"last partial page", 12, 3, []int{2, 1}, 3, 3},
		{"past the end clamps to last", 12, 9, []int{2, 1}, 3, 3},
		{"zero clamps to first", 12, 0, []int{12, 11, 10, 9, 8}, 1, 3},
		{"exact multiple", 10, 2, []int{5, 4, 3, 2, 1}, 2, 2},
		{"empty", 0, 4, []int{}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(numbers(tt.items), PageRequest{Page: tt.page, Size: 5})

			assert.Equal(t, tt.contents, page.Contents)
			assert.Equal(t, len(tt.contents), page.NumberOfElements)
			assert.Equal(t, tt.wantPage, page.Pageable.Page)
			assert.Equal(t, tt.totalPages, page.TotalPages)
			assert.Equal(t, tt.items, page.TotalElements)
		})
	}
}

func TestPaginate_CoversEveryItemOnce(t *testing.T) {
	items := numbers(23)
	first := Paginate(items, PageRequest{Page: 1, Size: 5})

	var seen []int
	for p := 1; p <= first.TotalPages; p++ {
		seen = append(seen, Paginate(items, PageRequest{Page: p, Size: 5}).Contents...)
	}
	assert.Equal(t, items, seen)
}

func TestEmptyPage(t *testing.T) {
	page := EmptyPage[string](5)

	assert.Empty(t, page.Contents)
	assert.NotNil(t, page.Contents)
	assert.Equal(t, 1, page.Pageable.Page)
	assert.Equal(t, 0, page.TotalPages)
}
