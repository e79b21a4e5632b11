// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhoangviet/noveria/internal/catalog"
)

func numberedPool(count int) []*catalog.Novel {
	pool := make([]*catalog.Novel, count)
	for i := range pool {
		pool[i] = &catalog.Novel{ID: strconv.Itoa(i)}
	}
	return pool
}

/*
TestTotalPages verifies the ceiling division over the fixed page size.
*/
func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 0},
		{1, 1},
		{20, 1},
		{21, 2},
		{41, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, catalog.TotalPages(tt.total), "total=%d", tt.total)
	}
}

/*
TestClampPage verifies out-of-range pages snap to the nearest valid page.
*/
func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{"in_range", 2, 5, 2},
		{"below_range", 0, 5, 1},
		{"negative", -3, 5, 1},
		{"above_range", 9, 5, 5},
		{"empty_collection", 4, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.ClampPage(tt.page, tt.totalPages))
		})
	}
}

/*
TestPaginate verifies page slicing, the short last page, and clamping.
*/
func TestPaginate(t *testing.T) {
	pool := numberedPool(45) // 3 pages: 20, 20, 5.

	page1, effective, totalPages := catalog.Paginate(pool, 1)
	assert.Len(t, page1, 20)
	assert.Equal(t, 1, effective)
	assert.Equal(t, 3, totalPages)
	assert.Equal(t, "0", page1[0].ID)

	page3, effective, _ := catalog.Paginate(pool, 3)
	require.Len(t, page3, 5)
	assert.Equal(t, 3, effective)
	assert.Equal(t, "44", page3[4].ID)

	// Beyond the end clamps to the last page.
	clamped, effective, _ := catalog.Paginate(pool, 99)
	assert.Len(t, clamped, 5)
	assert.Equal(t, 3, effective)
}

/*
TestPaginate_Empty verifies the empty-collection contract.
*/
func TestPaginate_Empty(t *testing.T) {
	page, effective, totalPages := catalog.Paginate(nil, 7)

	assert.NotNil(t, page)
	assert.Empty(t, page)
	assert.Equal(t, 1, effective)
	assert.Equal(t, 0, totalPages)
}
