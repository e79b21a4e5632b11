// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

// PageSize is the fixed number of novels per page.
const PageSize = 20

// TotalPages returns ceil(total / PageSize); 0 for an empty result.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// ClampPage forces a requested page into the valid [1, totalPages] window.
//
// Page 0, negative pages, and pages beyond the end all land on a valid page
// rather than producing an empty slice for a non-empty result.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

/*
Paginate slices an ordered view into the requested fixed-size page.

Parameters:
  - novels: []*Novel (The filtered, sorted view)
  - page: int (1-indexed requested page; clamped, never rejected)

Returns:
  - []*Novel: The visible page (empty when the view is empty)
  - int: The effective page after clamping
  - int: The total page count
*/
func Paginate(novels []*Novel, page int) ([]*Novel, int, int) {
	totalPages := TotalPages(len(novels))
	if totalPages == 0 {
		return []*Novel{}, 1, 0
	}

	page = ClampPage(page, totalPages)

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(novels) {
		end = len(novels)
	}

	return novels[start:end], page, totalPages
}
