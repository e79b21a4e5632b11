// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import (
	"sync"
	"time"
)

// # Browse Session

// SearchDebounceDelay is how long a typed search term sits pending before
// it is committed to the filter state.
const SearchDebounceDelay = 300 * time.Millisecond

// Session is one user's live browsing state over the catalog.
//
// It owns the visibility-scoped pool, the facet summary derived from that
// pool, the filter and sort state, and the current page. Every mutation of
// filter or sort state snaps the page back to 1; only Hydrate keeps an
// explicitly supplied page, so a shared URL lands on the page it named.
//
// Search input is debounced: SetSearch stores the term as pending and arms
// a timer; the term only reaches the filter state when the timer fires or
// FlushSearch is called. Each keystroke re-arms the timer, so a burst of
// typing commits once.
type Session struct {
	mu sync.Mutex

	pool   []*Novel
	facets Facets

	filter FilterSpec
	sort   SortSpec
	page   int

	pendingSearch string
	searchPending bool
	searchTimer   *time.Timer
	debounceDelay time.Duration
}

// NewSession builds a session over the visibility-scoped slice of the
// collection. showRestricted mirrors the caller's access decision.
func NewSession(novels []*Novel, showRestricted bool) *Session {
	session := &Session{
		sort:          DefaultSortSpec(),
		page:          1,
		debounceDelay: SearchDebounceDelay,
	}
	session.pool = ApplyVisibility(novels, showRestricted)
	session.facets = BuildFacets(session.pool)
	session.filter = DefaultFilterSpec(session.facets.MaxChapterCount)
	return session
}

// SetVisibility swaps the pool for a different visibility scope, keeping
// the rest of the session state.
func (session *Session) SetVisibility(novels []*Novel, showRestricted bool) {
	session.mu.Lock()
	defer session.mu.Unlock()

	session.pool = ApplyVisibility(novels, showRestricted)
	session.facets = BuildFacets(session.pool)

	// Selections that no longer exist in the new pool simply match nothing,
	// but the chapter upper bound must follow the pool or the range filter
	// silently truncates results.
	if session.filter.ChapterRange[1] > session.facets.MaxChapterCount {
		session.filter.ChapterRange[1] = session.facets.MaxChapterCount
	}
	session.page = 1
}

// Facets returns the facet summary of the current pool.
func (session *Session) Facets() Facets {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.facets
}

// Filter returns a snapshot of the committed filter state. A pending search
// term is not visible here until it commits.
func (session *Session) Filter() FilterSpec {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.filter
}

// Sort returns the current sort state.
func (session *Session) Sort() SortSpec {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.sort
}

// Page returns the requested page number.
func (session *Session) Page() int {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.page
}

// SetPage moves to an explicit page without touching filter state.
func (session *Session) SetPage(page int) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if page < 1 {
		page = 1
	}
	session.page = page
}

// SetDebounceDelay overrides the search debounce interval. Zero commits
// every keystroke immediately.
func (session *Session) SetDebounceDelay(delay time.Duration) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.debounceDelay = delay
}

/*
SetSearch records a typed search term and arms the debounce timer.

Description: The term is held as pending; a previously armed timer is
stopped so only the latest keystroke schedules a commit. With a zero
debounce delay the commit happens inline, which is what request-scoped
hydration and tests want.

Parameters:
  - term: string (The raw typed input, trimmed and lowered at match time)
*/
func (session *Session) SetSearch(term string) {
	session.mu.Lock()
	defer session.mu.Unlock()

	session.pendingSearch = term
	session.searchPending = true

	if session.searchTimer != nil {
		session.searchTimer.Stop()
		session.searchTimer = nil
	}

	if session.debounceDelay <= 0 {
		session.commitSearchLocked()
		return
	}

	session.searchTimer = time.AfterFunc(session.debounceDelay, func() {
		session.mu.Lock()
		defer session.mu.Unlock()
		session.commitSearchLocked()
	})
}

// FlushSearch commits a pending search term immediately, cancelling the
// timer. No-op when nothing is pending.
func (session *Session) FlushSearch() {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.searchTimer != nil {
		session.searchTimer.Stop()
		session.searchTimer = nil
	}
	session.commitSearchLocked()
}

// commitSearchLocked moves the pending term into the filter state. Caller
// holds the lock.
func (session *Session) commitSearchLocked() {
	if !session.searchPending {
		return
	}
	session.searchPending = false
	session.searchTimer = nil

	if session.filter.SearchTerm == session.pendingSearch {
		return
	}
	session.filter.SearchTerm = session.pendingSearch
	session.page = 1
}

// ToggleInclude flips a facet label through the include cycle and resets
// the page.
func (session *Session) ToggleInclude(facet Facet, label string) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.filter.ToggleInclude(facet, label)
	session.page = 1
}

// ToggleExclude flips a facet label through the exclude cycle and resets
// the page.
func (session *Session) ToggleExclude(facet Facet, label string) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.filter.ToggleExclude(facet, label)
	session.page = 1
}

// SetStatus switches the status filter and resets the page.
func (session *Session) SetStatus(status Status) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.filter.Status = status
	session.page = 1
}

// SetRatingRange sets the inclusive rating bounds and resets the page.
func (session *Session) SetRatingRange(low, high float64) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.filter.RatingRange = [2]float64{low, high}
	session.page = 1
}

// SetChapterRange sets the inclusive chapter-count bounds and resets the
// page.
func (session *Session) SetChapterRange(low, high int) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.filter.ChapterRange = [2]int{low, high}
	session.page = 1
}

// SetSort replaces the sort state, dropping invalid and duplicate keys,
// and resets the page. An empty spec falls back to the default ordering.
func (session *Session) SetSort(spec SortSpec) {
	session.mu.Lock()
	defer session.mu.Unlock()

	normalized := NormalizeSortSpec(spec)
	if len(normalized) == 0 {
		normalized = DefaultSortSpec()
	}
	session.sort = normalized
	session.page = 1
}

// ResetFilters restores the default filter state over the current pool and
// resets the page. The sort state is kept.
func (session *Session) ResetFilters() {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.searchTimer != nil {
		session.searchTimer.Stop()
		session.searchTimer = nil
	}
	session.searchPending = false
	session.pendingSearch = ""

	session.filter = DefaultFilterSpec(session.facets.MaxChapterCount)
	session.page = 1
}

/*
Hydrate applies externally supplied browse state in one shot.

Description: This is how a request-scoped session adopts the state encoded
in a shared URL. Unlike the interactive mutators it keeps the supplied page
instead of resetting to 1, and the search term commits immediately with no
debounce.

Parameters:
  - filter: FilterSpec (Committed as-is; labels are sentence-cased upstream)
  - spec: SortSpec (Normalized; empty falls back to the default)
  - page: int (Kept verbatim, floored at 1)
*/
func (session *Session) Hydrate(filter FilterSpec, spec SortSpec, page int) {
	session.mu.Lock()
	defer session.mu.Unlock()

	// Clamp down only. An explicit zero upper bound is a real filter
	// (zero-chapter novels), not an unset value.
	if filter.ChapterRange[1] > session.facets.MaxChapterCount {
		filter.ChapterRange[1] = session.facets.MaxChapterCount
	}
	session.filter = filter
	session.pendingSearch = filter.SearchTerm
	session.searchPending = false

	normalized := NormalizeSortSpec(spec)
	if len(normalized) == 0 {
		normalized = DefaultSortSpec()
	}
	session.sort = normalized

	if page < 1 {
		page = 1
	}
	session.page = page
}

/*
Results evaluates the current browse state against the pool.

Description: Filtering runs over the visibility-scoped pool in entry order,
sorting copies before ordering so the pool is never mutated, and the page is
clamped into the valid range for the filtered total.

Returns:
  - []*Novel: The novels on the effective page
  - int: The effective (clamped) page number
  - int: Total entries matching the filter state
  - int: Total pages for that count
*/
func (session *Session) Results() ([]*Novel, int, int, int) {
	session.mu.Lock()
	defer session.mu.Unlock()

	filtered := Apply(session.pool, session.filter)
	ordered := Sort(filtered, session.sort)
	pageItems, effectivePage, totalPages := Paginate(ordered, session.page)
	session.page = effectivePage

	return pageItems, effectivePage, len(filtered), totalPages
}
