// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhoangviet/noveria/internal/catalog"
)

/*
TestSession_Defaults verifies a fresh session starts on page 1 with the
neutral filter over the pool's bounds and the default sort.
*/
func TestSession_Defaults(t *testing.T) {
	session := catalog.NewSession(browsePool(), true)

	assert.Equal(t, 1, session.Page())
	assert.Equal(t, catalog.DefaultSortSpec(), session.Sort())

	filter := session.Filter()
	assert.Empty(t, filter.SearchTerm)
	assert.Equal(t, [2]float64{0, 10}, filter.RatingRange)
	assert.Equal(t, [2]int{0, 800}, filter.ChapterRange)
}

/*
TestSession_SearchDebounce verifies a typed term only commits after the
debounce window, and that rapid keystrokes collapse into one commit.
*/
func TestSession_SearchDebounce(t *testing.T) {
	session := catalog.NewSession(browsePool(), true)
	session.SetDebounceDelay(30 * time.Millisecond)

	session.SetSearch("dra")
	session.SetSearch("drag")
	session.SetSearch("dragon")

	// Still pending: the committed state has not changed.
	assert.Empty(t, session.Filter().SearchTerm)

	require.Eventually(t, func() bool {
		return session.Filter().SearchTerm == "dragon"
	}, time.Second, 5*time.Millisecond)
}

/*
TestSession_FlushSearch verifies a pending term commits immediately on
flush and cancels the timer.
*/
func TestSession_FlushSearch(t *testing.T) {
	session := catalog.NewSession(browsePool(), true)
	session.SetDebounceDelay(time.Hour)

	session.SetPage(3)
	session.SetSearch("b")
	assert.Empty(t, session.Filter().SearchTerm)

	session.FlushSearch()
	assert.Equal(t, "b", session.Filter().SearchTerm)
	assert.Equal(t, 1, session.Page(), "search commit resets the page")
}

/*
TestSession_ZeroDelayCommitsInline verifies a zero debounce delay commits
every keystroke synchronously.
*/
func TestSession_ZeroDelayCommitsInline(t *testing.T) {
	session := catalog.NewSession(browsePool(), true)
	session.SetDebounceDelay(0)

	session.SetSearch("c")
	assert.Equal(t, "c", session.Filter().SearchTerm)
}

/*
TestSession_MutationsResetPage verifies every interactive filter or sort
change snaps back to page 1.
*/
func TestSession_MutationsResetPage(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*catalog.Session)
	}{
		{"toggle_include", func(s *catalog.Session) { s.ToggleInclude(catalog.FacetGenres, "Fantasy") }},
		{"toggle_exclude", func(s *catalog.Session) { s.ToggleExclude(catalog.FacetTags, "Magic") }},
		{"status", func(s *catalog.Session) { s.SetStatus(catalog.StatusOngoing) }},
		{"rating_range", func(s *catalog.Session) { s.SetRatingRange(5, 9) }},
		{"chapter_range", func(s *catalog.Session) { s.SetChapterRange(10, 500) }},
		{"sort", func(s *catalog.Session) {
			s.SetSort(catalog.SortSpec{{Key: catalog.KeyTitle, Direction: catalog.Ascending}})
		}},
		{"reset_filters", func(s *catalog.Session) { s.ResetFilters() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := catalog.NewSession(browsePool(), true)
			session.SetPage(4)

			tt.mutate(session)
			assert.Equal(t, 1, session.Page())
		})
	}
}

/*
TestSession_HydrateKeepsPage verifies hydration is the one state change
that preserves an explicitly supplied page.
*/
func TestSession_HydrateKeepsPage(t *testing.T) {
	session := catalog.NewSession(browsePool(), true)

	filter := catalog.DefaultFilterSpec(800)
	filter.SearchTerm = "a"
	session.Hydrate(filter, nil, 3)

	assert.Equal(t, 3, session.Page())
	assert.Equal(t, "a", session.Filter().SearchTerm, "hydrated search commits without debounce")
	assert.Equal(t, catalog.DefaultSortSpec(), session.Sort(), "empty sort falls back to default")
}

/*
TestSession_HydrateChapterBounds verifies the chapter upper bound is only
clamped downward: an out-of-range bound shrinks to the pool maximum, while
an explicit zero survives as a real zero-chapter filter.
*/
func TestSession_HydrateChapterBounds(t *testing.T) {
	session := catalog.NewSession(browsePool(), true)

	filter := catalog.DefaultFilterSpec(800)
	filter.ChapterRange[1] = 9999
	session.Hydrate(filter, nil, 1)
	assert.Equal(t, 800, session.Filter().ChapterRange[1], "bound above the pool maximum clamps down")

	filter = catalog.DefaultFilterSpec(800)
	filter.ChapterRange[1] = 0
	session.Hydrate(filter, nil, 1)
	assert.Equal(t, 0, session.Filter().ChapterRange[1], "explicit zero stays zero")

	_, _, total, _ := session.Results()
	assert.Zero(t, total, "no pool entry has zero chapters")
}

/*
TestSession_SetSortNormalizes verifies invalid keys are dropped and an
entirely invalid spec falls back to the default ordering.
*/
func TestSession_SetSortNormalizes(t *testing.T) {
	session := catalog.NewSession(browsePool(), true)

	session.SetSort(catalog.SortSpec{
		{Key: catalog.Key("bogus")},
		{Key: catalog.KeyTitle, Direction: catalog.Descending},
	})
	assert.Equal(t, catalog.SortSpec{{Key: catalog.KeyTitle, Direction: catalog.Descending}}, session.Sort())

	session.SetSort(catalog.SortSpec{{Key: catalog.Key("bogus")}})
	assert.Equal(t, catalog.DefaultSortSpec(), session.Sort())
}

/*
TestSession_VisibilityClampsChapterRange verifies that shrinking the pool
pulls the chapter upper bound down with it.
*/
func TestSession_VisibilityClampsChapterRange(t *testing.T) {
	pool := []*catalog.Novel{
		{ID: "clean-0", Genres: []string{"Fantasy"}, ChapterCount: 100},
		{ID: "restricted-1", Genres: []string{"Smut"}, ChapterCount: 900},
	}

	session := catalog.NewSession(pool, true)
	assert.Equal(t, [2]int{0, 900}, session.Filter().ChapterRange)

	session.SetVisibility(pool, false)
	assert.Equal(t, [2]int{0, 100}, session.Filter().ChapterRange)
	assert.Equal(t, []string{"Fantasy"}, session.Facets().Genres)
}

/*
TestSession_Results verifies the full pipeline: filter, sort, paginate, and
page clamping against the filtered total.
*/
func TestSession_Results(t *testing.T) {
	session := catalog.NewSession(browsePool(), true)
	session.SetDebounceDelay(0)

	session.ToggleInclude(catalog.FacetGenres, "Fantasy")
	session.SetSort(catalog.SortSpec{{Key: catalog.KeyRating, Direction: catalog.Descending}})
	session.SetPage(9)

	pageItems, effectivePage, total, totalPages := session.Results()

	assert.Equal(t, []string{"b-1", "a-0"}, ids(pageItems))
	assert.Equal(t, 1, effectivePage, "page clamps to the filtered range")
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, totalPages)
}
