// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhoangviet/noveria/internal/catalog"
)

/*
TestNovelID verifies the deterministic identifier derivation.
*/
func TestNovelID(t *testing.T) {
	tests := []struct {
		name  string
		title string
		index int
		want  string
	}{
		{"simple_title", "Sword Saint", 3, "Sword-Saint-3"},
		{"single_word", "Overgeared", 0, "Overgeared-0"},
		{"tab_and_newline", "A\tB\nC", 7, "A-B-C-7"},
		{"duplicate_title_distinct_index", "Reborn", 12, "Reborn-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.NovelID(tt.title, tt.index))
		})
	}
}

/*
TestNormalize_ChapterCount verifies that the chapter count is mined from the
latest chapter title, falling back to the raw record count.
*/
func TestNormalize_ChapterCount(t *testing.T) {
	tests := []struct {
		name        string
		latestTitle string
		recordCount int
		want        int
	}{
		{"number_in_title", "Chapter 45: The Fall", 10, 45},
		{"largest_number_wins", "Vol 3 Chapter 128", 10, 128},
		{"no_number_falls_back", "Epilogue", 87, 87},
		{"zero_in_title_is_derived", "Chapter 0", 12, 0},
		{"volume_zero_is_derived", "Volume 0", 10, 0},
		{"empty_title_falls_back", "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			novels := catalog.Normalize([]catalog.RawNovel{{
				Title:         "Test Novel",
				ChapterCount:  tt.recordCount,
				LatestChapter: catalog.LatestChapter{Title: tt.latestTitle},
			}})
			require.Len(t, novels, 1)
			assert.Equal(t, tt.want, novels[0].ChapterCount)
		})
	}
}

/*
TestNormalize_CoverPlaceholder verifies that a missing cover is replaced by
a deterministic placeholder seeded from the title hash.
*/
func TestNormalize_CoverPlaceholder(t *testing.T) {
	novels := catalog.Normalize([]catalog.RawNovel{
		{Title: "No Cover Here"},
		{Title: "No Cover Here"},
		{Title: "Has Cover", CoverImage: "https://cdn.example.com/a.jpg"},
	})
	require.Len(t, novels, 3)

	// Same title, same placeholder.
	assert.Equal(t, novels[0].CoverImage, novels[1].CoverImage)
	assert.Contains(t, novels[0].CoverImage, "https://picsum.photos/seed/")
	assert.Contains(t, novels[0].CoverImage, "/400/600")

	// A supplied cover passes through untouched.
	assert.Equal(t, "https://cdn.example.com/a.jpg", novels[2].CoverImage)
}

/*
TestNormalize_PreservesOrderAndFields verifies stable order and field
passthrough for the whole batch.
*/
func TestNormalize_PreservesOrderAndFields(t *testing.T) {
	records := []catalog.RawNovel{
		{Title: "First", Author: "Ann", Genres: []string{"fantasy"}, Rating: 8.2, RatingCount: 120},
		{Title: "Second", Author: "Bob", Status: "Completed"},
	}

	novels := catalog.Normalize(records)
	require.Len(t, novels, 2)

	assert.Equal(t, "First-0", novels[0].ID)
	assert.Equal(t, "Second-1", novels[1].ID)
	assert.Equal(t, "Ann", novels[0].Author)
	assert.Equal(t, []string{"fantasy"}, novels[0].Genres)
	assert.Equal(t, 8.2, novels[0].Rating)
	assert.Equal(t, catalog.StatusCompleted, novels[1].Status)
}

/*
TestIsRestricted covers the restricted-content classification by genre and
by tag.
*/
func TestIsRestricted(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		tags   []string
		want   bool
	}{
		{"restricted_genre", []string{"Fantasy", "Mature"}, nil, true},
		{"restricted_genre_any_case", []string{"ADULT"}, nil, true},
		{"restricted_tag", nil, []string{"R-18"}, true},
		{"clean_entry", []string{"Fantasy"}, []string{"Magic"}, false},
		{"no_labels", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			novel := &catalog.Novel{Genres: tt.genres, Tags: tt.tags}
			assert.Equal(t, tt.want, catalog.IsRestricted(novel))
		})
	}
}

/*
TestApplyVisibility verifies that restricted entries are dropped for viewers
outside the restricted scope and kept inside it.
*/
func TestApplyVisibility(t *testing.T) {
	novels := []*catalog.Novel{
		{ID: "a", Genres: []string{"Fantasy"}},
		{ID: "b", Genres: []string{"Smut"}},
		{ID: "c", Tags: []string{"yaoi"}},
	}

	hidden := catalog.ApplyVisibility(novels, false)
	require.Len(t, hidden, 1)
	assert.Equal(t, "a", hidden[0].ID)

	shown := catalog.ApplyVisibility(novels, true)
	assert.Len(t, shown, 3)
}
