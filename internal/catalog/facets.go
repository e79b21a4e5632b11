// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import "sort"

// # Facet Index

// Facets holds the distinct filterable values derived from the visible pool.
//
// The index is rebuilt whenever the pool changes — in practice when the
// restricted-content visibility rule flips, since the collection itself is
// immutable after load.
type Facets struct {
	// Genres is the sorted set of distinct genre labels, sentence-cased.
	Genres []string `json:"genres"`

	// Tags is the sorted set of distinct tag labels, sentence-cased.
	Tags []string `json:"tags"`

	// Statuses is the sorted set of distinct status values, as stored.
	Statuses []string `json:"statuses"`

	// MaxChapterCount is the largest chapter count in the pool (0 if empty).
	MaxChapterCount int `json:"max_chapter_count"`
}

// BuildFacets derives the facet index from a pool of novels.
//
// Labels are normalized to sentence case for display, deduplicated after
// normalization, and empty strings are dropped.
func BuildFacets(pool []*Novel) Facets {
	genreSet := make(map[string]bool)
	tagSet := make(map[string]bool)
	statusSet := make(map[string]bool)
	maxChapters := 0

	for _, novel := range pool {
		for _, genre := range novel.Genres {
			if cased := sentenceCase(genre); cased != "" {
				genreSet[cased] = true
			}
		}
		for _, tag := range novel.Tags {
			if cased := sentenceCase(tag); cased != "" {
				tagSet[cased] = true
			}
		}
		if novel.Status != "" {
			statusSet[string(novel.Status)] = true
		}
		if novel.ChapterCount > maxChapters {
			maxChapters = novel.ChapterCount
		}
	}

	return Facets{
		Genres:          sortedKeys(genreSet),
		Tags:            sortedKeys(tagSet),
		Statuses:        sortedKeys(statusSet),
		MaxChapterCount: maxChapters,
	}
}

// sortedKeys flattens a set into a sorted slice.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
