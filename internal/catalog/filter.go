// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import "strings"

// # Filter Specification

// Facet identifies a filterable label attribute.
type Facet string

const (
	// FacetGenres selects the genre label set.
	FacetGenres Facet = "genres"

	// FacetTags selects the tag label set.
	FacetTags Facet = "tags"
)

// FacetSelection holds the include/exclude label sets for one facet.
//
// # Invariant
//
// A label never appears in both Include and Exclude at the same time. The
// toggle helpers on [FilterSpec] enforce this by construction, so the pure
// filter engine does not re-validate it.
type FacetSelection struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// FilterSpec is the complete set of active filter predicates at one time.
type FilterSpec struct {
	// SearchTerm is matched as a case-insensitive substring of the title,
	// author, or description. Empty means no search filtering.
	SearchTerm string `json:"search_term"`

	Genres FacetSelection `json:"genres"`
	Tags   FacetSelection `json:"tags"`

	// Status filters on exact publication status. Empty means any.
	Status Status `json:"status"`

	// RatingRange is the inclusive [min, max] rating window.
	RatingRange [2]float64 `json:"rating_range"`

	// ChapterRange is the inclusive [min, max] chapter count window.
	ChapterRange [2]int `json:"chapter_count_range"`
}

// DefaultFilterSpec returns the neutral spec that matches every novel in a
// collection whose largest chapter count is maxChapters.
func DefaultFilterSpec(maxChapters int) FilterSpec {
	return FilterSpec{
		RatingRange:  [2]float64{0, 10},
		ChapterRange: [2]int{0, maxChapters},
	}
}

// selection returns the mutable facet selection for the given facet.
func (spec *FilterSpec) selection(facet Facet) *FacetSelection {
	if facet == FacetTags {
		return &spec.Tags
	}
	return &spec.Genres
}

// ToggleInclude flips a label's membership in the facet's include set.
//
// Adding a label to include removes it from exclude first: the two sides are
// mutually exclusive per value.
func (spec *FilterSpec) ToggleInclude(facet Facet, label string) {
	selection := spec.selection(facet)

	if contains(selection.Include, label) {
		selection.Include = remove(selection.Include, label)
		return
	}

	selection.Include = append(selection.Include, label)
	selection.Exclude = remove(selection.Exclude, label)
}

// ToggleExclude flips a label's membership in the facet's exclude set,
// removing it from include first when present.
func (spec *FilterSpec) ToggleExclude(facet Facet, label string) {
	selection := spec.selection(facet)

	if contains(selection.Exclude, label) {
		selection.Exclude = remove(selection.Exclude, label)
		return
	}

	selection.Exclude = append(selection.Exclude, label)
	selection.Include = remove(selection.Include, label)
}

// AddInclusion idempotently adds a sentence-cased label to the include set,
// clearing it from exclude. Used by "filter by this genre" shortcuts on cards.
func (spec *FilterSpec) AddInclusion(facet Facet, label string) {
	cased := sentenceCase(label)
	selection := spec.selection(facet)

	if contains(selection.Include, cased) {
		return
	}

	selection.Include = append(selection.Include, cased)
	selection.Exclude = remove(selection.Exclude, cased)
}

// Remove drops a label from one side of a facet selection.
func (spec *FilterSpec) Remove(facet Facet, label string, exclude bool) {
	selection := spec.selection(facet)
	if exclude {
		selection.Exclude = remove(selection.Exclude, label)
		return
	}
	selection.Include = remove(selection.Include, label)
}

// # Filter Engine

/*
Apply runs the composable filter pipeline over a pool of novels.

Description: Pure function. Every stage is conjunctive — an entry survives
only if it independently satisfies all active predicates. The relative order
of surviving entries is preserved; the input is never mutated.

The restricted-content visibility stage is NOT part of this function: it runs
earlier via [ApplyVisibility] because it also defines the facet index pool.

Parameters:
  - pool: []*Novel (The visibility-filtered collection)
  - spec: FilterSpec (Active predicates; SearchTerm must already be debounced)

Returns:
  - []*Novel: A fresh view containing the surviving entries, in input order
*/
func Apply(pool []*Novel, spec FilterSpec) []*Novel {
	term := strings.ToLower(strings.TrimSpace(spec.SearchTerm))

	filtered := make([]*Novel, 0, len(pool))
	for _, novel := range pool {
		if matches(novel, spec, term) {
			filtered = append(filtered, novel)
		}
	}
	return filtered
}

// matches evaluates all active stages for a single novel.
func matches(novel *Novel, spec FilterSpec, term string) bool {

	// ── Search term: substring over title OR author OR description ────────
	if term != "" {
		if !strings.Contains(strings.ToLower(novel.Title), term) &&
			!strings.Contains(strings.ToLower(novel.Author), term) &&
			!strings.Contains(strings.ToLower(novel.Description), term) {
			return false
		}
	}

	// ── Genre/tag inclusion: entry must carry EVERY included label ────────
	if !containsAll(novel.Genres, spec.Genres.Include) {
		return false
	}
	if !containsAll(novel.Tags, spec.Tags.Include) {
		return false
	}

	// ── Genre/tag exclusion: entry must carry NONE of the excluded ────────
	if containsAny(novel.Genres, spec.Genres.Exclude) {
		return false
	}
	if containsAny(novel.Tags, spec.Tags.Exclude) {
		return false
	}

	// ── Status equality ───────────────────────────────────────────────────
	if spec.Status != "" && novel.Status != spec.Status {
		return false
	}

	// ── Rating range, inclusive ───────────────────────────────────────────
	if novel.Rating < spec.RatingRange[0] || novel.Rating > spec.RatingRange[1] {
		return false
	}

	// ── Chapter count range, inclusive ────────────────────────────────────
	if novel.ChapterCount < spec.ChapterRange[0] || novel.ChapterCount > spec.ChapterRange[1] {
		return false
	}

	return true
}

// containsAll reports whether every wanted label appears among the novel's
// labels, comparing against their sentence-cased display form.
func containsAll(labels, wanted []string) bool {
	for _, want := range wanted {
		if !hasLabel(labels, want) {
			return false
		}
	}
	return true
}

// containsAny reports whether any unwanted label appears among the labels.
func containsAny(labels, unwanted []string) bool {
	for _, label := range unwanted {
		if hasLabel(labels, label) {
			return true
		}
	}
	return false
}

// hasLabel matches a selection label against the sentence-cased labels.
func hasLabel(labels []string, target string) bool {
	for _, label := range labels {
		if sentenceCase(label) == target {
			return true
		}
	}
	return false
}

// contains reports raw membership in a selection slice.
func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// remove returns values without target, preserving order.
func remove(values []string, target string) []string {
	result := values[:0:0]
	for _, value := range values {
		if value != target {
			result = append(result, value)
		}
	}
	return result
}
