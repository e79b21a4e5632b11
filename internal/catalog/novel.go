// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

/*
Package catalog implements the in-memory novel browsing engine.

It owns the full discovery pipeline that runs over the loaded collection on
every interaction: normalization of ingested records, facet derivation,
composable filtering, stable multi-key sorting, pagination, and the
candidate-pruned similarity scorer behind "related novels".

Architecture:

  - Catalog: Load-once holder of the normalized, immutable collection.
  - Pure engines: Filter/Sort/Paginate are side-effect-free functions over views.
  - Session: The stateful browse surface (debounced search, page-reset rules).
  - Recommender: The similarity service with a memoized token cache.

The collection is immutable once loaded. Every engine produces a new view
(slice of shared pointers); no Novel is ever mutated in place.
*/
package catalog

// # Domain Enums

// Status represents the publication status of a novel.
type Status string

const (
	// StatusOngoing indicates the publication is actively updating.
	StatusOngoing Status = "Ongoing"

	// StatusCompleted indicates no further chapters are expected.
	StatusCompleted Status = "Completed"

	// StatusHiatus indicates the publication is paused indefinitely.
	StatusHiatus Status = "Hiatus"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHiatus:
		return true
	}
	return false
}

// # Core Entities

// LatestChapter carries the raw "latest chapter" reference from the source dump.
//
// Its title frequently encodes the true chapter number more reliably than the
// dump's separate chapter_count field, so the normalizer mines it for digits.
type LatestChapter struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Novel is the central aggregate of the Noveria domain.
// It represents a single catalogue entry in its canonical, normalized shape.
type Novel struct {
	// ID is derived deterministically from the title and ingestion index.
	// It is never reassigned after creation.
	ID               string        `json:"id"`
	URL              string        `json:"url"`
	Title            string        `json:"title"`
	AlternativeNames []string      `json:"alternative_names"`
	Author           string        `json:"author"`
	Status           Status        `json:"status"`
	Publishers       string        `json:"publishers"`
	Genres           []string      `json:"genres"`
	Tags             []string      `json:"tags"`
	Description      string        `json:"description"`
	CoverImage       string        `json:"cover_image"`
	Rating           float64       `json:"rating"`        // Bounded [0,10]
	RatingCount      int           `json:"rating_count"`  // Non-negative
	ChapterCount     int           `json:"chapter_count"` // Derived, see normalize.go
	LatestChapter    LatestChapter `json:"latest_chapter"`
}

// RawNovel is the un-normalized record shape delivered by the ingestion source.
//
// # Trust Boundary
//
// Nothing in this struct is trusted: the cover may be missing, the chapter
// count stale, and the status free-form. [Normalize] converts it into a
// canonical [Novel].
type RawNovel struct {
	URL              string        `json:"url"`
	Title            string        `json:"title"`
	AlternativeNames []string      `json:"alternative_names"`
	Author           string        `json:"author"`
	Status           string        `json:"status"`
	Publishers       string        `json:"publishers"`
	Genres           []string      `json:"genres"`
	Tags             []string      `json:"tags"`
	Description      string        `json:"description"`
	CoverImage       string        `json:"cover_image"`
	Rating           float64       `json:"rating"`
	RatingCount      int           `json:"rating_count"`
	ChapterCount     int           `json:"chapter_count"`
	LatestChapter    LatestChapter `json:"latest_chapter"`
}

// ScoredNovel pairs a novel with its relevance score.
//
// It is only produced by the [Recommender] and never persisted.
type ScoredNovel struct {
	*Novel
	Score float64 `json:"score"`
}
