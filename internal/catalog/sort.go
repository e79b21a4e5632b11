// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// # Sort Specification

// Key identifies a sortable novel field.
//
// Sorting is restricted to this closed enum — there is no reflective access
// by arbitrary field name, so an unknown key can never panic at sort time.
type Key string

const (
	KeyTitle        Key = "title"
	KeyAuthor       Key = "author"
	KeyStatus       Key = "status"
	KeyRating       Key = "rating"
	KeyRatingCount  Key = "rating_count"
	KeyChapterCount Key = "chapter_count"
)

// IsValid reports whether k names a sortable field.
func (k Key) IsValid() bool {
	switch k {
	case KeyTitle, KeyAuthor, KeyStatus, KeyRating, KeyRatingCount, KeyChapterCount:
		return true
	}
	return false
}

// Direction is the order of a single sort criterion.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortOption is one (key, direction) criterion.
type SortOption struct {
	Key       Key       `json:"key"`
	Direction Direction `json:"direction"`
}

// SortSpec is the ordered list of sort criteria; the first entry is the
// primary key. Specs are built through [NormalizeSortSpec], which guarantees
// no key appears twice.
type SortSpec []SortOption

// DefaultSortSpec orders by popularity first, quality second.
func DefaultSortSpec() SortSpec {
	return SortSpec{
		{Key: KeyRatingCount, Direction: Descending},
		{Key: KeyRating, Direction: Descending},
	}
}

// NormalizeSortSpec drops invalid keys and duplicate keys (first wins),
// preserving the priority order of the remainder.
func NormalizeSortSpec(spec SortSpec) SortSpec {
	seen := make(map[Key]bool, len(spec))
	normalized := make(SortSpec, 0, len(spec))

	for _, option := range spec {
		if !option.Key.IsValid() || seen[option.Key] {
			continue
		}
		if option.Direction != Descending {
			option.Direction = Ascending
		}
		seen[option.Key] = true
		normalized = append(normalized, option)
	}

	return normalized
}

// # Field Access

// stringField returns the string value for k, or false for numeric keys.
func stringField(novel *Novel, k Key) (string, bool) {
	switch k {
	case KeyTitle:
		return novel.Title, true
	case KeyAuthor:
		return novel.Author, true
	case KeyStatus:
		return string(novel.Status), true
	}
	return "", false
}

// numericField returns the numeric value for k, or false for string keys.
func numericField(novel *Novel, k Key) (float64, bool) {
	switch k {
	case KeyRating:
		return novel.Rating, true
	case KeyRatingCount:
		return float64(novel.RatingCount), true
	case KeyChapterCount:
		return float64(novel.ChapterCount), true
	}
	return 0, false
}

// # Sort Engine

// Comparator builds the multi-key comparison function for a spec.
//
// String fields compare locale-aware (collation, not byte order); numeric
// fields compare by difference. The comparator returns 0 when every
// criterion ties, which lets the stable sort preserve the input order.
func Comparator(spec SortSpec) func(a, b *Novel) int {
	// A collator is not safe for concurrent use, so each comparator owns one.
	collator := collate.New(language.English)

	return func(a, b *Novel) int {
		for _, option := range spec {
			if valueA, ok := stringField(a, option.Key); ok {
				valueB, _ := stringField(b, option.Key)
				if comparison := collator.CompareString(valueA, valueB); comparison != 0 {
					if option.Direction == Descending {
						return -comparison
					}
					return comparison
				}
				continue
			}

			valueA, _ := numericField(a, option.Key)
			valueB, _ := numericField(b, option.Key)
			if valueA != valueB {
				less := valueA < valueB
				if option.Direction == Descending {
					less = !less
				}
				if less {
					return -1
				}
				return 1
			}
		}
		return 0
	}
}

/*
Sort orders a view of the collection by the given spec.

Description: Pure function. The input slice is copied before sorting, so the
caller's view is untouched. The sort is stable: entries that tie on every
criterion keep their relative order from the input.

Parameters:
  - novels: []*Novel (The view to order)
  - spec: SortSpec (Criteria in priority order)

Returns:
  - []*Novel: A fresh, ordered view
*/
func Sort(novels []*Novel, spec SortSpec) []*Novel {
	ordered := make([]*Novel, len(novels))
	copy(ordered, novels)

	if len(spec) == 0 {
		return ordered
	}

	slices.SortStableFunc(ordered, Comparator(spec))
	return ordered
}
