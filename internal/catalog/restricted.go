// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import "strings"

// # Restricted Content Classification

// Label lists that classify an entry as unsuitable for default display.
// Matching is case-insensitive against the raw source labels.
var (
	restrictedGenres = []string{"smut", "yaoi", "yuri", "mature", "adult", "harem", "ecchi"}
	restrictedTags   = []string{"r-18", "yaoi", "yuri"}
)

// IsRestricted reports whether the novel carries any restricted genre or tag.
func IsRestricted(novel *Novel) bool {
	for _, genre := range novel.Genres {
		lowered := strings.ToLower(genre)
		for _, restricted := range restrictedGenres {
			if lowered == restricted {
				return true
			}
		}
	}

	for _, tag := range novel.Tags {
		lowered := strings.ToLower(tag)
		for _, restricted := range restrictedTags {
			if lowered == restricted {
				return true
			}
		}
	}

	return false
}

// ApplyVisibility returns the pool of novels eligible for display.
//
// This stage runs before every other filter stage and also defines the pool
// the facet index is built from; hiding restricted content must shrink the
// available genre/tag options, not just the visible page.
func ApplyVisibility(novels []*Novel, showRestricted bool) []*Novel {
	if showRestricted {
		return novels
	}

	visible := make([]*Novel, 0, len(novels))
	for _, novel := range novels {
		if !IsRestricted(novel) {
			visible = append(visible, novel)
		}
	}
	return visible
}
