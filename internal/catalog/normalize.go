// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// # Entry Normalization

var (
	whitespaceRegex = regexp.MustCompile(`\s`)
	numberRegex     = regexp.MustCompile(`\d+`)
)

// placeholderCoverFormat synthesizes a stable cover URL for entries whose
// source record ships none. The seed is a deterministic hash of the title so
// the same novel renders the same placeholder across sessions and reloads.
const placeholderCoverFormat = "https://picsum.photos/seed/%d/400/600"

/*
Normalize converts the raw ingestion records into the canonical collection.

Description: Assigns stable identifiers, derives the effective chapter count,
and fills missing cover images deterministically. The input order is
preserved; the index of each record participates in its identity, which keeps
IDs unique even when one dump contains duplicate titles.

Parameters:
  - records: []RawNovel (The un-normalized dump, in ingestion order)

Returns:
  - []*Novel: The canonical, immutable collection
*/
func Normalize(records []RawNovel) []*Novel {
	novels := make([]*Novel, len(records))

	for index, record := range records {
		novels[index] = &Novel{
			ID:               NovelID(record.Title, index),
			URL:              record.URL,
			Title:            record.Title,
			AlternativeNames: record.AlternativeNames,
			Author:           record.Author,
			Status:           Status(record.Status),
			Publishers:       record.Publishers,
			Genres:           record.Genres,
			Tags:             record.Tags,
			Description:      record.Description,
			CoverImage:       coverImage(record),
			Rating:           record.Rating,
			RatingCount:      record.RatingCount,
			ChapterCount:     deriveChapterCount(record),
			LatestChapter:    record.LatestChapter,
		}
	}

	return novels
}

// NovelID builds the stable identifier for a record at ingestion index.
//
// The title has every whitespace rune replaced by '-' and the zero-based
// index appended, so duplicate titles within one load still get unique IDs.
func NovelID(title string, index int) string {
	return whitespaceRegex.ReplaceAllString(title, "-") + "-" + strconv.Itoa(index)
}

// deriveChapterCount computes the effective chapter count for a record.
//
// Source "latest chapter" titles (e.g. "Chapter 45: Finale") usually encode
// the true chapter number more reliably than the separate count field. The
// largest numeric substring wins; the count field is only a fallback.
func deriveChapterCount(record RawNovel) int {
	matches := numberRegex.FindAllString(record.LatestChapter.Title, -1)
	if len(matches) == 0 {
		return record.ChapterCount
	}

	best, found := 0, false
	for _, match := range matches {
		number, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if !found || number > best {
			best, found = number, true
		}
	}

	// A title whose only number is 0 ("Volume 0") still counts as derived.
	if !found {
		return record.ChapterCount
	}
	return best
}

// coverImage returns the record's own cover, or a deterministic placeholder.
func coverImage(record RawNovel) string {
	if record.CoverImage != "" {
		return record.CoverImage
	}
	return fmt.Sprintf(placeholderCoverFormat, titleHash(record.Title))
}

// titleHash computes a non-negative 32-bit hash of a string.
//
// The arithmetic intentionally mirrors the classic `h = h*31 + c` shift trick
// over UTF-16 code units with int32 wrap-around, so placeholder seeds remain
// identical to those generated for existing users.
func titleHash(value string) int64 {
	var hash int32
	for _, r := range value {
		// Strings are hashed per UTF-16 code unit; BMP runes are one unit.
		units := utf16Units(r)
		for _, unit := range units {
			hash = (hash << 5) - hash + int32(unit)
		}
	}

	if hash < 0 {
		return -int64(hash)
	}
	return int64(hash)
}

// utf16Units expands a rune into its UTF-16 code units.
func utf16Units(r rune) []uint16 {
	if r < 0x10000 {
		return []uint16{uint16(r)}
	}
	r -= 0x10000
	return []uint16{
		uint16(0xD800 + (r >> 10)),
		uint16(0xDC00 + (r & 0x3FF)),
	}
}

// sentenceCase normalizes a label to its display form: first rune upper,
// remainder lower ("ACTION" and "action" both become "Action").
func sentenceCase(value string) string {
	if value == "" {
		return ""
	}

	runes := []rune(strings.ToLower(value))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
