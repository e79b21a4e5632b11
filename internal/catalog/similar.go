// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// # Similarity Engine

// MaxSimilarResults bounds the related-novels list.
const MaxSimilarResults = 5

// Scoring weights per enabled signal.
const (
	sharedGenreWeight = 1.0
	sharedTagWeight   = 0.5
	sameAuthorWeight  = 2.0
	commonTokenWeight = 0.1
)

// Criteria holds the independent toggles controlling which signals
// contribute to the relatedness score.
type Criteria struct {
	Genres      bool `json:"genres"`
	Tags        bool `json:"tags"`
	Description bool `json:"description"`
	Author      bool `json:"author"`
}

// DefaultCriteria enables every signal.
func DefaultCriteria() Criteria {
	return Criteria{Genres: true, Tags: true, Description: true, Author: true}
}

var wordRegex = regexp.MustCompile(`\b\w+\b`)

// stopWords are dropped from description token sets before overlap counting.
var stopWords = map[string]bool{
	"a": true, "about": true, "above": true, "after": true, "again": true,
	"against": true, "all": true, "am": true, "an": true, "and": true,
	"any": true, "are": true, "as": true, "at": true, "be": true,
	"because": true, "been": true, "before": true, "being": true,
	"below": true, "between": true, "both": true, "but": true, "by": true,
	"can": true, "did": true, "do": true, "does": true, "doing": true,
	"down": true, "during": true, "each": true, "few": true, "for": true,
	"from": true, "further": true, "had": true, "has": true, "have": true,
	"having": true, "he": true, "her": true, "here": true, "hers": true,
	"herself": true, "him": true, "himself": true, "his": true, "how": true,
	"i": true, "if": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "itself": true, "just": true, "me": true, "more": true,
	"most": true, "my": true, "myself": true, "no": true, "nor": true,
	"not": true, "now": true, "o": true, "of": true, "on": true,
	"once": true, "only": true, "or": true, "other": true, "our": true,
	"ours": true, "ourselves": true, "out": true, "over": true, "own": true,
	"s": true, "same": true, "she": true, "should": true, "so": true,
	"some": true, "such": true, "t": true, "than": true, "that": true,
	"the": true, "their": true, "theirs": true, "them": true,
	"themselves": true, "then": true, "there": true, "these": true,
	"they": true, "this": true, "those": true, "through": true, "to": true,
	"too": true, "under": true, "until": true, "up": true, "very": true,
	"was": true, "we": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "who": true, "whom": true,
	"why": true, "will": true, "with": true, "you": true, "your": true,
	"yours": true, "yourself": true, "yourselves": true,
}

// Recommender computes related-novel suggestions.
//
// It memoizes tokenized descriptions because the same focal entry is scored
// against many candidates, and the same candidates recur across invocations.
// The cache key is the description text itself, so it survives across focal
// entries. An explicit instance (rather than package state) keeps tests
// independent of each other.
type Recommender struct {
	mu     sync.Mutex
	tokens map[string]map[string]bool
}

// NewRecommender constructs a Recommender with an empty token cache.
func NewRecommender() *Recommender {
	return &Recommender{tokens: make(map[string]map[string]bool)}
}

/*
Similar computes the bounded top-N list of novels related to a focal entry.

Description: Two-phase candidate pruning keeps the expensive description
comparison off the full collection. Phase 1 collects candidates via the cheap
signals (same author, any shared genre, any shared tag); only when
description is the sole enabled criterion does every other entry qualify.
Phase 2 accumulates the weighted score per candidate and drops zero scores —
a zero means no enabled signal actually matched.

Parameters:
  - focal: *Novel (The entry the suggestions are for; excluded from results)
  - collection: []*Novel (The full visible collection)
  - spec: SortSpec (Tie-break comparator, identical to the sort engine's)
  - criteria: Criteria (Enabled signals)

Returns:
  - []ScoredNovel: At most [MaxSimilarResults] entries, score descending,
    every score strictly positive
*/
func (recommender *Recommender) Similar(focal *Novel, collection []*Novel, spec SortSpec, criteria Criteria) []ScoredNovel {
	if focal == nil {
		return nil
	}

	// ── Phase 1: candidate pruning ────────────────────────────────────────
	descriptionOnly := criteria.Description && !criteria.Author && !criteria.Genres && !criteria.Tags

	candidates := make([]*Novel, 0, len(collection))
	for _, other := range collection {
		if other.ID == focal.ID {
			continue
		}

		if descriptionOnly {
			// No cheap pre-filter exists for descriptions; score everyone.
			candidates = append(candidates, other)
			continue
		}

		if criteria.Author && other.Author == focal.Author {
			candidates = append(candidates, other)
			continue
		}
		if criteria.Genres && sharesLabel(focal.Genres, other.Genres) {
			candidates = append(candidates, other)
			continue
		}
		if criteria.Tags && sharesLabel(focal.Tags, other.Tags) {
			candidates = append(candidates, other)
		}
	}

	// ── Phase 2: scoring ──────────────────────────────────────────────────
	scored := make([]ScoredNovel, 0, len(candidates))
	for _, candidate := range candidates {
		score := 0.0

		if criteria.Genres {
			score += float64(countShared(focal.Genres, candidate.Genres)) * sharedGenreWeight
		}
		if criteria.Tags {
			score += float64(countShared(focal.Tags, candidate.Tags)) * sharedTagWeight
		}
		if criteria.Description {
			score += recommender.descriptionScore(focal.Description, candidate.Description)
		}
		if criteria.Author && candidate.Author == focal.Author {
			// Author match is a strong signal.
			score += sameAuthorWeight
		}

		if score > 0 {
			scored = append(scored, ScoredNovel{Novel: candidate, Score: score})
		}
	}

	// ── Ranking: score desc, then the shared sort comparator ──────────────
	tieBreak := Comparator(spec)
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return tieBreak(scored[i].Novel, scored[j].Novel) < 0
	})

	if len(scored) > MaxSimilarResults {
		scored = scored[:MaxSimilarResults]
	}
	return scored
}

// descriptionScore weighs the non-stop-word tokens two descriptions share.
func (recommender *Recommender) descriptionScore(focalDescription, otherDescription string) float64 {
	focalTokens := recommender.tokenize(focalDescription)
	otherTokens := recommender.tokenize(otherDescription)

	if len(focalTokens) == 0 || len(otherTokens) == 0 {
		return 0
	}

	common := 0
	for token := range otherTokens {
		if focalTokens[token] {
			common++
		}
	}

	return float64(common) * commonTokenWeight
}

// tokenize returns the memoized token set for a description.
func (recommender *Recommender) tokenize(description string) map[string]bool {
	recommender.mu.Lock()
	defer recommender.mu.Unlock()

	if cached, found := recommender.tokens[description]; found {
		return cached
	}

	tokens := make(map[string]bool)
	for _, word := range wordRegex.FindAllString(strings.ToLower(description), -1) {
		if !stopWords[word] {
			tokens[word] = true
		}
	}

	recommender.tokens[description] = tokens
	return tokens
}

// CachedDescriptions reports how many token sets are memoized.
func (recommender *Recommender) CachedDescriptions() int {
	recommender.mu.Lock()
	defer recommender.mu.Unlock()
	return len(recommender.tokens)
}

// sharesLabel reports whether the two label sets intersect at all.
func sharesLabel(a, b []string) bool {
	for _, label := range a {
		for _, other := range b {
			if label == other {
				return true
			}
		}
	}
	return false
}

// countShared counts labels present in both sets.
func countShared(a, b []string) int {
	count := 0
	for _, other := range b {
		for _, label := range a {
			if label == other {
				count++
				break
			}
		}
	}
	return count
}
