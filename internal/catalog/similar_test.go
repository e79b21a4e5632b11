// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhoangviet/noveria/internal/catalog"
)

func scoredIDs(scored []catalog.ScoredNovel) []string {
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.ID
	}
	return out
}

/*
TestSimilar_AuthorOnly verifies that with only the author signal enabled,
candidates by the same author score exactly the author weight and nobody
else appears.
*/
func TestSimilar_AuthorOnly(t *testing.T) {
	focal := &catalog.Novel{ID: "x-0", Author: "Jane", Genres: []string{"Fantasy"}}
	pool := []*catalog.Novel{
		focal,
		{ID: "y-1", Author: "Jane", Genres: []string{"Fantasy"}},
		{ID: "z-2", Author: "Jane"},
		{ID: "w-3", Author: "Other", Genres: []string{"Fantasy"}},
	}

	criteria := catalog.Criteria{Author: true}
	scored := catalog.NewRecommender().Similar(focal, pool, catalog.DefaultSortSpec(), criteria)

	require.Len(t, scored, 2)
	assert.ElementsMatch(t, []string{"y-1", "z-2"}, scoredIDs(scored))
	for _, s := range scored {
		// Shared genres must not leak into the score when disabled.
		assert.Equal(t, 2.0, s.Score)
	}
}

/*
TestSimilar_Weights verifies the per-signal weights accumulate.
*/
func TestSimilar_Weights(t *testing.T) {
	focal := &catalog.Novel{
		ID:          "focal-0",
		Author:      "Jane",
		Genres:      []string{"Fantasy", "Action"},
		Tags:        []string{"Magic", "Dungeon"},
		Description: "A cursed knight seeks redemption",
	}
	candidate := &catalog.Novel{
		ID:          "cand-1",
		Author:      "Jane",
		Genres:      []string{"Fantasy", "Action"},
		Tags:        []string{"Magic"},
		Description: "A knight seeks glory",
	}

	scored := catalog.NewRecommender().Similar(
		focal, []*catalog.Novel{focal, candidate},
		catalog.DefaultSortSpec(), catalog.DefaultCriteria())

	require.Len(t, scored, 1)
	// 2 genres + 1 tag * 0.5 + author 2 + 2 common tokens (knight, seeks) * 0.1.
	assert.InDelta(t, 4.7, scored[0].Score, 1e-9)
}

/*
TestSimilar_ExcludesSelfAndZeroScores verifies the focal entry never appears
and unrelated entries are dropped.
*/
func TestSimilar_ExcludesSelfAndZeroScores(t *testing.T) {
	focal := &catalog.Novel{ID: "x-0", Author: "Jane", Genres: []string{"Fantasy"}}
	pool := []*catalog.Novel{
		focal,
		{ID: "unrelated-1", Author: "Bob", Genres: []string{"Romance"}},
	}

	scored := catalog.NewRecommender().Similar(focal, pool, catalog.DefaultSortSpec(), catalog.DefaultCriteria())
	assert.Empty(t, scored)
}

/*
TestSimilar_BoundedAndOrdered verifies the result cap, score ordering, and
the shared tie-break comparator.
*/
func TestSimilar_BoundedAndOrdered(t *testing.T) {
	focal := &catalog.Novel{ID: "focal-0", Genres: []string{"Fantasy"}}

	pool := []*catalog.Novel{focal}
	for i := 1; i <= 8; i++ {
		novel := &catalog.Novel{
			ID:     "cand-" + strconv.Itoa(i),
			Genres: []string{"Fantasy"},
			Rating: float64(i),
		}
		if i == 8 {
			// One stronger candidate to pin the head of the list.
			novel.Genres = append(novel.Genres, "Action")
		}
		pool = append(pool, novel)
	}
	focal.Genres = append(focal.Genres, "Action")

	spec := catalog.SortSpec{{Key: catalog.KeyRating, Direction: catalog.Descending}}
	scored := catalog.NewRecommender().Similar(focal, pool, spec, catalog.Criteria{Genres: true})

	require.Len(t, scored, catalog.MaxSimilarResults)

	// Highest score first, then rating descending among the score ties.
	assert.Equal(t, []string{"cand-8", "cand-7", "cand-6", "cand-5", "cand-4"}, scoredIDs(scored))
}

/*
TestSimilar_DescriptionOnly verifies that with only the description signal
the whole pool is scored and stop words never count.
*/
func TestSimilar_DescriptionOnly(t *testing.T) {
	focal := &catalog.Novel{ID: "x-0", Description: "the dragon and the storm"}
	pool := []*catalog.Novel{
		focal,
		{ID: "dragon-1", Author: "Nobody", Description: "a dragon rises"},
		{ID: "stopwords-2", Description: "the and a"},
	}

	criteria := catalog.Criteria{Description: true}
	recommender := catalog.NewRecommender()
	scored := recommender.Similar(focal, pool, catalog.DefaultSortSpec(), criteria)

	require.Len(t, scored, 1)
	assert.Equal(t, "dragon-1", scored[0].ID)
	assert.InDelta(t, 0.1, scored[0].Score, 1e-9)

	// The token cache is warm after one pass.
	assert.Equal(t, 3, recommender.CachedDescriptions())
}
