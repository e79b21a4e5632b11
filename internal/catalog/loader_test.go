// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranhoangviet/noveria/internal/catalog"
)

const dumpBody = `[
	{"title": "Sword Saint", "author": "Ann", "genres": ["fantasy"],
	 "latest_chapter": {"title": "Chapter 45"}},
	{"title": "Reborn", "author": "Bob", "chapter_count": 12}
]`

/*
TestHTTPSource_Fetch verifies the dump download and decode path.
*/
func TestHTTPSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "application/json", request.Header.Get("Accept"))
		writer.Write([]byte(dumpBody))
	}))
	defer server.Close()

	source := catalog.NewHTTPSource(server.URL, server.Client())
	records, err := source.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Sword Saint", records[0].Title)
	assert.Equal(t, "Chapter 45", records[0].LatestChapter.Title)
	assert.Equal(t, 12, records[1].ChapterCount)
}

/*
TestHTTPSource_Fetch_BadStatus verifies a non-200 response surfaces as an
error.
*/
func TestHTTPSource_Fetch_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	source := catalog.NewHTTPSource(server.URL, server.Client())
	_, err := source.Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

/*
TestHTTPSource_Fetch_BadJSON verifies a malformed dump surfaces as a decode
error.
*/
func TestHTTPSource_Fetch_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{"not": "an array"`))
	}))
	defer server.Close()

	source := catalog.NewHTTPSource(server.URL, server.Client())
	_, err := source.Fetch(context.Background())

	require.Error(t, err)
}

// fakeSource counts fetches and can be switched to fail.
type fakeSource struct {
	fetches atomic.Int32
	fail    atomic.Bool
	records []catalog.RawNovel
}

func (source *fakeSource) Fetch(ctx context.Context) ([]catalog.RawNovel, error) {
	source.fetches.Add(1)
	if source.fail.Load() {
		return nil, errors.New("dump unreachable")
	}
	return source.records, nil
}

/*
TestCatalog_LoadOnce verifies the collection is fetched exactly once and
served from cache afterwards.
*/
func TestCatalog_LoadOnce(t *testing.T) {
	source := &fakeSource{records: []catalog.RawNovel{{Title: "Only"}}}
	service := catalog.NewCatalog(source, slog.Default())

	first, err := service.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := service.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), source.fetches.Load())
	assert.Same(t, first[0], second[0], "cache returns the same collection")
	assert.True(t, service.Loaded())
}

/*
TestCatalog_LoadFailureCachesNothing verifies a failed load leaves the
cache empty so the next call retries.
*/
func TestCatalog_LoadFailureCachesNothing(t *testing.T) {
	source := &fakeSource{records: []catalog.RawNovel{{Title: "Late"}}}
	source.fail.Store(true)
	service := catalog.NewCatalog(source, slog.Default())

	_, err := service.Load(context.Background())
	require.Error(t, err)
	assert.False(t, service.Loaded())

	// Source recovers; the next load succeeds and caches.
	source.fail.Store(false)
	novels, err := service.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, novels, 1)
	assert.Equal(t, int32(2), source.fetches.Load())
}

/*
TestCatalog_Get verifies lookup by derived identifier, including the lazy
first load.
*/
func TestCatalog_Get(t *testing.T) {
	source := &fakeSource{records: []catalog.RawNovel{{Title: "Sword Saint"}}}
	service := catalog.NewCatalog(source, slog.Default())

	novel, found, err := service.Get(context.Background(), "Sword-Saint-0")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Sword Saint", novel.Title)

	_, found, err = service.Get(context.Background(), "missing-9")
	require.NoError(t, err)
	assert.False(t, found)
}
