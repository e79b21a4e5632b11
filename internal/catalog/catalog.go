// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"sync"
)

// Catalog owns the normalized in-memory novel collection.
//
// The collection is fetched and normalized exactly once; every later Load
// returns the cached slice. A failed load caches nothing, so the next call
// retries from scratch instead of serving a partial collection.
type Catalog struct {
	source Source
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
	novels []*Novel
	byID   map[string]*Novel
}

// NewCatalog constructs a Catalog backed by the given source.
func NewCatalog(source Source, logger *slog.Logger) *Catalog {
	return &Catalog{source: source, logger: logger}
}

/*
Load returns the normalized collection, fetching it on first use.

Description: The mutex serializes concurrent first loads so the source is
hit once even when many requests race on a cold cache. Entries are returned
in dump order; callers never mutate the shared slice (the browse session
copies before sorting).

Parameters:
  - context: context.Context (Cancels an in-flight fetch)

Returns:
  - []*Novel: The full normalized collection
  - error: Fetch or decode failure; the cache stays empty
*/
func (catalog *Catalog) Load(context context.Context) ([]*Novel, error) {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if catalog.loaded {
		return catalog.novels, nil
	}

	records, err := catalog.source.Fetch(context)
	if err != nil {
		return nil, err
	}

	novels := Normalize(records)
	byID := make(map[string]*Novel, len(novels))
	for _, novel := range novels {
		byID[novel.ID] = novel
	}

	catalog.novels = novels
	catalog.byID = byID
	catalog.loaded = true

	catalog.logger.Info("catalog loaded", slog.Int("novels", len(novels)))
	return catalog.novels, nil
}

// Get looks a novel up by its derived ID, loading the collection if needed.
func (catalog *Catalog) Get(context context.Context, id string) (*Novel, bool, error) {
	if _, err := catalog.Load(context); err != nil {
		return nil, false, err
	}

	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	novel, found := catalog.byID[id]
	return novel, found, nil
}

// Loaded reports whether the collection is cached.
func (catalog *Catalog) Loaded() bool {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	return catalog.loaded
}
