// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tranhoangviet/noveria/internal/platform/constants"
)

// Source fetches the raw catalog dump from wherever it lives.
type Source interface {
	Fetch(context context.Context) ([]RawNovel, error)
}

// HTTPSource fetches the catalog dump over HTTP.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource constructs a source for the given dump URL. When client is
// nil a dedicated one with the catalog fetch timeout is used.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: constants.CatalogFetchTimeout}
	}
	return &HTTPSource{url: url, client: client}
}

/*
Fetch downloads and decodes the raw catalog dump.

Description: The dump is a single JSON array of raw records. Decoding streams
from the response body, so the multi-megabyte dump never lives in memory
twice.

Parameters:
  - context: context.Context (Cancels the request and the decode)

Returns:
  - []RawNovel: Decoded records in dump order
  - error: Wrapped transport, status, or decode failure
*/
func (source *HTTPSource) Fetch(context context.Context) ([]RawNovel, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, source.url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog_source_request_failed: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := source.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("catalog_source_fetch_failed: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, response.Body)
		response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog_source_bad_status: %d", response.StatusCode)
	}

	var records []RawNovel
	if err := json.NewDecoder(response.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("catalog_source_decode_failed: %w", err)
	}

	return records, nil
}
