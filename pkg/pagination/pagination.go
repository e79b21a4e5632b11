// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
//
// It automatically calculates the TotalPages based on the total count and limit.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// PageFromRequest parses the "page" query parameter from an HTTP request.
//
// # Clamping
//
// Invalid or negative values fall back to [DefaultPage]. The upper bound is
// clamped later against the actual result size by the catalog pagination.
func PageFromRequest(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return DefaultPage
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return DefaultPage
	}

	return page
}
