// Copyright (c) 2026 Noveria. All rights reserved.
// Author: viet.tranhoang.vn@gmail.com

package catalog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tranhoangviet/noveria/internal/platform/apperr"
	"github.com/tranhoangviet/noveria/internal/platform/request"
	"github.com/tranhoangviet/noveria/internal/platform/respond"
	"github.com/tranhoangviet/noveria/pkg/pagination"
)

// # HTTP Layer

// AccessResolver decides whether a user may see restricted entries. Backed
// by the library settings store; anonymous visitors always get false.
type AccessResolver interface {
	ShowRestricted(context context.Context, userID string) (bool, error)
}

// Handler implements the HTTP layer for catalog browsing and discovery.
// It translates web requests into engine calls over the in-memory catalog.
type Handler struct {
	catalog     *Catalog
	recommender *Recommender
	access      AccessResolver
}

// NewHandler constructs a catalog [Handler] with its dependencies.
func NewHandler(catalog *Catalog, recommender *Recommender, access AccessResolver) *Handler {
	return &Handler{catalog: catalog, recommender: recommender, access: access}
}

// Routes returns a [chi.Router] configured with the catalog endpoints.
// All endpoints are public; authenticated users with the matching setting
// additionally see restricted entries.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listNovels)
	router.Get("/facets", handler.listFacets)
	router.Get("/{id}", handler.getNovel)
	router.Get("/{id}/similar", handler.listSimilar)

	return router
}

// showRestricted resolves the caller's restricted-content access. Anonymous
// requests never qualify regardless of any stored preference.
func (handler *Handler) showRestricted(httpRequest *http.Request) (bool, error) {
	claims := request.Claims(httpRequest)
	if claims == nil {
		return false, nil
	}
	return handler.access.ShowRestricted(httpRequest.Context(), claims.UserID)
}

// # Discovery Endpoints

/*
GET /api/v1/novels.

Description: Retrieves one page of the catalog under the full browse state
encoded in the query string. Filtering, sorting, and pagination all run over
the caller's visibility scope.

Request:
  - q: string (Case-insensitive substring over title, author, description)
  - genres / exclude_genres: []string (Comma-separated, any casing)
  - tags / exclude_tags: []string (Comma-separated, any casing)
  - status: string (Ongoing, Completed, Hiatus)
  - rating_min, rating_max: float (Inclusive bounds, default 0..10)
  - chapters_min, chapters_max: int (Inclusive bounds)
  - sort: string (key:dir pairs, e.g. rating:desc,title:asc)
  - page: int (Kept as supplied, clamped to the valid range)

Response:
  - 200: []Novel: One page plus pagination metadata
  - 503: ErrUnavailable: Catalog dump could not be fetched
*/
func (handler *Handler) listNovels(writer http.ResponseWriter, httpRequest *http.Request) {
	showRestricted, err := handler.showRestricted(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	novels, err := handler.catalog.Load(httpRequest.Context())
	if err != nil {
		respond.Error(writer, httpRequest, apperr.Unavailable("The catalog is temporarily unavailable", err))
		return
	}

	session := NewSession(novels, showRestricted)

	query := httpRequest.URL.Query()
	filter := filterFromQuery(query, session.Facets().MaxChapterCount)
	sortSpec := sortFromQuery(query.Get("sort"))
	page := pagination.PageFromRequest(httpRequest)

	session.Hydrate(filter, sortSpec, page)

	pageItems, effectivePage, total, _ := session.Results()

	respond.Paginated(writer, pageItems, pagination.NewMeta(effectivePage, PageSize, total))
}

/*
GET /api/v1/novels/facets.

Description: Retrieves the facet summary of the caller's visible pool:
distinct genres and tags (sentence-cased, sorted), statuses, and the
maximum chapter count for range sliders.

Response:
  - 200: Facets: Facet summary
  - 503: ErrUnavailable: Catalog dump could not be fetched
*/
func (handler *Handler) listFacets(writer http.ResponseWriter, httpRequest *http.Request) {
	showRestricted, err := handler.showRestricted(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	novels, err := handler.catalog.Load(httpRequest.Context())
	if err != nil {
		respond.Error(writer, httpRequest, apperr.Unavailable("The catalog is temporarily unavailable", err))
		return
	}

	respond.OK(writer, BuildFacets(ApplyVisibility(novels, showRestricted)))
}

/*
GET /api/v1/novels/{id}.

Description: Retrieves one novel by its derived identifier. A restricted
entry is reported as not found to callers outside its visibility scope, so
the response does not leak its existence.

Request:
  - id: string (Derived novel identifier)

Response:
  - 200: Novel: Success
  - 404: ErrNotFound: Unknown or not visible
*/
func (handler *Handler) getNovel(writer http.ResponseWriter, httpRequest *http.Request) {
	id := request.Param(httpRequest, "id")

	showRestricted, err := handler.showRestricted(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	novel, found, err := handler.catalog.Get(httpRequest.Context(), id)
	if err != nil {
		respond.Error(writer, httpRequest, apperr.Unavailable("The catalog is temporarily unavailable", err))
		return
	}
	if !found || (!showRestricted && IsRestricted(novel)) {
		respond.Error(writer, httpRequest, apperr.NotFound("Novel"))
		return
	}

	respond.OK(writer, novel)
}

/*
GET /api/v1/novels/{id}/similar.

Description: Retrieves up to five novels related to the given one, scored by
shared genres, tags, author, and description overlap. Individual signals can
be switched off via query toggles; candidates come from the caller's visible
pool only.

Request:
  - id: string (Derived novel identifier)
  - genres, tags, description, author: bool (Signal toggles, default true)
  - sort: string (Tie-break ordering, same format as the list endpoint)

Response:
  - 200: []ScoredNovel: Related novels, score descending
  - 404: ErrNotFound: Unknown or not visible
*/
func (handler *Handler) listSimilar(writer http.ResponseWriter, httpRequest *http.Request) {
	id := request.Param(httpRequest, "id")

	showRestricted, err := handler.showRestricted(httpRequest)
	if err != nil {
		respond.Error(writer, httpRequest, err)
		return
	}

	novels, err := handler.catalog.Load(httpRequest.Context())
	if err != nil {
		respond.Error(writer, httpRequest, apperr.Unavailable("The catalog is temporarily unavailable", err))
		return
	}

	pool := ApplyVisibility(novels, showRestricted)

	var focal *Novel
	for _, novel := range pool {
		if novel.ID == id {
			focal = novel
			break
		}
	}
	if focal == nil {
		respond.Error(writer, httpRequest, apperr.NotFound("Novel"))
		return
	}

	query := httpRequest.URL.Query()
	criteria := DefaultCriteria()
	criteria.Genres = boolParam(query.Get("genres"), criteria.Genres)
	criteria.Tags = boolParam(query.Get("tags"), criteria.Tags)
	criteria.Description = boolParam(query.Get("description"), criteria.Description)
	criteria.Author = boolParam(query.Get("author"), criteria.Author)

	sortSpec := sortFromQuery(query.Get("sort"))
	if len(sortSpec) == 0 {
		sortSpec = DefaultSortSpec()
	}

	respond.OK(writer, handler.recommender.Similar(focal, pool, sortSpec, criteria))
}

// # Query Parsing

// filterFromQuery assembles a committed filter state from URL parameters.
// Labels are sentence-cased so shared URLs match regardless of how the
// label was typed.
func filterFromQuery(query map[string][]string, maxChapters int) FilterSpec {
	spec := DefaultFilterSpec(maxChapters)

	spec.SearchTerm = first(query, "q")
	spec.Status = Status(first(query, "status"))

	for _, label := range splitLabels(first(query, "genres")) {
		spec.AddInclusion(FacetGenres, label)
	}
	for _, label := range splitLabels(first(query, "exclude_genres")) {
		spec.ToggleExclude(FacetGenres, sentenceCase(label))
	}
	for _, label := range splitLabels(first(query, "tags")) {
		spec.AddInclusion(FacetTags, label)
	}
	for _, label := range splitLabels(first(query, "exclude_tags")) {
		spec.ToggleExclude(FacetTags, sentenceCase(label))
	}

	spec.RatingRange[0] = floatParam(first(query, "rating_min"), spec.RatingRange[0])
	spec.RatingRange[1] = floatParam(first(query, "rating_max"), spec.RatingRange[1])
	spec.ChapterRange[0] = intParam(first(query, "chapters_min"), spec.ChapterRange[0])
	spec.ChapterRange[1] = intParam(first(query, "chapters_max"), spec.ChapterRange[1])

	return spec
}

// sortFromQuery parses a comma-separated list of key:dir pairs. A missing
// direction defaults to ascending; invalid keys are dropped downstream by
// [NormalizeSortSpec].
func sortFromQuery(raw string) SortSpec {
	var spec SortSpec
	for _, pair := range splitLabels(raw) {
		key, dir, _ := strings.Cut(pair, ":")
		option := SortOption{Key: Key(strings.ToLower(key)), Direction: Ascending}
		if strings.EqualFold(dir, string(Descending)) {
			option.Direction = Descending
		}
		spec = append(spec, option)
	}
	return spec
}

func first(query map[string][]string, name string) string {
	if values := query[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func splitLabels(raw string) []string {
	if raw == "" {
		return nil
	}
	var labels []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

func boolParam(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func floatParam(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
