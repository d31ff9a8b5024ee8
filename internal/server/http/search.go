package http

import (
	"net/http"

	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

type SearchHandler struct {
	BlogService *service.BlogService
}

type searchBlogsRequest struct {
	Tag         string `json:"tag"`
	Query       string `json:"query"`
	Author      string `json:"author"`
	ExcludeBlog string `json:"eliminate_blog"`
	Drafts      bool   `json:"draft"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
}

func (req searchBlogsRequest) toService(requesterID string) service.SearchRequest {
	return service.SearchRequest{
		Tag:         req.Tag,
		Query:       req.Query,
		Author:      req.Author,
		ExcludeSlug: req.ExcludeBlog,
		Drafts:      req.Drafts,
		RequesterID: requesterID,
		Page:        req.Page,
		Limit:       req.Limit,
	}
}

// HandleSearchBlogs filters published blogs by tag, text query or author.
func (h *SearchHandler) HandleSearchBlogs(w http.ResponseWriter, r *http.Request) {
	var req searchBlogsRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	blogs, err := h.BlogService.Search(r.Context(), req.toService(httpx.UserIDFromContext(r.Context())))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"blogs": toBlogList(blogs)})
}

// HandleSearchBlogsCount returns the total match count for the same
// filters HandleSearchBlogs accepts.
func (h *SearchHandler) HandleSearchBlogsCount(w http.ResponseWriter, r *http.Request) {
	var req searchBlogsRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	count, err := h.BlogService.CountSearch(r.Context(), req.toService(httpx.UserIDFromContext(r.Context())))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"totalDocs": count})
}

type searchUsersRequest struct {
	Query string `json:"query"`
}

// HandleSearchUsers matches users by username substring.
func (h *SearchHandler) HandleSearchUsers(w http.ResponseWriter, r *http.Request) {
	var req searchUsersRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	users, err := h.BlogService.SearchUsers(r.Context(), req.Query)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

type userProfileRequest struct {
	Username string `json:"username"`
}

// HandleUserProfile returns the public profile for one username.
func (h *SearchHandler) HandleUserProfile(w http.ResponseWriter, r *http.Request) {
	var req userProfileRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.BlogService.Profile(r.Context(), req.Username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profile)
}
