package http

import (
	"net/http"

	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

type FeedHandler struct {
	BlogService *service.BlogService
}

type latestBlogsRequest struct {
	Page int `json:"page"`
}

// HandleLatest serves a page of the newest published blogs. No body means
// the first page.
func (h *FeedHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	var req latestBlogsRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	blogs, err := h.BlogService.Latest(r.Context(), req.Page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"blogs": toBlogList(blogs)})
}

// HandleLatestCount reports the total number of published blogs, for
// pagination on the latest feed.
func (h *FeedHandler) HandleLatestCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.BlogService.CountLatest(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"totalDocs": count})
}

// HandleTrending serves the most-read published blogs.
func (h *FeedHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.BlogService.Trending(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"blogs": toBlogList(blogs)})
}
