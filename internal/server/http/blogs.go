package http

import (
	"net/http"
	"time"

	"github.com/inkwellhq/inkwell/internal/server/domain"
	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

type BlogHandler struct {
	BlogService *service.BlogService
}

// blogJSON is the wire shape for a single blog, shared by authoring and
// discovery endpoints.
type blogJSON struct {
	BlogID      string              `json:"blog_id"`
	Title       string              `json:"title"`
	Banner      string              `json:"banner,omitempty"`
	Description string              `json:"description,omitempty"`
	Content     string              `json:"content,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Draft       bool                `json:"draft"`
	Activity    domain.BlogActivity `json:"activity"`
	Author      domain.Author       `json:"author"`
	PublishedAt string              `json:"published_at"`
}

func toBlogJSON(b domain.Blog) blogJSON {
	return blogJSON{
		BlogID:      b.Slug,
		Title:       b.Title,
		Banner:      b.Banner,
		Description: b.Description,
		Content:     b.Content,
		Tags:        b.Tags,
		Draft:       b.Draft,
		Activity:    b.Activity,
		Author:      b.Author,
		PublishedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBlogList(blogs []domain.Blog) []blogJSON {
	out := make([]blogJSON, 0, len(blogs))
	for _, b := range blogs {
		// Feed cards never carry the full content.
		b.Content = ""
		out = append(out, toBlogJSON(b))
	}
	return out
}

type createBlogRequest struct {
	BlogID      string   `json:"blog_id"` // non-empty for updates
	Title       string   `json:"title"`
	Banner      string   `json:"banner"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Draft       bool     `json:"draft"`
}

// HandleCreate creates or updates a blog for the authenticated user.
func (h *BlogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	authorID := httpx.UserIDFromContext(r.Context())

	blog, err := h.BlogService.Publish(r.Context(), authorID, service.BlogInput{
		Slug:        req.BlogID,
		Title:       req.Title,
		Banner:      req.Banner,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		Draft:       req.Draft,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"blog_id": blog.Slug})
}

type getBlogRequest struct {
	Mode string `json:"mode"` // "edit" skips the read-count increment
}

// HandleGet fetches one blog by slug. Plain reads of published posts bump
// read counters; editor loads pass mode "edit" to skip that.
func (h *BlogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// The body is optional; plain readers send the slug alone.
	var req getBlogRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	// Optional auth: drafts are only visible to their author.
	requesterID := httpx.UserIDFromContext(r.Context())

	blog, err := h.BlogService.Get(r.Context(), r.PathValue("blog_id"), requesterID, req.Mode == "edit")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]blogJSON{"blog": toBlogJSON(blog)})
}
