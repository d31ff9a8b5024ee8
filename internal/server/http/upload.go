package http

import (
	"net/http"

	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

type UploadHandler struct {
	MediaService *service.MediaService
}

// HandleUploadURL hands out a short-lived presigned PUT URL for a banner
// or avatar image.
func (h *UploadHandler) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	target, err := h.MediaService.UploadURL(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("presign upload url", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.KindInternal, "something went wrong, please try again")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"upload_url": target.UploadURL})
}
