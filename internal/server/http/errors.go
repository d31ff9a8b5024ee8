package http

import (
	"errors"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/server/identity"
	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// writeServiceError maps service sentinel errors onto the error-kind
// taxonomy. Anything unrecognized is logged and reported as internal without
// leaking detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrFullnameTooShort),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrDescriptionInvalid),
		errors.Is(err, service.ErrBannerRequired),
		errors.Is(err, service.ErrContentRequired),
		errors.Is(err, service.ErrTagsInvalid),
		errors.Is(err, service.ErrSearchQueryRequired):
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, err.Error())

	case errors.Is(err, service.ErrWrongPassword):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized, err.Error())

	case errors.Is(err, identity.ErrUntrustedAssertion):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.KindUnauthorized,
			"failed to authenticate you with google, try with some other google account")

	case errors.Is(err, service.ErrNotBlogAuthor):
		httpx.WriteError(w, http.StatusForbidden, httpx.KindForbidden, err.Error())

	case errors.Is(err, service.ErrEmailNotFound),
		errors.Is(err, service.ErrBlogNotFound),
		errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.KindNotFound, err.Error())

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUseGoogleLogin),
		errors.Is(err, service.ErrUseLocalLogin):
		httpx.WriteError(w, http.StatusConflict, httpx.KindConflict, err.Error())

	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.KindInternal,
			"something went wrong, please try again")
	}
}

// decodeJSON parses the request body into v, reporting malformed input as a
// validation error. Returns false when a response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := jsonDecode(r, v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.KindValidation, "invalid request body")
		return false
	}
	return true
}
