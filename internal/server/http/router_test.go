package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/internal/server/store/drivers/sqlite"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.NewHS256([]byte("test-secret"), "inkwell-test", time.Hour)
	require.NoError(t, err)
	logger := slogx.New(slogx.Config{Service: "inkwell-test", Level: "error", Format: "text"})

	router := NewRouter(tokens, "test", st, logger)
	router.AuthService = &service.AuthService{Store: st, Signer: tokens}
	router.BlogService = &service.BlogService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, srv *httptest.Server, path, token string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestSignupThenPublishAndRead(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/signup", "", map[string]string{
		"fullname": "Alice Doe",
		"email":    "alice@example.com",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session service.Session
	decodeBody(t, resp, &session)
	require.NotEmpty(t, session.AccessToken)
	require.Equal(t, "alice", session.Username)

	resp = postJSON(t, srv, "/create-blog", session.AccessToken, map[string]any{
		"title":       "My First Post",
		"banner":      "https://example.com/banner.jpeg",
		"description": "Short intro",
		"content":     `{"blocks":[]}`,
		"tags":        []string{"intro"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created map[string]string
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created["blog_id"])

	resp = postJSON(t, srv, "/get_blog/"+created["blog_id"], "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Blog struct {
			BlogID   string `json:"blog_id"`
			Title    string `json:"title"`
			Activity struct {
				TotalReads int64 `json:"total_reads"`
			} `json:"activity"`
		} `json:"blog"`
	}
	decodeBody(t, resp, &got)
	require.Equal(t, created["blog_id"], got.Blog.BlogID)
	require.Equal(t, "My First Post", got.Blog.Title)
	require.Equal(t, int64(1), got.Blog.Activity.TotalReads)
}

func TestCreateBlogRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/create-blog", "", map[string]any{"title": "Nope"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "Access token is required", body.Error)
	require.Equal(t, "forbidden", body.Code)
}

func TestSigninErrorEnvelopes(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/signup", "", map[string]string{
		"fullname": "Bob Builder",
		"email":    "bob@example.com",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, srv, "/signin", "", map[string]string{
			"email":    "bob@example.com",
			"password": "Wr0ngPass",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		decodeBody(t, resp, &body)
		require.Equal(t, "incorrect password", body.Error)
		require.Equal(t, "unauthorized", body.Code)
	})

	t.Run("duplicate signup", func(t *testing.T) {
		resp := postJSON(t, srv, "/signup", "", map[string]string{
			"fullname": "Bob Again",
			"email":    "bob@example.com",
			"password": "Passw0rd",
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := postJSON(t, srv, "/signin", "", map[string]string{
			"email":    "ghost@example.com",
			"password": "Passw0rd",
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLatestBlogsAcceptsEmptyBody(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/latest-blogs", nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Blogs []json.RawMessage `json:"blogs"`
	}
	decodeBody(t, resp, &body)
	require.Empty(t, body.Blogs)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)

		var body struct {
			Status string `json:"status"`
		}
		decodeBody(t, resp, &body)
		_ = resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Equal(t, "ok", body.Status, path)
	}
}
