package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/internal/server/store"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	AuthService  *service.AuthService
	BlogService  *service.BlogService
	MediaService *service.MediaService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerBlogs()
	r.registerDiscovery()
	r.registerMedia()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	authHandler := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints get strict limits to slow brute forcing.
	r.Mux.Handle("POST /signup",
		httpx.Chain(http.HandlerFunc(authHandler.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /signin",
		httpx.Chain(http.HandlerFunc(authHandler.HandleSignin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /google-auth",
		httpx.Chain(http.HandlerFunc(authHandler.HandleGoogleAuth),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerBlogs() {
	blogHandler := &BlogHandler{BlogService: r.BlogService}

	r.Mux.Handle("POST /create-blog",
		httpx.Chain(http.HandlerFunc(blogHandler.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Public, but drafts and edit loads need the author's token.
	r.Mux.Handle("POST /get_blog/{blog_id}",
		httpx.Chain(http.HandlerFunc(blogHandler.HandleGet),
			httpx.OptionalAuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerDiscovery() {
	feedHandler := &FeedHandler{BlogService: r.BlogService}
	searchHandler := &SearchHandler{BlogService: r.BlogService}

	r.Mux.Handle("POST /latest-blogs",
		httpx.Chain(http.HandlerFunc(feedHandler.HandleLatest),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /all-latest-blogs-count",
		httpx.Chain(http.HandlerFunc(feedHandler.HandleLatestCount),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /trending-blogs",
		httpx.Chain(http.HandlerFunc(feedHandler.HandleTrending),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("POST /search-blogs",
		httpx.Chain(http.HandlerFunc(searchHandler.HandleSearchBlogs),
			httpx.OptionalAuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /search-blogs-count",
		httpx.Chain(http.HandlerFunc(searchHandler.HandleSearchBlogsCount),
			httpx.OptionalAuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /search-users",
		httpx.Chain(http.HandlerFunc(searchHandler.HandleSearchUsers),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("POST /user-profile",
		httpx.Chain(http.HandlerFunc(searchHandler.HandleUserProfile),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerMedia() {
	uploadHandler := &UploadHandler{MediaService: r.MediaService}

	r.Mux.Handle("GET /get-upload-url",
		httpx.Chain(http.HandlerFunc(uploadHandler.HandleUploadURL),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints get generous limits since monitors poll them.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
