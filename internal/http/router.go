package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/clipboardhq/clipboard/internal/oauth"
	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/internal/store"
	"github.com/clipboardhq/clipboard/pkg/httpx"
	"github.com/clipboardhq/clipboard/pkg/jwtx"
	"github.com/clipboardhq/clipboard/pkg/slogx"

	_ "github.com/clipboardhq/clipboard/api/clipboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	cookies     CookieConfig
	frontendURL string

	AuthService  *service.AuthService
	OAuthService *service.OAuthService
	ResetService *service.ResetService
	UserService  *service.UserService
	Providers    *oauth.Registry
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion, frontendURL string,
	cookies CookieConfig,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookies:      cookies,
		frontendURL:  frontendURL,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerOAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Clipboard Account Service API
//	@version		0.1.0
//	@description	Account, session, and profile management for the Clipboard app.
//	@description
//	@description				Access and refresh tokens are HS256 JWTs delivered as HttpOnly cookies.
//	@description				The access token is also accepted as a Bearer token for non-browser clients.
//
//	@contact.name				Clipboard Team
//	@contact.url				https://github.com/clipboardhq/clipboard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential endpoints take the strict limit; they are the brute
	// force surface.
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(&RegisterHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(&LogoutHandler{AuthService: r.AuthService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(&RefreshHandler{AuthService: r.AuthService, Cookies: r.cookies},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/forgot-password",
		httpx.Chain(&ForgotPasswordHandler{ResetService: r.ResetService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/reset-password",
		httpx.Chain(&ResetPasswordHandler{ResetService: r.ResetService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerOAuth() {
	h := &OAuthHandler{
		Providers:   r.Providers,
		OAuth:       r.OAuthService,
		Auth:        r.AuthService,
		Cookies:     r.cookies,
		FrontendURL: r.frontendURL,
	}

	r.Mux.Handle("GET /api/auth/{provider}",
		httpx.Chain(http.HandlerFunc(h.HandleRedirect),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /api/auth/{provider}/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	profile := &ProfileHandler{UserService: r.UserService, Cookies: r.cookies}

	secured := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /api/users/profile", secured(http.HandlerFunc(profile.HandleGet)))
	r.Mux.Handle("PATCH /api/users/profile", secured(http.HandlerFunc(profile.HandlePatch)))
	r.Mux.Handle("DELETE /api/users/profile", secured(http.HandlerFunc(profile.HandleDelete)))

	// Admin listing additionally requires the ADMIN role.
	r.Mux.Handle("GET /api/users",
		httpx.Chain(&UsersHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
