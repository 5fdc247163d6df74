// Package api wires the HTTP surface: organisation sessions and item photos
// over JSON, everything else through GraphQL.
package api

import (
	"database/sql"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/auth"
	"github.com/erazemk/drustvo/internal/metrics"
)

// Options holds the router's dependencies.
type Options struct {
	DB      *sql.DB
	Issuer  *auth.Issuer
	Schema  *graphql.Schema
	Log     *zap.Logger
	Metrics *metrics.Metrics

	// MetricsPath mounts the Prometheus handler when Metrics is set.
	MetricsPath string
	// SecureCookie marks the session cookie Secure and SameSite=None.
	SecureCookie bool
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		if opts.Metrics != nil {
			h = opts.Metrics.Middleware(pattern, h)
		}
		mux.Handle(pattern, h)
	}

	authHandler := &AuthHandler{DB: opts.DB, Issuer: opts.Issuer, Log: log, SecureCookie: opts.SecureCookie}
	itemsHandler := &ItemsHandler{DB: opts.DB, Log: log}

	authMW := Authenticate(opts.Issuer, opts.DB, log)
	identifyMW := Identify(opts.Issuer, opts.DB, log)

	// Public: register and login.
	handle("POST /api/auth/register", http.HandlerFunc(authHandler.Register))
	handle("POST /api/auth/login", http.HandlerFunc(authHandler.Login))

	// Session.
	handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Item photos.
	handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// GraphQL resolves the tenant itself so it can answer UNAUTHENTICATED
	// in the GraphQL error format.
	if opts.Schema != nil {
		handle("POST /graphql", identifyMW(&relay.Handler{Schema: opts.Schema}))
	}

	if opts.Metrics != nil && opts.MetricsPath != "" {
		mux.Handle("GET "+opts.MetricsPath, opts.Metrics.Handler())
	}

	return Logging(log)(mux)
}
