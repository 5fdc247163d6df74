package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/auth"
	"github.com/erazemk/drustvo/internal/store"
	"github.com/erazemk/drustvo/internal/tenant"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "org_id"

type contextKey string

const claimsKey contextKey = "claims"

var (
	errNoSession       = errors.New("missing session token")
	errRejectedSession = errors.New("rejected session")
)

// Authenticate requires a valid session and scopes the request to its
// organisation.
func Authenticate(issuer *auth.Issuer, db *sql.DB, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := session(r, issuer, db)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
			case errors.Is(err, errNoSession):
				jsonError(w, http.StatusUnauthorized, "not authenticated")
			case errors.Is(err, errRejectedSession):
				log.Debug("rejected session", zap.String("path", r.URL.Path), zap.Error(err))
				jsonError(w, http.StatusUnauthorized, "not authenticated")
			default:
				internalError(w, log, "checking session", err)
			}
		})
	}
}

// Identify scopes the request to the session's organisation when there is
// a valid one and passes it through unscoped when the token is missing or
// rejected. Failing to check the token is a server error.
func Identify(issuer *auth.Issuer, db *sql.DB, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := session(r, issuer, db)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
			case errors.Is(err, errNoSession):
				next.ServeHTTP(w, r)
			case errors.Is(err, errRejectedSession):
				log.Debug("ignoring session", zap.String("path", r.URL.Path), zap.Error(err))
				next.ServeHTTP(w, r)
			default:
				internalError(w, log, "checking session", err)
			}
		})
	}
}

// session verifies the request's token and checks that it is not revoked
// and that its organisation still exists. Tokens that fail those checks
// wrap errRejectedSession; any other error means the checks could not run.
func session(r *http.Request, issuer *auth.Issuer, db *sql.DB) (*auth.Claims, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, errNoSession
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRejectedSession, err)
	}

	revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", errRejectedSession)
	}

	if _, err := store.GetOrganisation(r.Context(), db, claims.OrganisationID()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", errRejectedSession, err)
		}
		return nil, fmt.Errorf("loading organisation: %w", err)
	}

	return claims, nil
}

// bearerToken reads the token from the Authorization header, falling back
// to the session cookie.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return tenant.WithOrganisation(ctx, claims.OrganisationID())
}

// GetClaims retrieves the session claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging logs HTTP requests with method, path, status, and duration.
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.RequestURI()),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
			)
		})
	}
}
