package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/auth"
	"github.com/erazemk/drustvo/internal/model"
	"github.com/erazemk/drustvo/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AuthHandler handles organisation sessions.
type AuthHandler struct {
	DB           *sql.DB
	Issuer       *auth.Issuer
	Log          *zap.Logger
	SecureCookie bool
}

type credentials struct {
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token        string              `json:"token"`
	Organisation *model.Organisation `json:"organisation"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and password required")
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(w, h.Log, "hashing password", err)
		return
	}

	org, err := store.CreateOrganisation(r.Context(), h.DB, req.Name, hash)
	if errors.Is(err, store.ErrExists) {
		jsonError(w, http.StatusConflict, "organisation name already taken")
		return
	}
	if err != nil {
		internalError(w, h.Log, "creating organisation", err)
		return
	}

	h.Log.Info("organisation registered", zap.String("organisation_id", org.ID), zap.String("name", org.Name))
	h.startSession(w, http.StatusCreated, org)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "name and password required")
		return
	}

	org, err := store.GetOrganisationByName(r.Context(), h.DB, req.Name)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		internalError(w, h.Log, "looking up organisation", err)
		return
	}

	if !auth.CheckPassword(org.PasswordHash, req.Password) {
		h.Log.Warn("login failed", zap.String("name", req.Name), zap.String("remote", r.RemoteAddr))
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.Log.Info("organisation logged in", zap.String("organisation_id", org.ID))
	h.startSession(w, http.StatusOK, org)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, org *model.Organisation) {
	token, _, err := h.Issuer.Issue(org.ID, org.Name)
	if err != nil {
		internalError(w, h.Log, "issuing token", err)
		return
	}

	http.SetCookie(w, h.cookie(token, int(h.Issuer.TTL().Seconds())))
	jsonResponse(w, status, sessionResponse{Token: token, Organisation: org})
}

// cookie builds the session cookie. A negative maxAge deletes it.
func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if h.SecureCookie {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	expires := time.Now().Add(h.Issuer.TTL())
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.OrganisationID(), expires); err != nil {
		internalError(w, h.Log, "revoking token", err)
		return
	}

	http.SetCookie(w, h.cookie("", -1))
	h.Log.Info("organisation logged out", zap.String("organisation_id", claims.OrganisationID()))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	org, err := store.GetOrganisation(r.Context(), h.DB, claims.OrganisationID())
	if err != nil {
		internalError(w, h.Log, "getting organisation", err)
		return
	}
	jsonResponse(w, http.StatusOK, org)
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, "current and new password required")
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	org, err := store.GetOrganisation(r.Context(), h.DB, claims.OrganisationID())
	if err != nil {
		internalError(w, h.Log, "getting organisation", err)
		return
	}

	if !auth.CheckPassword(org.PasswordHash, req.CurrentPassword) {
		jsonError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		internalError(w, h.Log, "hashing password", err)
		return
	}

	if err := store.UpdateOrganisationPassword(r.Context(), h.DB, org.ID, hash); err != nil {
		internalError(w, h.Log, "updating password", err)
		return
	}

	h.Log.Info("organisation changed password", zap.String("organisation_id", org.ID))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
