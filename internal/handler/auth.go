package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
)

// AuthService is the part of service.AuthService used by the handlers
type AuthService interface {
	RequestTwoFactor(ctx context.Context, email, password string) error
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
}

// AuthHandler handles login, logout and password endpoints
type AuthHandler struct {
	authService  AuthService
	cookieName   string
	cookieSecure bool
	tokenTTL     time.Duration
}

// AuthHandlerConfig holds the dependencies of the auth handler
type AuthHandlerConfig struct {
	AuthService  AuthService
	CookieName   string
	CookieSecure bool
	TokenTTL     time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		authService:  cfg.AuthService,
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.CookieSecure,
		tokenTTL:     cfg.TokenTTL,
	}
}

// RequestTwoFactor handles POST /api/login/two-factor
func (h *AuthHandler) RequestTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req model.TwoFactorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authService.RequestTwoFactor(r.Context(), req.Email, req.Password); err != nil {
		writeServiceError(w, r, "request two factor code", err)
		return
	}

	WriteNoContent(w)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	http.SetCookie(w, h.cookie(result.Token, int(h.tokenTTL.Seconds())))
	WriteJSON(w, http.StatusOK, result)
}

// Logout handles DELETE /api/login
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.GetToken(r.Context())); err != nil {
		writeServiceError(w, r, "logout", err)
		return
	}

	http.SetCookie(w, h.cookie("", -1))
	WriteNoContent(w)
}

// ForgotPassword handles POST /api/forgot-password. The response is the same
// whether or not the address is known.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, "forgot password", err)
		return
	}

	WriteNoContent(w)
}

// ChangePassword handles PUT /api/my/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req model.ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, "change password", err)
		return
	}

	// All tokens were revoked, including the one in the cookie
	http.SetCookie(w, h.cookie("", -1))
	WriteNoContent(w)
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}
