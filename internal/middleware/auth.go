package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Creastina/bambushain/internal/model"
	"github.com/Creastina/bambushain/internal/service"
)

// Authenticator resolves a raw token to its user and grove
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, *model.Grove, error)
}

const (
	UserKey  contextKey = "user"
	GroveKey contextKey = "grove"
	TokenKey contextKey = "token"
)

// tokenFromRequest reads the token from "Authorization: Bearer <token>",
// "Authorization: Panda <token>" or the auth cookie, in that order
func tokenFromRequest(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && (strings.EqualFold(scheme, "Bearer") || strings.EqualFold(scheme, "Panda")) {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Auth returns a middleware that requires a valid login token. The user,
// grove and token are stored in the request context.
func Auth(auth Authenticator, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				model.NewUnauthorizedError("missing authorization").WriteJSON(w)
				return
			}

			user, grove, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) {
					model.NewUnauthorizedError("invalid or expired token").WriteJSON(w)
					return
				}
				slog.Error("failed to authenticate",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.Any("error", err),
				)
				model.NewDatabaseError().WriteJSON(w)
				return
			}

			if !grove.IsEnabled && !user.IsMod {
				model.NewGroveDisabledError().WriteJSON(w)
				return
			}

			noteUser(r.Context(), user.ID)

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, GroveKey, grove)
			ctx = context.WithValue(ctx, TokenKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMod rejects users without the mod flag. Must run after Auth.
func RequireMod(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		if user == nil {
			model.NewUnauthorizedError("missing authorization").WriteJSON(w)
			return
		}
		if !user.IsMod {
			model.NewInsufficientRightsError("You need to be a mod").WriteJSON(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminKey protects the grove administration with a static API key sent
// as "Authorization: Bearer <key>". An empty key rejects every request.
func AdminKey(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, given, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if key == "" || !found || !strings.EqualFold(scheme, "Bearer") ||
				subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
				model.NewUnauthorizedError("invalid api key").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUser extracts the authenticated user from context
func GetUser(ctx context.Context) *model.User {
	if user, ok := ctx.Value(UserKey).(*model.User); ok {
		return user
	}
	return nil
}

// GetGrove extracts the grove of the authenticated user from context
func GetGrove(ctx context.Context) *model.Grove {
	if grove, ok := ctx.Value(GroveKey).(*model.Grove); ok {
		return grove
	}
	return nil
}

// GetToken extracts the raw login token from context
func GetToken(ctx context.Context) string {
	if token, ok := ctx.Value(TokenKey).(string); ok {
		return token
	}
	return ""
}

// WithUser returns a context carrying user and grove, as Auth does
func WithUser(ctx context.Context, user *model.User, grove *model.Grove) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	return context.WithValue(ctx, GroveKey, grove)
}
