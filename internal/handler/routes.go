package handler

import (
	"net/http"

	"github.com/Creastina/bambushain/internal/middleware"
)

// Handlers bundles every handler served by the API
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	User        *UserHandler
	Grove       *GroveHandler
	Character   *CharacterHandler
	CustomField *CustomFieldHandler
	Event       *EventHandler
	Support     *SupportHandler
	SSE         *SSEHandler
}

// RouteGuards are the per route middlewares
type RouteGuards struct {
	// Auth requires a valid login token
	Auth middleware.Middleware
	// Admin requires the admin API key
	Admin middleware.Middleware
	// LoginLimit rate limits the unauthenticated login routes
	LoginLimit middleware.Middleware
}

// RegisterRoutes registers all API routes on mux
func RegisterRoutes(mux *http.ServeMux, h Handlers, g RouteGuards) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return g.Auth(fn)
	}
	mod := func(fn http.HandlerFunc) http.Handler {
		return g.Auth(middleware.RequireMod(fn))
	}
	limited := func(fn http.HandlerFunc) http.Handler {
		return g.LoginLimit(fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return g.Admin(fn)
	}

	mux.HandleFunc("GET /health", h.Health.Health)

	// Login (public, rate limited)
	mux.Handle("POST /api/login/two-factor", limited(h.Auth.RequestTwoFactor))
	mux.Handle("POST /api/login", limited(h.Auth.Login))
	mux.Handle("POST /api/forgot-password", limited(h.Auth.ForgotPassword))
	mux.Handle("DELETE /api/login", auth(h.Auth.Logout))

	// Own profile
	mux.Handle("GET /api/my/profile", auth(h.User.MyProfile))
	mux.Handle("PUT /api/my/profile", auth(h.User.UpdateMyProfile))
	mux.Handle("PUT /api/my/password", auth(h.Auth.ChangePassword))

	// Grove
	mux.Handle("GET /api/grove", auth(h.Grove.Get))
	mux.Handle("PUT /api/grove/enabled", mod(h.Grove.Enable))
	mux.Handle("DELETE /api/grove/enabled", mod(h.Grove.Disable))
	mux.Handle("DELETE /api/grove", mod(h.Grove.Delete))

	// Users
	mux.Handle("GET /api/user", auth(h.User.List))
	mux.Handle("GET /api/user/{id}", auth(h.User.Get))
	mux.Handle("POST /api/user", mod(h.User.Create))
	mux.Handle("PUT /api/user/{id}/profile", mod(h.User.UpdateProfile))
	mux.Handle("DELETE /api/user/{id}", mod(h.User.Delete))
	mux.Handle("PUT /api/user/{id}/mod", mod(h.User.MakeMod))
	mux.Handle("DELETE /api/user/{id}/mod", mod(h.User.RevokeMod))
	mux.Handle("PUT /api/user/{id}/password", mod(h.User.ResetPassword))

	// Characters
	mux.Handle("GET /api/final-fantasy/character", auth(h.Character.List))
	mux.Handle("POST /api/final-fantasy/character", auth(h.Character.Create))
	mux.Handle("GET /api/final-fantasy/character/{id}", auth(h.Character.Get))
	mux.Handle("PUT /api/final-fantasy/character/{id}", auth(h.Character.Update))
	mux.Handle("DELETE /api/final-fantasy/character/{id}", auth(h.Character.Delete))

	mux.Handle("GET /api/final-fantasy/character/{characterId}/crafter", auth(h.Character.ListCrafters))
	mux.Handle("POST /api/final-fantasy/character/{characterId}/crafter", auth(h.Character.CreateCrafter))
	mux.Handle("GET /api/final-fantasy/character/{characterId}/crafter/{id}", auth(h.Character.GetCrafter))
	mux.Handle("PUT /api/final-fantasy/character/{characterId}/crafter/{id}", auth(h.Character.UpdateCrafter))
	mux.Handle("DELETE /api/final-fantasy/character/{characterId}/crafter/{id}", auth(h.Character.DeleteCrafter))

	mux.Handle("GET /api/final-fantasy/character/{characterId}/fighter", auth(h.Character.ListFighters))
	mux.Handle("POST /api/final-fantasy/character/{characterId}/fighter", auth(h.Character.CreateFighter))
	mux.Handle("GET /api/final-fantasy/character/{characterId}/fighter/{id}", auth(h.Character.GetFighter))
	mux.Handle("PUT /api/final-fantasy/character/{characterId}/fighter/{id}", auth(h.Character.UpdateFighter))
	mux.Handle("DELETE /api/final-fantasy/character/{characterId}/fighter/{id}", auth(h.Character.DeleteFighter))

	mux.Handle("GET /api/final-fantasy/character/{characterId}/housing", auth(h.Character.ListHousings))
	mux.Handle("POST /api/final-fantasy/character/{characterId}/housing", auth(h.Character.CreateHousing))
	mux.Handle("GET /api/final-fantasy/character/{characterId}/housing/{id}", auth(h.Character.GetHousing))
	mux.Handle("PUT /api/final-fantasy/character/{characterId}/housing/{id}", auth(h.Character.UpdateHousing))
	mux.Handle("DELETE /api/final-fantasy/character/{characterId}/housing/{id}", auth(h.Character.DeleteHousing))

	mux.Handle("GET /api/final-fantasy/free-company", auth(h.Character.ListFreeCompanies))
	mux.Handle("POST /api/final-fantasy/free-company", auth(h.Character.CreateFreeCompany))
	mux.Handle("GET /api/final-fantasy/free-company/{id}", auth(h.Character.GetFreeCompany))
	mux.Handle("PUT /api/final-fantasy/free-company/{id}", auth(h.Character.UpdateFreeCompany))
	mux.Handle("DELETE /api/final-fantasy/free-company/{id}", auth(h.Character.DeleteFreeCompany))

	// Custom fields
	mux.Handle("GET /api/final-fantasy/custom-field", auth(h.CustomField.List))
	mux.Handle("POST /api/final-fantasy/custom-field", auth(h.CustomField.Create))
	mux.Handle("GET /api/final-fantasy/custom-field/{id}", auth(h.CustomField.Get))
	mux.Handle("PUT /api/final-fantasy/custom-field/{id}", auth(h.CustomField.Update))
	mux.Handle("DELETE /api/final-fantasy/custom-field/{id}", auth(h.CustomField.Delete))
	mux.Handle("PUT /api/final-fantasy/custom-field/{id}/position/{position}", auth(h.CustomField.Move))
	mux.Handle("GET /api/final-fantasy/custom-field/{id}/option", auth(h.CustomField.ListOptions))
	mux.Handle("POST /api/final-fantasy/custom-field/{id}/option", auth(h.CustomField.CreateOption))
	mux.Handle("PUT /api/final-fantasy/custom-field/{fieldId}/option/{id}", auth(h.CustomField.UpdateOption))
	mux.Handle("DELETE /api/final-fantasy/custom-field/{fieldId}/option/{id}", auth(h.CustomField.DeleteOption))

	// Calendar
	mux.Handle("GET /api/bamboo-grove/event", auth(h.Event.List))
	mux.Handle("POST /api/bamboo-grove/event", auth(h.Event.Create))
	mux.Handle("PUT /api/bamboo-grove/event/{id}", auth(h.Event.Update))
	mux.Handle("DELETE /api/bamboo-grove/event/{id}", auth(h.Event.Delete))

	// Support
	mux.Handle("POST /api/support", auth(h.Support.SendRequest))
	mux.Handle("POST /api/glitchtip", auth(h.Support.ReportError))

	// Server sent events
	mux.Handle("GET /sse/event", auth(h.SSE.Events))
	mux.Handle("GET /sse/calendar", auth(h.SSE.Calendar))

	// Grove administration
	mux.Handle("GET /api/admin/grove", admin(h.Grove.AdminList))
	mux.Handle("POST /api/admin/grove", admin(h.Grove.AdminCreate))
}
