package handler

import (
	"context"
	"net/http"

	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
)

// UserService is the part of service.UserService used by the handlers
type UserService interface {
	List(ctx context.Context, actor *model.User) ([]*model.User, error)
	Get(ctx context.Context, actor *model.User, id string) (*model.User, error)
	Create(ctx context.Context, actor *model.User, req model.CreateUserRequest) (*model.User, error)
	UpdateProfile(ctx context.Context, actor *model.User, id string, req model.UpdateProfileRequest) (*model.User, error)
	SetMod(ctx context.Context, actor *model.User, id string, isMod bool) error
	Delete(ctx context.Context, actor *model.User, id string) error
	ResetPassword(ctx context.Context, actor *model.User, id string) error
}

// UserHandler handles the grove member endpoints and the own profile
type UserHandler struct {
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// MyProfile handles GET /api/my/profile
func (h *UserHandler) MyProfile(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}

// UpdateMyProfile handles PUT /api/my/profile
func (h *UserHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())
	h.updateProfile(w, r, actor, actor.ID)
}

// List handles GET /api/user
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		writeServiceError(w, r, "list users", err)
		return
	}
	WriteList(w, users)
}

// Get handles GET /api/user/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), middleware.GetUser(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get user", err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Create handles POST /api/user
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Create(r.Context(), middleware.GetUser(r.Context()), req)
	if err != nil {
		writeServiceError(w, r, "create user", err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

// UpdateProfile handles PUT /api/user/{id}/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, middleware.GetUser(r.Context()), r.PathValue("id"))
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request, actor *model.User, id string) {
	var req model.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.userService.UpdateProfile(r.Context(), actor, id, req); err != nil {
		writeServiceError(w, r, "update profile", err)
		return
	}
	WriteNoContent(w)
}

// MakeMod handles PUT /api/user/{id}/mod
func (h *UserHandler) MakeMod(w http.ResponseWriter, r *http.Request) {
	h.setMod(w, r, true)
}

// RevokeMod handles DELETE /api/user/{id}/mod
func (h *UserHandler) RevokeMod(w http.ResponseWriter, r *http.Request) {
	h.setMod(w, r, false)
}

func (h *UserHandler) setMod(w http.ResponseWriter, r *http.Request, isMod bool) {
	if err := h.userService.SetMod(r.Context(), middleware.GetUser(r.Context()), r.PathValue("id"), isMod); err != nil {
		writeServiceError(w, r, "change mod status", err)
		return
	}
	WriteNoContent(w)
}

// ResetPassword handles PUT /api/user/{id}/password
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.ResetPassword(r.Context(), middleware.GetUser(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "reset password", err)
		return
	}
	WriteNoContent(w)
}

// Delete handles DELETE /api/user/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.Delete(r.Context(), middleware.GetUser(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete user", err)
		return
	}
	WriteNoContent(w)
}
