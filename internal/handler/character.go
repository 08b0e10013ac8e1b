package handler

import (
	"context"
	"net/http"

	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
)

// CharacterService is the part of service.CharacterService used by the handlers
type CharacterService interface {
	List(ctx context.Context, userID string) ([]*model.Character, error)
	Get(ctx context.Context, userID, id string) (*model.Character, error)
	Create(ctx context.Context, userID string, req model.CharacterRequest) (*model.Character, error)
	Update(ctx context.Context, userID, id string, req model.CharacterRequest) (*model.Character, error)
	Delete(ctx context.Context, userID, id string) error

	ListCrafters(ctx context.Context, userID, characterID string) ([]*model.Crafter, error)
	GetCrafter(ctx context.Context, userID, characterID, id string) (*model.Crafter, error)
	CreateCrafter(ctx context.Context, userID, characterID string, req model.CrafterRequest) (*model.Crafter, error)
	UpdateCrafter(ctx context.Context, userID, characterID, id string, req model.CrafterRequest) (*model.Crafter, error)
	DeleteCrafter(ctx context.Context, userID, characterID, id string) error

	ListFighters(ctx context.Context, userID, characterID string) ([]*model.Fighter, error)
	GetFighter(ctx context.Context, userID, characterID, id string) (*model.Fighter, error)
	CreateFighter(ctx context.Context, userID, characterID string, req model.FighterRequest) (*model.Fighter, error)
	UpdateFighter(ctx context.Context, userID, characterID, id string, req model.FighterRequest) (*model.Fighter, error)
	DeleteFighter(ctx context.Context, userID, characterID, id string) error

	ListHousings(ctx context.Context, userID, characterID string) ([]*model.Housing, error)
	GetHousing(ctx context.Context, userID, characterID, id string) (*model.Housing, error)
	CreateHousing(ctx context.Context, userID, characterID string, req model.HousingRequest) (*model.Housing, error)
	UpdateHousing(ctx context.Context, userID, characterID, id string, req model.HousingRequest) (*model.Housing, error)
	DeleteHousing(ctx context.Context, userID, characterID, id string) error

	ListFreeCompanies(ctx context.Context, userID string) ([]*model.FreeCompany, error)
	GetFreeCompany(ctx context.Context, userID, id string) (*model.FreeCompany, error)
	CreateFreeCompany(ctx context.Context, userID string, req model.FreeCompanyRequest) (*model.FreeCompany, error)
	UpdateFreeCompany(ctx context.Context, userID, id string, req model.FreeCompanyRequest) (*model.FreeCompany, error)
	DeleteFreeCompany(ctx context.Context, userID, id string) error
}

// CharacterHandler handles characters and their crafters, fighters and
// housing, plus free companies. Everything is scoped to the logged in user.
type CharacterHandler struct {
	characterService CharacterService
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(characterService CharacterService) *CharacterHandler {
	return &CharacterHandler{characterService: characterService}
}

func userID(r *http.Request) string {
	return middleware.GetUser(r.Context()).ID
}

// ============================================================================
// Characters
// ============================================================================

// List handles GET /api/final-fantasy/character
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	characters, err := h.characterService.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, "list characters", err)
		return
	}
	WriteList(w, characters)
}

// Get handles GET /api/final-fantasy/character/{id}
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	character, err := h.characterService.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get character", err)
		return
	}
	WriteJSON(w, http.StatusOK, character)
}

// Create handles POST /api/final-fantasy/character
func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CharacterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	character, err := h.characterService.Create(r.Context(), userID(r), req)
	if err != nil {
		writeServiceError(w, r, "create character", err)
		return
	}
	WriteJSON(w, http.StatusCreated, character)
}

// Update handles PUT /api/final-fantasy/character/{id}
func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.CharacterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.characterService.Update(r.Context(), userID(r), r.PathValue("id"), req); err != nil {
		writeServiceError(w, r, "update character", err)
		return
	}
	WriteNoContent(w)
}

// Delete handles DELETE /api/final-fantasy/character/{id}
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.characterService.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete character", err)
		return
	}
	WriteNoContent(w)
}

// ============================================================================
// Crafters
// ============================================================================

// ListCrafters handles GET /api/final-fantasy/character/{characterId}/crafter
func (h *CharacterHandler) ListCrafters(w http.ResponseWriter, r *http.Request) {
	crafters, err := h.characterService.ListCrafters(r.Context(), userID(r), r.PathValue("characterId"))
	if err != nil {
		writeServiceError(w, r, "list crafters", err)
		return
	}
	WriteList(w, crafters)
}

// GetCrafter handles GET /api/final-fantasy/character/{characterId}/crafter/{id}
func (h *CharacterHandler) GetCrafter(w http.ResponseWriter, r *http.Request) {
	crafter, err := h.characterService.GetCrafter(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get crafter", err)
		return
	}
	WriteJSON(w, http.StatusOK, crafter)
}

// CreateCrafter handles POST /api/final-fantasy/character/{characterId}/crafter
func (h *CharacterHandler) CreateCrafter(w http.ResponseWriter, r *http.Request) {
	var req model.CrafterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	crafter, err := h.characterService.CreateCrafter(r.Context(), userID(r), r.PathValue("characterId"), req)
	if err != nil {
		writeServiceError(w, r, "create crafter", err)
		return
	}
	WriteJSON(w, http.StatusCreated, crafter)
}

// UpdateCrafter handles PUT /api/final-fantasy/character/{characterId}/crafter/{id}
func (h *CharacterHandler) UpdateCrafter(w http.ResponseWriter, r *http.Request) {
	var req model.CrafterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.characterService.UpdateCrafter(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id"), req); err != nil {
		writeServiceError(w, r, "update crafter", err)
		return
	}
	WriteNoContent(w)
}

// DeleteCrafter handles DELETE /api/final-fantasy/character/{characterId}/crafter/{id}
func (h *CharacterHandler) DeleteCrafter(w http.ResponseWriter, r *http.Request) {
	if err := h.characterService.DeleteCrafter(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete crafter", err)
		return
	}
	WriteNoContent(w)
}

// ============================================================================
// Fighters
// ============================================================================

// ListFighters handles GET /api/final-fantasy/character/{characterId}/fighter
func (h *CharacterHandler) ListFighters(w http.ResponseWriter, r *http.Request) {
	fighters, err := h.characterService.ListFighters(r.Context(), userID(r), r.PathValue("characterId"))
	if err != nil {
		writeServiceError(w, r, "list fighters", err)
		return
	}
	WriteList(w, fighters)
}

// GetFighter handles GET /api/final-fantasy/character/{characterId}/fighter/{id}
func (h *CharacterHandler) GetFighter(w http.ResponseWriter, r *http.Request) {
	fighter, err := h.characterService.GetFighter(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get fighter", err)
		return
	}
	WriteJSON(w, http.StatusOK, fighter)
}

// CreateFighter handles POST /api/final-fantasy/character/{characterId}/fighter
func (h *CharacterHandler) CreateFighter(w http.ResponseWriter, r *http.Request) {
	var req model.FighterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fighter, err := h.characterService.CreateFighter(r.Context(), userID(r), r.PathValue("characterId"), req)
	if err != nil {
		writeServiceError(w, r, "create fighter", err)
		return
	}
	WriteJSON(w, http.StatusCreated, fighter)
}

// UpdateFighter handles PUT /api/final-fantasy/character/{characterId}/fighter/{id}
func (h *CharacterHandler) UpdateFighter(w http.ResponseWriter, r *http.Request) {
	var req model.FighterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.characterService.UpdateFighter(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id"), req); err != nil {
		writeServiceError(w, r, "update fighter", err)
		return
	}
	WriteNoContent(w)
}

// DeleteFighter handles DELETE /api/final-fantasy/character/{characterId}/fighter/{id}
func (h *CharacterHandler) DeleteFighter(w http.ResponseWriter, r *http.Request) {
	if err := h.characterService.DeleteFighter(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete fighter", err)
		return
	}
	WriteNoContent(w)
}

// ============================================================================
// Housing
// ============================================================================

// ListHousings handles GET /api/final-fantasy/character/{characterId}/housing
func (h *CharacterHandler) ListHousings(w http.ResponseWriter, r *http.Request) {
	housings, err := h.characterService.ListHousings(r.Context(), userID(r), r.PathValue("characterId"))
	if err != nil {
		writeServiceError(w, r, "list housing", err)
		return
	}
	WriteList(w, housings)
}

// GetHousing handles GET /api/final-fantasy/character/{characterId}/housing/{id}
func (h *CharacterHandler) GetHousing(w http.ResponseWriter, r *http.Request) {
	housing, err := h.characterService.GetHousing(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get housing", err)
		return
	}
	WriteJSON(w, http.StatusOK, housing)
}

// CreateHousing handles POST /api/final-fantasy/character/{characterId}/housing
func (h *CharacterHandler) CreateHousing(w http.ResponseWriter, r *http.Request) {
	var req model.HousingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	housing, err := h.characterService.CreateHousing(r.Context(), userID(r), r.PathValue("characterId"), req)
	if err != nil {
		writeServiceError(w, r, "create housing", err)
		return
	}
	WriteJSON(w, http.StatusCreated, housing)
}

// UpdateHousing handles PUT /api/final-fantasy/character/{characterId}/housing/{id}
func (h *CharacterHandler) UpdateHousing(w http.ResponseWriter, r *http.Request) {
	var req model.HousingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.characterService.UpdateHousing(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id"), req); err != nil {
		writeServiceError(w, r, "update housing", err)
		return
	}
	WriteNoContent(w)
}

// DeleteHousing handles DELETE /api/final-fantasy/character/{characterId}/housing/{id}
func (h *CharacterHandler) DeleteHousing(w http.ResponseWriter, r *http.Request) {
	if err := h.characterService.DeleteHousing(r.Context(), userID(r), r.PathValue("characterId"), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete housing", err)
		return
	}
	WriteNoContent(w)
}

// ============================================================================
// Free companies
// ============================================================================

// ListFreeCompanies handles GET /api/final-fantasy/free-company
func (h *CharacterHandler) ListFreeCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.characterService.ListFreeCompanies(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, "list free companies", err)
		return
	}
	WriteList(w, companies)
}

// GetFreeCompany handles GET /api/final-fantasy/free-company/{id}
func (h *CharacterHandler) GetFreeCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.characterService.GetFreeCompany(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "get free company", err)
		return
	}
	WriteJSON(w, http.StatusOK, company)
}

// CreateFreeCompany handles POST /api/final-fantasy/free-company
func (h *CharacterHandler) CreateFreeCompany(w http.ResponseWriter, r *http.Request) {
	var req model.FreeCompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	company, err := h.characterService.CreateFreeCompany(r.Context(), userID(r), req)
	if err != nil {
		writeServiceError(w, r, "create free company", err)
		return
	}
	WriteJSON(w, http.StatusCreated, company)
}

// UpdateFreeCompany handles PUT /api/final-fantasy/free-company/{id}
func (h *CharacterHandler) UpdateFreeCompany(w http.ResponseWriter, r *http.Request) {
	var req model.FreeCompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.characterService.UpdateFreeCompany(r.Context(), userID(r), r.PathValue("id"), req); err != nil {
		writeServiceError(w, r, "update free company", err)
		return
	}
	WriteNoContent(w)
}

// DeleteFreeCompany handles DELETE /api/final-fantasy/free-company/{id}
func (h *CharacterHandler) DeleteFreeCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.characterService.DeleteFreeCompany(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete free company", err)
		return
	}
	WriteNoContent(w)
}
