package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
	"github.com/Creastina/bambushain/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidTwoFactorCode),
		errors.Is(err, service.ErrInvalidToken):
		pd := model.NewUnauthorizedError(err.Error())
		pd.Code = model.ErrCodeLoginFailed
		return pd

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrInsufficientRights),
		errors.Is(err, service.ErrCannotChangeSelf),
		errors.Is(err, service.ErrWrongPassword):
		return model.NewInsufficientRightsError(err.Error())
	case errors.Is(err, service.ErrGroveDisabled):
		return model.NewGroveDisabledError()

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrGroveNotFound):
		return model.NewNotFoundError("grove")
	case errors.Is(err, service.ErrCharacterNotFound):
		return model.NewNotFoundError("character")
	case errors.Is(err, service.ErrCrafterNotFound):
		return model.NewNotFoundError("crafter")
	case errors.Is(err, service.ErrFighterNotFound):
		return model.NewNotFoundError("fighter")
	case errors.Is(err, service.ErrHousingNotFound):
		return model.NewNotFoundError("housing")
	case errors.Is(err, service.ErrFreeCompanyNotFound):
		return model.NewNotFoundError("free company")
	case errors.Is(err, service.ErrCustomFieldNotFound):
		return model.NewNotFoundError("custom field")
	case errors.Is(err, service.ErrOptionNotFound):
		return model.NewNotFoundError("custom field option")
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")

	// ===== Exists Already → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewExistsAlreadyError("user", err.Error())
	case errors.Is(err, service.ErrGroveNameExists):
		return model.NewExistsAlreadyError("grove", err.Error())
	case errors.Is(err, service.ErrCharacterExists):
		return model.NewExistsAlreadyError("character", err.Error())
	case errors.Is(err, service.ErrCrafterExists):
		return model.NewExistsAlreadyError("crafter", err.Error())
	case errors.Is(err, service.ErrFighterExists):
		return model.NewExistsAlreadyError("fighter", err.Error())
	case errors.Is(err, service.ErrHousingExists):
		return model.NewExistsAlreadyError("housing", err.Error())
	case errors.Is(err, service.ErrFreeCompanyExists):
		return model.NewExistsAlreadyError("free company", err.Error())
	case errors.Is(err, service.ErrCustomFieldExists):
		return model.NewExistsAlreadyError("custom field", err.Error())
	case errors.Is(err, service.ErrOptionExists):
		return model.NewExistsAlreadyError("custom field option", err.Error())
	case errors.Is(err, database.ErrDuplicate):
		return model.NewConflictError("The record exists already")

	// ===== Validation Errors → 422 / 400 =====
	case errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "new_password", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidDateRange):
		return model.NewInvalidDataError("The start date cannot be after the end date")

	// ===== Storage Errors → 500 =====
	case errors.Is(err, database.ErrQuery),
		errors.Is(err, database.ErrConnection):
		return model.NewDatabaseError()

	case errors.Is(err, service.ErrMailDelivery):
		pd := model.NewInternalError("The mail could not be sent")
		pd.Code = model.ErrCodeExternalAPI
		return pd

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// writeServiceError maps err and writes it. Server side failures are logged
// with the operation that failed.
func writeServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	pd := MapServiceError(err)
	if pd.Status >= http.StatusInternalServerError {
		slog.Error(operation+" failed",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.Any("error", err),
		)
	}
	WriteError(w, pd)
}
