package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable code sent with every problem. The
// thousands digit names the group.
type ErrorCode int

const (
	// 1xxx authentication
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeLoginFailed  ErrorCode = 1004
	ErrCodeRateLimited  ErrorCode = 1005

	// 2xxx authorization
	ErrCodeInsufficientRights ErrorCode = 2002
	ErrCodeGroveDisabled      ErrorCode = 2003

	// 3xxx resources
	ErrCodeNotFound      ErrorCode = 3001
	ErrCodeAlreadyExists ErrorCode = 3002
	ErrCodeConflict      ErrorCode = 3003

	// 4xxx input
	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002

	// 5xxx server side
	ErrCodeInternal    ErrorCode = 5001
	ErrCodeDatabase    ErrorCode = 5002
	ErrCodeExternalAPI ErrorCode = 5003
)

// ProblemDetails is an RFC 9457 problem document. Code and EntityType are
// extension members; EntityType names the entity of not-found and
// exists-already problems.
type ProblemDetails struct {
	Type       string       `json:"type"`
	Title      string       `json:"title"`
	Status     int          `json:"status"`
	Detail     string       `json:"detail,omitempty"`
	Instance   string       `json:"instance,omitempty"`
	Code       ErrorCode    `json:"code,omitempty"`
	EntityType string       `json:"entity_type,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes p as application/problem+json with p.Status
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

const problemTypeBase = "https://bambushain.app/errors/"

// problem builds a ProblemDetails whose type is the slug under problemTypeBase
func problem(slug, title string, status int, code ErrorCode, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemTypeBase + slug,
		Title:  title,
		Status: status,
		Detail: detail,
		Code:   code,
	}
}

func NewUnauthorizedError(detail string) *ProblemDetails {
	return problem("unauthorized", "Unauthorized", http.StatusUnauthorized, ErrCodeUnauthorized, detail)
}

func NewNotFoundError(entity string) *ProblemDetails {
	p := problem("not-found", "Not Found", http.StatusNotFound, ErrCodeNotFound, "The "+entity+" was not found")
	p.EntityType = entity
	return p
}

// NewExistsAlreadyError reports a uniqueness violation on the given entity.
func NewExistsAlreadyError(entity, detail string) *ProblemDetails {
	p := problem("exists-already", "Exists Already", http.StatusConflict, ErrCodeAlreadyExists, detail)
	p.EntityType = entity
	return p
}

// NewInsufficientRightsError is returned when a user lacks the mod flag or
// tries to act on a resource they do not own.
func NewInsufficientRightsError(detail string) *ProblemDetails {
	return problem("insufficient-rights", "Insufficient Rights", http.StatusForbidden, ErrCodeInsufficientRights, detail)
}

func NewGroveDisabledError() *ProblemDetails {
	return problem("grove-disabled", "Grove Disabled", http.StatusForbidden, ErrCodeGroveDisabled, "Your grove is currently disabled")
}

// NewValidationError summarises the first field error in Detail and lists
// all of them in Errors
func NewValidationError(errors []FieldError) *ProblemDetails {
	detail := "One or more fields failed validation"
	switch {
	case len(errors) == 1:
		detail = errors[0].Field + ": " + errors[0].Message
	case len(errors) > 1:
		detail = fmt.Sprintf("%s: %s (and %d more errors)", errors[0].Field, errors[0].Message, len(errors)-1)
	}

	p := problem("validation", "Validation Error", http.StatusUnprocessableEntity, ErrCodeValidation, detail)
	p.Errors = errors
	return p
}

func NewConflictError(detail string) *ProblemDetails {
	return problem("conflict", "Conflict", http.StatusConflict, ErrCodeConflict, detail)
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return problem("internal", "Internal Server Error", http.StatusInternalServerError, ErrCodeInternal, detail)
}

func NewDatabaseError() *ProblemDetails {
	return problem("database", "Database Error", http.StatusInternalServerError, ErrCodeDatabase, "The data could not be read or written")
}

// NewInvalidDataError is a single-message validation failure, used for
// checks that span more than one field.
func NewInvalidDataError(detail string) *ProblemDetails {
	return problem("invalid-data", "Invalid Data", http.StatusBadRequest, ErrCodeInvalidInput, detail)
}

func NewBadRequestError(detail string) *ProblemDetails {
	return problem("bad-request", "Bad Request", http.StatusBadRequest, ErrCodeInvalidInput, detail)
}

func NewRateLimitError(retryAfter int) *ProblemDetails {
	detail := fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", retryAfter)
	return problem("rate-limited", "Too Many Requests", http.StatusTooManyRequests, ErrCodeRateLimited, detail)
}
