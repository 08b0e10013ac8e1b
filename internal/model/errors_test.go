package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		problem *ProblemDetails
		status  int
		code    ErrorCode
		slug    string
	}{
		{"unauthorized", NewUnauthorizedError("missing authorization"), http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized"},
		{"not found", NewNotFoundError("character"), http.StatusNotFound, ErrCodeNotFound, "not-found"},
		{"exists already", NewExistsAlreadyError("crafter", "A crafter with this job exists already"), http.StatusConflict, ErrCodeAlreadyExists, "exists-already"},
		{"insufficient rights", NewInsufficientRightsError("You need to be a mod"), http.StatusForbidden, ErrCodeInsufficientRights, "insufficient-rights"},
		{"grove disabled", NewGroveDisabledError(), http.StatusForbidden, ErrCodeGroveDisabled, "grove-disabled"},
		{"conflict", NewConflictError("The record exists already"), http.StatusConflict, ErrCodeConflict, "conflict"},
		{"internal", NewInternalError(""), http.StatusInternalServerError, ErrCodeInternal, "internal"},
		{"database", NewDatabaseError(), http.StatusInternalServerError, ErrCodeDatabase, "database"},
		{"invalid data", NewInvalidDataError("The end date must not be before the start date"), http.StatusBadRequest, ErrCodeInvalidInput, "invalid-data"},
		{"bad request", NewBadRequestError("invalid json"), http.StatusBadRequest, ErrCodeInvalidInput, "bad-request"},
		{"rate limited", NewRateLimitError(30), http.StatusTooManyRequests, ErrCodeRateLimited, "rate-limited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, tt.code, tt.problem.Code)
			assert.Equal(t, "https://bambushain.app/errors/"+tt.slug, tt.problem.Type)
			assert.NotEmpty(t, tt.problem.Title)
			assert.NotEmpty(t, tt.problem.Detail)
		})
	}
}

func TestNewNotFoundError_NamesEntity(t *testing.T) {
	t.Parallel()

	problem := NewNotFoundError("free company")
	assert.Equal(t, "The free company was not found", problem.Detail)
	assert.Equal(t, "free company", problem.EntityType)
}

func TestNewRateLimitError_Detail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Rate limit exceeded. Retry after 30 seconds", NewRateLimitError(30).Detail)
}

func TestNewValidationError_Detail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		errors []FieldError
		want   string
	}{
		{"none", nil, "One or more fields failed validation"},
		{"one", []FieldError{{Field: "title", Message: "is required"}}, "title: is required"},
		{"three", []FieldError{
			{Field: "title", Message: "is required"},
			{Field: "start_date", Message: "must be a date"},
			{Field: "color", Message: "must be a hex color"},
		}, "title: is required (and 2 more errors)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			problem := NewValidationError(tt.errors)
			assert.Equal(t, tt.want, problem.Detail)
			assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
			assert.Equal(t, tt.errors, problem.Errors)
		})
	}
}

func TestProblemDetails_Error(t *testing.T) {
	t.Parallel()

	err := error(NewGroveDisabledError())
	assert.Equal(t, "[403] Grove Disabled: Your grove is currently disabled", err.Error())
}

func TestProblemDetails_WriteJSON(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	NewExistsAlreadyError("custom field", "A field with this label exists already").WriteJSON(rr)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "custom field", body["entity_type"])
	assert.Equal(t, float64(ErrCodeAlreadyExists), body["code"])
	assert.NotContains(t, body, "errors")
	assert.NotContains(t, body, "instance")
}

func TestProblemDetails_WriteJSON_FieldErrors(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	NewValidationError([]FieldError{{Field: "email", Message: "must be a valid email"}}).WriteJSON(rr)

	var problem ProblemDetails
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&problem))
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "email", problem.Errors[0].Field)
	assert.Empty(t, problem.EntityType)
}

func TestErrorCodes_GroupedByThousands(t *testing.T) {
	t.Parallel()

	groups := map[ErrorCode][]ErrorCode{
		1000: {ErrCodeUnauthorized, ErrCodeLoginFailed, ErrCodeRateLimited},
		2000: {ErrCodeInsufficientRights, ErrCodeGroveDisabled},
		3000: {ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeConflict},
		4000: {ErrCodeValidation, ErrCodeInvalidInput},
		5000: {ErrCodeInternal, ErrCodeDatabase, ErrCodeExternalAPI},
	}

	seen := map[ErrorCode]bool{}
	for base, codes := range groups {
		for _, code := range codes {
			assert.True(t, code > base && code < base+1000, "code %d outside %d range", code, base)
			assert.False(t, seen[code], "code %d used twice", code)
			seen[code] = true
		}
	}
}
