// Package helpers provides request builders and problem details assertions
// for handler tests.
package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/model"
)

// RequestBuilder assembles a request for a handler test:
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/api/final-fantasy/character").
//		WithToken(token).
//		WithBody(req).
//		Serve(router)
type RequestBuilder struct {
	t      *testing.T
	method string
	path   string
	body   io.Reader
	header http.Header
	user   *model.User
	grove  *model.Grove
}

func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{t: t, method: method, path: path, header: http.Header{}}
}

// WithBody sends body encoded as JSON
func (rb *RequestBuilder) WithBody(body any) *RequestBuilder {
	rb.t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(rb.t, err, "helpers: encode request body")
	return rb.WithRawBody(string(encoded))
}

// WithRawBody sends body unchanged, for malformed JSON
func (rb *RequestBuilder) WithRawBody(body string) *RequestBuilder {
	rb.body = strings.NewReader(body)
	rb.header.Set("Content-Type", "application/json")
	return rb
}

func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.header.Set(key, value)
	return rb
}

// WithToken authenticates with the Panda scheme the front-end uses
func (rb *RequestBuilder) WithToken(token string) *RequestBuilder {
	return rb.WithHeader("Authorization", "Panda "+token)
}

// AsUser puts user and grove into the request context, as the auth
// middleware does. Use it when calling a handler directly.
func (rb *RequestBuilder) AsUser(user *model.User, grove *model.Grove) *RequestBuilder {
	rb.user, rb.grove = user, grove
	return rb
}

func (rb *RequestBuilder) Build() *http.Request {
	req := httptest.NewRequest(rb.method, rb.path, rb.body)
	for name, values := range rb.header {
		req.Header[name] = values
	}
	if rb.user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), rb.user, rb.grove))
	}
	return req
}

// Serve builds the request and records h's response
func (rb *RequestBuilder) Serve(h http.Handler) *httptest.ResponseRecorder {
	rb.t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, rb.Build())
	return rr
}

func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.Code, "body: %s", resp.Body.String())
}

// AssertProblemDetails checks status, content type and code of a problem
// response and returns the decoded problem. A zero code is not checked.
func AssertProblemDetails(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int, expectedCode model.ErrorCode) *model.ProblemDetails {
	t.Helper()

	AssertStatus(t, resp, expectedStatus)
	assert.Equal(t, "application/problem+json", resp.Header().Get("Content-Type"))

	var problem model.ProblemDetails
	DecodeResponse(t, resp, &problem)
	assert.Equal(t, expectedStatus, problem.Status, "problem status")
	if expectedCode != 0 {
		assert.Equal(t, expectedCode, problem.Code, "problem code")
	}
	return &problem
}

// AssertValidationError expects a 422 that names field among its errors
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, field string) {
	t.Helper()

	problem := AssertProblemDetails(t, resp, http.StatusUnprocessableEntity, model.ErrCodeValidation)
	fields := make([]string, 0, len(problem.Errors))
	for _, fe := range problem.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, field)
}

func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(bytes.NewReader(resp.Body.Bytes())).Decode(v), "body: %s", resp.Body.String())
}

// AssertRecordExists expects a record with the full "table:key" id
func AssertRecordExists(t *testing.T, db database.Database, id string) {
	t.Helper()
	assert.True(t, recordExists(t, db, id), "record %s should exist", id)
}

func AssertRecordNotExists(t *testing.T, db database.Database, id string) {
	t.Helper()
	assert.False(t, recordExists(t, db, id), "record %s should be gone", id)
}

func recordExists(t *testing.T, db database.Database, id string) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.QueryOne(ctx, "SELECT id FROM type::record($id)", map[string]interface{}{"id": id})
	if errors.Is(err, database.ErrNotFound) {
		return false
	}
	require.NoError(t, err, "look up %s", id)
	return true
}
