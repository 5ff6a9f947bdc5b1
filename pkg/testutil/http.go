package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewRequest builds a bodyless request for handler tests.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewJSONRequest builds a request whose body is the JSON encoding of payload.
func NewJSONRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err, "marshal request payload")

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DoRequest runs the request through the handler and captures the response.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the recorded body into T, failing the test on
// malformed JSON.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result), "unmarshal response body")
	return &result
}

// errorEnvelope mirrors the error body written by httputil.WriteError.
type errorEnvelope struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// AssertStatus checks the recorded status code.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rr.Code, "unexpected status code")
}

// AssertErrorCode checks that the error body carries the given domain code.
func AssertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, wantCode string) {
	t.Helper()
	env := UnmarshalResponse[errorEnvelope](t, rr)
	assert.Equal(t, wantCode, env.Error, "unexpected error code")
}

// AssertStatusAndError checks the status code and the domain error code together.
func AssertStatusAndError(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	AssertStatus(t, rr, wantStatus)
	AssertErrorCode(t, rr, wantCode)
}
