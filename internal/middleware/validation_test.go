package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stautonico/banking-simulator/internal/api"
)

func newValidatedHandler(t *testing.T) (http.Handler, *bool) {
	t.Helper()

	doc, err := api.GetSwagger()
	require.NoError(t, err)

	validate, err := RequestValidator(doc, testLogger())
	require.NoError(t, err)

	called := new(bool)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusNoContent)
	})
	return validate(next), called
}

func TestRequestValidator(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantPassed bool
	}{
		{
			name:       "valid send",
			method:     http.MethodPost,
			target:     "/api/v1/accounts/12345678/transactions",
			body:       `{"recipient_account_number": 87654321, "amount": "40.00"}`,
			wantPassed: true,
		},
		{
			name:   "amount as number",
			method: http.MethodPost,
			target: "/api/v1/accounts/12345678/transactions",
			body:   `{"recipient_account_number": 87654321, "amount": 40}`,
		},
		{
			name:   "sub-cent amount",
			method: http.MethodPost,
			target: "/api/v1/accounts/12345678/transactions",
			body:   `{"recipient_account_number": 87654321, "amount": "1.005"}`,
		},
		{
			name:   "missing recipient",
			method: http.MethodPost,
			target: "/api/v1/accounts/12345678/transactions",
			body:   `{"amount": "1.00"}`,
		},
		{
			name:   "account number out of range",
			method: http.MethodGet,
			target: "/api/v1/accounts/42",
		},
		{
			name:   "account number not numeric",
			method: http.MethodGet,
			target: "/api/v1/accounts/abc",
		},
		{
			name:   "unknown direction",
			method: http.MethodPost,
			target: "/api/v1/accounts/12345678/transfers",
			body:   `{"direction": "sideways", "amount": "1.00"}`,
		},
		{
			name:   "directory search missing email",
			method: http.MethodGet,
			target: "/api/v1/directory/search?first_name=Ada&last_name=Lovelace",
		},
		{
			name:       "directory search complete",
			method:     http.MethodGet,
			target:     "/api/v1/directory/search?first_name=Ada&last_name=Lovelace&email=ada%40bank.test",
			wantPassed: true,
		},
		{
			name:   "history limit too large",
			method: http.MethodGet,
			target: "/api/v1/accounts/12345678/transactions?limit=1000",
		},
		{
			name:       "undocumented path passes through",
			method:     http.MethodGet,
			target:     "/docs",
			wantPassed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, called := newValidatedHandler(t)

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.target, nil)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if tt.wantPassed {
				assert.True(t, *called, "request should reach the handler")
				assert.Equal(t, http.StatusNoContent, rec.Code)
				return
			}

			assert.False(t, *called, "request should be rejected")
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, ErrCodeInvalidRequest, body["error"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestRequestValidator_BodyStillReadable(t *testing.T) {
	doc, err := api.GetSwagger()
	require.NoError(t, err)
	validate, err := RequestValidator(doc, testLogger())
	require.NoError(t, err)

	var seen map[string]any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"username":"alice","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	validate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", seen["username"])
}
