package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stautonico/banking-simulator/internal/models"
	"github.com/stautonico/banking-simulator/internal/service/mocks"
)

const (
	sendPath = "/api/v1/accounts/10000001/transactions"
	sendBody = `{"recipient_account_number":10000002,"amount":"40.00"}`
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashOf(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// countingHandler answers with status and body and counts how often it ran.
func countingHandler(status int, body string) (http.Handler, *atomic.Int32) {
	calls := new(atomic.Int32)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body) //nolint:errcheck // test helper
	}), calls
}

func keyedRequest(method, path, key, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	return req
}

// memoryStore keeps claims in a map with the same claim semantics as the
// primary key in PostgreSQL.
type memoryStore struct {
	mu   sync.Mutex
	rows map[string]models.IdempotencyKey
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]models.IdempotencyKey)}
}

func (s *memoryStore) Claim(_ context.Context, claim *models.IdempotencyKey) (*models.IdempotencyKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := claim.Key + " " + claim.RequestPath
	if held, ok := s.rows[id]; ok {
		return &held, nil
	}
	s.rows[id] = *claim
	return nil, nil
}

func (s *memoryStore) Complete(_ context.Context, outcome *models.IdempotencyKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[outcome.Key+" "+outcome.RequestPath] = *outcome
	return nil
}

func (s *memoryStore) Release(_ context.Context, key, requestPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key+" "+requestPath)
	return nil
}

func TestIdempotency_Bypass(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		key    string
	}{
		{name: "history reads", method: http.MethodGet, path: sendPath, key: "k1"},
		{name: "login", method: http.MethodPost, path: "/api/v1/sessions", key: "k1"},
		{name: "no key header", method: http.MethodPost, path: sendPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			next, calls := countingHandler(http.StatusOK, `{}`)

			rec := httptest.NewRecorder()
			Idempotency(repo, testLogger())(next).ServeHTTP(rec, keyedRequest(tt.method, tt.path, tt.key, sendBody))

			assert.Equal(t, int32(1), calls.Load())
			repo.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything)
		})
	}
}

func TestIdempotency_ClaimsThenCompletes(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Claim", mock.Anything, mock.MatchedBy(func(k *models.IdempotencyKey) bool {
		return k.Key == "send-1" && k.RequestPath == sendPath && k.RequestHash == hashOf(sendBody) && k.Pending()
	})).Return(nil, nil)

	var completed *models.IdempotencyKey
	repo.On("Complete", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).
		Run(func(args mock.Arguments) { completed = args.Get(1).(*models.IdempotencyKey) }).
		Return(nil)

	var seenBody string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body) //nolint:errcheck // test helper
		seenBody = string(raw)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"txn_1"}`) //nolint:errcheck // test helper
	})

	rec := httptest.NewRecorder()
	Idempotency(repo, testLogger())(next).ServeHTTP(rec, keyedRequest(http.MethodPost, sendPath, "send-1", sendBody))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get(replayedHeader))
	assert.Equal(t, sendBody, seenBody, "handler must still see the full body")

	require.NotNil(t, completed)
	assert.Equal(t, hashOf(sendBody), completed.RequestHash)
	assert.Equal(t, http.StatusCreated, completed.ResponseStatus)
	assert.Equal(t, `{"id":"txn_1"}`, completed.ResponseBody)
}

func TestIdempotency_AnswersRetries(t *testing.T) {
	tests := []struct {
		held       models.IdempotencyKey
		name       string
		wantBody   string
		wantCode   string
		wantStatus int
		replayed   bool
	}{
		{
			name: "completed outcome is replayed",
			held: models.IdempotencyKey{
				Key: "send-1", RequestPath: sendPath, RequestHash: hashOf(sendBody),
				ResponseStatus: http.StatusCreated, ResponseBody: `{"id":"txn_1"}`,
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":"txn_1"}`,
			replayed:   true,
		},
		{
			name: "stored refusal is replayed",
			held: models.IdempotencyKey{
				Key: "send-1", RequestPath: sendPath, RequestHash: hashOf(sendBody),
				ResponseStatus: http.StatusPaymentRequired, ResponseBody: `{"error":"insufficient_funds"}`,
			},
			wantStatus: http.StatusPaymentRequired,
			wantBody:   `{"error":"insufficient_funds"}`,
			replayed:   true,
		},
		{
			name:       "original still running",
			held:       models.IdempotencyKey{Key: "send-1", RequestPath: sendPath, RequestHash: hashOf(sendBody)},
			wantStatus: http.StatusConflict,
			wantCode:   ErrCodeIdempotencyInProgress,
		},
		{
			name: "different body",
			held: models.IdempotencyKey{
				Key: "send-1", RequestPath: sendPath, RequestHash: hashOf(`{"amount":"400.00"}`),
				ResponseStatus: http.StatusCreated, ResponseBody: `{"id":"txn_1"}`,
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeIdempotencyKeyReused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			held := tt.held
			repo.On("Claim", mock.Anything, mock.Anything).Return(&held, nil)
			next, calls := countingHandler(http.StatusCreated, `{"id":"txn_2"}`)

			rec := httptest.NewRecorder()
			Idempotency(repo, testLogger())(next).ServeHTTP(rec, keyedRequest(http.MethodPost, sendPath, "send-1", sendBody))

			assert.Zero(t, calls.Load(), "a retry must not move money again")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.replayed {
				assert.Equal(t, "true", rec.Header().Get(replayedHeader))
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestIdempotency_ServerErrorsReleaseTheClaim(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			repo.On("Claim", mock.Anything, mock.Anything).Return(nil, nil)
			repo.On("Release", mock.Anything, "k", sendPath).Return(nil)
			next, _ := countingHandler(status, `{"error":"internal_error"}`)

			rec := httptest.NewRecorder()
			Idempotency(repo, testLogger())(next).ServeHTTP(rec, keyedRequest(http.MethodPost, sendPath, "k", sendBody))

			assert.Equal(t, status, rec.Code)
			repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
		})
	}
}

func TestIdempotency_StorageFailuresFailOpen(t *testing.T) {
	t.Run("claim", func(t *testing.T) {
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Claim", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
		next, calls := countingHandler(http.StatusCreated, `{"id":"txn_1"}`)

		rec := httptest.NewRecorder()
		Idempotency(repo, testLogger())(next).ServeHTTP(rec, keyedRequest(http.MethodPost, sendPath, "k", sendBody))

		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("complete", func(t *testing.T) {
		repo := mocks.NewMockIdempotencyRepository(t)
		repo.On("Claim", mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("Complete", mock.Anything, mock.Anything).Return(errors.New("disk full"))
		next, _ := countingHandler(http.StatusCreated, `{"id":"txn_1"}`)

		rec := httptest.NewRecorder()
		Idempotency(repo, testLogger())(next).ServeHTTP(rec, keyedRequest(http.MethodPost, sendPath, "k", sendBody))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, `{"id":"txn_1"}`, rec.Body.String())
	})
}

func TestIdempotency_ConcurrentRetriesMoveMoneyOnce(t *testing.T) {
	store := newMemoryStore()

	var moved atomic.Int32
	slowSend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		moved.Add(1)
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"txn_1"}`) //nolint:errcheck // test helper
	})
	handler := Idempotency(store, testLogger())(slowSend)

	const retries = 2
	statuses := make([]int, retries)
	var wg sync.WaitGroup
	for i := range retries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, keyedRequest(http.MethodPost, sendPath, "retry-1", sendBody))
			statuses[i] = rec.Code
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), moved.Load(), "one idempotency key must move money once")
	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, statuses)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, keyedRequest(http.MethodPost, sendPath, "retry-1", sendBody))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(replayedHeader))
	assert.Equal(t, int32(1), moved.Load())
}

func TestIdempotency_RetryAfterServerErrorRunsAgain(t *testing.T) {
	store := newMemoryStore()

	var attempts atomic.Int32
	flaky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	handler := Idempotency(store, testLogger())(flaky)

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, keyedRequest(http.MethodPost, sendPath, "k", sendBody))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, keyedRequest(http.MethodPost, sendPath, "k", sendBody))

	assert.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestIdempotency_KeysAreScopedByPath(t *testing.T) {
	store := newMemoryStore()
	next, calls := countingHandler(http.StatusOK, `{}`)
	handler := Idempotency(store, testLogger())(next)

	for _, path := range []string{sendPath, "/api/v1/accounts/10000001/transfers", "/api/v1/accounts/"} {
		handler.ServeHTTP(httptest.NewRecorder(), keyedRequest(http.MethodPost, path, "shared", `{}`))
	}

	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, store.rows, 3)
	assert.Contains(t, store.rows, "shared /api/v1/accounts")
}

func TestRequiresIdempotency(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{method: http.MethodPost, path: "/api/v1/accounts", want: true},
		{method: http.MethodPost, path: "/api/v1/accounts/", want: true},
		{method: http.MethodPost, path: "/api/v1/accounts/12345678/transactions", want: true},
		{method: http.MethodPost, path: "/api/v1/accounts/12345678/transfers", want: true},
		{method: http.MethodGet, path: "/api/v1/accounts/12345678/transactions", want: false},
		{method: http.MethodPost, path: "/api/v1/sessions", want: false},
		{method: http.MethodPost, path: "/api/v1/accounts//transactions", want: false},
		{method: http.MethodPost, path: "/api/v1/accounts/1/2/transactions", want: false},
		{method: http.MethodPost, path: "/api/v1/accounts/12345678", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			assert.Equal(t, tt.want, requiresIdempotency(req))
		})
	}
}
