// Package middleware provides HTTP middleware components for the bank API.
package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stautonico/banking-simulator/internal/models"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"

	// ErrCodeIdempotencyKeyReused answers a key retried with a different body.
	ErrCodeIdempotencyKeyReused = "idempotency_key_reused"
	// ErrCodeIdempotencyInProgress answers a retry racing the original request.
	ErrCodeIdempotencyInProgress = "idempotency_request_in_progress"

	accountsPath = "/api/v1/accounts"

	maxFingerprintBody = 1 << 20
)

// idempotentSuffixes are the money-moving sub-resources of an account.
// Registration at accountsPath itself is also covered.
var idempotentSuffixes = []string{
	"/transactions",
	"/transfers",
}

// IdempotencyRepository is the storage the replay middleware needs
type IdempotencyRepository interface {
	Claim(ctx context.Context, claim *models.IdempotencyKey) (*models.IdempotencyKey, error)
	Complete(ctx context.Context, outcome *models.IdempotencyKey) error
	Release(ctx context.Context, key, requestPath string) error
}

// recorder tees the response to the client and keeps a copy for storage.
type recorder struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (rec *recorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *recorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	rec.body.Write(b)
	return rec.ResponseWriter.Write(b)
}

type replayer struct {
	repo   IdempotencyRepository
	logger *slog.Logger
	next   http.Handler
}

// Idempotency runs POSTs that create accounts or move money at most once per
// Idempotency-Key. The first request claims the key; a retry replays the
// stored outcome, or gets 409 while the first is still running. Reusing a
// key with a different body is rejected with 422. Requests without the
// header run normally.
func Idempotency(repo IdempotencyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return &replayer{repo: repo, logger: logger, next: next}
	}
}

func (p *replayer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(idempotencyKeyHeader)
	if key == "" || !requiresIdempotency(r) {
		p.next.ServeHTTP(w, r)
		return
	}

	fingerprint, err := fingerprintBody(r)
	if err != nil {
		p.logger.Warn("failed to read request body for idempotency", "error", err)
		p.next.ServeHTTP(w, r)
		return
	}

	path := normalizeRequestPath(r.URL.Path)
	log := p.logger.With("idempotency_key", key, "path", path)
	claim := &models.IdempotencyKey{Key: key, RequestPath: path, RequestHash: fingerprint}

	held, err := p.repo.Claim(r.Context(), claim)
	if err != nil {
		log.Error("idempotency claim failed, serving without replay", "error", err)
		p.next.ServeHTTP(w, r)
		return
	}
	if held != nil {
		p.answerRetry(w, log, held, fingerprint)
		return
	}

	rec := &recorder{ResponseWriter: w}
	p.next.ServeHTTP(rec, r)

	// The outcome is recorded even if the client has gone away.
	ctx := context.WithoutCancel(r.Context())
	if !isFinalOutcome(rec.status) {
		if err := p.repo.Release(ctx, key, path); err != nil {
			log.Error("failed to release idempotency key", "error", err)
		}
		return
	}
	claim.ResponseStatus = rec.status
	claim.ResponseBody = rec.body.String()
	if err := p.repo.Complete(ctx, claim); err != nil {
		log.Error("failed to store idempotent response", "error", err)
	}
}

func (p *replayer) answerRetry(w http.ResponseWriter, log *slog.Logger, held *models.IdempotencyKey, fingerprint string) {
	switch {
	case !held.Matches(fingerprint):
		log.Warn("idempotency key reused with a different body")
		writeIdempotencyError(w, http.StatusUnprocessableEntity, ErrCodeIdempotencyKeyReused,
			fmt.Sprintf("idempotency key %q was already used with a different request body", held.Key))
	case held.Pending():
		log.Info("retry arrived while the original request is still running")
		writeIdempotencyError(w, http.StatusConflict, ErrCodeIdempotencyInProgress,
			fmt.Sprintf("a request with idempotency key %q is still in progress", held.Key))
	default:
		log.Debug("replaying stored response", "status", held.ResponseStatus)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(replayedHeader, "true")
		w.WriteHeader(held.ResponseStatus)
		//nolint:errcheck // Best effort response writing
		io.WriteString(w, held.ResponseBody)
	}
}

// fingerprintBody hashes the request body and puts it back for the handler.
func fingerprintBody(r *http.Request) (string, error) {
	if r.Body == nil {
		sum := sha256.Sum256(nil)
		return hex.EncodeToString(sum[:]), nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxFingerprintBody))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

func writeIdempotencyError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}

func requiresIdempotency(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}

	path := normalizeRequestPath(r.URL.Path)
	if path == accountsPath {
		return true
	}

	rest, ok := strings.CutPrefix(path, accountsPath+"/")
	if !ok {
		return false
	}
	for _, suffix := range idempotentSuffixes {
		if number, found := strings.CutSuffix(rest, suffix); found && number != "" && !strings.Contains(number, "/") {
			return true
		}
	}
	return false
}

func normalizeRequestPath(urlPath string) string {
	return strings.TrimSuffix(urlPath, "/")
}

// isFinalOutcome reports whether a response settles the request. Business
// rejections such as insufficient funds are final and replayed; server
// errors are not, so the client may retry them.
func isFinalOutcome(status int) bool {
	return status >= 200 && status < 500
}
