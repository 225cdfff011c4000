package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stautonico/banking-simulator/internal/models"
)

// claimAttempts bounds how often Claim retries when the competing row is
// released between the insert and the read.
const claimAttempts = 3

// IdempotencyRepository stores request outcomes for replay
type IdempotencyRepository interface {
	Claim(ctx context.Context, claim *models.IdempotencyKey) (*models.IdempotencyKey, error)
	Complete(ctx context.Context, outcome *models.IdempotencyKey) error
	Release(ctx context.Context, key, requestPath string) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type idempotencyRepository struct {
	db DBTX
}

// NewIdempotencyRepository creates a new IdempotencyRepository
func NewIdempotencyRepository(db DBTX) IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

// Claim inserts a pending row for the key. It returns nil when the caller now
// owns the key, otherwise the row already holding it, pending or complete.
// The primary key makes the claim atomic across concurrent requests.
func (r *idempotencyRepository) Claim(ctx context.Context, claim *models.IdempotencyKey) (*models.IdempotencyKey, error) {
	for range claimAttempts {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO idempotency_keys (key, request_path, request_hash)
			VALUES ($1, $2, $3)
			ON CONFLICT (key, request_path) DO NOTHING
			RETURNING created_at
		`, claim.Key, claim.RequestPath, claim.RequestHash).Scan(&claim.CreatedAt)
		if err == nil {
			return nil, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to claim idempotency key %q: %w", claim.Key, err)
		}

		held, err := r.get(ctx, claim.Key, claim.RequestPath)
		if err != nil {
			return nil, err
		}
		if held != nil {
			return held, nil
		}
	}

	return nil, fmt.Errorf("failed to claim idempotency key %q: released concurrently %d times", claim.Key, claimAttempts)
}

func (r *idempotencyRepository) get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, request_path, request_hash, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND request_path = $2
	`, key, requestPath)

	var stored models.IdempotencyKey
	err := row.Scan(
		&stored.Key,
		&stored.RequestPath,
		&stored.RequestHash,
		&stored.ResponseStatus,
		&stored.ResponseBody,
		&stored.CreatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to get idempotency key %q: %w", key, err)
	}

	return &stored, nil
}

// Complete records the outcome of a claimed request. Only a pending row is
// updated, so a stored outcome never changes.
func (r *idempotencyRepository) Complete(ctx context.Context, outcome *models.IdempotencyKey) error {
	if outcome.ResponseStatus == 0 {
		return fmt.Errorf("idempotency key %q: outcome has no status", outcome.Key)
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE idempotency_keys
		SET response_status = $3, response_body = $4
		WHERE key = $1 AND request_path = $2 AND response_status = 0
	`, outcome.Key, outcome.RequestPath, outcome.ResponseStatus, outcome.ResponseBody)
	if err != nil {
		return fmt.Errorf("failed to complete idempotency key %q: %w", outcome.Key, err)
	}

	return nil
}

// Release drops a pending claim so the client can retry.
func (r *idempotencyRepository) Release(ctx context.Context, key, requestPath string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND request_path = $2 AND response_status = 0
	`, key, requestPath)
	if err != nil {
		return fmt.Errorf("failed to release idempotency key %q: %w", key, err)
	}

	return nil
}

// DeleteOlderThan prunes rows created before the cutoff and reports how many
// went. Claims abandoned by a crashed process expire the same way.
func (r *idempotencyRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune idempotency keys: %w", err)
	}

	return result.RowsAffected()
}
