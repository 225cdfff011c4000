package models

import "time"

// IdempotencyKey is a stored outcome of a money-moving request, replayed when
// the client retries with the same key. A zero ResponseStatus marks a request
// that has been claimed but has not finished yet.
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	RequestHash    string    `db:"request_hash"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}

// Pending reports whether the claiming request is still running.
func (k *IdempotencyKey) Pending() bool {
	return k.ResponseStatus == 0
}

// Matches reports whether a retried request carries the same body as the
// one that claimed the key.
func (k *IdempotencyKey) Matches(requestHash string) bool {
	return k.RequestHash == requestHash
}
