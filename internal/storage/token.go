package storage

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// ErrBadToken is returned for a continuation token this store did not issue.
// Callers treat it as a validation failure, never retry it.
var ErrBadToken = errors.New("invalid pagination token")

// pageKey is the exclusive start position of the next page within the
// (created_at, id) scan order. Serialized form is opaque to clients.
type pageKey struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

func encodeToken(k pageKey) string {
	raw, _ := json.Marshal(k)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeToken(token string) (pageKey, error) {
	var k pageKey
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return k, ErrBadToken
	}
	if err := json.Unmarshal(raw, &k); err != nil || k.ID == "" {
		return k, ErrBadToken
	}
	return k, nil
}

// less reports whether the token key sorts strictly before the record key,
// i.e. the record belongs to a later page.
func (k pageKey) less(createdAt time.Time, id string) bool {
	if createdAt.After(k.CreatedAt) {
		return true
	}
	return createdAt.Equal(k.CreatedAt) && id > k.ID
}
