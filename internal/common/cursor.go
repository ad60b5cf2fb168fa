package common

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cursor is the decoded pagination position: the ordering key
// (CreatedAt, ID) of the last message the client has already seen.
// Clients only ever see the opaque encoded form, so the scheme can
// change without breaking stored tokens mid-flight.
type Cursor struct {
	CreatedAt time.Time
	ID        uint64
}

// EncodeCursor turns an ordering key into an opaque token.
func EncodeCursor(createdAt time.Time, id uint64) string {
	raw := fmt.Sprintf("%d:%d", createdAt.UnixMicro(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses an opaque token back into an ordering key.
// An empty token means "start from the newest message" and returns nil.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, Wrap(ErrInvalid, "malformed cursor")
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return nil, Wrap(ErrInvalid, "malformed cursor")
	}

	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, Wrap(ErrInvalid, "malformed cursor timestamp")
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, Wrap(ErrInvalid, "malformed cursor id")
	}

	return &Cursor{CreatedAt: time.UnixMicro(micros).UTC(), ID: id}, nil
}

// KeyCursor is the pagination position for lists keyed by a string id
// (groups use uuids rather than numeric message ids).
type KeyCursor struct {
	CreatedAt time.Time
	Key       string
}

// EncodeKeyCursor turns a string-keyed ordering position into an opaque
// token.
func EncodeKeyCursor(createdAt time.Time, key string) string {
	raw := fmt.Sprintf("%d:%s", createdAt.UnixMicro(), key)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeKeyCursor parses an opaque token from EncodeKeyCursor. An empty
// token means "start from the newest entry" and returns nil.
func DecodeKeyCursor(token string) (*KeyCursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, Wrap(ErrInvalid, "malformed cursor")
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, Wrap(ErrInvalid, "malformed cursor")
	}

	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, Wrap(ErrInvalid, "malformed cursor timestamp")
	}

	return &KeyCursor{CreatedAt: time.UnixMicro(micros).UTC(), Key: parts[1]}, nil
}
