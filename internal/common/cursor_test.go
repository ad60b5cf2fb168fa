package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 9, 26, 53, 589000, time.UTC)

	token := EncodeCursor(createdAt, 421)
	assert.NotEmpty(t, token)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	require.NotNil(t, cursor)

	assert.Equal(t, uint64(421), cursor.ID)
	assert.True(t, cursor.CreatedAt.Equal(createdAt))
}

func TestDecodeCursor_EmptyMeansNewest(t *testing.T) {
	cursor, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursor_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"missing separator", "MTIzNDU"},
		{"non-numeric id", "MTcwOTg4ODg4ODp4eXo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor, err := DecodeCursor(tt.token)
			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Nil(t, cursor)
		})
	}
}

func TestEncodeCursor_Opaque(t *testing.T) {
	// Tokens for different keys must differ - clients treat them as opaque.
	a := EncodeCursor(time.UnixMicro(1000).UTC(), 1)
	b := EncodeCursor(time.UnixMicro(1000).UTC(), 2)
	assert.NotEqual(t, a, b)
}
