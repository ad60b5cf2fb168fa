package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMessageContent(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
	}{
		{"normal message", "hey, did you see the internship posting?", false},
		{"empty", "", true},
		{"whitespace only", "   \t\n", true},
		{"at limit", strings.Repeat("a", MaxMessageLength), false},
		{"over limit", strings.Repeat("a", MaxMessageLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageContent(tt.content)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGroupName(t *testing.T) {
	assert.NoError(t, ValidateGroupName("Backend Study Circle"))
	assert.ErrorIs(t, ValidateGroupName("ab"), ErrInvalid)
	assert.ErrorIs(t, ValidateGroupName(strings.Repeat("x", 101)), ErrInvalid)
}

func TestValidateMaxMembers(t *testing.T) {
	assert.NoError(t, ValidateMaxMembers(2))
	assert.NoError(t, ValidateMaxMembers(500))
	assert.ErrorIs(t, ValidateMaxMembers(1), ErrInvalid)
	assert.ErrorIs(t, ValidateMaxMembers(0), ErrInvalid)
}

func TestValidateAccessCodeFormat(t *testing.T) {
	assert.NoError(t, ValidateAccessCodeFormat("AB12CD"))
	assert.ErrorIs(t, ValidateAccessCodeFormat("ab12cd"), ErrInvalid)
	assert.ErrorIs(t, ValidateAccessCodeFormat("AB12C"), ErrInvalid)
	assert.ErrorIs(t, ValidateAccessCodeFormat("AB12CDE"), ErrInvalid)
	assert.ErrorIs(t, ValidateAccessCodeFormat(""), ErrInvalid)
}

func TestGenerateAccessCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateAccessCode()
		require.NoError(t, err)
		assert.Len(t, code, AccessCodeLength)
		assert.NoError(t, ValidateAccessCodeFormat(code))
		seen[code] = true
	}
	// 50 draws from a 32^6 space should never collide down to one value.
	assert.Greater(t, len(seen), 1)
}

func TestAccountKind_IsValid(t *testing.T) {
	for _, kind := range []AccountKind{
		AccountKindStudent, AccountKindCompany, AccountKindUniversity, AccountKindMentor, AccountKindAdmin,
	} {
		assert.True(t, kind.IsValid(), kind.String())
	}
	assert.False(t, AccountKind("recruiter").IsValid())
}
