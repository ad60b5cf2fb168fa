package common

import (
	"regexp"
	"strings"
)

const (
	// MaxMessageLength bounds message content; longer payloads are rejected
	// before they reach the store.
	MaxMessageLength = 4000

	// MinGroupMembers is the smallest allowed max_members for a group.
	MinGroupMembers = 2
)

var (
	handleRegex     = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	accessCodeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)
)

func ValidateHandle(handle string) error {
	handle = strings.TrimSpace(handle)
	if len(handle) < 3 || len(handle) > 50 {
		return Wrap(ErrInvalid, "handle must be between 3 and 50 characters")
	}

	if !handleRegex.MatchString(handle) {
		return Wrap(ErrInvalid, "handle can only contain letters, numbers, and underscores")
	}

	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return Wrap(ErrInvalid, "password must be at least 6 characters long")
	}

	if len(password) > 100 {
		return Wrap(ErrInvalid, "password is too long")
	}

	return nil
}

// ValidateMessageContent rejects empty and oversized message bodies.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return Wrap(ErrInvalid, "message content cannot be empty")
	}
	if len(content) > MaxMessageLength {
		return Wrap(ErrInvalid, "message content exceeds %d characters", MaxMessageLength)
	}
	return nil
}

// ValidateGroupName checks the display name of a discussion group.
func ValidateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 3 || len(name) > 100 {
		return Wrap(ErrInvalid, "group name must be between 3 and 100 characters")
	}
	return nil
}

// ValidateMaxMembers enforces the lower bound on group capacity.
func ValidateMaxMembers(maxMembers int) error {
	if maxMembers < MinGroupMembers {
		return Wrap(ErrInvalid, "max members must be at least %d", MinGroupMembers)
	}
	return nil
}

// ValidateAccessCodeFormat checks the shape of a submitted access code
// before it is compared against the stored one.
func ValidateAccessCodeFormat(code string) error {
	if !accessCodeRegex.MatchString(code) {
		return Wrap(ErrInvalid, "malformed access code")
	}
	return nil
}
