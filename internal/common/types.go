package common

import (
	"time"
)

// UserRef is the identity reference shape consumed by list endpoints.
// The engine never owns these fields; they mirror the identity records.
type UserRef struct {
	UserID      uint64      `json:"user_id"`
	Handle      string      `json:"handle"`
	DisplayName string      `json:"display_name"`
	AvatarRef   string      `json:"avatar_ref,omitempty"`
	Kind        AccountKind `json:"kind"`
}

// DeliveryState is the client-observable lifecycle of one outgoing send.
type DeliveryState string

const (
	DeliveryPending   DeliveryState = "pending"
	DeliveryConfirmed DeliveryState = "confirmed"
	DeliveryFailed    DeliveryState = "failed"
)

// DeliveryEvent is published to observers on every state transition of
// an outbox entry.
type DeliveryEvent struct {
	ClientToken    string        `json:"client_token"`
	ConversationID string        `json:"conversation_id,omitempty"`
	GroupID        string        `json:"group_id,omitempty"`
	SenderID       uint64        `json:"sender_id"`
	State          DeliveryState `json:"state"`
	MessageID      uint64        `json:"message_id,omitempty"`
	Attempts       int           `json:"attempts"`
	Error          string        `json:"error,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}
