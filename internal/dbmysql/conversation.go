package dbmysql

import (
	"time"
)

// Conversation is a 1:1 container. The participant pair is stored
// ordered (UserLo < UserHi) under a composite unique index, so the
// "one conversation per unordered pair" invariant is enforced by the
// database and not by callers.
type Conversation struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	UserLo             uint64    `gorm:"column:user_lo;uniqueIndex:uk_conversation_pair,priority:1;not null" json:"user_lo"`
	UserHi             uint64    `gorm:"column:user_hi;uniqueIndex:uk_conversation_pair,priority:2;not null" json:"user_hi"`
	LastMessageAt      time.Time `gorm:"column:last_message_at;index" json:"last_message_at"`
	LastMessagePreview string    `gorm:"column:last_message_preview;size:255" json:"last_message_preview"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// OrderPair returns the two user ids in storage order.
func OrderPair(a, b uint64) (lo, hi uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID uint64) uint64 {
	if c.UserLo == userID {
		return c.UserHi
	}
	return c.UserLo
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID uint64) bool {
	return c.UserLo == userID || c.UserHi == userID
}

// ReadMarker records how far a user has read in one conversation.
// LastReadMessageID only ever advances.
type ReadMarker struct {
	ConversationID    string    `gorm:"primaryKey;size:36;column:conversation_id" json:"conversation_id"`
	UserID            uint64    `gorm:"primaryKey;column:user_id" json:"user_id"`
	LastReadMessageID uint64    `gorm:"column:last_read_message_id;default:0" json:"last_read_message_id"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
