package dbmysql

import "time"

// Reaction holds at most one row per (message, user). Toggling the same
// type deletes the row; a different type replaces it in place.
type Reaction struct {
	MessageID uint64    `gorm:"primaryKey;column:message_id" json:"message_id"`
	UserID    uint64    `gorm:"primaryKey;column:user_id" json:"user_id"`
	Type      string    `gorm:"column:type;size:20;not null" json:"type"` // like, love, laugh, etc.
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
