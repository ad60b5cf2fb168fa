package dbmysql

import (
	"time"
)

// Message belongs to exactly one container: ConversationID or GroupID is
// set, never both. The autoincrement ID is the serialization point for
// ordering; (CreatedAt, ID) is the pagination key.
//
// ClientToken dedup is scoped per container and sender. MySQL unique
// indexes ignore rows whose indexed column is NULL, so uk_conv_token
// only constrains direct messages and uk_group_token only group
// messages.
type Message struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID *string    `gorm:"size:36;index;uniqueIndex:uk_conv_token,priority:1" json:"conversation_id,omitempty"`
	GroupID        *string    `gorm:"size:36;index;uniqueIndex:uk_group_token,priority:1" json:"group_id,omitempty"`
	SenderID       uint64     `gorm:"index;uniqueIndex:uk_conv_token,priority:2;uniqueIndex:uk_group_token,priority:2;not null" json:"sender_id"`
	Content        string     `gorm:"type:text" json:"content"`
	AttachmentRef  string     `gorm:"size:64" json:"attachment_ref,omitempty"`
	ClientToken    string     `gorm:"size:64;uniqueIndex:uk_conv_token,priority:3;uniqueIndex:uk_group_token,priority:3;not null" json:"client_token"`
	Pinned         bool       `gorm:"default:false" json:"pinned"`
	Deleted        bool       `gorm:"default:false" json:"deleted"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// InGroup reports whether the message lives in a group container.
func (m *Message) InGroup() bool {
	return m.GroupID != nil
}

// Container returns the id of the owning container.
func (m *Message) Container() string {
	if m.GroupID != nil {
		return *m.GroupID
	}
	if m.ConversationID != nil {
		return *m.ConversationID
	}
	return ""
}
