package dbmysql

import (
	"time"
)

// Group is a topic-based discussion container. AccessCode is non-empty
// iff IsPrivate.
type Group struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:100;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Topic       string    `gorm:"size:50;index" json:"topic"`
	IsPrivate   bool      `gorm:"default:false" json:"is_private"`
	AccessCode  string    `gorm:"size:6" json:"-"`
	BannerRef   string    `gorm:"size:64" json:"banner_ref,omitempty"`
	IconRef     string    `gorm:"size:64" json:"icon_ref,omitempty"`
	MaxMembers  int       `gorm:"not null" json:"max_members"`
	CreatedBy   uint64    `gorm:"index;not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Membership roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Membership links a user to a group with a role. The creator is
// inserted as admin in the same transaction as the group row.
type Membership struct {
	GroupID  string    `gorm:"primaryKey;size:36;column:group_id" json:"group_id"`
	UserID   uint64    `gorm:"primaryKey;column:user_id" json:"user_id"`
	Role     string    `gorm:"type:enum('member','admin');default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

// IsAdmin reports whether the membership carries the admin role.
func (m *Membership) IsAdmin() bool {
	return m.Role == RoleAdmin
}
