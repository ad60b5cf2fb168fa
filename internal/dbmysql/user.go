package dbmysql

import (
	"time"

	"gorm.io/gorm"

	"campuslink/internal/common"
)

// User is the identity reference consumed by the messaging engine.
// Display fields are stored here; the engine never makes authorization
// decisions on Kind.
type User struct {
	UserID       uint64             `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	Handle       string             `gorm:"column:handle;uniqueIndex;size:50;not null" json:"handle"`
	DisplayName  string             `gorm:"column:display_name;size:100" json:"display_name"`
	AvatarRef    string             `gorm:"column:avatar_ref;size:64" json:"avatar_ref"`
	Kind         common.AccountKind `gorm:"column:kind;type:enum('student','company','university','mentor','admin');default:'student'" json:"kind"`
	PasswordHash string             `gorm:"column:password_hash;size:255;not null" json:"-"`
	Status       string             `gorm:"column:status;type:enum('active','banned','deleted');default:'active'" json:"status"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`
}

// Ref projects the user into the shape list endpoints embed.
func (u *User) Ref() common.UserRef {
	return common.UserRef{
		UserID:      u.UserID,
		Handle:      u.Handle,
		DisplayName: u.DisplayName,
		AvatarRef:   u.AvatarRef,
		Kind:        u.Kind,
	}
}
