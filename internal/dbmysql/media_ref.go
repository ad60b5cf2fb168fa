package dbmysql

import (
	"time"
)

// MediaRef records an uploaded file reference. The bytes live in GridFS;
// messages, groups and users point at rows here through *_ref fields.
type MediaRef struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FileID      string    `gorm:"size:24;uniqueIndex" json:"file_id"` // MongoDB ObjectID
	FileName    string    `gorm:"size:255" json:"file_name"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	URL         string    `gorm:"size:500" json:"url"`
	Size        int64     `json:"size"`
	UploadedBy  uint64    `gorm:"index" json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MediaRef) TableName() string {
	return "media_refs"
}
