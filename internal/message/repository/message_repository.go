package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

// ErrDuplicateToken signals that a row with the same
// (container, sender, client_token) already exists. Callers resolve it
// to the original message instead of surfacing an error.
var ErrDuplicateToken = errors.New("duplicate client token")

type MessageRepository interface {
	Save(ctx context.Context, msg *dbmysql.Message) error
	ByID(ctx context.Context, id uint64) (*dbmysql.Message, error)
	ByClientToken(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error)
	PageConversation(ctx context.Context, conversationID string, cursor *common.Cursor, limit int) ([]*dbmysql.Message, error)
	PageGroup(ctx context.Context, groupID string, cursor *common.Cursor, limit int) ([]*dbmysql.Message, error)
	UpdateContent(ctx context.Context, id uint64, content string, editedAt time.Time) error
	Tombstone(ctx context.Context, id uint64) error
	SetPinned(ctx context.Context, id uint64, pinned bool) error
	PinnedByGroup(ctx context.Context, groupID string) ([]*dbmysql.Message, error)
	CountUnread(ctx context.Context, conversationID string, userID uint64, afterID uint64) (int64, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

// Save inserts the message. The unique token indexes make concurrent
// retries collapse: the loser gets ErrDuplicateToken and re-reads the
// winner's row via ByClientToken.
func (r *messageRepo) Save(ctx context.Context, msg *dbmysql.Message) error {
	err := r.db.WithContext(ctx).Create(msg).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateToken
	}
	return err
}

func (r *messageRepo) ByID(ctx context.Context, id uint64) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ByClientToken finds the original row for a retried send. Scope comes
// from the message itself: container plus sender plus token.
func (r *messageRepo) ByClientToken(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error) {
	q := r.db.WithContext(ctx).
		Where("sender_id = ? AND client_token = ?", msg.SenderID, msg.ClientToken)
	if msg.GroupID != nil {
		q = q.Where("group_id = ?", *msg.GroupID)
	} else {
		q = q.Where("conversation_id = ?", *msg.ConversationID)
	}

	var found dbmysql.Message
	if err := q.First(&found).Error; err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *messageRepo) PageConversation(ctx context.Context, conversationID string, cursor *common.Cursor, limit int) ([]*dbmysql.Message, error) {
	return r.page(ctx, r.db.WithContext(ctx).Where("conversation_id = ?", conversationID), cursor, limit)
}

func (r *messageRepo) PageGroup(ctx context.Context, groupID string, cursor *common.Cursor, limit int) ([]*dbmysql.Message, error) {
	return r.page(ctx, r.db.WithContext(ctx).Where("group_id = ?", groupID), cursor, limit)
}

// page walks backward from the cursor position. Keying on
// (created_at, id) instead of an offset keeps concurrent appends from
// shifting rows between pages.
func (r *messageRepo) page(ctx context.Context, q *gorm.DB, cursor *common.Cursor, limit int) ([]*dbmysql.Message, error) {
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var messages []*dbmysql.Message
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

func (r *messageRepo) UpdateContent(ctx context.Context, id uint64, content string, editedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":   content,
			"edited_at": editedAt,
		}).Error
}

// Tombstone clears the content but keeps the row so ordering keys and
// cursors held by clients stay valid.
func (r *messageRepo) Tombstone(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":        "",
			"attachment_ref": "",
			"deleted":        true,
			"pinned":         false,
		}).Error
}

func (r *messageRepo) SetPinned(ctx context.Context, id uint64, pinned bool) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("id = ?", id).
		Update("pinned", pinned).Error
}

func (r *messageRepo) PinnedByGroup(ctx context.Context, groupID string) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND pinned = ? AND deleted = ?", groupID, true, false).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// CountUnread counts messages the user has not read and did not send.
func (r *messageRepo) CountUnread(ctx context.Context, conversationID string, userID uint64, afterID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Message{}).
		Where("conversation_id = ? AND id > ? AND sender_id <> ? AND deleted = ?",
			conversationID, afterID, userID, false).
		Count(&count).Error
	return count, err
}
