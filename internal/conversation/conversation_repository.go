package conversation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campuslink/internal/dbmysql"
)

// ErrDuplicatePair signals that a conversation for the pair already
// exists; the caller re-reads the winner's row.
var ErrDuplicatePair = errors.New("conversation already exists for pair")

type ConversationRepository interface {
	Create(ctx context.Context, conv *dbmysql.Conversation) error
	ByID(ctx context.Context, id string) (*dbmysql.Conversation, error)
	ByPair(ctx context.Context, userLo, userHi uint64) (*dbmysql.Conversation, error)
	ListForUser(ctx context.Context, userID uint64) ([]*dbmysql.Conversation, error)
	Touch(ctx context.Context, id string, at time.Time, preview string) error
	Marker(ctx context.Context, conversationID string, userID uint64) (*dbmysql.ReadMarker, error)
	AdvanceMarker(ctx context.Context, conversationID string, userID uint64, upTo uint64) error
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepo{db: db}
}

// Create inserts the conversation row. The uk_conversation_pair index
// decides races between two concurrent first sends.
func (r *conversationRepo) Create(ctx context.Context, conv *dbmysql.Conversation) error {
	err := r.db.WithContext(ctx).Create(conv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePair
	}
	return err
}

func (r *conversationRepo) ByID(ctx context.Context, id string) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) ByPair(ctx context.Context, userLo, userHi uint64) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("user_lo = ? AND user_hi = ?", userLo, userHi).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) ListForUser(ctx context.Context, userID uint64) ([]*dbmysql.Conversation, error) {
	var convs []*dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("user_lo = ? OR user_hi = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}

// Touch bumps the denormalized summary. The guard keeps a slow write
// for an older message from clobbering a newer summary.
func (r *conversationRepo) Touch(ctx context.Context, id string, at time.Time, preview string) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Conversation{}).
		Where("id = ? AND last_message_at <= ?", id, at).
		Updates(map[string]interface{}{
			"last_message_at":      at,
			"last_message_preview": preview,
		}).Error
}

func (r *conversationRepo) Marker(ctx context.Context, conversationID string, userID uint64) (*dbmysql.ReadMarker, error) {
	var marker dbmysql.ReadMarker
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&marker).Error
	if err != nil {
		return nil, err
	}
	return &marker, nil
}

// AdvanceMarker moves the read marker forward, never backward. The
// GREATEST upsert makes out-of-order mark-read calls harmless.
func (r *conversationRepo) AdvanceMarker(ctx context.Context, conversationID string, userID uint64, upTo uint64) error {
	marker := &dbmysql.ReadMarker{
		ConversationID:    conversationID,
		UserID:            userID,
		LastReadMessageID: upTo,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_read_message_id": gorm.Expr("GREATEST(last_read_message_id, ?)", upTo),
		}),
	}).Create(marker).Error
}
