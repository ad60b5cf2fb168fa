package reaction

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campuslink/internal/dbmysql"
)

type ReactionRepository interface {
	Get(ctx context.Context, messageID, userID uint64) (*dbmysql.Reaction, error)
	Upsert(ctx context.Context, reaction *dbmysql.Reaction) error
	Delete(ctx context.Context, messageID, userID uint64) error
	Aggregate(ctx context.Context, messageID uint64) (map[string]int64, error)
}

type reactionRepo struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepo{db: db}
}

func (r *reactionRepo) Get(ctx context.Context, messageID, userID uint64) (*dbmysql.Reaction, error) {
	var reaction dbmysql.Reaction
	err := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// Upsert writes the user's reaction, replacing any previous type.
// Last write wins, which makes double-click replays idempotent.
func (r *reactionRepo) Upsert(ctx context.Context, reaction *dbmysql.Reaction) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type"}),
	}).Create(reaction).Error
}

func (r *reactionRepo) Delete(ctx context.Context, messageID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Delete(&dbmysql.Reaction{}).Error
}

// Aggregate recomputes counts from the rows instead of trusting an
// incremental counter.
func (r *reactionRepo) Aggregate(ctx context.Context, messageID uint64) (map[string]int64, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&dbmysql.Reaction{}).
		Select("type, COUNT(*) as count").
		Where("message_id = ?", messageID).
		Group("type").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Type] = r.Count
	}
	return counts, nil
}
