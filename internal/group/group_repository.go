package group

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

// Sentinel errors surfaced by the membership transactions; the service
// maps them onto the engine-wide taxonomy.
var (
	ErrGroupFull     = errors.New("group is full")
	ErrAlreadyMember = errors.New("already a member")
	ErrNotMember     = errors.New("not a member")
	ErrLastAdmin     = errors.New("last remaining admin")
)

type GroupRepository interface {
	CreateWithOwner(ctx context.Context, grp *dbmysql.Group, ownerID uint64) error
	GroupByID(ctx context.Context, id string) (*dbmysql.Group, error)
	List(ctx context.Context, search, topic string, cursor *common.KeyCursor, limit int) ([]*dbmysql.Group, error)
	Membership(ctx context.Context, groupID string, userID uint64) (*dbmysql.Membership, error)
	Join(ctx context.Context, groupID string, userID uint64) (*dbmysql.Membership, error)
	Leave(ctx context.Context, groupID string, userID uint64) error
	UpdateRole(ctx context.Context, groupID string, targetID uint64, role string) error
	ListMembers(ctx context.Context, groupID string) ([]*dbmysql.Membership, error)
	CountMembers(ctx context.Context, groupID string) (int64, error)
}

type groupRepo struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

// CreateWithOwner inserts the group row and the owner's admin
// membership in one transaction, so a group can never exist without an
// admin.
func (r *groupRepo) CreateWithOwner(ctx context.Context, grp *dbmysql.Group, ownerID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(grp).Error; err != nil {
			return err
		}
		owner := &dbmysql.Membership{
			GroupID: grp.ID,
			UserID:  ownerID,
			Role:    dbmysql.RoleAdmin,
		}
		return tx.Create(owner).Error
	})
}

func (r *groupRepo) GroupByID(ctx context.Context, id string) (*dbmysql.Group, error) {
	var grp dbmysql.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&grp).Error
	if err != nil {
		return nil, err
	}
	return &grp, nil
}

func (r *groupRepo) List(ctx context.Context, search, topic string, cursor *common.KeyCursor, limit int) ([]*dbmysql.Group, error) {
	q := r.db.WithContext(ctx).Model(&dbmysql.Group{})

	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if topic != "" {
		q = q.Where("topic = ?", topic)
	}
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.Key)
	}

	var groups []*dbmysql.Group
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Membership(ctx context.Context, groupID string, userID uint64) (*dbmysql.Membership, error) {
	var membership dbmysql.Membership
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Join inserts a membership behind a row lock on the group, so two
// concurrent joins cannot both pass the capacity check.
func (r *groupRepo) Join(ctx context.Context, groupID string, userID uint64) (*dbmysql.Membership, error) {
	membership := &dbmysql.Membership{
		GroupID: groupID,
		UserID:  userID,
		Role:    dbmysql.RoleMember,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var grp dbmysql.Group
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", groupID).First(&grp).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&dbmysql.Membership{}).
			Where("group_id = ?", groupID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(grp.MaxMembers) {
			return ErrGroupFull
		}

		if err := tx.Create(membership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyMember
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// Leave removes a membership, refusing to orphan the group: the sole
// remaining admin must transfer the role first.
func (r *groupRepo) Leave(ctx context.Context, groupID string, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership dbmysql.Membership
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("group_id = ? AND user_id = ?", groupID, userID).
			First(&membership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotMember
			}
			return err
		}

		if membership.IsAdmin() {
			var admins int64
			if err := tx.Model(&dbmysql.Membership{}).
				Where("group_id = ? AND role = ?", groupID, dbmysql.RoleAdmin).
				Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		return tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&dbmysql.Membership{}).Error
	})
}

// UpdateRole changes a member's role, keeping at least one admin.
func (r *groupRepo) UpdateRole(ctx context.Context, groupID string, targetID uint64, role string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership dbmysql.Membership
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("group_id = ? AND user_id = ?", groupID, targetID).
			First(&membership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotMember
			}
			return err
		}

		if membership.Role == role {
			return nil
		}

		if membership.IsAdmin() && role != dbmysql.RoleAdmin {
			var admins int64
			if err := tx.Model(&dbmysql.Membership{}).
				Where("group_id = ? AND role = ?", groupID, dbmysql.RoleAdmin).
				Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		return tx.Model(&dbmysql.Membership{}).
			Where("group_id = ? AND user_id = ?", groupID, targetID).
			Update("role", role).Error
	})
}

func (r *groupRepo) ListMembers(ctx context.Context, groupID string) ([]*dbmysql.Membership, error) {
	var members []*dbmysql.Membership
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *groupRepo) CountMembers(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Membership{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}
