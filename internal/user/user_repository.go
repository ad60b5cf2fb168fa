package user

import (
	"context"

	"gorm.io/gorm"

	"campuslink/internal/dbmysql"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *dbmysql.User) error
	GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
	GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error)
	UpdateUser(ctx context.Context, user *dbmysql.User) error
	CheckUserExists(ctx context.Context, handle string) (bool, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*dbmysql.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, "active").First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("handle = ? AND status = ?", handle, "active").First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) CheckUserExists(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).Where("handle = ?", handle).Count(&count).Error
	return count > 0, err
}

// SearchUsers matches handle or display name, active accounts only.
func (r *userRepository) SearchUsers(ctx context.Context, query string, limit int) ([]*dbmysql.User, error) {
	like := "%" + query + "%"
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).
		Where("(handle LIKE ? OR display_name LIKE ?) AND status = ?", like, like, "active").
		Order("handle ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
