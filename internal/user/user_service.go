package user

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

const searchLimit = 20

type UserService interface {
	RegisterUser(ctx context.Context, handle, displayName, password string, kind common.AccountKind) (*dbmysql.User, string, error)
	LoginUser(ctx context.Context, handle, password string) (*dbmysql.User, string, error)
	GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error)
	UpdateProfile(ctx context.Context, userID uint64, displayName, avatarRef string) error
	SearchUsers(ctx context.Context, query string) ([]common.UserRef, error)
}

type userService struct {
	userRepo UserRepository
}

func NewUserService(userRepo UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) RegisterUser(ctx context.Context, handle, displayName, password string, kind common.AccountKind) (*dbmysql.User, string, error) {
	if err := common.ValidateHandle(handle); err != nil {
		return nil, "", err
	}
	if err := common.ValidatePassword(password); err != nil {
		return nil, "", err
	}
	if kind == "" {
		kind = common.AccountKindStudent
	}
	if !kind.IsValid() {
		return nil, "", common.Wrap(common.ErrInvalid, "unknown account kind %q", kind)
	}

	exists, err := s.userRepo.CheckUserExists(ctx, handle)
	if err != nil {
		return nil, "", common.Wrap(common.ErrTransient, "check handle: %v", err)
	}
	if exists {
		return nil, "", common.Wrap(common.ErrConflict, "handle already exists")
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, "", common.Wrap(common.ErrTransient, "hash password: %v", err)
	}

	if displayName == "" {
		displayName = handle
	}

	user := &dbmysql.User{
		Handle:       handle,
		DisplayName:  displayName,
		Kind:         kind,
		PasswordHash: hashed,
		Status:       "active",
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", common.Wrap(common.ErrTransient, "create user: %v", err)
	}

	token, err := common.GenerateToken(user.UserID, user.Handle)
	if err != nil {
		return nil, "", common.Wrap(common.ErrTransient, "issue token: %v", err)
	}

	return user, token, nil
}

func (s *userService) LoginUser(ctx context.Context, handle, password string) (*dbmysql.User, string, error) {
	if handle == "" || password == "" {
		return nil, "", common.Wrap(common.ErrInvalid, "handle and password required")
	}

	user, err := s.userRepo.GetUserByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", common.Wrap(common.ErrForbidden, "invalid handle or password")
		}
		return nil, "", common.Wrap(common.ErrTransient, "load user: %v", err)
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", common.Wrap(common.ErrForbidden, "invalid handle or password")
	}

	token, err := common.GenerateToken(user.UserID, user.Handle)
	if err != nil {
		return nil, "", common.Wrap(common.ErrTransient, "issue token: %v", err)
	}
	return user, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrNotFound, "user %d", userID)
		}
		return nil, common.Wrap(common.ErrTransient, "load user: %v", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint64, displayName, avatarRef string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if displayName != "" {
		user.DisplayName = displayName
	}
	if avatarRef != "" {
		user.AvatarRef = avatarRef
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return common.Wrap(common.ErrTransient, "update user: %v", err)
	}
	return nil
}

func (s *userService) SearchUsers(ctx context.Context, query string) ([]common.UserRef, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.Wrap(common.ErrInvalid, "search query cannot be empty")
	}

	users, err := s.userRepo.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		return nil, common.Wrap(common.ErrTransient, "search users: %v", err)
	}

	refs := make([]common.UserRef, 0, len(users))
	for _, u := range users {
		refs = append(refs, u.Ref())
	}
	return refs, nil
}
