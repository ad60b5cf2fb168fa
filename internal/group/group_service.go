package group

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// UserDirectory resolves identity references for member listings.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
}

// CreateParams carries the caller-supplied fields of a new group.
type CreateParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
	IsPrivate   bool   `json:"is_private"`
	BannerRef   string `json:"banner_ref"`
	IconRef     string `json:"icon_ref"`
	MaxMembers  int    `json:"max_members"`
}

// MemberInfo is one row of a member listing.
type MemberInfo struct {
	User     common.UserRef `json:"user"`
	Role     string         `json:"role"`
	JoinedAt time.Time      `json:"joined_at"`
}

type GroupService interface {
	Create(ctx context.Context, ownerID uint64, params CreateParams) (*dbmysql.Group, error)
	Get(ctx context.Context, id string) (*dbmysql.Group, error)
	List(ctx context.Context, search, topic, cursorToken string, limit int) ([]*dbmysql.Group, string, error)
	Join(ctx context.Context, groupID string, userID uint64, accessCode string) (*dbmysql.Membership, error)
	Leave(ctx context.Context, groupID string, userID uint64) error
	SetRole(ctx context.Context, groupID string, actorID, targetID uint64, role string) error
	ListMembers(ctx context.Context, groupID string, requesterID uint64) ([]MemberInfo, error)
	Membership(ctx context.Context, groupID string, userID uint64) (*dbmysql.Membership, error)
	GroupByID(ctx context.Context, id string) (*dbmysql.Group, error)
}

type groupService struct {
	repo  GroupRepository
	users UserDirectory
}

func NewGroupService(repo GroupRepository, users UserDirectory) GroupService {
	return &groupService{repo: repo, users: users}
}

// Create makes a new group with the owner inserted as admin
// atomically. Private groups get a server-generated access code.
func (s *groupService) Create(ctx context.Context, ownerID uint64, params CreateParams) (*dbmysql.Group, error) {
	if ownerID == 0 {
		return nil, common.Wrap(common.ErrInvalid, "owner ID cannot be empty")
	}
	if err := common.ValidateGroupName(params.Name); err != nil {
		return nil, err
	}
	if err := common.ValidateMaxMembers(params.MaxMembers); err != nil {
		return nil, err
	}

	grp := &dbmysql.Group{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Description: params.Description,
		Topic:       params.Topic,
		IsPrivate:   params.IsPrivate,
		BannerRef:   params.BannerRef,
		IconRef:     params.IconRef,
		MaxMembers:  params.MaxMembers,
		CreatedBy:   ownerID,
	}

	if params.IsPrivate {
		code, err := common.GenerateAccessCode()
		if err != nil {
			return nil, common.Wrap(common.ErrTransient, "generate access code: %v", err)
		}
		grp.AccessCode = code
	}

	if err := s.repo.CreateWithOwner(ctx, grp, ownerID); err != nil {
		return nil, common.Wrap(common.ErrTransient, "create group: %v", err)
	}

	return grp, nil
}

func (s *groupService) Get(ctx context.Context, id string) (*dbmysql.Group, error) {
	grp, err := s.repo.GroupByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrNotFound, "group %s", id)
		}
		return nil, common.Wrap(common.ErrTransient, "load group: %v", err)
	}
	return grp, nil
}

func (s *groupService) List(ctx context.Context, search, topic, cursorToken string, limit int) ([]*dbmysql.Group, string, error) {
	cursor, err := common.DecodeKeyCursor(cursorToken)
	if err != nil {
		return nil, "", err
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	groups, err := s.repo.List(ctx, search, topic, cursor, limit)
	if err != nil {
		return nil, "", common.Wrap(common.ErrTransient, "list groups: %v", err)
	}

	next := ""
	if len(groups) == limit {
		last := groups[len(groups)-1]
		next = common.EncodeKeyCursor(last.CreatedAt, last.ID)
	}
	return groups, next, nil
}

// Join adds a member. Public groups ignore the access code; private
// groups require the exact generated one.
func (s *groupService) Join(ctx context.Context, groupID string, userID uint64, accessCode string) (*dbmysql.Membership, error) {
	grp, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if grp.IsPrivate {
		if err := common.ValidateAccessCodeFormat(accessCode); err != nil {
			return nil, err
		}
		if subtle.ConstantTimeCompare([]byte(accessCode), []byte(grp.AccessCode)) != 1 {
			return nil, common.Wrap(common.ErrForbidden, "wrong access code")
		}
	}

	membership, err := s.repo.Join(ctx, groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrGroupFull):
			return nil, common.Wrap(common.ErrInvalid, "group is full")
		case errors.Is(err, ErrAlreadyMember):
			return nil, common.Wrap(common.ErrConflict, "already a member")
		default:
			return nil, common.Wrap(common.ErrTransient, "join group: %v", err)
		}
	}
	return membership, nil
}

func (s *groupService) Leave(ctx context.Context, groupID string, userID uint64) error {
	if _, err := s.Get(ctx, groupID); err != nil {
		return err
	}

	err := s.repo.Leave(ctx, groupID, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotMember):
		return common.Wrap(common.ErrNotFound, "not a member")
	case errors.Is(err, ErrLastAdmin):
		return common.Wrap(common.ErrConflict, "transfer the admin role before leaving")
	default:
		return common.Wrap(common.ErrTransient, "leave group: %v", err)
	}
}

// SetRole promotes or demotes a member. Only admins may change roles,
// and the last admin can never be demoted.
func (s *groupService) SetRole(ctx context.Context, groupID string, actorID, targetID uint64, role string) error {
	if role != dbmysql.RoleMember && role != dbmysql.RoleAdmin {
		return common.Wrap(common.ErrInvalid, "unknown role %q", role)
	}
	if _, err := s.Get(ctx, groupID); err != nil {
		return err
	}

	actor, err := s.repo.Membership(ctx, groupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Wrap(common.ErrForbidden, "actor is not a member")
		}
		return common.Wrap(common.ErrTransient, "load membership: %v", err)
	}
	if !actor.IsAdmin() {
		return common.Wrap(common.ErrForbidden, "only an admin may change roles")
	}

	err = s.repo.UpdateRole(ctx, groupID, targetID, role)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotMember):
		return common.Wrap(common.ErrNotFound, "target is not a member")
	case errors.Is(err, ErrLastAdmin):
		return common.Wrap(common.ErrConflict, "cannot demote the last admin")
	default:
		return common.Wrap(common.ErrTransient, "update role: %v", err)
	}
}

func (s *groupService) ListMembers(ctx context.Context, groupID string, requesterID uint64) ([]MemberInfo, error) {
	grp, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	// Private member lists are only visible to members.
	if grp.IsPrivate {
		if _, err := s.repo.Membership(ctx, groupID, requesterID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, common.Wrap(common.ErrForbidden, "not a member")
			}
			return nil, common.Wrap(common.ErrTransient, "load membership: %v", err)
		}
	}

	members, err := s.repo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, common.Wrap(common.ErrTransient, "list members: %v", err)
	}

	infos := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		info := MemberInfo{Role: m.Role, JoinedAt: m.JoinedAt}

		user, err := s.users.GetUserByID(ctx, m.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrTransient, "load user %d: %v", m.UserID, err)
		}
		if user != nil {
			info.User = user.Ref()
		} else {
			info.User = common.UserRef{UserID: m.UserID}
		}

		infos = append(infos, info)
	}
	return infos, nil
}

// Membership and GroupByID expose raw lookups for the message layer's
// authorization checks.
func (s *groupService) Membership(ctx context.Context, groupID string, userID uint64) (*dbmysql.Membership, error) {
	return s.repo.Membership(ctx, groupID, userID)
}

func (s *groupService) GroupByID(ctx context.Context, id string) (*dbmysql.Group, error) {
	return s.repo.GroupByID(ctx, id)
}
