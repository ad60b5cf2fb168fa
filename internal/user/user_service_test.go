package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

type fakeUserRepo struct {
	users  map[uint64]*dbmysql.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*dbmysql.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *dbmysql.User) error {
	f.nextID++
	user.UserID = f.nextID
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error) {
	for _, u := range f.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *dbmysql.User) error {
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUserRepo) CheckUserExists(ctx context.Context, handle string) (bool, error) {
	_, err := f.GetUserByHandle(ctx, handle)
	return err == nil, nil
}

func (f *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit int) ([]*dbmysql.User, error) {
	var out []*dbmysql.User
	for _, u := range f.users {
		if strings.Contains(u.Handle, query) || strings.Contains(u.DisplayName, query) {
			out = append(out, u)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestUserService_RegisterUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, token, err := svc.RegisterUser(context.Background(), "alice", "Alice L", "s3cret-pass", "")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, common.AccountKindStudent, user.Kind)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	// handle is taken now
	_, _, err = svc.RegisterUser(context.Background(), "alice", "", "another-pass", "")
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestUserService_RegisterUser_Validation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, _, err := svc.RegisterUser(context.Background(), "a", "", "s3cret-pass", "")
	assert.ErrorIs(t, err, common.ErrInvalid)

	_, _, err = svc.RegisterUser(context.Background(), "bob", "", "short", "")
	assert.ErrorIs(t, err, common.ErrInvalid)

	_, _, err = svc.RegisterUser(context.Background(), "bob", "", "s3cret-pass", "wizard")
	assert.ErrorIs(t, err, common.ErrInvalid)
}

func TestUserService_RegisterUser_DisplayNameDefaultsToHandle(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	user, _, err := svc.RegisterUser(context.Background(), "carol", "", "s3cret-pass", common.AccountKindMentor)
	require.NoError(t, err)
	assert.Equal(t, "carol", user.DisplayName)
	assert.Equal(t, common.AccountKindMentor, user.Kind)
}

func TestUserService_LoginUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, _, err := svc.RegisterUser(context.Background(), "alice", "Alice", "s3cret-pass", "")
	require.NoError(t, err)

	user, token, err := svc.LoginUser(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Handle)

	// wrong password and unknown handle fail the same way
	_, _, err = svc.LoginUser(context.Background(), "alice", "wrong-pass")
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, _, err = svc.LoginUser(context.Background(), "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, _, err := svc.RegisterUser(context.Background(), "alice", "Alice", "s3cret-pass", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProfile(context.Background(), user.UserID, "Alice Liddell", "media-ref-1"))

	updated, err := svc.GetProfile(context.Background(), user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.DisplayName)
	assert.Equal(t, "media-ref-1", updated.AvatarRef)

	err = svc.UpdateProfile(context.Background(), 999, "Ghost", "")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserService_SearchUsers(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, _, err := svc.RegisterUser(context.Background(), "alice", "Alice", "s3cret-pass", "")
	require.NoError(t, err)
	_, _, err = svc.RegisterUser(context.Background(), "alina", "Alina", "s3cret-pass", "")
	require.NoError(t, err)

	refs, err := svc.SearchUsers(context.Background(), "ali")
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	_, err = svc.SearchUsers(context.Background(), "   ")
	assert.ErrorIs(t, err, common.ErrInvalid)
}
