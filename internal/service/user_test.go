package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-media-review/internal/domain"
)

func strptr(s string) *string { return &s }

func TestUpdateRoleIgnoredForNonAdmin(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	s := NewUserService(newFakeUserRepo(alice), zap.NewNop())

	got, err := s.Update(alice, UserPatch{Role: strptr(domain.RoleAdmin), Bio: strptr("hi")}, false)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, got.Role, "role must stay unchanged for non-admin caller")
	assert.Equal(t, "hi", got.Bio)
}

func TestUpdateRoleAppliedForAdmin(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	s := NewUserService(newFakeUserRepo(alice), zap.NewNop())

	got, err := s.Update(alice, UserPatch{Role: strptr(domain.RoleModerator)}, true)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, got.Role)

	_, err = s.Update(alice, UserPatch{Role: strptr("emperor")}, true)
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "role")
}

func TestUpdateEmailConflict(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	bob := &domain.User{ID: "u2", Username: "bob", Email: "b@x.com", Role: domain.RoleUser}
	s := NewUserService(newFakeUserRepo(alice, bob), zap.NewNop())

	_, err := s.Update(alice, UserPatch{Email: strptr("b@x.com")}, false)
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "email")
}

func TestUpdateUsernameRename(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser}
	bob := &domain.User{ID: "u2", Username: "bob", Email: "b@x.com", Role: domain.RoleUser}
	repo := newFakeUserRepo(alice, bob)
	s := NewUserService(repo, zap.NewNop())

	got, err := s.Update(alice, UserPatch{Username: strptr("alice2")}, true)
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Username)
	stored, _ := repo.FindByUsername("alice2")
	require.NotNil(t, stored)

	_, err = s.Update(got, UserPatch{Username: strptr("bob")}, true)
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "username")

	_, err = s.Update(got, UserPatch{Username: strptr("me")}, true)
	fe, ok = AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "username")
}

func TestAdminCreateValidatesRole(t *testing.T) {
	t.Parallel()

	s := NewUserService(newFakeUserRepo(), zap.NewNop())

	u, err := s.Create("mod", "m@x.com", domain.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, u.Role)

	u, err = s.Create("plain", "p@x.com", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, u.Role, "empty role defaults to user")

	_, err = s.Create("bad", "bad@x.com", "root")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "role")
}
