package authz

import (
	"net/http"
	"testing"

	"go-media-review/internal/domain"
)

func principal(role string, super, staff bool) Principal {
	return Principal{ID: "u1", Username: "alice", Role: role, IsSuperuser: super, IsStaff: staff, Authenticated: true}
}

func TestIsAdminDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Principal
		want bool
	}{
		{"role admin", principal(domain.RoleAdmin, false, false), true},
		{"superuser flag", principal(domain.RoleUser, true, false), true},
		{"staff flag", principal(domain.RoleUser, false, true), true},
		{"plain user", principal(domain.RoleUser, false, false), false},
		{"moderator is not admin", principal(domain.RoleModerator, false, false), false},
		{"anonymous with admin role", Principal{Role: domain.RoleAdmin}, false},
	}
	for _, tt := range tests {
		if got := tt.p.IsAdmin(); got != tt.want {
			t.Errorf("%s: IsAdmin() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAdminOrReadOnly(t *testing.T) {
	t.Parallel()
	var pol AdminOrReadOnly

	if !pol.HasPermission(http.MethodGet, Principal{}) {
		t.Error("anonymous GET should pass")
	}
	if pol.HasPermission(http.MethodPost, principal(domain.RoleUser, false, false)) {
		t.Error("user POST should be denied")
	}
	if pol.HasPermission(http.MethodPost, principal(domain.RoleModerator, false, false)) {
		t.Error("moderator POST should be denied")
	}
	if !pol.HasPermission(http.MethodDelete, principal(domain.RoleAdmin, false, false)) {
		t.Error("admin DELETE should pass")
	}
	if !pol.HasPermission(http.MethodDelete, principal(domain.RoleUser, true, false)) {
		t.Error("superuser DELETE should pass")
	}
}

func TestAuthorOrModeratorOrAdminOrReadOnly(t *testing.T) {
	t.Parallel()
	var pol AuthorOrModeratorOrAdminOrReadOnly
	const authorID = "author-1"

	// request level
	if !pol.HasPermission(http.MethodGet, Principal{}) {
		t.Error("anonymous GET should pass request level")
	}
	if pol.HasPermission(http.MethodPost, Principal{}) {
		t.Error("anonymous POST should fail request level")
	}
	if !pol.HasPermission(http.MethodPost, principal(domain.RoleUser, false, false)) {
		t.Error("authenticated POST should pass request level")
	}

	// object level
	stranger := principal(domain.RoleUser, false, false)
	stranger.ID = "someone-else"
	if pol.HasObjectPermission(http.MethodPatch, stranger, authorID) {
		t.Error("non-author user PATCH on foreign object should be denied")
	}
	if !pol.HasObjectPermission(http.MethodGet, stranger, authorID) {
		t.Error("non-author GET should always pass")
	}

	author := principal(domain.RoleUser, false, false)
	author.ID = authorID
	if !pol.HasObjectPermission(http.MethodDelete, author, authorID) {
		t.Error("author DELETE on own object should pass")
	}

	mod := principal(domain.RoleModerator, false, false)
	mod.ID = "mod-1"
	if !pol.HasObjectPermission(http.MethodDelete, mod, authorID) {
		t.Error("moderator DELETE on foreign object should pass")
	}

	admin := principal(domain.RoleAdmin, false, false)
	admin.ID = "admin-1"
	if !pol.HasObjectPermission(http.MethodDelete, admin, authorID) {
		t.Error("admin DELETE on foreign object should pass")
	}
}

func TestAdminOnlyHasNoReadExemption(t *testing.T) {
	t.Parallel()
	var pol AdminOnly

	if pol.HasPermission(http.MethodGet, principal(domain.RoleUser, false, false)) {
		t.Error("user GET should be denied")
	}
	if pol.HasPermission(http.MethodGet, Principal{}) {
		t.Error("anonymous GET should be denied")
	}
	if !pol.HasPermission(http.MethodGet, principal(domain.RoleUser, true, false)) {
		t.Error("superuser should pass")
	}
}
