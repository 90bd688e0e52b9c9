package authz

import (
	"net/http"

	"go-media-review/internal/domain"
)

// Principal 每次请求从 JWT + 用户表现算出来，不缓存派生结果
type Principal struct {
	ID            string
	Username      string
	Role          string
	IsSuperuser   bool
	IsStaff       bool
	Authenticated bool
}

func PrincipalOf(u *domain.User) Principal {
	if u == nil {
		return Principal{}
	}
	return Principal{
		ID:            u.ID,
		Username:      u.Username,
		Role:          u.Role,
		IsSuperuser:   u.IsSuperuser,
		IsStaff:       u.IsStaff,
		Authenticated: true,
	}
}

// IsAdmin role=admin 或平台提权标志，二者任一即视为管理员
func (p Principal) IsAdmin() bool {
	return p.Authenticated && (p.Role == domain.RoleAdmin || p.IsSuperuser || p.IsStaff)
}

func (p Principal) IsModerator() bool {
	return p.Authenticated && p.Role == domain.RoleModerator
}

// SafeMethod 只读动词放行
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Policy 两级判定：先整体放行，再按对象归属判定
type Policy interface {
	HasPermission(method string, p Principal) bool
	HasObjectPermission(method string, p Principal, authorID string) bool
}

// AdminOrReadOnly 读全放行，写仅管理员
type AdminOrReadOnly struct{}

func (AdminOrReadOnly) HasPermission(method string, p Principal) bool {
	return SafeMethod(method) || p.IsAdmin()
}

func (AdminOrReadOnly) HasObjectPermission(method string, p Principal, _ string) bool {
	return SafeMethod(method) || p.IsAdmin()
}

// AuthorOrModeratorOrAdminOrReadOnly 写操作要求登录，
// 对象级别要求作者本人 / moderator / admin
type AuthorOrModeratorOrAdminOrReadOnly struct{}

func (AuthorOrModeratorOrAdminOrReadOnly) HasPermission(method string, p Principal) bool {
	return SafeMethod(method) || p.Authenticated
}

func (AuthorOrModeratorOrAdminOrReadOnly) HasObjectPermission(method string, p Principal, authorID string) bool {
	if SafeMethod(method) {
		return true
	}
	if !p.Authenticated {
		return false
	}
	return p.ID == authorID || p.IsModerator() || p.IsAdmin()
}

// AdminOnly 没有只读豁免
type AdminOnly struct{}

func (AdminOnly) HasPermission(_ string, p Principal) bool { return p.IsAdmin() }

func (AdminOnly) HasObjectPermission(_ string, p Principal, _ string) bool { return p.IsAdmin() }
