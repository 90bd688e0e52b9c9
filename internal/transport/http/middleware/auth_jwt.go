package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-media-review/internal/authz"
	"go-media-review/internal/core/auth"
	"go-media-review/internal/domain"
)

const keyPrincipal = "principal"

// Principal 取当前请求主体；匿名请求返回零值
func Principal(c *gin.Context) authz.Principal {
	if v, ok := c.Get(keyPrincipal); ok {
		if p, ok := v.(authz.Principal); ok {
			return p
		}
	}
	return authz.Principal{}
}

// AuthJWT 解析 Bearer token 并现查用户表构造 Principal。
// 提权标志不进 JWT，每次请求重新派生，避免缓存过期的鉴权状态。
// optional=true 时无 token 放行为匿名（只读接口需要这种模式）
func AuthJWT(j *auth.JWTer, users domain.UserRepository, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing token"})
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			return
		}
		u, err := users.FindByID(claims.UID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
			return
		}
		if u == nil {
			// token 有效但账号已被封禁/删除
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "invalid token"})
			return
		}
		c.Set(keyPrincipal, authz.PrincipalOf(u))
		c.Set("userId", u.ID)
		c.Set("role", u.Role)
		c.Next()
	}
}

// RequirePolicy 请求级判定，对象级的留给 handler 自己查完对象再判
func RequirePolicy(pol authz.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if pol.HasPermission(c.Request.Method, p) {
			c.Next()
			return
		}
		if !p.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "authentication required"})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "forbidden"})
	}
}
