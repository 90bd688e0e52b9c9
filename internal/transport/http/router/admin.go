package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-media-review/internal/authz"
	"go-media-review/internal/core/auth"
	"go-media-review/internal/core/server"
	"go-media-review/internal/domain"
	mdw "go-media-review/internal/transport/http/middleware"
)

// NewAdminEngine 管理端引擎，/admin/v1 整组只放行 admin
func NewAdminEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, users domain.UserRepository) *gin.Engine {
	r := server.NewEngine(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(100, 200),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, users, false), mdw.RequirePolicy(authz.AdminOnly{}))

	MountAllAdmin(admin)
	MountAdminActions(admin, db)

	return r
}
