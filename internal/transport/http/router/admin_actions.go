package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-media-review/internal/domain"
	httpez "go-media-review/internal/transport/http/ez"
)

// MountAdminActions 管理端接口集中在这里注册
func MountAdminActions(admin *gin.RouterGroup, db *gorm.DB) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/users  用户列表（可含软删） ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`            // 按 username/email 模糊搜
		WithDeleted bool   `form:"with_deleted"` // 是否包含已封禁
	}
	type row struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Banned   bool   `json:"banned"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ez, db, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := tx.Model(&domain.User{})
			if in.WithDeleted {
				q = q.Unscoped()
			}
			if s := strings.TrimSpace(in.Q); s != "" {
				like := "%" + s + "%"
				q = q.Where("username LIKE ? OR email LIKE ?", like, like)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				return listOut{}, httpez.Internal("count users failed", err)
			}

			var us []domain.User
			if err := q.Order("username ASC").Limit(in.Limit).Offset(in.Offset).Find(&us).Error; err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}

			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Username: u.Username, Email: u.Email,
					Role: u.Role, Banned: u.DeletedAt.Valid,
				})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users/:id/ban  封禁（软删，token 下次请求即失效） ---
	httpez.RegisterAction[struct{}, gin.H](ez, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			res := tx.Where("id = ?", id).Delete(&domain.User{})
			if res.Error != nil {
				return nil, httpez.Internal("ban user failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("user not found")
			}
			return gin.H{"id": id, "banned": true}, nil
		},
	})

	// --- POST /admin/v1/users/:id/unban  解封 ---
	httpez.RegisterAction[struct{}, gin.H](ez, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/unban",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			res := tx.Unscoped().Model(&domain.User{}).
				Where("id = ?", id).Update("deleted_at", nil)
			if res.Error != nil {
				return nil, httpez.Internal("unban user failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("user not found")
			}
			return gin.H{"id": id, "banned": false}, nil
		},
	})

	// --- POST /admin/v1/users/:id/role  改角色 ---
	type roleIn struct {
		Role string `json:"role" binding:"required"`
	}
	httpez.RegisterAction[roleIn, gin.H](ez, db, httpez.Action[roleIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/role",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *roleIn) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			switch in.Role {
			case domain.RoleUser, domain.RoleModerator, domain.RoleAdmin:
			default:
				return nil, httpez.BadRequest("invalid role")
			}
			res := tx.Model(&domain.User{}).Where("id = ?", id).Update("role", in.Role)
			if res.Error != nil {
				return nil, httpez.Internal("update role failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("user not found")
			}
			return gin.H{"id": id, "role": in.Role}, nil
		},
	})
}
