package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-media-review/internal/authz"
	"go-media-review/internal/core/auth"
	"go-media-review/internal/domain"
	"go-media-review/internal/service"
	mdw "go-media-review/internal/transport/http/middleware"
	resp "go-media-review/internal/transport/http/response"
)

type UserHandler struct {
	Users *service.UserService
	JWT   *auth.JWTer
	Repo  domain.UserRepository
}

func NewUserHandler(users *service.UserService, jwter *auth.JWTer, repo domain.UserRepository) *UserHandler {
	return &UserHandler{Users: users, JWT: jwter, Repo: repo}
}

type userView struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

func viewOf(u *domain.User) userView {
	return userView{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

// MountAPI /users 管理员专属；/users/me 本人资料（无 DELETE，自助销号不开放）
func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	me := api.Group("/users/me")
	me.Use(mdw.AuthJWT(h.JWT, h.Repo, false))
	me.GET("", h.me)
	me.PATCH("", h.patchMe)

	g := api.Group("/users")
	g.Use(mdw.AuthJWT(h.JWT, h.Repo, false), mdw.RequirePolicy(authz.AdminOnly{}))
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:username", h.get)
	g.PATCH("/:username", h.patch)
	g.DELETE("/:username", h.delete)
}

func (h *UserHandler) me(c *gin.Context) {
	p := mdw.Principal(c)
	u, err := h.Repo.FindByID(p.ID)
	if err != nil || u == nil {
		resp.Detail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	resp.OK(c, viewOf(u))
}

type userPatchIn struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (in userPatchIn) toPatch() service.UserPatch {
	return service.UserPatch{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      in.Role,
	}
}

func (h *UserHandler) patchMe(c *gin.Context) {
	p := mdw.Principal(c)
	u, err := h.Repo.FindByID(p.ID)
	if err != nil || u == nil {
		resp.Detail(c, http.StatusUnauthorized, "invalid token")
		return
	}
	var in userPatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	// 非管理员带 role 字段时静默忽略（service 内再拦一道）
	updated, err := h.Users.Update(u, in.toPatch(), p.IsAdmin())
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, viewOf(updated))
}

func (h *UserHandler) list(c *gin.Context) {
	page, size, offset := pageParams(c)
	users, total, err := h.Users.List(c.Query("search"), offset, size)
	if err != nil {
		resp.Err(c, err)
		return
	}
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, viewOf(&users[i]))
	}
	resp.OK(c, resp.Page{List: views, Total: total, Page: page, Size: size})
}

type userCreateIn struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *UserHandler) create(c *gin.Context) {
	var in userCreateIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.Users.Create(in.Username, in.Email, in.Role)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, viewOf(u))
}

func (h *UserHandler) get(c *gin.Context) {
	u, err := h.Users.GetByUsername(c.Param("username"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, viewOf(u))
}

func (h *UserHandler) patch(c *gin.Context) {
	u, err := h.Users.GetByUsername(c.Param("username"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	var in userPatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.Users.Update(u, in.toPatch(), true)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, viewOf(updated))
}

func (h *UserHandler) delete(c *gin.Context) {
	if err := h.Users.DeleteByUsername(c.Param("username")); err != nil {
		resp.Err(c, err)
		return
	}
	resp.NoContent(c)
}
