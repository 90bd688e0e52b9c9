package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-media-review/internal/domain"
	mdw "go-media-review/internal/transport/http/middleware"
	resp "go-media-review/internal/transport/http/response"
)

// 服务依赖走小接口，handler 测试可以只塞桩
type signupper interface {
	Signup(username, email string) (*domain.User, error)
}

type tokenExchanger interface {
	Exchange(username, code string) (string, error)
}

type AuthHandler struct {
	Signup signupper
	Tokens tokenExchanger
}

func NewAuthHandler(signup signupper, tokens tokenExchanger) *AuthHandler {
	return &AuthHandler{Signup: signup, Tokens: tokens}
}

// MountAPI /auth 下两个公共入口，全程无密码
func (h *AuthHandler) MountAPI(api *gin.RouterGroup) {
	g := api.Group("/auth")
	// 发码入口按 IP 限流，挡住验证码轰炸
	g.Use(mdw.RateLimitPerIP(5, 10))
	g.POST("/signup", h.signup)
	g.POST("/token", h.token)
}

type signupIn struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type signupOut struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *AuthHandler) signup(c *gin.Context) {
	var in signupIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.Signup.Signup(in.Username, in.Email)
	if err != nil {
		resp.Err(c, err)
		return
	}
	// 幂等重发和新建返回同样的 200
	resp.OK(c, signupOut{Username: u.Username, Email: u.Email})
}

type tokenIn struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

func (h *AuthHandler) token(c *gin.Context) {
	var in tokenIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "username and confirmation_code are required")
		return
	}
	tok, err := h.Tokens.Exchange(in.Username, in.ConfirmationCode)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"token": tok})
}
