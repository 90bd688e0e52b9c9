package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-media-review/internal/service"
)

// 列表统一返回 {list, total, page, size}
type Page struct {
	List  any   `json:"list"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func OK(c *gin.Context, data any) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) { c.JSON(http.StatusCreated, data) }

func NoContent(c *gin.Context) { c.Status(http.StatusNoContent) }

// Detail 通用错误体 {"detail": msg}
func Detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// Fields 校验错误按字段聚合：{"username": [...], "email": [...]}
func Fields(c *gin.Context, fe service.FieldErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, fe)
}

// Err 服务层错误统一映射
func Err(c *gin.Context, err error) {
	if fe, ok := service.AsFieldErrors(err); ok {
		Fields(c, fe)
		return
	}
	switch err {
	case service.ErrNotFound:
		Detail(c, http.StatusNotFound, "not found")
	case service.ErrInvalidCode:
		Detail(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err) // 交给 access log
		Detail(c, http.StatusInternalServerError, "internal error")
	}
}
