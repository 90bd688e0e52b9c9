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

// CatalogHandler categories / genres：list-create-delete，无详情和更新
type CatalogHandler struct {
	Catalog *service.CatalogService
	JWT     *auth.JWTer
	Repo    domain.UserRepository
}

func NewCatalogHandler(catalog *service.CatalogService, jwter *auth.JWTer, repo domain.UserRepository) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, JWT: jwter, Repo: repo}
}

func (h *CatalogHandler) MountAPI(api *gin.RouterGroup) {
	for _, m := range []struct {
		path   string
		list   gin.HandlerFunc
		create gin.HandlerFunc
		del    gin.HandlerFunc
	}{
		{"/categories", h.listCategories, h.createCategory, h.deleteCategory},
		{"/genres", h.listGenres, h.createGenre, h.deleteGenre},
	} {
		g := api.Group(m.path)
		g.Use(mdw.AuthJWT(h.JWT, h.Repo, true), mdw.RequirePolicy(authz.AdminOrReadOnly{}))
		g.GET("", m.list)
		g.POST("", m.create)
		g.DELETE("/:slug", m.del)
	}
}

type slugView struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type slugIn struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *CatalogHandler) listCategories(c *gin.Context) {
	page, size, offset := pageParams(c)
	items, total, err := h.Catalog.ListCategories(c.Query("search"), offset, size)
	if err != nil {
		resp.Err(c, err)
		return
	}
	views := make([]slugView, 0, len(items))
	for _, it := range items {
		views = append(views, slugView{Name: it.Name, Slug: it.Slug})
	}
	resp.OK(c, resp.Page{List: views, Total: total, Page: page, Size: size})
}

func (h *CatalogHandler) createCategory(c *gin.Context) {
	var in slugIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cat, err := h.Catalog.CreateCategory(in.Name, in.Slug)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, slugView{Name: cat.Name, Slug: cat.Slug})
}

func (h *CatalogHandler) deleteCategory(c *gin.Context) {
	if err := h.Catalog.DeleteCategory(c.Param("slug")); err != nil {
		resp.Err(c, err)
		return
	}
	resp.NoContent(c)
}

func (h *CatalogHandler) listGenres(c *gin.Context) {
	page, size, offset := pageParams(c)
	items, total, err := h.Catalog.ListGenres(c.Query("search"), offset, size)
	if err != nil {
		resp.Err(c, err)
		return
	}
	views := make([]slugView, 0, len(items))
	for _, it := range items {
		views = append(views, slugView{Name: it.Name, Slug: it.Slug})
	}
	resp.OK(c, resp.Page{List: views, Total: total, Page: page, Size: size})
}

func (h *CatalogHandler) createGenre(c *gin.Context) {
	var in slugIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := h.Catalog.CreateGenre(in.Name, in.Slug)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, slugView{Name: g.Name, Slug: g.Slug})
}

func (h *CatalogHandler) deleteGenre(c *gin.Context) {
	if err := h.Catalog.DeleteGenre(c.Param("slug")); err != nil {
		resp.Err(c, err)
		return
	}
	resp.NoContent(c)
}
