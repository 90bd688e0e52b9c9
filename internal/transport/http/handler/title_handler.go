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

type TitleHandler struct {
	Catalog *service.CatalogService
	JWT     *auth.JWTer
	Repo    domain.UserRepository
}

func NewTitleHandler(catalog *service.CatalogService, jwter *auth.JWTer, repo domain.UserRepository) *TitleHandler {
	return &TitleHandler{Catalog: catalog, JWT: jwter, Repo: repo}
}

func (h *TitleHandler) MountAPI(api *gin.RouterGroup) {
	g := api.Group("/titles")
	g.Use(mdw.AuthJWT(h.JWT, h.Repo, true), mdw.RequirePolicy(authz.AdminOrReadOnly{}))
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:title_id", h.get)
	g.PATCH("/:title_id", h.patch)
	g.DELETE("/:title_id", h.delete)
}

type titleView struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Year        int        `json:"year"`
	Rating      *int       `json:"rating"`
	Description string     `json:"description"`
	Genre       []slugView `json:"genre"`
	Category    slugView   `json:"category"`
}

func (h *TitleHandler) titleViewOf(c *gin.Context, t *domain.Title) titleView {
	v := titleView{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Category:    slugView{Name: t.Category.Name, Slug: t.Category.Slug},
		Genre:       make([]slugView, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		v.Genre = append(v.Genre, slugView{Name: g.Name, Slug: g.Slug})
	}
	if score, has, err := h.Catalog.Rating(c.Request.Context(), t.ID); err == nil && has {
		v.Rating = &score
	}
	return v
}

func (h *TitleHandler) list(c *gin.Context) {
	page, size, offset := pageParams(c)
	f := domain.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
		Year:         atoiDefault(c.Query("year"), 0),
	}
	titles, total, err := h.Catalog.ListTitles(f, offset, size)
	if err != nil {
		resp.Err(c, err)
		return
	}
	views := make([]titleView, 0, len(titles))
	for i := range titles {
		views = append(views, h.titleViewOf(c, &titles[i]))
	}
	resp.OK(c, resp.Page{List: views, Total: total, Page: page, Size: size})
}

type titleIn struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

func (h *TitleHandler) create(c *gin.Context) {
	var in titleIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := h.Catalog.CreateTitle(service.TitleInput{
		Name:         in.Name,
		Year:         in.Year,
		Description:  in.Description,
		CategorySlug: in.Category,
		GenreSlugs:   in.Genre,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, h.titleViewOf(c, t))
}

func (h *TitleHandler) get(c *gin.Context) {
	id, ok := uintParam(c, "title_id")
	if !ok {
		resp.Detail(c, http.StatusNotFound, "not found")
		return
	}
	t, err := h.Catalog.GetTitle(id)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, h.titleViewOf(c, t))
}

type titlePatchIn struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

func (h *TitleHandler) patch(c *gin.Context) {
	id, ok := uintParam(c, "title_id")
	if !ok {
		resp.Detail(c, http.StatusNotFound, "not found")
		return
	}
	var in titlePatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := h.Catalog.UpdateTitle(id, service.TitlePatch{
		Name:         in.Name,
		Year:         in.Year,
		Description:  in.Description,
		CategorySlug: in.Category,
		GenreSlugs:   in.Genre,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, h.titleViewOf(c, t))
}

func (h *TitleHandler) delete(c *gin.Context) {
	id, ok := uintParam(c, "title_id")
	if !ok {
		resp.Detail(c, http.StatusNotFound, "not found")
		return
	}
	if err := h.Catalog.DeleteTitle(id); err != nil {
		resp.Err(c, err)
		return
	}
	resp.NoContent(c)
}
