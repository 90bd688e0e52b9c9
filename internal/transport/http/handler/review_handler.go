package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-media-review/internal/authz"
	"go-media-review/internal/core/auth"
	"go-media-review/internal/domain"
	"go-media-review/internal/service"
	mdw "go-media-review/internal/transport/http/middleware"
	resp "go-media-review/internal/transport/http/response"
)

// ReviewHandler 嵌套路由 /titles/:title_id/reviews[/:review_id/comments]。
// 请求级权限走中间件，对象级权限查到对象后再判
type ReviewHandler struct {
	Reviews *service.ReviewService
	JWT     *auth.JWTer
	Repo    domain.UserRepository
}

func NewReviewHandler(reviews *service.ReviewService, jwter *auth.JWTer, repo domain.UserRepository) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, JWT: jwter, Repo: repo}
}

var reviewPolicy = authz.AuthorOrModeratorOrAdminOrReadOnly{}

func (h *ReviewHandler) MountAPI(api *gin.RouterGroup) {
	g := api.Group("/titles/:title_id/reviews")
	g.Use(mdw.AuthJWT(h.JWT, h.Repo, true), mdw.RequirePolicy(reviewPolicy))
	g.GET("", h.listReviews)
	g.POST("", h.createReview)
	g.GET("/:review_id", h.getReview)
	g.PATCH("/:review_id", h.patchReview)
	g.DELETE("/:review_id", h.deleteReview)

	cg := g.Group("/:review_id/comments")
	cg.GET("", h.listComments)
	cg.POST("", h.createComment)
	cg.GET("/:id", h.getComment)
	cg.PATCH("/:id", h.patchComment)
	cg.DELETE("/:id", h.deleteComment)
}

type reviewView struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func reviewViewOf(rv *domain.Review) reviewView {
	return reviewView{
		ID:      rv.ID,
		Text:    rv.Text,
		Author:  rv.Author.Username,
		Score:   rv.Score,
		PubDate: rv.PubDate,
	}
}

type commentView struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func commentViewOf(cm *domain.Comment) commentView {
	return commentView{ID: cm.ID, Text: cm.Text, Author: cm.Author.Username, PubDate: cm.PubDate}
}

// objectAllowed 对象级判定，失败时直接写响应
func objectAllowed(c *gin.Context, authorID string) bool {
	if reviewPolicy.HasObjectPermission(c.Request.Method, mdw.Principal(c), authorID) {
		return true
	}
	resp.Detail(c, http.StatusForbidden, "forbidden")
	return false
}

// ---------- reviews ----------

func (h *ReviewHandler) listReviews(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		resp.Detail(c, http.StatusNotFound, "not found")
		return
	}
	page, size, offset := pageParams(c)
	reviews, total, err := h.Reviews.ListReviews(titleID, offset, size)
	if err != nil {
		resp.Err(c, err)
		return
	}
	views := make([]reviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, reviewViewOf(&reviews[i]))
	}
	resp.OK(c, resp.Page{List: views, Total: total, Page: page, Size: size})
}

type reviewIn struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

func (h *ReviewHandler) createReview(c *gin.Context) {
	titleID, ok := uintParam(c, "title_id")
	if !ok {
		resp.Detail(c, http.StatusNotFound, "not found")
		return
	}
	var in reviewIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p := mdw.Principal(c)
	rv, err := h.Reviews.CreateReview(titleID, p.ID, in.Text, in.Score)
	if err != nil {
		resp.Err(c, err)
		return
	}
	rv.Author.Username = p.Username
	resp.Created(c, reviewViewOf(rv))
}

func (h *ReviewHandler) loadReview(c *gin.Context) (*domain.Review, bool) {
	titleID, ok1 := uintParam(c, "title_id")
	reviewID, ok2 := uintParam(c, "review_id")
	if !ok1 || !ok2 {
		resp.Detail(c, http.StatusNotFound, "not found")
		return nil, false
	}
	rv, err := h.Reviews.GetReview(titleID, reviewID)
	if err != nil {
		resp.Err(c, err)
		return nil, false
	}
	return rv, true
}

func (h *ReviewHandler) getReview(c *gin.Context) {
	rv, ok := h.loadReview(c)
	if !ok {
		return
	}
	resp.OK(c, reviewViewOf(rv))
}

type reviewPatchIn struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

func (h *ReviewHandler) patchReview(c *gin.Context) {
	rv, ok := h.loadReview(c)
	if !ok {
		return
	}
	if !objectAllowed(c, rv.AuthorID) {
		return
	}
	var in reviewPatchIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.Reviews.UpdateReview(rv, service.ReviewPatch{Text: in.Text, Score: in.Score})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, reviewViewOf(updated))
}

func (h *ReviewHandler) deleteReview(c *gin.Context) {
	rv, ok := h.loadReview(c)
	if !ok {
		return
	}
	if !objectAllowed(c, rv.AuthorID) {
		return
	}
	if err := h.Reviews.DeleteReview(rv); err != nil {
		resp.Err(c, err)
		return
	}
	resp.NoContent(c)
}

// ---------- comments ----------

func (h *ReviewHandler) listComments(c *gin.Context) {
	titleID, ok1 := uintParam(c, "title_id")
	reviewID, ok2 := uintParam(c, "review_id")
	if !ok1 || !ok2 {
		resp.Detail(c, http.StatusNotFound, "not found")
		return
	}
	page, size, offset := pageParams(c)
	comments, total, err := h.Reviews.ListComments(titleID, reviewID, offset, size)
	if err != nil {
		resp.Err(c, err)
		return
	}
	views := make([]commentView, 0, len(comments))
	for i := range comments {
		views = append(views, commentViewOf(&comments[i]))
	}
	resp.OK(c, resp.Page{List: views, Total: total, Page: page, Size: size})
}

type commentIn struct {
	Text string `json:"text"`
}

func (h *ReviewHandler) createComment(c *gin.Context) {
	titleID, ok1 := uintParam(c, "title_id")
	reviewID, ok2 := uintParam(c, "review_id")
	if !ok1 || !ok2 {
		resp.Detail(c, http.StatusNotFound, "not found")
		return
	}
	var in commentIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	p := mdw.Principal(c)
	cm, err := h.Reviews.CreateComment(titleID, reviewID, p.ID, in.Text)
	if err != nil {
		resp.Err(c, err)
		return
	}
	cm.Author.Username = p.Username
	resp.Created(c, commentViewOf(cm))
}

func (h *ReviewHandler) loadComment(c *gin.Context) (*domain.Comment, bool) {
	titleID, ok1 := uintParam(c, "title_id")
	reviewID, ok2 := uintParam(c, "review_id")
	id, ok3 := uintParam(c, "id")
	if !ok1 || !ok2 || !ok3 {
		resp.Detail(c, http.StatusNotFound, "not found")
		return nil, false
	}
	cm, err := h.Reviews.GetComment(titleID, reviewID, id)
	if err != nil {
		resp.Err(c, err)
		return nil, false
	}
	return cm, true
}

func (h *ReviewHandler) getComment(c *gin.Context) {
	cm, ok := h.loadComment(c)
	if !ok {
		return
	}
	resp.OK(c, commentViewOf(cm))
}

func (h *ReviewHandler) patchComment(c *gin.Context) {
	cm, ok := h.loadComment(c)
	if !ok {
		return
	}
	if !objectAllowed(c, cm.AuthorID) {
		return
	}
	var in commentIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.Reviews.UpdateComment(cm, in.Text)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, commentViewOf(updated))
}

func (h *ReviewHandler) deleteComment(c *gin.Context) {
	cm, ok := h.loadComment(c)
	if !ok {
		return
	}
	if !objectAllowed(c, cm.AuthorID) {
		return
	}
	if err := h.Reviews.DeleteComment(cm); err != nil {
		resp.Err(c, err)
		return
	}
	resp.NoContent(c)
}
