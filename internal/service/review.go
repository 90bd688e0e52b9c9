package service

import (
	"fmt"

	"go.uber.org/zap"

	"go-media-review/internal/domain"
)

// ReviewService 评价 + 评论。评分写路径顺手失效对应作品的评分缓存
type ReviewService struct {
	Reviews  domain.ReviewRepository
	Comments domain.CommentRepository
	Titles   domain.TitleRepository
	Catalog  *CatalogService
	L        *zap.Logger
}

func NewReviewService(
	reviews domain.ReviewRepository,
	comments domain.CommentRepository,
	titles domain.TitleRepository,
	catalog *CatalogService,
	l *zap.Logger,
) *ReviewService {
	return &ReviewService{Reviews: reviews, Comments: comments, Titles: titles, Catalog: catalog, L: l}
}

func (s *ReviewService) titleExists(titleID uint) error {
	t, err := s.Titles.FindByID(titleID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	return nil
}

func (s *ReviewService) CreateReview(titleID uint, authorID, text string, score int) (*domain.Review, error) {
	if err := s.titleExists(titleID); err != nil {
		return nil, err
	}

	fe := FieldErrors{}
	if text == "" {
		fe.Add("text", "text is required")
	}
	if score < MinScore || score > MaxScore {
		fe.Add("score", fmt.Sprintf("score must be between %d and %d", MinScore, MaxScore))
	}
	if len(fe) > 0 {
		return nil, fe
	}

	// 一人一部作品只能评一次
	if exists, err := s.Reviews.ExistsByTitleAndAuthor(titleID, authorID); err != nil {
		return nil, err
	} else if exists {
		return nil, FieldErrors{"title": {"you have already reviewed this title"}}
	}

	rv := &domain.Review{TitleID: titleID, AuthorID: authorID, Text: text, Score: score}
	if err := s.Reviews.Create(rv); err != nil {
		if isDupKey(err) {
			return nil, FieldErrors{"title": {"you have already reviewed this title"}}
		}
		return nil, err
	}
	s.Catalog.InvalidateRating(titleID)
	return rv, nil
}

func (s *ReviewService) GetReview(titleID, id uint) (*domain.Review, error) {
	rv, err := s.Reviews.FindByID(titleID, id)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, ErrNotFound
	}
	return rv, nil
}

func (s *ReviewService) ListReviews(titleID uint, offset, limit int) ([]domain.Review, int64, error) {
	if err := s.titleExists(titleID); err != nil {
		return nil, 0, err
	}
	return s.Reviews.ListByTitle(titleID, offset, limit)
}

type ReviewPatch struct {
	Text  *string
	Score *int
}

func (s *ReviewService) UpdateReview(rv *domain.Review, patch ReviewPatch) (*domain.Review, error) {
	fe := FieldErrors{}
	if patch.Text != nil {
		if *patch.Text == "" {
			fe.Add("text", "text is required")
		} else {
			rv.Text = *patch.Text
		}
	}
	if patch.Score != nil {
		if *patch.Score < MinScore || *patch.Score > MaxScore {
			fe.Add("score", fmt.Sprintf("score must be between %d and %d", MinScore, MaxScore))
		} else {
			rv.Score = *patch.Score
		}
	}
	if len(fe) > 0 {
		return nil, fe
	}
	if err := s.Reviews.Update(rv); err != nil {
		return nil, err
	}
	s.Catalog.InvalidateRating(rv.TitleID)
	return rv, nil
}

func (s *ReviewService) DeleteReview(rv *domain.Review) error {
	if err := s.Reviews.Delete(rv); err != nil {
		return err
	}
	s.Catalog.InvalidateRating(rv.TitleID)
	return nil
}

// ---------- comments ----------

// getReviewOf 评论路由里 review 必须属于 URL 里的 title
func (s *ReviewService) getReviewOf(titleID, reviewID uint) (*domain.Review, error) {
	return s.GetReview(titleID, reviewID)
}

func (s *ReviewService) CreateComment(titleID, reviewID uint, authorID, text string) (*domain.Comment, error) {
	if _, err := s.getReviewOf(titleID, reviewID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, FieldErrors{"text": {"text is required"}}
	}
	c := &domain.Comment{ReviewID: reviewID, AuthorID: authorID, Text: text}
	if err := s.Comments.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ReviewService) GetComment(titleID, reviewID, id uint) (*domain.Comment, error) {
	if _, err := s.getReviewOf(titleID, reviewID); err != nil {
		return nil, err
	}
	c, err := s.Comments.FindByID(reviewID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *ReviewService) ListComments(titleID, reviewID uint, offset, limit int) ([]domain.Comment, int64, error) {
	if _, err := s.getReviewOf(titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.Comments.ListByReview(reviewID, offset, limit)
}

func (s *ReviewService) UpdateComment(c *domain.Comment, text string) (*domain.Comment, error) {
	if text == "" {
		return nil, FieldErrors{"text": {"text is required"}}
	}
	c.Text = text
	if err := s.Comments.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ReviewService) DeleteComment(c *domain.Comment) error {
	return s.Comments.Delete(c)
}
