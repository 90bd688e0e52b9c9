package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-media-review/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(rv *domain.Review) error { return r.db.Create(rv).Error }

func (r *ReviewRepo) FindByID(titleID, id uint) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.Preload("Author").First(&rv, "id = ? AND title_id = ?", id, titleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) ExistsByTitleAndAuthor(titleID uint, authorID string) (bool, error) {
	var n int64
	err := r.db.Model(&domain.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&n).Error
	return n > 0, err
}

func (r *ReviewRepo) ListByTitle(titleID uint, offset, limit int) ([]domain.Review, int64, error) {
	tx := r.db.Model(&domain.Review{}).Where("title_id = ?", titleID)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reviews []domain.Review
	err := tx.Preload("Author").Order("pub_date DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *ReviewRepo) Update(rv *domain.Review) error {
	return r.db.Omit("Author", "Comments").Save(rv).Error
}

// Delete 评论随评价一起删（外键 CASCADE 之外再显式删一遍，兜底无外键的库）
func (r *ReviewRepo) Delete(rv *domain.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", rv.ID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Review{}, rv.ID).Error
	})
}

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) Create(c *domain.Comment) error { return r.db.Create(c).Error }

func (r *CommentRepo) FindByID(reviewID, id uint) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.Preload("Author").First(&c, "id = ? AND review_id = ?", id, reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) ListByReview(reviewID uint, offset, limit int) ([]domain.Comment, int64, error) {
	tx := r.db.Model(&domain.Comment{}).Where("review_id = ?", reviewID)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var comments []domain.Comment
	err := tx.Preload("Author").Order("pub_date ASC").Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *CommentRepo) Update(c *domain.Comment) error {
	return r.db.Omit("Author").Save(c).Error
}

func (r *CommentRepo) Delete(c *domain.Comment) error {
	return r.db.Delete(&domain.Comment{}, c.ID).Error
}
