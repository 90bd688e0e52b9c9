package domain

import "time"

// Review (title, author) 唯一，一人一部作品只能评一次
type Review struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TitleID  uint   `gorm:"not null;uniqueIndex:uniq_title_author" json:"-"`
	AuthorID string `gorm:"size:36;not null;uniqueIndex:uniq_title_author" json:"-"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Score    int    `gorm:"not null" json:"score"`

	PubDate time.Time `gorm:"autoCreateTime;index" json:"pub_date"`

	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string { return "reviews" }

type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReviewID uint   `gorm:"not null;index" json:"-"`
	AuthorID string `gorm:"size:36;not null" json:"-"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"-"`
	Text     string `gorm:"type:text;not null" json:"text"`

	PubDate time.Time `gorm:"autoCreateTime;index" json:"pub_date"`
}

func (Comment) TableName() string { return "comments" }

type ReviewRepository interface {
	Create(r *Review) error
	FindByID(titleID, id uint) (*Review, error)
	ExistsByTitleAndAuthor(titleID uint, authorID string) (bool, error)
	// ListByTitle 按 pub_date 倒序（新评论在前）
	ListByTitle(titleID uint, offset, limit int) ([]Review, int64, error)
	Update(r *Review) error
	Delete(r *Review) error
}

type CommentRepository interface {
	Create(c *Comment) error
	FindByID(reviewID, id uint) (*Comment, error)
	// ListByReview 按 pub_date 正序（老评论在前）
	ListByReview(reviewID uint, offset, limit int) ([]Comment, int64, error)
	Update(c *Comment) error
	Delete(c *Comment) error
}
