package domain

import "time"

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"size:256;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:50;not null" json:"slug"`
}

func (Category) TableName() string { return "categories" }

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"-"`
	Name string `gorm:"size:256;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:50;not null" json:"slug"`
}

func (Genre) TableName() string { return "genres" }

type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null;index" json:"name"`
	Year        int       `gorm:"not null;index" json:"year"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  uint      `gorm:"not null;index" json:"-"`
	Category    Category  `json:"category"`
	Genres      []Genre   `gorm:"many2many:title_genres" json:"genre"`
	CreatedAt   time.Time `json:"-"`
}

func (Title) TableName() string { return "titles" }

// TitleFilter 列表筛选条件，零值字段不参与过滤
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

type CategoryRepository interface {
	Create(c *Category) error
	FindBySlug(slug string) (*Category, error)
	List(search string, offset, limit int) ([]Category, int64, error)
	DeleteBySlug(slug string) (bool, error)
}

type GenreRepository interface {
	Create(g *Genre) error
	FindBySlug(slug string) (*Genre, error)
	FindBySlugs(slugs []string) ([]Genre, error)
	List(search string, offset, limit int) ([]Genre, int64, error)
	DeleteBySlug(slug string) (bool, error)
}

type TitleRepository interface {
	Create(t *Title) error
	FindByID(id uint) (*Title, error)
	List(f TitleFilter, offset, limit int) ([]Title, int64, error)
	Update(t *Title) error
	ReplaceGenres(t *Title, genres []Genre) error
	Delete(id uint) (bool, error)
	// AverageScore 返回 (平均分, 是否有评论)
	AverageScore(titleID uint) (float64, bool, error)
}
