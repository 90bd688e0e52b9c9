package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-media-review/internal/domain"
)

// Category / Genre 结构完全对称，查询逻辑共用 slugList

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Create(c *domain.Category) error { return r.db.Create(c).Error }

func (r *CategoryRepo) FindBySlug(slug string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.First(&c, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) List(search string, offset, limit int) ([]domain.Category, int64, error) {
	var items []domain.Category
	total, err := slugList(r.db.Model(&domain.Category{}), search, offset, limit, &items)
	return items, total, err
}

func (r *CategoryRepo) DeleteBySlug(slug string) (bool, error) {
	res := r.db.Where("slug = ?", slug).Delete(&domain.Category{})
	return res.RowsAffected > 0, res.Error
}

type GenreRepo struct{ db *gorm.DB }

func NewGenreRepo(db *gorm.DB) *GenreRepo { return &GenreRepo{db: db} }

func (r *GenreRepo) Create(g *domain.Genre) error { return r.db.Create(g).Error }

func (r *GenreRepo) FindBySlug(slug string) (*domain.Genre, error) {
	var g domain.Genre
	err := r.db.First(&g, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GenreRepo) FindBySlugs(slugs []string) ([]domain.Genre, error) {
	var gs []domain.Genre
	if err := r.db.Where("slug IN ?", slugs).Find(&gs).Error; err != nil {
		return nil, err
	}
	return gs, nil
}

func (r *GenreRepo) List(search string, offset, limit int) ([]domain.Genre, int64, error) {
	var items []domain.Genre
	total, err := slugList(r.db.Model(&domain.Genre{}), search, offset, limit, &items)
	return items, total, err
}

func (r *GenreRepo) DeleteBySlug(slug string) (bool, error) {
	res := r.db.Where("slug = ?", slug).Delete(&domain.Genre{})
	return res.RowsAffected > 0, res.Error
}

func slugList(tx *gorm.DB, search string, offset, limit int, out any) (int64, error) {
	if search != "" {
		tx = tx.Where("name LIKE ?", "%"+search+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := tx.Order("name").Offset(offset).Limit(limit).Find(out).Error; err != nil {
		return 0, err
	}
	return total, nil
}

type TitleRepo struct{ db *gorm.DB }

func NewTitleRepo(db *gorm.DB) *TitleRepo { return &TitleRepo{db: db} }

func (r *TitleRepo) Create(t *domain.Title) error { return r.db.Create(t).Error }

func (r *TitleRepo) FindByID(id uint) (*domain.Title, error) {
	var t domain.Title
	err := r.db.Preload("Category").Preload("Genres").First(&t, "titles.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TitleRepo) List(f domain.TitleFilter, offset, limit int) ([]domain.Title, int64, error) {
	tx := r.db.Model(&domain.Title{})
	if f.CategorySlug != "" {
		tx = tx.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		tx = tx.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
	}
	if f.Name != "" {
		tx = tx.Where("titles.name LIKE ?", "%"+f.Name+"%")
	}
	if f.Year != 0 {
		tx = tx.Where("titles.year = ?", f.Year)
	}

	var total int64
	if err := tx.Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var titles []domain.Title
	err := tx.Distinct().Preload("Category").Preload("Genres").
		Order("titles.name").Offset(offset).Limit(limit).Find(&titles).Error
	if err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func (r *TitleRepo) Update(t *domain.Title) error {
	return r.db.Omit("Genres", "Category").Save(t).Error
}

func (r *TitleRepo) ReplaceGenres(t *domain.Title, genres []domain.Genre) error {
	return r.db.Model(t).Association("Genres").Replace(genres)
}

func (r *TitleRepo) Delete(id uint) (bool, error) {
	res := r.db.Select("Genres").Delete(&domain.Title{ID: id})
	return res.RowsAffected > 0, res.Error
}

func (r *TitleRepo) AverageScore(titleID uint) (float64, bool, error) {
	var avg *float64
	err := r.db.Model(&domain.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}
