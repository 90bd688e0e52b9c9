package service

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"go-media-review/internal/core/cache"
	"go-media-review/internal/domain"
)

const ratingTTL = 5 * time.Minute

func ratingKey(titleID uint) string { return fmt.Sprintf("title:rating:%d", titleID) }

type CatalogService struct {
	Categories domain.CategoryRepository
	Genres     domain.GenreRepository
	Titles     domain.TitleRepository
	Cache      *cache.Cache // 可为 nil（测试 / 无 redis 环境）
	L          *zap.Logger
}

func NewCatalogService(
	categories domain.CategoryRepository,
	genres domain.GenreRepository,
	titles domain.TitleRepository,
	c *cache.Cache,
	l *zap.Logger,
) *CatalogService {
	return &CatalogService{Categories: categories, Genres: genres, Titles: titles, Cache: c, L: l}
}

// ---------- category / genre ----------

func (s *CatalogService) CreateCategory(name, slug string) (*domain.Category, error) {
	if fe := validateNameSlug(name, slug); len(fe) > 0 {
		return nil, fe
	}
	if existing, err := s.Categories.FindBySlug(slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, FieldErrors{"slug": {"this slug is already taken"}}
	}
	c := &domain.Category{Name: name, Slug: slug}
	if err := s.Categories.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) ListCategories(search string, offset, limit int) ([]domain.Category, int64, error) {
	return s.Categories.List(search, offset, limit)
}

func (s *CatalogService) DeleteCategory(slug string) error {
	ok, err := s.Categories.DeleteBySlug(slug)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) CreateGenre(name, slug string) (*domain.Genre, error) {
	if fe := validateNameSlug(name, slug); len(fe) > 0 {
		return nil, fe
	}
	if existing, err := s.Genres.FindBySlug(slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, FieldErrors{"slug": {"this slug is already taken"}}
	}
	g := &domain.Genre{Name: name, Slug: slug}
	if err := s.Genres.Create(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *CatalogService) ListGenres(search string, offset, limit int) ([]domain.Genre, int64, error) {
	return s.Genres.List(search, offset, limit)
}

func (s *CatalogService) DeleteGenre(slug string) error {
	ok, err := s.Genres.DeleteBySlug(slug)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func validateNameSlug(name, slug string) FieldErrors {
	fe := FieldErrors{}
	if name == "" {
		fe.Add("name", "name is required")
	} else if utf8.RuneCountInString(name) > MaxNameLen {
		fe.Add("name", fmt.Sprintf("name must be %d characters or fewer", MaxNameLen))
	}
	for _, msg := range validateSlug(slug) {
		fe.Add("slug", msg)
	}
	return fe
}

// ---------- title ----------

type TitleInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

func (s *CatalogService) CreateTitle(in TitleInput) (*domain.Title, error) {
	category, genres, fe, err := s.resolveTitleInput(in)
	if err != nil {
		return nil, err
	}
	if len(fe) > 0 {
		return nil, fe
	}

	t := &domain.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
		CategoryID:  category.ID,
		Category:    *category,
		Genres:      genres,
	}
	if err := s.Titles.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *CatalogService) GetTitle(id uint) (*domain.Title, error) {
	t, err := s.Titles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *CatalogService) ListTitles(f domain.TitleFilter, offset, limit int) ([]domain.Title, int64, error) {
	return s.Titles.List(f, offset, limit)
}

// TitlePatch 部分更新
type TitlePatch struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   []string // nil = 不动，空切片 = 非法
}

func (s *CatalogService) UpdateTitle(id uint, patch TitlePatch) (*domain.Title, error) {
	t, err := s.GetTitle(id)
	if err != nil {
		return nil, err
	}

	fe := FieldErrors{}
	if patch.Name != nil {
		if *patch.Name == "" || utf8.RuneCountInString(*patch.Name) > MaxNameLen {
			fe.Add("name", fmt.Sprintf("name must be 1-%d characters", MaxNameLen))
		} else {
			t.Name = *patch.Name
		}
	}
	if patch.Year != nil {
		if *patch.Year > time.Now().Year() {
			fe.Add("year", "year must not be in the future")
		} else {
			t.Year = *patch.Year
		}
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.CategorySlug != nil {
		category, err := s.Categories.FindBySlug(*patch.CategorySlug)
		if err != nil {
			return nil, err
		}
		if category == nil {
			fe.Add("category", "unknown category slug")
		} else {
			t.CategoryID = category.ID
			t.Category = *category
		}
	}
	var newGenres []domain.Genre
	if patch.GenreSlugs != nil {
		gs, gfe, err := s.resolveGenres(patch.GenreSlugs)
		if err != nil {
			return nil, err
		}
		fe.Merge(gfe)
		newGenres = gs
	}
	if len(fe) > 0 {
		return nil, fe
	}

	if err := s.Titles.Update(t); err != nil {
		return nil, err
	}
	if newGenres != nil {
		if err := s.Titles.ReplaceGenres(t, newGenres); err != nil {
			return nil, err
		}
		t.Genres = newGenres
	}
	return t, nil
}

func (s *CatalogService) DeleteTitle(id uint) error {
	ok, err := s.Titles.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.InvalidateRating(id)
	return nil
}

// Rating 整数化平均分，无评价时返回 (0, false)。
// 走 redis 读穿缓存，评价写路径负责失效
func (s *CatalogService) Rating(ctx context.Context, titleID uint) (int, bool, error) {
	if s.Cache == nil {
		return s.ratingFromStore(titleID)
	}
	type rating struct {
		Score int  `json:"score"`
		Has   bool `json:"has"`
	}
	r, err := cache.GetOrLoadJSON[rating](s.Cache, ctx, ratingKey(titleID), ratingTTL,
		func(context.Context) (*rating, error) {
			score, has, err := s.ratingFromStore(titleID)
			if err != nil {
				return nil, err
			}
			return &rating{Score: score, Has: has}, nil
		})
	if err != nil {
		// 缓存故障降级直查
		s.L.Warn("rating cache unavailable", zap.Error(err))
		return s.ratingFromStore(titleID)
	}
	return r.Score, r.Has, nil
}

func (s *CatalogService) InvalidateRating(titleID uint) {
	if s.Cache == nil {
		return
	}
	s.Cache.Invalidate(context.Background(), ratingKey(titleID))
}

func (s *CatalogService) ratingFromStore(titleID uint) (int, bool, error) {
	avg, has, err := s.Titles.AverageScore(titleID)
	if err != nil || !has {
		return 0, false, err
	}
	return int(math.Round(avg)), true, nil
}

func (s *CatalogService) resolveTitleInput(in TitleInput) (*domain.Category, []domain.Genre, FieldErrors, error) {
	fe := FieldErrors{}
	if in.Name == "" {
		fe.Add("name", "name is required")
	} else if utf8.RuneCountInString(in.Name) > MaxNameLen {
		fe.Add("name", fmt.Sprintf("name must be %d characters or fewer", MaxNameLen))
	}
	if in.Year > time.Now().Year() {
		fe.Add("year", "year must not be in the future")
	}

	var category *domain.Category
	if in.CategorySlug == "" {
		fe.Add("category", "category is required")
	} else {
		c, err := s.Categories.FindBySlug(in.CategorySlug)
		if err != nil {
			return nil, nil, nil, err
		}
		if c == nil {
			fe.Add("category", "unknown category slug")
		}
		category = c
	}

	genres, gfe, err := s.resolveGenres(in.GenreSlugs)
	if err != nil {
		return nil, nil, nil, err
	}
	fe.Merge(gfe)

	return category, genres, fe, nil
}

func (s *CatalogService) resolveGenres(slugs []string) ([]domain.Genre, FieldErrors, error) {
	fe := FieldErrors{}
	if len(slugs) == 0 {
		fe.Add("genre", "at least one genre is required")
		return nil, fe, nil
	}
	genres, err := s.Genres.FindBySlugs(slugs)
	if err != nil {
		return nil, nil, err
	}
	if len(genres) != len(slugs) {
		known := map[string]struct{}{}
		for _, g := range genres {
			known[g.Slug] = struct{}{}
		}
		for _, slug := range slugs {
			if _, ok := known[slug]; !ok {
				fe.Add("genre", "unknown genre slug: "+slug)
			}
		}
	}
	return genres, fe, nil
}
