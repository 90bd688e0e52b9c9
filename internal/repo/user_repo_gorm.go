package repo

import (
	"errors"

	"gorm.io/gorm"

	"go-media-review/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(u *domain.User) error { return r.db.Create(u).Error }

func (r *UserRepo) FindByID(id string) (*domain.User, error) {
	return r.first("id = ?", id)
}

func (r *UserRepo) FindByUsername(username string) (*domain.User, error) {
	return r.first("username = ?", username)
}

func (r *UserRepo) FindByPair(username, email string) (*domain.User, error) {
	return r.first("username = ? AND email = ?", username, email)
}

func (r *UserRepo) UsernameTaken(username, excludeID string) (bool, error) {
	return r.taken("username = ?", username, excludeID)
}

func (r *UserRepo) EmailTaken(email, excludeID string) (bool, error) {
	return r.taken("email = ?", email, excludeID)
}

// taken 走 Unscoped：软删的行照样占用唯一索引
func (r *UserRepo) taken(query, value, excludeID string) (bool, error) {
	tx := r.db.Unscoped().Model(&domain.User{}).Where(query, value)
	if excludeID != "" {
		tx = tx.Where("id <> ?", excludeID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) first(query string, args ...any) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, append([]any{query}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(search string, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.Model(&domain.User{})
	if search != "" {
		tx = tx.Where("username LIKE ?", "%"+search+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Order("username").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Update(u *domain.User) error { return r.db.Save(u).Error }

func (r *UserRepo) DeleteByUsername(username string) error {
	return r.db.Where("username = ?", username).Delete(&domain.User{}).Error
}
