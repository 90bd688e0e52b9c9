package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-media-review/internal/domain"
)

type OtpRepo struct{ db *gorm.DB }

func NewOtpRepo(db *gorm.DB) *OtpRepo { return &OtpRepo{db: db} }

func (r *OtpRepo) FindLive(email string, now time.Time) (*domain.OtpCode, error) {
	var o domain.OtpCode
	err := r.db.First(&o, "email = ? AND expires_at > ?", email, now).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Upsert 按 email 整行覆盖。并发签发时 last-writer-wins，
// 值会收敛到最新 code + 最新时间窗，无需额外加锁
func (r *OtpRepo) Upsert(o *domain.OtpCode) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		UpdateAll: true,
	}).Create(o).Error
}
