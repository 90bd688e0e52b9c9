package domain

import "time"

// OtpCode 每个邮箱最多一条记录，签发时整行 upsert。
// 过期只在校验时比较 ExpiresAt，不做后台清理。
type OtpCode struct {
	Email     string    `gorm:"primaryKey;size:254" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}

func (OtpCode) TableName() string { return "otp_codes" }

func (o *OtpCode) Live(now time.Time) bool { return o.ExpiresAt.After(now) }

type OtpRepository interface {
	// FindLive 返回未过期记录，没有则 (nil, nil)
	FindLive(email string, now time.Time) (*OtpCode, error)
	Upsert(o *OtpCode) error
}
