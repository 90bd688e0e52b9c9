package service

import (
	"crypto/subtle"
	"time"

	"go-media-review/internal/core/auth"
	"go-media-review/internal/domain"
)

// TokenService (username, code) 换 JWT。密码在这条链路上不存在
type TokenService struct {
	Users domain.UserRepository
	Codes domain.OtpRepository
	JWT   *auth.JWTer

	Now func() time.Time
}

func NewTokenService(users domain.UserRepository, codes domain.OtpRepository, jwter *auth.JWTer) *TokenService {
	return &TokenService{Users: users, Codes: codes, JWT: jwter, Now: time.Now}
}

// Exchange 未知用户名返回 ErrNotFound；
// 码缺失/过期/不匹配统一返回 ErrInvalidCode，不泄露具体是哪一种
func (s *TokenService) Exchange(username, code string) (string, error) {
	u, err := s.Users.FindByUsername(username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrNotFound
	}

	live, err := s.Codes.FindLive(u.Email, s.Now())
	if err != nil {
		return "", err
	}
	if live == nil {
		return "", ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(live.Code), []byte(code)) != 1 {
		return "", ErrInvalidCode
	}

	return s.JWT.Issue(u.ID, u.Username, u.Role)
}
