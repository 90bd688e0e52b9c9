package service

import (
	"go.uber.org/zap"

	"go-media-review/internal/domain"
	"go-media-review/pkg/utils"
)

// SignupService get-or-create 语义的注册。
// 同一 (username, email) 重复提交等价于「重发确认码」
type SignupService struct {
	Users domain.UserRepository
	Otp   *OtpIssuer
	L     *zap.Logger
}

func NewSignupService(users domain.UserRepository, otp *OtpIssuer, l *zap.Logger) *SignupService {
	return &SignupService{Users: users, Otp: otp, L: l}
}

func (s *SignupService) Signup(username, email string) (*domain.User, error) {
	fe := FieldErrors{}
	for _, msg := range validateUsername(username) {
		fe.Add("username", msg)
	}
	for _, msg := range validateEmail(email) {
		fe.Add("email", msg)
	}
	if len(fe) > 0 {
		return nil, fe
	}

	// 完全相同的 (username, email) 已存在 → 幂等，重发确认码
	if existing, err := s.Users.FindByPair(username, email); err != nil {
		return nil, err
	} else if existing != nil {
		if err := s.Otp.Issue(existing.Email); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if fe, err := conflictCheck(s.Users, username, email); err != nil {
		return nil, err
	} else if len(fe) > 0 {
		return nil, fe
	}

	u := &domain.User{
		ID:       utils.NewID(),
		Username: username,
		Email:    email,
		Role:     domain.RoleUser,
	}
	if err := s.Users.Create(u); err != nil {
		if isDupKey(err) {
			// 并发兜底：两个相同请求赛跑时，输家按冲突规则重查一次
			if existing, e := s.Users.FindByPair(username, email); e == nil && existing != nil {
				if e := s.Otp.Issue(existing.Email); e != nil {
					return nil, e
				}
				return existing, nil
			}
			if fe, e := conflictCheck(s.Users, username, email); e == nil && len(fe) > 0 {
				return nil, fe
			}
		}
		return nil, err
	}
	s.L.Info("user signed up", zap.String("username", username))

	if err := s.Otp.Issue(u.Email); err != nil {
		return nil, err
	}
	return u, nil
}
