package service

import (
	"go.uber.org/zap"

	"go-media-review/internal/domain"
	"go-media-review/pkg/utils"
)

// UserPatch 部分更新，nil 字段不动
type UserPatch struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

type UserService struct {
	Users domain.UserRepository
	L     *zap.Logger
}

func NewUserService(users domain.UserRepository, l *zap.Logger) *UserService {
	return &UserService{Users: users, L: l}
}

func (s *UserService) GetByUsername(username string) (*domain.User, error) {
	u, err := s.Users.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *UserService) List(search string, offset, limit int) ([]domain.User, int64, error) {
	return s.Users.List(search, offset, limit)
}

// Create 管理端建号，可直接指定角色，不走 OTP
func (s *UserService) Create(username, email, role string) (*domain.User, error) {
	fe := FieldErrors{}
	for _, msg := range validateUsername(username) {
		fe.Add("username", msg)
	}
	for _, msg := range validateEmail(email) {
		fe.Add("email", msg)
	}
	if role == "" {
		role = domain.RoleUser
	} else if !validRole(role) {
		fe.Add("role", "role must be one of: user, moderator, admin")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	if conflictFe, err := conflictCheck(s.Users, username, email); err != nil {
		return nil, err
	} else if len(conflictFe) > 0 {
		return nil, conflictFe
	}

	u := &domain.User{ID: utils.NewID(), Username: username, Email: email, Role: role}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	s.L.Info("user created by admin", zap.String("username", username), zap.String("role", role))
	return u, nil
}

// Update 非管理员改 role 时静默丢弃，保持当前值（自助改资料场景）
func (s *UserService) Update(u *domain.User, patch UserPatch, callerIsAdmin bool) (*domain.User, error) {
	fe := FieldErrors{}
	if patch.Username != nil && *patch.Username != u.Username {
		msgs := validateUsername(*patch.Username)
		for _, msg := range msgs {
			fe.Add("username", msg)
		}
		if len(msgs) == 0 {
			if taken, err := s.Users.UsernameTaken(*patch.Username, u.ID); err != nil {
				return nil, err
			} else if taken {
				fe.Add("username", "this username is already taken")
			}
		}
	}
	if patch.Email != nil && *patch.Email != u.Email {
		msgs := validateEmail(*patch.Email)
		for _, msg := range msgs {
			fe.Add("email", msg)
		}
		if len(msgs) == 0 {
			if taken, err := s.Users.EmailTaken(*patch.Email, u.ID); err != nil {
				return nil, err
			} else if taken {
				fe.Add("email", "this email is already taken")
			}
		}
	}
	if patch.Role != nil && callerIsAdmin && !validRole(*patch.Role) {
		fe.Add("role", "role must be one of: user, moderator, admin")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.Role != nil && callerIsAdmin {
		u.Role = *patch.Role
	}

	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) DeleteByUsername(username string) error {
	u, err := s.Users.FindByUsername(username)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	return s.Users.DeleteByUsername(username)
}

func validRole(role string) bool {
	switch role {
	case domain.RoleUser, domain.RoleModerator, domain.RoleAdmin:
		return true
	}
	return false
}

// conflictCheck 占用判定含软删行，否则封禁号挡住的 username 会在 Create 时撞唯一索引
func conflictCheck(users domain.UserRepository, username, email string) (FieldErrors, error) {
	fe := FieldErrors{}
	if taken, err := users.UsernameTaken(username, ""); err != nil {
		return nil, err
	} else if taken {
		fe.Add("username", "this username is already taken")
	}
	if taken, err := users.EmailTaken(email, ""); err != nil {
		return nil, err
	} else if taken {
		fe.Add("email", "this email is already taken")
	}
	return fe, nil
}
