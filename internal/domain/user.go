package domain

import (
	"time"

	"gorm.io/gorm"
)

// 角色取值。鉴权判断走 authz 的派生谓词，别在业务里直接比较 Role
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Username  string `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Bio       string `gorm:"size:512" json:"bio"`
	Role      string `gorm:"size:16;not null;default:user" json:"role"`

	// 平台级提权标志，与 Role 一起参与 is_admin 派生
	IsSuperuser bool `gorm:"not null;default:false" json:"-"`
	IsStaff     bool `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByPair(username, email string) (*User, error)
	// 占用判定要连软删行一起看：封禁用户仍占着唯一索引。
	// excludeID 非空时排除该行（改自己的资料不算冲突）
	UsernameTaken(username, excludeID string) (bool, error)
	EmailTaken(email, excludeID string) (bool, error)
	List(search string, offset, limit int) ([]User, int64, error)
	Update(u *User) error
	DeleteByUsername(username string) error
}
