package db

import (
	"fmt"
	"time"

	"searchadmin/internal/auth"
	"searchadmin/internal/entity/common"
)

// User 表示持久化的用户账户。密码只以哈希形式保存，不可读回。
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
	Email        string    `gorm:"column:email;type:varchar(64);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	RoleID       uint      `gorm:"column:role_id;index;not null" json:"role_id"`
	Role         *Role     `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"role,omitempty"`
}

// TableName 指定表名。
func (User) TableName() string {
	return "users"
}

// SetPassword hashes the plaintext and keeps only the hash.
func (u *User) SetPassword(plain string) error {
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	u.PasswordHash = hash
	return nil
}

// VerifyPassword compares a candidate against the stored hash.
func (u *User) VerifyPassword(candidate string) error {
	return auth.VerifyPassword(u.PasswordHash, candidate)
}

// Password always fails: the plaintext is never retained.
func (u *User) Password() (string, error) {
	return "", fmt.Errorf("%w: password is not a readable attribute", common.ErrInvalidOperation)
}

func (u User) String() string {
	role := ""
	if u.Role != nil {
		role = u.Role.Name
	}
	return fmt.Sprintf("<User(name='%s', email='%s', role='%s')>", u.Name, u.Email, role)
}
