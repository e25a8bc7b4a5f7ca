package db

import (
	"fmt"
	"time"
)

// DefaultRoleName 是未指定角色时用户被分配的角色。
const DefaultRoleName = "user"

// Role 表示权限类别，一个角色对应多个用户。
type Role struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"column:description;type:varchar(255)" json:"description"`
}

// TableName 指定表名。
func (Role) TableName() string {
	return "roles"
}

func (r Role) String() string {
	return r.Name
}

// GoString mirrors the debug rendering used in logs.
func (r Role) GoString() string {
	return fmt.Sprintf("<Role(id=%d, name='%s', description='%s')>", r.ID, r.Name, r.Description)
}
