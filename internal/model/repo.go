package model

import (
	"context"

	"searchadmin/internal/entity"
)

// Repository 定义数据库操作接口。
// 查找失败返回包装了 entity.ErrNotFound 的错误，唯一约束冲突返回 entity.ErrConstraintViolation。
type Repository interface {
	// Transaction 在单个事务中执行 fn；fn 收到的 ctx 携带事务，
	// 用它调用的仓库方法都在同一事务内。fn 返回错误时整体回滚
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// 角色
	CreateRole(ctx context.Context, role *entity.DbRole) error
	UpdateRole(ctx context.Context, id uint, updates entity.RoleUpdates) error
	GetRoleByID(ctx context.Context, id uint) (*entity.DbRole, error)
	GetRoleByName(ctx context.Context, name string) (*entity.DbRole, error)
	ListRoles(ctx context.Context) ([]entity.DbRole, error)
	DeleteRole(ctx context.Context, id uint) error

	// 用户
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	GetUserByName(ctx context.Context, name string) (*entity.DbUser, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	CountUsers(ctx context.Context, roleID uint) (int64, error)
	DeleteUser(ctx context.Context, id uint) error

	// 页面设置
	CreatePageSettings(ctx context.Context, settings *entity.DbPageSettings) error
	GetPageSettingsByID(ctx context.Context, id uint) (*entity.DbPageSettings, error)
	GetPageSettingsByName(ctx context.Context, name string) (*entity.DbPageSettings, error)
	LockPageSettingsByName(ctx context.Context, name string) (*entity.DbPageSettings, error)
	SavePageSettingsDocument(ctx context.Context, id uint, doc entity.Document) error
	ListPageSettings(ctx context.Context, params *entity.PageSettingsQuery) ([]entity.DbPageSettings, error)
	CountPageSettings(ctx context.Context, userID uint) (int64, error)
	DeletePageSettings(ctx context.Context, id uint) error

	// 保存的查询
	CreateSavedQuery(ctx context.Context, query *entity.DbSavedQuery) error
	SaveSavedQuery(ctx context.Context, query *entity.DbSavedQuery) error
	GetSavedQueryByID(ctx context.Context, id uint) (*entity.DbSavedQuery, error)
	GetSavedQueryByName(ctx context.Context, name string) (*entity.DbSavedQuery, error)
	FindSavedQueriesByRequestID(ctx context.Context, requestID string) ([]entity.DbSavedQuery, error)
	ListSavedQueries(ctx context.Context, params *entity.SavedQueryQuery) ([]entity.DbSavedQuery, *entity.Meta, error)
	CountSavedQueries(ctx context.Context, params *entity.SavedQueryQuery) (int64, error)
	DeleteSavedQuery(ctx context.Context, id uint) error
}
