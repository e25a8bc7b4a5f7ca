package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"searchadmin/internal/entity"
	"searchadmin/internal/model"

	"github.com/sirupsen/logrus"
)

// UserDirectory 管理用户账户
type UserDirectory struct {
	repo  model.Repository
	roles *RoleRegistry
}

// NewUserDirectory 创建用户服务
func NewUserDirectory(repo model.Repository, roles *RoleRegistry) *UserDirectory {
	return &UserDirectory{repo: repo, roles: roles}
}

// CreateUserParams 创建用户参数。RoleID 为空时使用默认角色
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
	RoleID   *uint
}

// Create 创建用户。密码只以 bcrypt 哈希保存
func (s *UserDirectory) Create(ctx context.Context, params CreateUserParams) (*entity.DbUser, error) {
	name := strings.TrimSpace(params.Name)
	email := strings.TrimSpace(params.Email)
	if name == "" {
		return nil, fmt.Errorf("%w: user name is empty", entity.ErrInvalidInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is empty", entity.ErrInvalidInput)
	}

	user := entity.DbUser{Name: name, Email: email}
	if err := user.SetPassword(params.Password); err != nil {
		return nil, err
	}

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		var (
			role *entity.DbRole
			err  error
		)
		if params.RoleID == nil {
			role, err = s.roles.ResolveDefault(ctx)
		} else {
			role, err = s.repo.GetRoleByID(ctx, *params.RoleID)
		}
		if err != nil {
			return err
		}

		if err := s.ensureUserFree(ctx, name, email); err != nil {
			return err
		}

		user.RoleID = role.ID
		if err := s.repo.CreateUser(ctx, &user); err != nil {
			return err
		}
		user.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"user":    user.Name,
		"role":    user.Role.Name,
	}).Info("user created")
	return &user, nil
}

// FindByName 按名称查找用户（包含角色）
func (s *UserDirectory) FindByName(ctx context.Context, name string) (*entity.DbUser, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: user name is empty", entity.ErrInvalidInput)
	}
	return s.repo.GetUserByName(ctx, trimmed)
}

// List 分页列出用户，可按角色或关键字过滤
func (s *UserDirectory) List(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	return s.repo.ListUsers(ctx, params)
}

// ListByRole 列出某角色下的用户
func (s *UserDirectory) ListByRole(ctx context.Context, roleName string, page entity.BaseParams) ([]entity.DbUser, *entity.Meta, error) {
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, nil, err
	}
	return s.repo.ListUsers(ctx, &entity.UserQuery{BaseParams: page, RoleID: role.ID})
}

// SetPassword 替换用户密码
func (s *UserDirectory) SetPassword(ctx context.Context, name, password string) error {
	return s.repo.Transaction(ctx, func(ctx context.Context) error {
		user, err := s.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if err := user.SetPassword(password); err != nil {
			return err
		}
		return s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{PasswordHash: &user.PasswordHash})
	})
}

// VerifyPassword 校验密码，不匹配时返回 auth.ErrPasswordMismatch
func (s *UserDirectory) VerifyPassword(ctx context.Context, name, password string) error {
	user, err := s.FindByName(ctx, name)
	if err != nil {
		return err
	}
	return user.VerifyPassword(password)
}

// AssignRole 将用户改为指定角色
func (s *UserDirectory) AssignRole(ctx context.Context, name, roleName string) (*entity.DbUser, error) {
	var user *entity.DbUser
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.FindByName(ctx, name)
		if err != nil {
			return err
		}
		role, err := s.roles.FindByName(ctx, roleName)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{RoleID: &role.ID}); err != nil {
			return err
		}
		user.RoleID = role.ID
		user.Role = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete 删除用户；仍拥有页面设置或查询时返回 ErrConstraintViolation
func (s *UserDirectory) Delete(ctx context.Context, name string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		user, err := s.FindByName(ctx, name)
		if err != nil {
			return err
		}
		settings, err := s.repo.CountPageSettings(ctx, user.ID)
		if err != nil {
			return err
		}
		queries, err := s.repo.CountSavedQueries(ctx, &entity.SavedQueryQuery{UserID: user.ID})
		if err != nil {
			return err
		}
		if settings > 0 || queries > 0 {
			return fmt.Errorf("%w: user %q owns %d page settings and %d saved queries",
				entity.ErrConstraintViolation, user.Name, settings, queries)
		}
		return s.repo.DeleteUser(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	logrus.WithField("user", name).Info("user deleted")
	return nil
}

func (s *UserDirectory) ensureUserFree(ctx context.Context, name, email string) error {
	_, err := s.repo.GetUserByName(ctx, name)
	switch {
	case err == nil:
		return fmt.Errorf("%w: user %q already exists", entity.ErrConstraintViolation, name)
	case !errors.Is(err, entity.ErrNotFound):
		return err
	}

	_, err = s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return fmt.Errorf("%w: email %q is already registered", entity.ErrConstraintViolation, email)
	case !errors.Is(err, entity.ErrNotFound):
		return err
	}
	return nil
}
