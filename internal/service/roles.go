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

// RoleRegistry 管理角色，并负责解析新用户的默认角色
type RoleRegistry struct {
	repo        model.Repository
	defaultRole string
}

// NewRoleRegistry 创建角色服务；defaultRole 为空时使用 "user"
func NewRoleRegistry(repo model.Repository, defaultRole string) *RoleRegistry {
	defaultRole = strings.TrimSpace(defaultRole)
	if defaultRole == "" {
		defaultRole = entity.DefaultRoleName
	}
	return &RoleRegistry{repo: repo, defaultRole: defaultRole}
}

// DefaultRoleName 返回默认角色名
func (s *RoleRegistry) DefaultRoleName() string {
	return s.defaultRole
}

// Create 创建角色；名称为空返回 ErrInvalidInput，名称已存在返回 ErrConstraintViolation
func (s *RoleRegistry) Create(ctx context.Context, name, description string) (*entity.DbRole, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: role name is empty", entity.ErrInvalidInput)
	}

	role := entity.DbRole{Name: trimmed, Description: strings.TrimSpace(description)}
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.ensureRoleNameFree(ctx, trimmed); err != nil {
			return err
		}
		return s.repo.CreateRole(ctx, &role)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"role_id": role.ID, "role": role.Name}).Info("role created")
	return &role, nil
}

// FindByName 按名称查找角色
func (s *RoleRegistry) FindByName(ctx context.Context, name string) (*entity.DbRole, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: role name is empty", entity.ErrInvalidInput)
	}
	return s.repo.GetRoleByName(ctx, trimmed)
}

// List 返回全部角色
func (s *RoleRegistry) List(ctx context.Context) ([]entity.DbRole, error) {
	return s.repo.ListRoles(ctx)
}

// ResolveDefault 返回新用户未指定角色时使用的角色。默认角色缺失属于部署配置错误
func (s *RoleRegistry) ResolveDefault(ctx context.Context) (*entity.DbRole, error) {
	role, err := s.repo.GetRoleByName(ctx, s.defaultRole)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: default role %q does not exist", entity.ErrConfiguration, s.defaultRole)
	}
	return role, err
}

// Rename 重命名角色，已分配的用户保持不变
func (s *RoleRegistry) Rename(ctx context.Context, name, newName string) (*entity.DbRole, error) {
	target := strings.TrimSpace(newName)
	if target == "" {
		return nil, fmt.Errorf("%w: role name is empty", entity.ErrInvalidInput)
	}

	var renamed *entity.DbRole
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		role, err := s.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if role.Name == target {
			renamed = role
			return nil
		}
		if err := s.ensureRoleNameFree(ctx, target); err != nil {
			return err
		}
		if err := s.repo.UpdateRole(ctx, role.ID, entity.RoleUpdates{Name: &target}); err != nil {
			return err
		}
		role.Name = target
		renamed = role
		return nil
	})
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == s.defaultRole && target != s.defaultRole {
		logrus.WithFields(logrus.Fields{"from": name, "to": target}).Warn("default role renamed; new users will fail to resolve a role")
	}
	logrus.WithFields(logrus.Fields{"role_id": renamed.ID, "from": name, "to": target}).Info("role renamed")
	return renamed, nil
}

// Delete 删除角色；仍有用户使用该角色时返回 ErrConstraintViolation
func (s *RoleRegistry) Delete(ctx context.Context, name string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		role, err := s.FindByName(ctx, name)
		if err != nil {
			return err
		}
		count, err := s.repo.CountUsers(ctx, role.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: role %q is assigned to %d user(s)", entity.ErrConstraintViolation, role.Name, count)
		}
		return s.repo.DeleteRole(ctx, role.ID)
	})
	if err != nil {
		return err
	}

	logrus.WithField("role", name).Info("role deleted")
	return nil
}

func (s *RoleRegistry) ensureRoleNameFree(ctx context.Context, name string) error {
	_, err := s.repo.GetRoleByName(ctx, name)
	switch {
	case err == nil:
		return fmt.Errorf("%w: role %q already exists", entity.ErrConstraintViolation, name)
	case errors.Is(err, entity.ErrNotFound):
		return nil
	default:
		return err
	}
}
