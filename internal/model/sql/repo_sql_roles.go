package sql

import (
	"context"
	"fmt"
	"strings"

	"searchadmin/internal/entity"

	"gorm.io/gorm"
)

// CreateRole inserts a new role.
func (r *GormRepository) CreateRole(ctx context.Context, role *entity.DbRole) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if role == nil {
		return fmt.Errorf("%w: role is nil", entity.ErrInvalidInput)
	}
	return translateError(r.conn(ctx).Create(role).Error, "create role %q", role.Name)
}

// UpdateRole updates role fields.
func (r *GormRepository) UpdateRole(ctx context.Context, id uint, updates entity.RoleUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("%w: invalid role id", entity.ErrInvalidInput)
	}
	if updates.IsEmpty() {
		return nil
	}

	result := r.conn(ctx).Model(&entity.DbRole{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return translateError(result.Error, "update role %d", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "update role %d", id)
	}
	return nil
}

// GetRoleByID loads a role by ID.
func (r *GormRepository) GetRoleByID(ctx context.Context, id uint) (*entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("%w: invalid role id", entity.ErrInvalidInput)
	}
	var role entity.DbRole
	if err := r.conn(ctx).First(&role, id).Error; err != nil {
		return nil, translateError(err, "role %d", id)
	}
	return &role, nil
}

// GetRoleByName loads a role by its unique name.
func (r *GormRepository) GetRoleByName(ctx context.Context, name string) (*entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: role name is empty", entity.ErrInvalidInput)
	}
	var role entity.DbRole
	if err := r.conn(ctx).Where("name = ?", trimmed).First(&role).Error; err != nil {
		return nil, translateError(err, "role %q", trimmed)
	}
	return &role, nil
}

// ListRoles returns all roles ordered by ID.
func (r *GormRepository) ListRoles(ctx context.Context) ([]entity.DbRole, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var roles []entity.DbRole
	if err := r.conn(ctx).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// DeleteRole removes a role by ID.
func (r *GormRepository) DeleteRole(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("%w: invalid role id", entity.ErrInvalidInput)
	}
	result := r.conn(ctx).Delete(&entity.DbRole{}, id)
	if result.Error != nil {
		return translateError(result.Error, "delete role %d", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "delete role %d", id)
	}
	return nil
}
