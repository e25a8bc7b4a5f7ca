package sql

import (
	"context"
	"fmt"
	"strings"

	"searchadmin/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateUser persists a new user record.
func (r *GormRepository) CreateUser(ctx context.Context, user *entity.DbUser) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if user == nil {
		return fmt.Errorf("%w: user is nil", entity.ErrInvalidInput)
	}
	err := r.conn(ctx).Omit(clause.Associations).Create(user).Error
	return translateError(err, "create user %q", user.Name)
}

// UpdateUser updates an existing user entry.
func (r *GormRepository) UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("%w: invalid user", entity.ErrInvalidInput)
	}
	if updates.IsEmpty() {
		return nil
	}
	result := r.conn(ctx).Model(&entity.DbUser{}).Where("id = ?", id).Updates(updates.ToMap())
	if result.Error != nil {
		return translateError(result.Error, "update user %d", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "update user %d", id)
	}
	return nil
}

// GetUserByID loads a user by ID.
func (r *GormRepository) GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("%w: invalid user id", entity.ErrInvalidInput)
	}
	var user entity.DbUser
	if err := r.conn(ctx).Preload("Role").First(&user, id).Error; err != nil {
		return nil, translateError(err, "user %d", id)
	}
	return &user, nil
}

// GetUserByName loads a user by its unique name.
func (r *GormRepository) GetUserByName(ctx context.Context, name string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: user name is empty", entity.ErrInvalidInput)
	}
	var user entity.DbUser
	if err := r.conn(ctx).Preload("Role").Where("name = ?", trimmed).First(&user).Error; err != nil {
		return nil, translateError(err, "user %q", trimmed)
	}
	return &user, nil
}

// GetUserByEmail loads a user by email.
func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: email is empty", entity.ErrInvalidInput)
	}

	var user entity.DbUser
	if err := r.conn(ctx).Preload("Role").Where("LOWER(email) = ?", strings.ToLower(trimmed)).First(&user).Error; err != nil {
		return nil, translateError(err, "user with email %q", trimmed)
	}
	return &user, nil
}

// ListUsers returns paginated users.
func (r *GormRepository) ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.conn(ctx).Model(&entity.DbUser{})
	var base entity.BaseParams
	if params != nil {
		base = params.BaseParams
		if params.RoleID != 0 {
			query = query.Where("role_id = ?", params.RoleID)
		}
		if keyword := strings.TrimSpace(params.Keyword); keyword != "" {
			kw := "%" + strings.ToLower(keyword) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", kw, kw)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	paged, page, pageSize := r.paginate(query, base)

	var users []entity.DbUser
	if err := paged.Preload("Role").Find(&users).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(total, page, pageSize)
	return users, meta, nil
}

// CountUsers returns the number of users, optionally restricted to one role.
func (r *GormRepository) CountUsers(ctx context.Context, roleID uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	query := r.conn(ctx).Model(&entity.DbUser{})
	if roleID != 0 {
		query = query.Where("role_id = ?", roleID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteUser removes a user by ID.
func (r *GormRepository) DeleteUser(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("%w: invalid user id", entity.ErrInvalidInput)
	}
	result := r.conn(ctx).Delete(&entity.DbUser{}, id)
	if result.Error != nil {
		return translateError(result.Error, "delete user %d", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "delete user %d", id)
	}
	return nil
}
