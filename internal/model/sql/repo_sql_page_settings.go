package sql

import (
	"context"
	"fmt"
	"strings"

	"searchadmin/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatePageSettings inserts a new page settings row.
func (r *GormRepository) CreatePageSettings(ctx context.Context, settings *entity.DbPageSettings) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if settings == nil {
		return fmt.Errorf("%w: page settings is nil", entity.ErrInvalidInput)
	}
	err := r.conn(ctx).Omit(clause.Associations).Create(settings).Error
	return translateError(err, "create page settings %q", settings.Name)
}

// GetPageSettingsByID loads page settings with the owner.
func (r *GormRepository) GetPageSettingsByID(ctx context.Context, id uint) (*entity.DbPageSettings, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("%w: invalid page settings id", entity.ErrInvalidInput)
	}
	var settings entity.DbPageSettings
	if err := r.conn(ctx).Preload("Owner").First(&settings, id).Error; err != nil {
		return nil, translateError(err, "page settings %d", id)
	}
	return &settings, nil
}

// GetPageSettingsByName loads page settings by unique name with the owner.
func (r *GormRepository) GetPageSettingsByName(ctx context.Context, name string) (*entity.DbPageSettings, error) {
	return r.findPageSettingsByName(r.conn(ctx).Preload("Owner"), name)
}

// LockPageSettingsByName loads page settings with SELECT ... FOR UPDATE where the
// dialect supports row locks. Use inside Transaction.
func (r *GormRepository) LockPageSettingsByName(ctx context.Context, name string) (*entity.DbPageSettings, error) {
	return r.findPageSettingsByName(r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), name)
}

func (r *GormRepository) findPageSettingsByName(query *gorm.DB, name string) (*entity.DbPageSettings, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: page settings name is empty", entity.ErrInvalidInput)
	}
	var settings entity.DbPageSettings
	if err := query.Where("name = ?", trimmed).First(&settings).Error; err != nil {
		return nil, translateError(err, "page settings %q", trimmed)
	}
	return &settings, nil
}

// SavePageSettingsDocument overwrites the stored settings document.
func (r *GormRepository) SavePageSettingsDocument(ctx context.Context, id uint, doc entity.Document) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("%w: invalid page settings id", entity.ErrInvalidInput)
	}
	if doc == nil {
		return fmt.Errorf("%w: settings document is nil", entity.ErrInvalidInput)
	}
	result := r.conn(ctx).Model(&entity.DbPageSettings{}).Where("id = ?", id).Update("rest", doc)
	if result.Error != nil {
		return translateError(result.Error, "update page settings %d", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "update page settings %d", id)
	}
	return nil
}

// ListPageSettings returns page settings ordered by name.
func (r *GormRepository) ListPageSettings(ctx context.Context, params *entity.PageSettingsQuery) ([]entity.DbPageSettings, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	query := r.conn(ctx).Preload("Owner")
	if params != nil && params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	var settings []entity.DbPageSettings
	if err := query.Order("name ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// CountPageSettings returns the number of page settings owned by a user (all when userID is 0).
func (r *GormRepository) CountPageSettings(ctx context.Context, userID uint) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	query := r.conn(ctx).Model(&entity.DbPageSettings{})
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeletePageSettings removes page settings by ID.
func (r *GormRepository) DeletePageSettings(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("%w: invalid page settings id", entity.ErrInvalidInput)
	}
	result := r.conn(ctx).Delete(&entity.DbPageSettings{}, id)
	if result.Error != nil {
		return translateError(result.Error, "delete page settings %d", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "delete page settings %d", id)
	}
	return nil
}
