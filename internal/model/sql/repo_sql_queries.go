package sql

import (
	"context"
	"fmt"
	"strings"

	"searchadmin/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateSavedQuery inserts a saved query; the fingerprint is computed by the BeforeSave hook.
func (r *GormRepository) CreateSavedQuery(ctx context.Context, query *entity.DbSavedQuery) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if query == nil {
		return fmt.Errorf("%w: saved query is nil", entity.ErrInvalidInput)
	}
	err := r.conn(ctx).Omit(clause.Associations).Create(query).Error
	return translateError(err, "create saved query %q", query.Name)
}

// SaveSavedQuery writes every column of an existing saved query.
func (r *GormRepository) SaveSavedQuery(ctx context.Context, query *entity.DbSavedQuery) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if query == nil || query.ID == 0 {
		return fmt.Errorf("%w: invalid saved query", entity.ErrInvalidInput)
	}
	err := r.conn(ctx).Omit(clause.Associations).Save(query).Error
	return translateError(err, "save saved query %q", query.Name)
}

// GetSavedQueryByID loads a saved query with owner and page settings.
func (r *GormRepository) GetSavedQueryByID(ctx context.Context, id uint) (*entity.DbSavedQuery, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("%w: invalid saved query id", entity.ErrInvalidInput)
	}
	var query entity.DbSavedQuery
	if err := r.withRefs(r.conn(ctx)).First(&query, id).Error; err != nil {
		return nil, translateError(err, "saved query %d", id)
	}
	return &query, nil
}

// GetSavedQueryByName loads a saved query by unique name.
func (r *GormRepository) GetSavedQueryByName(ctx context.Context, name string) (*entity.DbSavedQuery, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: saved query name is empty", entity.ErrInvalidInput)
	}
	var query entity.DbSavedQuery
	if err := r.withRefs(r.conn(ctx)).Where("name = ?", trimmed).First(&query).Error; err != nil {
		return nil, translateError(err, "saved query %q", trimmed)
	}
	return &query, nil
}

// FindSavedQueriesByRequestID returns every saved query sharing a fingerprint.
func (r *GormRepository) FindSavedQueriesByRequestID(ctx context.Context, requestID string) ([]entity.DbSavedQuery, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.ToLower(strings.TrimSpace(requestID))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: request id is empty", entity.ErrInvalidInput)
	}
	var queries []entity.DbSavedQuery
	if err := r.withRefs(r.conn(ctx)).Where("request_id = ?", trimmed).Order("id ASC").Find(&queries).Error; err != nil {
		return nil, err
	}
	return queries, nil
}

// ListSavedQueries returns paginated saved queries.
func (r *GormRepository) ListSavedQueries(ctx context.Context, params *entity.SavedQueryQuery) ([]entity.DbSavedQuery, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.filterSavedQueries(r.conn(ctx).Model(&entity.DbSavedQuery{}), params)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var base entity.BaseParams
	if params != nil {
		base = params.BaseParams
	}
	paged, page, pageSize := r.paginate(query, base)

	var queries []entity.DbSavedQuery
	if err := r.withRefs(paged).Find(&queries).Error; err != nil {
		return nil, nil, err
	}
	return queries, r.calculatePagination(total, page, pageSize), nil
}

// CountSavedQueries counts saved queries matching the filter.
func (r *GormRepository) CountSavedQueries(ctx context.Context, params *entity.SavedQueryQuery) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	query := r.filterSavedQueries(r.conn(ctx).Model(&entity.DbSavedQuery{}), params)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteSavedQuery removes a saved query by ID.
func (r *GormRepository) DeleteSavedQuery(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("%w: invalid saved query id", entity.ErrInvalidInput)
	}
	result := r.conn(ctx).Delete(&entity.DbSavedQuery{}, id)
	if result.Error != nil {
		return translateError(result.Error, "delete saved query %d", id)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "delete saved query %d", id)
	}
	return nil
}

func (r *GormRepository) withRefs(query *gorm.DB) *gorm.DB {
	return query.Preload("Owner").Preload("PageSettings")
}

func (r *GormRepository) filterSavedQueries(query *gorm.DB, params *entity.SavedQueryQuery) *gorm.DB {
	if params == nil {
		return query
	}
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.PageSettingsID != 0 {
		query = query.Where("page_settings_id = ?", params.PageSettingsID)
	}
	if index := strings.TrimSpace(params.Index); index != "" {
		// "index" is a reserved word; let the dialect quote it.
		query = query.Where(clause.Eq{Column: clause.Column{Name: "index"}, Value: index})
	}
	return query
}
