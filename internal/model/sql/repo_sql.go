package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"searchadmin/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

type txKey struct{}

// conn returns the transaction carried by ctx, or the base connection.
func (r *GormRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Transaction runs fn inside a database transaction. Nested calls use savepoints.
func (r *GormRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// calculatePagination calculates pagination metrics
func (r *GormRepository) calculatePagination(totalCount int64, page, pageSize int) *entity.Meta {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	return &entity.Meta{
		Total:    totalCount,
		Page:     int64(page),
		PageSize: int64(pageSize),
	}
}

// paginate applies page/size/sort parameters shared by list queries.
func (r *GormRepository) paginate(query *gorm.DB, params entity.BaseParams) (*gorm.DB, int, int) {
	page := 1
	pageSize := 20
	if params.Page > 0 {
		page = int(params.Page)
	}
	if params.PageSize > 0 {
		pageSize = int(params.PageSize)
	}

	column := "id"
	switch strings.ToLower(strings.TrimSpace(params.SortBy)) {
	case "name":
		column = "name"
	case "created_at":
		column = "created_at"
	case "updated_at":
		column = "updated_at"
	}
	query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: params.SortDesc})

	return query.Offset((page - 1) * pageSize).Limit(pageSize), page, pageSize
}

// translateError maps driver errors onto the entity error taxonomy.
func translateError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	subject := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", subject, entity.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", subject, entity.ErrConstraintViolation)
	case errors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyFailure(err):
		return fmt.Errorf("%s: %w (%v)", subject, entity.ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%s: %w", subject, err)
	}
}

// isForeignKeyFailure catches referential errors the dialect translators leave raw.
// SQLite reports RESTRICT violations as a plain SQLITE_CONSTRAINT without the
// extended foreign key code, and SQL Server names them REFERENCE constraints.
func isForeignKeyFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "reference constraint")
}
