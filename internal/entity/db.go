package entity

// Re-export common and persisted types so callers depend on a single package.

import (
	"searchadmin/internal/entity/common"
	"searchadmin/internal/entity/db"
)

// Type aliases for common types
type Document = common.Document
type Value = common.Value
type Meta = common.Meta
type BaseParams = common.BaseParams

// Type aliases for persisted rows
type DbRole = db.Role
type DbUser = db.User
type DbPageSettings = db.PageSettings
type DbSavedQuery = db.SavedQuery

// Error taxonomy
var (
	ErrNotFound            = common.ErrNotFound
	ErrConstraintViolation = common.ErrConstraintViolation
	ErrConfiguration       = common.ErrConfiguration
	ErrInvalidOperation    = common.ErrInvalidOperation
	ErrInvalidInput        = common.ErrInvalidInput
)

// Constants
const (
	DefaultRoleName = db.DefaultRoleName

	SettingsKeyFields         = db.SettingsKeyFields
	SettingsKeyIndices        = db.SettingsKeyIndices
	SettingsKeyDocsPerPage    = db.SettingsKeyDocsPerPage
	SettingsKeyMaxColumnWidth = db.SettingsKeyMaxColumnWidth
)

// Constructors
var (
	ParseDocument       = common.ParseDocument
	NewSettingsDocument = db.NewSettingsDocument
)
