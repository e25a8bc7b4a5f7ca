package entity

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	RoleID  uint   `json:"role_id"`
	Keyword string `json:"keyword"`
}

// PageSettingsQuery filters page settings by owner.
type PageSettingsQuery struct {
	UserID uint `json:"user_id"`
}

// SavedQueryQuery filters saved queries by owner, view context or target index.
type SavedQueryQuery struct {
	BaseParams
	UserID         uint   `json:"user_id"`
	PageSettingsID uint   `json:"page_settings_id"`
	Index          string `json:"index"`
}
