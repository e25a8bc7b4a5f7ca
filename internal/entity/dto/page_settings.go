package dto

import (
	"time"

	"searchadmin/internal/entity/common"
)

// PageSettingsView shows a view configuration with its owner resolved to a name.
type PageSettingsView struct {
	Name      string          `json:"name"`
	Owner     string          `json:"owner"`
	Settings  common.Document `json:"settings"`
	UpdatedAt time.Time       `json:"updated_at"`
}
