package dto

import (
	"time"

	"searchadmin/internal/entity/common"
)

// SavedQueryView 以名称（而非 ID）展示查询的所有者与视图上下文，同时作为归档导出格式。
type SavedQueryView struct {
	Name         string          `json:"name"`
	Owner        string          `json:"owner"`
	PageSettings string          `json:"page_settings"`
	Index        string          `json:"index"`
	DocType      string          `json:"doc_type,omitempty"`
	RequestHead  string          `json:"request_head"`
	RequestID    string          `json:"request_id"`
	Query        common.Document `json:"query"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SavedQueryListResponse pairs a page of saved queries with pagination metadata.
type SavedQueryListResponse struct {
	Queries []SavedQueryView `json:"queries"`
	Meta    *common.Meta     `json:"meta"`
}
