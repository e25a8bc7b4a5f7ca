package common

// Meta 包含分页元数据。
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// BaseParams 包含通用的分页和排序参数。
type BaseParams struct {
	PageSize int64  `json:"page_size"`
	Page     int64  `json:"page"`
	SortBy   string `json:"sort_by"`
	SortDesc bool   `json:"sort_desc"`
}
