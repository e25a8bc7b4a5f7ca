package entity

// RoleUpdates 角色更新字段
type RoleUpdates struct {
	Name        *string
	Description *string
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u RoleUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u RoleUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// UserUpdates 用户更新字段
type UserUpdates struct {
	Email        *string
	PasswordHash *string
	RoleID       *uint
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.PasswordHash != nil {
		updates["password_hash"] = *u.PasswordHash
	}
	if u.RoleID != nil {
		updates["role_id"] = *u.RoleID
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// SavedQueryUpdates 查询字段的直接重新赋值（不做合并）
type SavedQueryUpdates struct {
	Index          *string
	DocType        *string
	Query          *Document
	PageSettingsID *uint
}

// Apply 将更新写入记录；指纹在保存时重新计算。
func (u SavedQueryUpdates) Apply(q *DbSavedQuery) {
	if u.Index != nil {
		q.Index = *u.Index
	}
	if u.DocType != nil {
		q.DocType = *u.DocType
	}
	if u.Query != nil {
		q.Query = u.Query.Clone()
	}
	if u.PageSettingsID != nil {
		q.PageSettingsID = *u.PageSettingsID
		q.PageSettings = nil
	}
}

// IsEmpty 检查是否没有任何更新字段
func (u SavedQueryUpdates) IsEmpty() bool {
	return u.Index == nil && u.DocType == nil && u.Query == nil && u.PageSettingsID == nil
}
