package db

import (
	"fmt"
	"time"

	"searchadmin/internal/entity/common"
)

// 设置文档中的常用键。
const (
	SettingsKeyFields         = "fields"
	SettingsKeyIndices        = "indices"
	SettingsKeyDocsPerPage    = "docs_per_page"
	SettingsKeyMaxColumnWidth = "max_column_width"
)

// PageSettings 保存每个用户的命名视图配置（每页文档数、列宽、显示字段、索引等）。
type PageSettings struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Name      string          `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
	UserID    uint            `gorm:"column:user_id;index;not null" json:"user_id"`
	Owner     *User           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	Rest      common.Document `gorm:"column:rest" json:"settings"`
}

// TableName 指定表名。
func (PageSettings) TableName() string {
	return "page_settings"
}

// NewSettingsDocument starts from empty fields and indices, then applies options on top.
func NewSettingsDocument(options common.Document) common.Document {
	doc := common.Document{
		SettingsKeyFields:  common.Strings(),
		SettingsKeyIndices: common.Strings(),
	}
	doc.Merge(options)
	return doc
}

// MergeSettings shallow-merges partial into the settings document.
func (p *PageSettings) MergeSettings(partial common.Document) error {
	if partial == nil {
		return fmt.Errorf("%w: settings update must be a key-value mapping", common.ErrInvalidInput)
	}
	if p.Rest == nil {
		p.Rest = NewSettingsDocument(nil)
	}
	p.Rest.Merge(partial)
	return nil
}

// Settings returns a copy of the settings document.
func (p *PageSettings) Settings() common.Document {
	return p.Rest.Clone()
}

func (p *PageSettings) Fields() []string {
	return p.stringList(SettingsKeyFields)
}

func (p *PageSettings) Indices() []string {
	return p.stringList(SettingsKeyIndices)
}

func (p *PageSettings) DocsPerPage() (int, bool) {
	return p.Rest[SettingsKeyDocsPerPage].AsInt()
}

func (p *PageSettings) MaxColumnWidth() (int, bool) {
	return p.Rest[SettingsKeyMaxColumnWidth].AsInt()
}

func (p *PageSettings) stringList(key string) []string {
	items, ok := p.Rest[key].AsStrings()
	if !ok {
		return []string{}
	}
	return items
}

func (p PageSettings) String() string {
	owner := ""
	if p.Owner != nil {
		owner = p.Owner.Name
	}
	rest := p.Rest.Clone()
	delete(rest, SettingsKeyFields)
	delete(rest, SettingsKeyIndices)
	return fmt.Sprintf("<PageSettings(name='%s', owner='%s', indices='%v', fields='%v', rest='%s')>",
		p.Name, owner, p.Indices(), p.Fields(), rest)
}
