package db

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"searchadmin/internal/entity/common"

	"gorm.io/gorm"
)

// SavedQuery 保存针对外部搜索索引的命名查询。
type SavedQuery struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Name           string          `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
	UserID         uint            `gorm:"column:user_id;index;not null" json:"user_id"`
	Owner          *User           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	PageSettingsID uint            `gorm:"column:page_settings_id;index;not null" json:"page_settings_id"`
	PageSettings   *PageSettings   `gorm:"foreignKey:PageSettingsID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"page_settings,omitempty"`
	Index          string          `gorm:"column:index;type:varchar(64);not null" json:"index"`
	DocType        string          `gorm:"column:doc_type;type:varchar(255)" json:"doc_type"`
	Query          common.Document `gorm:"column:query" json:"query"`
	// Fingerprint caches RequestID() so rows can be looked up by content.
	Fingerprint string `gorm:"column:request_id;type:varchar(32);index" json:"request_id"`
}

// TableName 指定表名。
func (SavedQuery) TableName() string {
	return "queries"
}

// RequestHead renders the search endpoint line, e.g. "GET email/_search".
func (q *SavedQuery) RequestHead() string {
	if q.DocType == "" {
		return "GET " + q.Index + "/_search"
	}
	return "GET " + q.Index + "/" + q.DocType + "/_search"
}

// RequestID is the md5 hex digest of the request head followed by the canonical query body.
func (q *SavedQuery) RequestID() string {
	sum := md5.New()
	sum.Write([]byte(q.RequestHead()))
	sum.Write(q.Query.Canonical())
	return hex.EncodeToString(sum.Sum(nil))
}

// BeforeSave keeps the stored fingerprint in step with index, doc type and body.
func (q *SavedQuery) BeforeSave(tx *gorm.DB) error {
	if q.Query == nil {
		q.Query = common.Document{}
	}
	q.Fingerprint = q.RequestID()
	return nil
}

func (q SavedQuery) String() string {
	owner, settings := "", ""
	if q.Owner != nil {
		owner = q.Owner.Name
	}
	if q.PageSettings != nil {
		settings = q.PageSettings.Name
	}
	return fmt.Sprintf("<SavedQuery(name='%s', owner='%s', page_settings='%s', head='%s', body='%s', id='%s')>",
		q.Name, owner, settings, q.RequestHead(), q.Query, q.RequestID())
}
