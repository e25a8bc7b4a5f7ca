package converter

import (
	"searchadmin/internal/entity/db"
	"searchadmin/internal/entity/dto"
)

// SavedQueryToView converts a db.SavedQuery with preloaded Owner and PageSettings.
func SavedQueryToView(q *db.SavedQuery) dto.SavedQueryView {
	if q == nil {
		return dto.SavedQueryView{}
	}
	view := dto.SavedQueryView{
		Name:        q.Name,
		Index:       q.Index,
		DocType:     q.DocType,
		RequestHead: q.RequestHead(),
		RequestID:   q.RequestID(),
		Query:       q.Query.Clone(),
		UpdatedAt:   q.UpdatedAt,
	}
	if q.Owner != nil {
		view.Owner = q.Owner.Name
	}
	if q.PageSettings != nil {
		view.PageSettings = q.PageSettings.Name
	}
	return view
}

// SavedQueriesToViews converts a slice of db.SavedQuery to dto.SavedQueryView.
func SavedQueriesToViews(queries []db.SavedQuery) []dto.SavedQueryView {
	views := make([]dto.SavedQueryView, len(queries))
	for i := range queries {
		views[i] = SavedQueryToView(&queries[i])
	}
	return views
}

// PageSettingsToView converts a db.PageSettings with a preloaded Owner.
func PageSettingsToView(p *db.PageSettings) dto.PageSettingsView {
	if p == nil {
		return dto.PageSettingsView{}
	}
	view := dto.PageSettingsView{
		Name:      p.Name,
		Settings:  p.Settings(),
		UpdatedAt: p.UpdatedAt,
	}
	if p.Owner != nil {
		view.Owner = p.Owner.Name
	}
	return view
}
