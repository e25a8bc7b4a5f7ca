package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"searchadmin/internal/entity"
	"searchadmin/internal/entity/converter"
	"searchadmin/internal/entity/dto"
	"searchadmin/internal/model"

	"github.com/sirupsen/logrus"
)

// SavedQueryStore 管理针对外部搜索索引保存的命名查询
type SavedQueryStore struct {
	repo     model.Repository
	users    *UserDirectory
	settings *PageSettingsManager
}

// NewSavedQueryStore 创建查询服务
func NewSavedQueryStore(repo model.Repository, users *UserDirectory, settings *PageSettingsManager) *SavedQueryStore {
	return &SavedQueryStore{repo: repo, users: users, settings: settings}
}

// CreateSavedQueryParams 创建查询参数；DocType 可为空
type CreateSavedQueryParams struct {
	Name         string
	OwnerName    string
	SettingsName string
	Index        string
	Query        entity.Document
	DocType      string
}

// Create 保存查询。所有者与页面设置按名称解析，解析与写入在同一事务中完成。
// index、doc_type 与查询体原样保存
func (s *SavedQueryStore) Create(ctx context.Context, params CreateSavedQueryParams) (*entity.DbSavedQuery, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: query name is empty", entity.ErrInvalidInput)
	}
	if strings.TrimSpace(params.Index) == "" {
		return nil, fmt.Errorf("%w: index is empty", entity.ErrInvalidInput)
	}
	if params.Query == nil {
		return nil, fmt.Errorf("%w: query body must be a key-value mapping", entity.ErrInvalidInput)
	}

	query := entity.DbSavedQuery{
		Name:    name,
		Index:   params.Index,
		DocType: params.DocType,
		Query:   params.Query.Clone(),
	}
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		owner, err := s.users.FindByName(ctx, params.OwnerName)
		if err != nil {
			return err
		}
		settings, err := s.settings.FindByName(ctx, params.SettingsName)
		if err != nil {
			return err
		}

		_, err = s.repo.GetSavedQueryByName(ctx, name)
		switch {
		case err == nil:
			return fmt.Errorf("%w: saved query %q already exists", entity.ErrConstraintViolation, name)
		case !errors.Is(err, entity.ErrNotFound):
			return err
		}

		query.UserID = owner.ID
		query.PageSettingsID = settings.ID
		if err := s.repo.CreateSavedQuery(ctx, &query); err != nil {
			return err
		}
		query.Owner = owner
		query.PageSettings = settings
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"query":      query.Name,
		"owner":      query.Owner.Name,
		"request_id": query.Fingerprint,
	}).Info("saved query created")
	return &query, nil
}

// FindByName 按名称查找查询（包含所有者与页面设置）
func (s *SavedQueryStore) FindByName(ctx context.Context, name string) (*entity.DbSavedQuery, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: query name is empty", entity.ErrInvalidInput)
	}
	return s.repo.GetSavedQueryByName(ctx, trimmed)
}

// FindByRequestID 返回指纹相同的全部查询
func (s *SavedQueryStore) FindByRequestID(ctx context.Context, requestID string) ([]entity.DbSavedQuery, error) {
	return s.repo.FindSavedQueriesByRequestID(ctx, requestID)
}

// Update 直接重新赋值 index、doc_type、query 或页面设置（不做合并），指纹随之重新计算
func (s *SavedQueryStore) Update(ctx context.Context, name string, updates entity.SavedQueryUpdates) (*entity.DbSavedQuery, error) {
	if updates.IsEmpty() {
		return s.FindByName(ctx, name)
	}
	if updates.Index != nil && strings.TrimSpace(*updates.Index) == "" {
		return nil, fmt.Errorf("%w: index is empty", entity.ErrInvalidInput)
	}
	if updates.Query != nil && *updates.Query == nil {
		return nil, fmt.Errorf("%w: query body must be a key-value mapping", entity.ErrInvalidInput)
	}

	var query *entity.DbSavedQuery
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		query, err = s.FindByName(ctx, name)
		if err != nil {
			return err
		}
		previous := query.Fingerprint

		var settings *entity.DbPageSettings
		if updates.PageSettingsID != nil {
			settings, err = s.repo.GetPageSettingsByID(ctx, *updates.PageSettingsID)
			if err != nil {
				return err
			}
		}

		updates.Apply(query)
		if settings != nil {
			query.PageSettings = settings
		}
		if err := s.repo.SaveSavedQuery(ctx, query); err != nil {
			return err
		}

		if previous != query.Fingerprint {
			logrus.WithFields(logrus.Fields{
				"query": query.Name,
				"from":  previous,
				"to":    query.Fingerprint,
			}).Debug("saved query fingerprint changed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return query, nil
}

// MoveToSettings 将查询关联到另一个页面设置
func (s *SavedQueryStore) MoveToSettings(ctx context.Context, name, settingsName string) (*entity.DbSavedQuery, error) {
	settings, err := s.settings.FindByName(ctx, settingsName)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, name, entity.SavedQueryUpdates{PageSettingsID: &settings.ID})
}

// List 分页列出查询，所有者与页面设置以名称展示
func (s *SavedQueryStore) List(ctx context.Context, params *entity.SavedQueryQuery) (*dto.SavedQueryListResponse, error) {
	queries, meta, err := s.repo.ListSavedQueries(ctx, params)
	if err != nil {
		return nil, err
	}
	return &dto.SavedQueryListResponse{
		Queries: converter.SavedQueriesToViews(queries),
		Meta:    meta,
	}, nil
}

// ListByOwner 列出某用户的查询
func (s *SavedQueryStore) ListByOwner(ctx context.Context, ownerName string, page entity.BaseParams) (*dto.SavedQueryListResponse, error) {
	owner, err := s.users.FindByName(ctx, ownerName)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, &entity.SavedQueryQuery{BaseParams: page, UserID: owner.ID})
}

// Delete 删除查询
func (s *SavedQueryStore) Delete(ctx context.Context, name string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		query, err := s.FindByName(ctx, name)
		if err != nil {
			return err
		}
		return s.repo.DeleteSavedQuery(ctx, query.ID)
	})
	if err != nil {
		return err
	}

	logrus.WithField("query", name).Info("saved query deleted")
	return nil
}
