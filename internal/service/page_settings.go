package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"searchadmin/internal/entity"
	"searchadmin/internal/model"

	"github.com/sirupsen/logrus"
)

// PageSettingsManager 管理用户的命名视图配置
type PageSettingsManager struct {
	repo  model.Repository
	users *UserDirectory
}

// NewPageSettingsManager 创建页面设置服务
func NewPageSettingsManager(repo model.Repository, users *UserDirectory) *PageSettingsManager {
	return &PageSettingsManager{repo: repo, users: users}
}

// Create 为 ownerName 创建页面设置。文档以空的 fields/indices 开始，options 覆盖其上
func (s *PageSettingsManager) Create(ctx context.Context, name, ownerName string, options entity.Document) (*entity.DbPageSettings, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: page settings name is empty", entity.ErrInvalidInput)
	}

	settings := entity.DbPageSettings{
		Name: trimmed,
		Rest: entity.NewSettingsDocument(options),
	}
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		owner, err := s.users.FindByName(ctx, ownerName)
		if err != nil {
			return err
		}

		_, err = s.repo.GetPageSettingsByName(ctx, trimmed)
		switch {
		case err == nil:
			return fmt.Errorf("%w: page settings %q already exist", entity.ErrConstraintViolation, trimmed)
		case !errors.Is(err, entity.ErrNotFound):
			return err
		}

		settings.UserID = owner.ID
		if err := s.repo.CreatePageSettings(ctx, &settings); err != nil {
			return err
		}
		settings.Owner = owner
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"page_settings": settings.Name,
		"owner":         settings.Owner.Name,
	}).Info("page settings created")
	return &settings, nil
}

// UpdateSettings 将 partial 浅合并到已保存的文档中：新键加入，已有键被覆盖，其余键保留
func (s *PageSettingsManager) UpdateSettings(ctx context.Context, name string, partial entity.Document) (*entity.DbPageSettings, error) {
	if partial == nil {
		return nil, fmt.Errorf("%w: settings update must be a key-value mapping", entity.ErrInvalidInput)
	}

	var updated *entity.DbPageSettings
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		settings, err := s.repo.LockPageSettingsByName(ctx, name)
		if err != nil {
			return err
		}
		if err := settings.MergeSettings(partial); err != nil {
			return err
		}
		if err := s.repo.SavePageSettingsDocument(ctx, settings.ID, settings.Rest); err != nil {
			return err
		}
		updated, err = s.repo.GetPageSettingsByID(ctx, settings.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"page_settings": updated.Name,
		"keys":          partial.Keys(),
	}).Debug("page settings merged")
	return updated, nil
}

// UpdateSettingsJSON 与 UpdateSettings 相同，但接收原始 JSON；非对象返回 ErrInvalidInput
func (s *PageSettingsManager) UpdateSettingsJSON(ctx context.Context, name string, raw []byte) (*entity.DbPageSettings, error) {
	partial, err := entity.ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	return s.UpdateSettings(ctx, name, partial)
}

// FindByName 按名称查找页面设置（包含所有者）
func (s *PageSettingsManager) FindByName(ctx context.Context, name string) (*entity.DbPageSettings, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: page settings name is empty", entity.ErrInvalidInput)
	}
	return s.repo.GetPageSettingsByName(ctx, trimmed)
}

// List 列出页面设置；ownerName 为空时返回全部
func (s *PageSettingsManager) List(ctx context.Context, ownerName string) ([]entity.DbPageSettings, error) {
	params := &entity.PageSettingsQuery{}
	if strings.TrimSpace(ownerName) != "" {
		owner, err := s.users.FindByName(ctx, ownerName)
		if err != nil {
			return nil, err
		}
		params.UserID = owner.ID
	}
	return s.repo.ListPageSettings(ctx, params)
}

// Delete 删除页面设置；仍被查询引用时返回 ErrConstraintViolation
func (s *PageSettingsManager) Delete(ctx context.Context, name string) error {
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		settings, err := s.FindByName(ctx, name)
		if err != nil {
			return err
		}
		count, err := s.repo.CountSavedQueries(ctx, &entity.SavedQueryQuery{PageSettingsID: settings.ID})
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: page settings %q are referenced by %d saved queries",
				entity.ErrConstraintViolation, settings.Name, count)
		}
		return s.repo.DeletePageSettings(ctx, settings.ID)
	})
	if err != nil {
		return err
	}

	logrus.WithField("page_settings", name).Info("page settings deleted")
	return nil
}
