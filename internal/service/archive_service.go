package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"searchadmin/internal/entity"
	"searchadmin/internal/entity/converter"
	"searchadmin/internal/model"
	"searchadmin/internal/storage"

	"github.com/sirupsen/logrus"
)

const archivePageSize = 100

// ArchiveService 将保存的查询导出到对象存储，键为 <owner>/<request_id>-<name>.json。
// 内容相同的查询指纹相同，名称用于区分它们
type ArchiveService struct {
	repo    model.Repository
	storage storage.Storage
}

// NewArchiveService 创建归档服务
func NewArchiveService(repo model.Repository, store storage.Storage) *ArchiveService {
	return &ArchiveService{repo: repo, storage: store}
}

// ArchiveResult 汇总一次导出
type ArchiveResult struct {
	Keys   []string
	Failed []string
}

// Export 导出单个查询并返回对象键
func (s *ArchiveService) Export(ctx context.Context, name string) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("%w: archive storage is not configured", entity.ErrConfiguration)
	}
	query, err := s.repo.GetSavedQueryByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return "", err
	}
	return s.save(ctx, query)
}

// ExportAll 分页导出全部查询。单个查询失败不会中断导出，所有错误合并返回
func (s *ArchiveService) ExportAll(ctx context.Context) (*ArchiveResult, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("%w: archive storage is not configured", entity.ErrConfiguration)
	}

	result := &ArchiveResult{}
	var issues []error
	written := make(map[string]string)
	params := &entity.SavedQueryQuery{BaseParams: entity.BaseParams{PageSize: archivePageSize}}
	for page := int64(1); ; page++ {
		params.Page = page
		queries, meta, err := s.repo.ListSavedQueries(ctx, params)
		if err != nil {
			return result, fmt.Errorf("list saved queries: %w", err)
		}
		for i := range queries {
			key, err := s.save(ctx, &queries[i])
			if err != nil {
				result.Failed = append(result.Failed, queries[i].Name)
				issues = append(issues, fmt.Errorf("%s: %w", queries[i].Name, err))
				logrus.WithError(err).WithField("query", queries[i].Name).Warn("failed to archive saved query")
				continue
			}
			if prev, ok := written[key]; ok {
				err := fmt.Errorf("%w: archive key %s already written for %q", entity.ErrConstraintViolation, key, prev)
				result.Failed = append(result.Failed, queries[i].Name)
				issues = append(issues, fmt.Errorf("%s: %w", queries[i].Name, err))
				logrus.WithError(err).WithField("query", queries[i].Name).Warn("archive key collision")
				continue
			}
			written[key] = queries[i].Name
			result.Keys = append(result.Keys, key)
		}
		if len(queries) == 0 || page*meta.PageSize >= meta.Total {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"exported": len(result.Keys),
		"failed":   len(result.Failed),
	}).Info("saved queries archived")
	return result, errors.Join(issues...)
}

func (s *ArchiveService) save(ctx context.Context, query *entity.DbSavedQuery) (string, error) {
	view := converter.SavedQueryToView(query)
	data, err := json.Marshal(view)
	if err != nil {
		return "", fmt.Errorf("encode saved query: %w", err)
	}
	return s.storage.Save(ctx, data, storage.SaveOptions{
		Category:     view.Owner,
		BaseName:     view.RequestID + "-" + view.Name,
		Extension:    "json",
		SkipIfExists: true,
	})
}
