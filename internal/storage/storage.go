package storage

import (
	"context"
	"fmt"
	"strings"

	"searchadmin/internal/config"
)

const (
	// TypeLocal 表示本地文件系统存储。
	TypeLocal = "local"
	// TypeS3 表示 Amazon S3 或兼容的存储后端。
	TypeS3 = "s3"
	// TypeOSS 表示阿里云 OSS 存储。
	TypeOSS = "oss"
	// TypeCOS 表示腾讯云 COS 存储。
	TypeCOS = "cos"
	// TypeR2 表示 Cloudflare R2 存储。
	TypeR2 = "r2"
)

// SaveOptions 决定对象的键：<Category>/<BaseName>.<Extension>。
//
// 键完全由内容决定，BaseName 不能为空。SkipIfExists 为 true 时，
// 已存在的对象不会被覆盖，直接返回其键。
type SaveOptions struct {
	Category     string
	BaseName     string
	Extension    string
	SkipIfExists bool
}

// Storage 持久化归档数据并返回对象键
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// NewStorage 根据配置实例化存储后端。
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
