package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"searchadmin/internal/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStorage struct {
	bucket *oss.Bucket
	prefix string
}

// NewOSSStorage builds an archive sink for an Aliyun OSS bucket.
func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	switch {
	case endpoint == "":
		return nil, errors.New("storage: missing OSS endpoint")
	case bucketName == "":
		return nil, errors.New("storage: missing OSS bucket")
	case accessKey == "" || secretKey == "":
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket %s: %w", bucketName, err)
	}

	return &ossStorage{bucket: bucket, prefix: trimPrefix(cfg.StorageOSSPrefix)}, nil
}

func (s *ossStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty payload")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key, err := objectKey(s.prefix, opts)
	if err != nil {
		return "", err
	}

	putOptions := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(detectContentType(opts.Extension)),
		oss.Meta("category", sanitizePathSegment(opts.Category)),
	}
	if opts.SkipIfExists {
		exists, err := s.bucket.IsObjectExist(key, oss.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("check object %s: %w", key, err)
		}
		if exists {
			return key, nil
		}
		// guard against a concurrent writer between the check and the put
		putOptions = append(putOptions, oss.ForbidOverWrite(true))
	}

	if err := s.bucket.PutObject(key, bytes.NewReader(data), putOptions...); err != nil {
		var svcErr oss.ServiceError
		if opts.SkipIfExists && errors.As(err, &svcErr) && svcErr.Code == "FileAlreadyExists" {
			return key, nil
		}
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

var _ Storage = (*ossStorage)(nil)
