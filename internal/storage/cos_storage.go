package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"searchadmin/internal/config"

	"github.com/tencentyun/cos-go-sdk-v5"
)

type cosStorage struct {
	client *cos.Client
	prefix string
}

// NewCOSStorage builds an archive sink for a Tencent COS bucket.
func NewCOSStorage(cfg config.Config) (Storage, error) {
	baseURL := strings.TrimSpace(cfg.StorageCOSBucketURL)
	if baseURL == "" {
		return nil, errors.New("storage: missing COS bucket URL")
	}
	bucketURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse COS bucket URL: %w", err)
	}

	secretID := strings.TrimSpace(cfg.StorageCOSSecretID)
	secretKey := strings.TrimSpace(cfg.StorageCOSSecretKey)
	if secretID == "" || secretKey == "" {
		return nil, errors.New("storage: missing COS credentials")
	}

	httpClient := &http.Client{Transport: &cos.AuthorizationTransport{SecretID: secretID, SecretKey: secretKey}}
	return &cosStorage{
		client: cos.NewClient(&cos.BaseURL{BucketURL: bucketURL}, httpClient),
		prefix: trimPrefix(cfg.StorageCOSPrefix),
	}, nil
}

func (s *cosStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
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

	if opts.SkipIfExists {
		exists, err := s.client.Object.IsExist(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check object %s: %w", key, err)
		}
		if exists {
			return key, nil
		}
	}

	meta := http.Header{}
	meta.Set("x-cos-meta-category", sanitizePathSegment(opts.Category))
	resp, err := s.client.Object.Put(ctx, key, bytes.NewReader(data), &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   detectContentType(opts.Extension),
			ContentLength: int64(len(data)),
			XCosMetaXXX:   &meta,
		},
	})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

var _ Storage = (*cosStorage)(nil)
