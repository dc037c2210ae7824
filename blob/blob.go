// Package blob stores raw attachment payloads in an S3-compatible bucket
// so the presentation layer does not have to hold file bytes in memory.
// Objects are keyed <promptID>/<attachmentID>.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotFound reports a missing payload.
var ErrNotFound = errors.New("blob: payload not found")

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Store struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

func NewStore(cfg Config) (*Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("blob: endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("blob: access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("blob: bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: init client: %w", err)
	}
	return &Store{client: client, bucket: bucket, region: region}, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put stores one attachment payload under its prompt.
func (s *Store) Put(ctx context.Context, promptID, attachmentID, mimeType string, content []byte) error {
	key, err := s.key(ctx, promptID, attachmentID)
	if err != nil {
		return err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if content == nil {
		content = []byte{}
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: mimeType})
	return err
}

func (s *Store) Get(ctx context.Context, promptID, attachmentID string) ([]byte, error) {
	key, err := s.key(ctx, promptID, attachmentID)
	if err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Delete removes one payload. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, promptID, attachmentID string) error {
	key, err := s.key(ctx, promptID, attachmentID)
	if err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// List returns the attachment ids stored for a prompt, sorted.
func (s *Store) List(ctx context.Context, promptID string) ([]string, error) {
	promptID = strings.TrimSpace(promptID)
	if promptID == "" {
		return nil, fmt.Errorf("blob: prompt id is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("blob: ensure bucket: %w", err)
	}

	prefix := promptID + "/"
	ids := make([]string, 0, 8)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if obj.Key == "" {
			continue
		}
		ids = append(ids, strings.TrimPrefix(obj.Key, prefix))
	}
	sort.Strings(ids)
	return ids, nil
}

// URL returns a presigned link to one payload, valid for an hour.
func (s *Store) URL(ctx context.Context, promptID, attachmentID string) (string, error) {
	key, err := s.key(ctx, promptID, attachmentID)
	if err != nil {
		return "", err
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *Store) key(ctx context.Context, promptID, attachmentID string) (string, error) {
	promptID = strings.TrimSpace(promptID)
	attachmentID = strings.TrimSpace(attachmentID)
	if promptID == "" || attachmentID == "" {
		return "", fmt.Errorf("blob: prompt id and attachment id are required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("blob: ensure bucket: %w", err)
	}
	return promptID + "/" + attachmentID, nil
}
