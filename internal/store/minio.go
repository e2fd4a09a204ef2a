package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/dmorgan81/gabu/internal/config"
	"github.com/dmorgan81/gabu/internal/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/samber/do"
)

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// MinioStore targets MinIO, which has no per-object ACLs. MakePublic
// installs an anonymous read policy on the whole bucket instead, once per
// process; a failed attempt is retried on the next call.
type MinioStore struct {
	Client *minio.Client
	Bucket string

	mu     sync.Mutex
	public bool
}

// NewMinioStore builds the client and creates the bucket if needed. ctx
// bounds the startup bucket check.
func NewMinioStore(ctx context.Context, i *do.Injector) (ObjectStore, error) {
	cfg := do.MustInvoke[config.Config](i).Minio
	bucket := do.MustInvokeNamed[string](i, "bucket")

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize minio client: %w", err)
	}

	s := &MinioStore{Client: client, Bucket: bucket}
	if err := s.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context, region string) error {
	log.FromContextOrDiscard(ctx).WithGroup("minio").Debug("checking bucket", "bucket", s.Bucket)
	exists, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.Client.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.Bucket, err)
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, obj Object) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("minio").With(
		"bucket", s.Bucket,
		"key", obj.Key,
		"content-type", obj.ContentType,
		"size", len(obj.Data),
	)
	log.Info("uploading to minio")

	_, err := s.Client.PutObject(ctx, s.Bucket, obj.Key, bytes.NewReader(obj.Data), int64(len(obj.Data)), minio.PutObjectOptions{
		ContentType:          obj.ContentType,
		DisableMultipart:     true,
		DisableContentSha256: true,
	})
	return err
}

func (s *MinioStore) MakePublic(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.public {
		return nil
	}

	log.FromContextOrDiscard(ctx).WithGroup("minio").Info("installing public-read bucket policy", "bucket", s.Bucket, "key", key)
	if err := s.Client.SetBucketPolicy(ctx, s.Bucket, fmt.Sprintf(publicReadPolicy, s.Bucket)); err != nil {
		return err
	}
	s.public = true
	return nil
}
