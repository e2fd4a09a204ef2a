package inject

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/gabu/internal/config"
	"github.com/dmorgan81/gabu/internal/handler"
	"github.com/dmorgan81/gabu/internal/log"
	"github.com/dmorgan81/gabu/internal/param"
	"github.com/dmorgan81/gabu/internal/relay"
	"github.com/dmorgan81/gabu/internal/store"
	"github.com/samber/do"
)

// Setup registers every provider lazily. AWS clients are only built when a
// provider that needs them is invoked, so the file and minio backends run
// without AWS credentials.
func Setup(ctx context.Context, cfg config.Config) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[config.Config](injector, cfg)
	do.ProvideValue[*slog.Logger](injector, logger)

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i), func(o *s3.Options) {
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.UsePathStyle = cfg.S3.UsePathStyle
			if cfg.S3.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			}
		}), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})

	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)
	do.ProvideNamed[string](injector, "bucket", func(i *do.Injector) (string, error) {
		return resolveBucket(ctx, i, cfg)
	})
	do.ProvideNamedValue[string](injector, "distribution", cfg.Distribution)

	do.Provide[store.ObjectStore](injector, func(i *do.Injector) (store.ObjectStore, error) {
		switch cfg.Backend {
		case config.BackendS3:
			return store.NewS3Store(i)
		case config.BackendMinio:
			return store.NewMinioStore(ctx, i)
		case config.BackendFile:
			return &store.FileStore{Root: cfg.FileRoot}, nil
		}
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	})
	do.Provide[store.Invalidator](injector, store.NewCloudFrontInvalidator)

	do.Provide[*relay.Relay](injector, relay.NewRelay)
	do.Provide[*handler.Handler](injector, handler.NewHandler)

	return injector
}

func resolveBucket(ctx context.Context, i *do.Injector, cfg config.Config) (string, error) {
	if bucket := strings.TrimSpace(cfg.Bucket); bucket != "" {
		return bucket, nil
	}
	if cfg.BucketParam == "" {
		return "", config.ErrMissingBucket
	}
	bucket, err := do.MustInvoke[param.Fetcher](i).Fetch(ctx, cfg.BucketParam)
	if err != nil {
		return "", fmt.Errorf("resolve bucket from %s: %w", cfg.BucketParam, err)
	}
	if bucket == "" {
		return "", config.ErrMissingBucket
	}
	return bucket, nil
}
