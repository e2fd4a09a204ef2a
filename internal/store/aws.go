package store

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmorgan81/gabu/internal/log"
	"github.com/samber/do"
)

// S3Store writes objects with a single PutObject call. The client it is
// given should be built with RequestChecksumCalculationWhenRequired so no
// upload-time checksum is computed.
type S3Store struct {
	Client *s3.Client
	Bucket string
}

func NewS3Store(i *do.Injector) (ObjectStore, error) {
	return &S3Store{
		Client: do.MustInvoke[*s3.Client](i),
		Bucket: do.MustInvokeNamed[string](i, "bucket"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, obj Object) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("s3").With(
		"bucket", s.Bucket,
		"key", obj.Key,
		"content-type", obj.ContentType,
		"size", len(obj.Data),
	)
	log.Info("uploading to s3")

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(obj.Key),
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(int64(len(obj.Data))),
		Body:          bytes.NewReader(obj.Data),
	})
	return err
}

func (s *S3Store) MakePublic(ctx context.Context, key string) error {
	log.FromContextOrDiscard(ctx).WithGroup("s3").Info("setting public-read acl", "bucket", s.Bucket, "key", key)

	_, err := s.Client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		ACL:    s3types.ObjectCannedACLPublicRead,
	})
	return err
}

type CloudFrontInvalidator struct {
	Client       *cloudfront.Client
	Distribution string
}

// NewCloudFrontInvalidator falls back to NopInvalidator when no
// distribution is configured, so the CloudFront client is never built.
func NewCloudFrontInvalidator(i *do.Injector) (Invalidator, error) {
	distribution := do.MustInvokeNamed[string](i, "distribution")
	if distribution == "" {
		return NopInvalidator{}, nil
	}
	return &CloudFrontInvalidator{
		Client:       do.MustInvoke[*cloudfront.Client](i),
		Distribution: distribution,
	}, nil
}

func (i *CloudFrontInvalidator) Invalidate(ctx context.Context, paths []string) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("cloudfront").With("paths", paths, "distribution", i.Distribution)
	log.Info("invalidating paths in cloudfront")

	_, err := i.Client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(i.Distribution),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(strconv.FormatInt(time.Now().UTC().UnixNano(), 10)),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	return err
}
