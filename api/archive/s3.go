package archive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"ScreenWatch/api/config"

	aws2 "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes screenshots under a key prefix in one bucket.
type S3Archiver struct {
	client objectPutter
	bucket string
	region string
	prefix string
}

// NewS3Archiver loads the default AWS credential chain for the configured
// region.
func NewS3Archiver(ctx context.Context, cfg *config.Config) (*S3Archiver, error) {
	bucket := cfg.Archive.S3.Bucket
	if bucket == "" {
		return nil, fmt.Errorf("%w: S3_BUCKET is not set", ErrNotConnected)
	}
	region := cfg.Archive.S3.Region

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return newS3Archiver(client, bucket, region, cfg.Archive.S3.Prefix), nil
}

func newS3Archiver(client objectPutter, bucket, region, prefix string) *S3Archiver {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Archiver{client: client, bucket: bucket, region: region, prefix: prefix}
}

func (a *S3Archiver) Upload(ctx context.Context, data []byte, fileName string) (*Object, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	key := a.prefix + fileName

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws2.String(a.bucket),
		Key:           aws2.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws2.Int64(int64(len(data))),
		ContentType:   aws2.String(http.DetectContentType(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put %s: %w", key, err)
	}

	return &Object{
		ID:  key,
		URL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key),
	}, nil
}
