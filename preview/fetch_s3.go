package preview

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures an S3 (or MinIO) content source.
type S3Options struct {
	Bucket    string
	Prefix    string // prepended to every catalog path
	Endpoint  string // custom endpoint, e.g. a MinIO URL
	Region    string
	AccessKey string // static credentials; the default chain is used when empty
	SecretKey string
}

// S3Fetcher reads catalog paths as objects under Bucket/Prefix.
type S3Fetcher struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Fetcher builds an S3 client from options.
func NewS3Fetcher(ctx context.Context, options S3Options) (*S3Fetcher, error) {
	region := options.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOptions := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if options.AccessKey != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := strings.Trim(options.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Fetcher{client: client, bucket: options.Bucket, prefix: prefix}, nil
}

// Fetch returns the object body for path.
func (f *S3Fetcher) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	key := f.prefix + strings.TrimPrefix(path, "/")
	result, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return result.Body, nil
}
