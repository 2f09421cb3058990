package listing

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"pagetree/internal/model"
)

// S3Config holds connection settings for S3 or an S3-compatible store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// S3API is the part of the S3 client the source needs.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source lists the objects under a bucket prefix. S3 has no directories,
// so every key prefix is reported as one.
type S3Source struct {
	Bucket string
	Prefix string

	client S3API
}

// NewS3Source connects to the bucket with cfg. Empty credentials fall back
// to the default AWS chain.
func NewS3Source(ctx context.Context, bucket, prefix string, cfg S3Config) (*S3Source, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // MinIO and friends
		}
	})
	return NewS3SourceWithClient(client, bucket, prefix), nil
}

// NewS3SourceWithClient wraps an existing client.
func NewS3SourceWithClient(client S3API, bucket, prefix string) *S3Source {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Source{Bucket: bucket, Prefix: prefix, client: client}
}

func (s *S3Source) Identity() string {
	return "s3://" + s.Bucket + "/" + s.Prefix
}

// Listing pages through ListObjectsV2. Object ETags become content hashes.
func (s *S3Source) Listing(ctx context.Context) ([]model.Entry, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.Bucket)}
	if s.Prefix != "" {
		input.Prefix = aws.String(s.Prefix)
	}

	var entries []model.Entry
	dirs := make(map[string]bool)
	addDirs := func(path string) {
		for i := strings.LastIndex(path, "/"); i > 0; i = strings.LastIndex(path[:i], "/") {
			dir := path[:i]
			if dirs[dir] {
				return
			}
			dirs[dir] = true
			entries = append(entries, model.Entry{Path: dir, Type: model.EntryDirectory})
		}
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list s3://%s/%s: %w", ErrListingUnavailable, s.Bucket, s.Prefix, err)
		}
		for _, obj := range page.Contents {
			key := strings.TrimPrefix(aws.ToString(obj.Key), s.Prefix)
			if key == "" {
				continue
			}
			// Console-created folders are zero byte keys ending in "/"
			if strings.HasSuffix(key, "/") {
				addDirs(key)
				continue
			}
			addDirs(key)
			entries = append(entries, model.Entry{
				Path:        key,
				Type:        model.EntryFile,
				ContentHash: strings.Trim(aws.ToString(obj.ETag), `"`),
			})
		}
	}
	return entries, nil
}

// Content downloads one object.
func (s *S3Source) Content(ctx context.Context, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Prefix + path),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrContentUnavailable, path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrContentUnavailable, path, err)
	}
	return data, nil
}
