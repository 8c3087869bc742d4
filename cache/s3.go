package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jonwraymond/webvideo/resilience"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3Config configures an S3-backed store.
type S3Config struct {
	Bucket string
	// Prefix is prepended to every object key, e.g. "webvideo/".
	Prefix string

	Region          string
	Endpoint        string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string

	// Retry overrides the retry policy for store operations.
	Retry *resilience.Retry
}

// NewS3Client builds an S3 client from cfg. Static credentials are used
// when both key fields are set; otherwise the default credential chain
// applies.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("cache: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// S3Store keeps entries as objects "{prefix}{key}.{ext}" in one bucket.
// A PutObject is atomic, so readers never see partial entries.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	retry  *resilience.Retry
}

// NewS3Store creates a store over an existing client.
func NewS3Store(client S3API, cfg S3Config) (*S3Store, error) {
	if client == nil {
		return nil, errors.New("cache: s3 client is nil")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("cache: s3 bucket is required")
	}
	retry := cfg.Retry
	if retry == nil {
		retry = resilience.NewRetry(resilience.RetryConfig{Jitter: true})
	}
	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		retry:  retry,
	}, nil
}

func (s *S3Store) objectKey(id ID) string {
	return s.prefix + id.Name()
}

// Get downloads the entry for id. A missing object is a miss.
func (s *S3Store) Get(ctx context.Context, id ID) ([]byte, bool, error) {
	if err := id.Validate(); err != nil {
		return nil, false, err
	}
	var (
		data  []byte
		found bool
	)
	err := s.retry.Execute(ctx, func(ctx context.Context) error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.objectKey(id)),
		})
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		defer out.Body.Close()
		if data, err = io.ReadAll(out.Body); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache: get s3://%s/%s: %w", s.bucket, s.objectKey(id), err)
	}
	if !found {
		return nil, false, nil
	}
	return data, true, nil
}

// Put uploads data for id. Rewriting an existing key stores identical bytes.
func (s *S3Store) Put(ctx context.Context, id ID, data []byte) error {
	if err := id.Validate(); err != nil {
		return err
	}
	err := s.retry.Execute(ctx, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(s.objectKey(id)),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("cache: put s3://%s/%s: %w", s.bucket, s.objectKey(id), err)
	}
	return nil
}

// Sweep lists the prefix and deletes entries whose key is not live.
// Objects that are not cache entries are left alone.
func (s *S3Store) Sweep(ctx context.Context, live KeySet) error {
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var errs []error
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("cache: list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			id, ok := ParseName(name)
			if !ok || live.Has(id.Key) {
				continue
			}
			errs = append(errs, s.delete(ctx, aws.ToString(obj.Key)))
		}
	}
	return errors.Join(errs...)
}

func (s *S3Store) delete(ctx context.Context, key string) error {
	err := s.retry.Execute(ctx, func(ctx context.Context) error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("cache: delete s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// Check verifies the bucket is reachable by listing at most one object
// under the prefix.
func (s *S3Store) Check(ctx context.Context) error {
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("cache: list s3://%s/%s: %w", s.bucket, s.prefix, err)
	}
	return nil
}

var _ Store = (*S3Store)(nil)
