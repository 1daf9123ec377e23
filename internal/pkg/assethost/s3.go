package assethost

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/institut/vitrine/internal/pkg/logger"
)

// PutObjectAPI is the part of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3Uploader.
type S3Options struct {
	Bucket string
	Region string
	Prefix string
	// PublicBaseURL overrides the default virtual-hosted bucket URL, e.g. a CDN origin.
	PublicBaseURL string
}

// S3Uploader stores images as objects of one bucket.
type S3Uploader struct {
	client PutObjectAPI
	opts   S3Options
}

func NewS3Uploader(client PutObjectAPI, opts S3Options) (*S3Uploader, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("s3 bucket name is required")
	}
	opts.Prefix = strings.Trim(opts.Prefix, "/")
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	return &S3Uploader{client: client, opts: opts}, nil
}

// NewS3UploaderFromConfig loads the default AWS credential chain.
func NewS3UploaderFromConfig(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	if opts.Region == "" {
		opts.Region = cfg.Region
	}
	return NewS3Uploader(s3.NewFromConfig(cfg), opts)
}

func (u *S3Uploader) Upload(ctx context.Context, f File) (*Asset, error) {
	if f.Content == nil {
		return nil, fmt.Errorf("upload %q: no content", f.Name)
	}

	key := objectName(f.Name)
	if u.opts.Prefix != "" {
		key = u.opts.Prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.opts.Bucket),
		Key:    aws.String(key),
		Body:   f.Content,
	}
	if f.ContentType != "" {
		input.ContentType = aws.String(f.ContentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		logger.Warn().Err(err).Str("bucket", u.opts.Bucket).Str("key", key).Msg("S3 upload failed")
		return nil, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	url := u.objectURL(key)
	if url == "" {
		return nil, ErrEmptySecureURL
	}
	return &Asset{SecureURL: url, PublicID: key}, nil
}

func (u *S3Uploader) objectURL(key string) string {
	if u.opts.PublicBaseURL != "" {
		return u.opts.PublicBaseURL + "/" + key
	}
	if u.opts.Region == "" || u.opts.Region == "us-east-1" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.opts.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.opts.Bucket, u.opts.Region, key)
}
