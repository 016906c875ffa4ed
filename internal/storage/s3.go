// Package storage uploads meal photos to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/rpggio/nutrilog/internal/domain/meal"
)

// PutObjectAPI is the part of the S3 client used here.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures the bucket and how object URLs are published.
type Options struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicBaseURL prefixes object keys in returned URLs.
	PublicBaseURL string
	Prefix        string
}

// PhotoStore implements meal.PhotoStore on S3.
type PhotoStore struct {
	api    PutObjectAPI
	opts   Options
	now    func() time.Time
	logger *slog.Logger
}

// New builds an S3 client from opts. A custom endpoint (R2, MinIO) uses
// path-style addressing and static credentials when given.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*PhotoStore, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	var loadOpts []func(*config.LoadOptions) error
	region := opts.Region
	if region == "" && opts.Endpoint != "" {
		region = "auto"
	}
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithAPI(client, opts, logger), nil
}

// NewWithAPI builds a PhotoStore on an existing client.
func NewWithAPI(api PutObjectAPI, opts Options, logger *slog.Logger) *PhotoStore {
	if opts.Prefix == "" {
		opts.Prefix = "meal-photos"
	}
	if opts.PublicBaseURL == "" {
		opts.PublicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", opts.Bucket)
		if opts.Region != "" {
			opts.PublicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoStore{api: api, opts: opts, now: time.Now, logger: logger}
}

// Upload stores the photo under the user's prefix and returns its public URL.
func (s *PhotoStore) Upload(ctx context.Context, userID string, photo meal.Photo) (string, error) {
	if len(photo.Data) == 0 {
		return "", fmt.Errorf("storage: empty photo")
	}
	contentType := photo.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := path.Join(s.opts.Prefix, userID, s.now().UTC().Format("20060102")+"-"+uuid.NewString()+extension(contentType))

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(photo.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}
	s.logger.Info("photo uploaded", "user_id", userID, "key", key, "bytes", len(photo.Data))
	return s.opts.PublicBaseURL + "/" + key, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
