package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"cerclepartages/internal/domain"
)

// Config holds S3 client configuration: one bucket per media kind.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	ImagesBucket    string
	VideosBucket    string
	DocumentsBucket string
	AvatarsBucket   string
}

// S3 implements domain.ObjectStore over AWS S3.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      Config
	logger   *slog.Logger
}

// NewS3 creates the object store. Credentials fall back to the default
// AWS chain when no static pair is configured.
func NewS3(ctx context.Context, cfg Config, logger *slog.Logger) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	} else {
		logger.Warn("s3 using default credential chain")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024 // 5MB parts, large videos stream instead of buffering
	})
	return &S3{client: client, uploader: uploader, cfg: cfg, logger: logger}, nil
}

// Bucket returns the bucket name for a media kind.
func (s *S3) Bucket(kind domain.MediaKind) string {
	switch kind {
	case domain.MediaEventImage:
		return s.cfg.ImagesBucket
	case domain.MediaEventVideo:
		return s.cfg.VideosBucket
	case domain.MediaEventDocument:
		return s.cfg.DocumentsBucket
	case domain.MediaAvatar:
		return s.cfg.AvatarsBucket
	}
	return ""
}

// Upload streams body to the kind's bucket under key and returns the
// public URL. Validation happens in the domain before this is called.
func (s *S3) Upload(ctx context.Context, kind domain.MediaKind, key, contentType string, body io.Reader, size int64) (string, error) {
	bucket := s.Bucket(kind)
	if bucket == "" {
		return "", fmt.Errorf("no bucket configured for media kind %q", kind)
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	url := s.PublicURL(kind, key)
	s.logger.Info("object uploaded", "bucket", bucket, "key", key, "size", size)
	return url, nil
}

// Delete removes an object from the kind's bucket.
func (s *S3) Delete(ctx context.Context, kind domain.MediaKind, key string) error {
	bucket := s.Bucket(kind)
	if bucket == "" {
		return fmt.Errorf("no bucket configured for media kind %q", kind)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// PublicURL resolves the public URL of an object (buckets are public-read).
func (s *S3) PublicURL(kind domain.MediaKind, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket(kind), s.cfg.Region, key)
}

// ObjectKey builds the object key for an upload: {ownerID}/{filename},
// base-named to strip any client-provided path.
func ObjectKey(ownerID, filename string) string {
	return path.Join(ownerID, path.Base(filename))
}
