// Package storage keeps client photos in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/config"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/infra/imaging"
)

var ErrTooLarge = errors.New("storage: file exceeds upload limit")

// ObjectPutter is the subset of *s3.Client used here.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3ImageStore struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
	maxSize       int64
	imaging       imaging.Options
	logger        *zap.Logger
}

func NewS3Client(cfg config.StorageConfig) *s3.Client {
	return s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
		BaseEndpoint: endpoint(cfg.Endpoint),
		UsePathStyle: cfg.Endpoint != "",
	})
}

func endpoint(raw string) *string {
	if raw == "" {
		return nil
	}
	return aws.String(raw)
}

func NewS3ImageStore(client ObjectPutter, cfg config.StorageConfig, logger *zap.Logger) (*S3ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3ImageStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: base,
		maxSize:       cfg.MaxUploadSize,
		imaging: imaging.Options{
			MaxDimension: cfg.MaxDimension,
			Quality:      cfg.WebPQuality,
		},
		logger: logger,
	}, nil
}

func objectKey(tenantID uint) string {
	return fmt.Sprintf("tenants/%d/images/%s.webp", tenantID, uuid.NewString())
}

// Upload converts the file to WebP and stores it, returning its public URL.
func (s *S3ImageStore) Upload(ctx context.Context, tenantID uint, f booking.File) (string, error) {
	if s.maxSize > 0 && f.Size > s.maxSize {
		return "", ErrTooLarge
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	var reader io.Reader = rc
	if s.maxSize > 0 {
		reader = io.LimitReader(rc, s.maxSize+1)
	}

	data, err := imaging.Prepare(reader, s.imaging)
	if err != nil {
		return "", err
	}

	key := objectKey(tenantID)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(imaging.ContentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	}); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	s.logger.Debug("image stored",
		zap.Uint("tenant_id", tenantID),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)

	return s.publicBaseURL + "/" + key, nil
}

var _ booking.BlobStore = (*S3ImageStore)(nil)
