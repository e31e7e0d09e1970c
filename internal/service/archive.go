package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"fixmycity/internal/config"
	"fixmycity/internal/model"
)

// ErrArchiveNotConfigured is returned when ARCHIVE_BUCKET is not set.
var ErrArchiveNotConfigured = errors.New("archive bucket is not configured")

// ObjectPutter is the one S3 call the archiver makes. *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver snapshots a user's reports as a JSON object in an S3-compatible bucket.
type Archiver struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
	logger zerolog.Logger
}

// NewArchiver builds an S3 client from the ARCHIVE_* settings. A custom
// endpoint (R2, MinIO) switches to path-style addressing.
func NewArchiver(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Archiver, error) {
	if cfg.ArchiveBucket == "" {
		return nil, ErrArchiveNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.ArchiveRegion),
	}
	if cfg.ArchiveAccessKeyID != "" && cfg.ArchiveSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.ArchiveAccessKeyID, cfg.ArchiveSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for archive: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ArchiveEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.ArchiveEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewArchiverWithClient(client, cfg.ArchiveBucket, logger), nil
}

func NewArchiverWithClient(client ObjectPutter, bucket string, logger zerolog.Logger) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		now:    time.Now,
		logger: logger.With().Str("component", "Archive").Logger(),
	}
}

// ArchiveKey is where a snapshot taken at t is stored.
func ArchiveKey(userID string, t time.Time) string {
	return fmt.Sprintf("reports/%s/%s.json", userID, t.UTC().Format("20060102T150405Z"))
}

// Archive uploads reports under the user's prefix and returns the object key.
func (a *Archiver) Archive(ctx context.Context, session model.Session, reports []model.Report) (string, error) {
	if !session.IsLoggedIn() {
		return "", model.ErrNotLoggedIn
	}

	body, err := model.MarshalReports(reports)
	if err != nil {
		return "", fmt.Errorf("encode reports: %w", err)
	}

	key := ArchiveKey(session.User.ID, a.now())
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		a.logger.Error().Err(err).Str("key", key).Msg("Archive FAILED")
		return "", fmt.Errorf("failed to upload archive: %w", err)
	}

	a.logger.Info().Str("key", key).Int("count", len(reports)).Msg("Archive OK")
	return key, nil
}
