package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recipeshare/backend/config"
)

// ImageService archives uploaded recipe photos to S3. Archival is
// best-effort: the AI photo endpoint works without it.
type ImageService struct {
	s3Config *config.S3Config
	logger   *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config, logger *zap.Logger) *ImageService {
	return &ImageService{
		s3Config: s3Config,
		logger:   logger,
	}
}

// ArchivePhoto stores the uploaded photo bytes under a fresh key and
// returns the object key.
func (s *ImageService) ArchivePhoto(ctx context.Context, contentType string, photo []byte) (string, error) {
	key := fmt.Sprintf("photos/%s", uuid.New().String())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(photo),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo to S3: %w", err)
	}

	s.logger.Info("archived recipe photo", zap.String("key", key), zap.Int("bytes", len(photo)))
	return key, nil
}
