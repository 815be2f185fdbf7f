package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxWhiteboardBytes = 10 << 20

// ObjectPutter is the subset of the S3 client used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService stores whiteboard photos in S3
type ImageService struct {
	client ObjectPutter
	bucket string
	now    func() time.Time
}

// NewImageService creates a new ImageService instance
func NewImageService(client ObjectPutter, bucket string) *ImageService {
	return &ImageService{
		client: client,
		bucket: bucket,
		now:    time.Now,
	}
}

// UploadWhiteboard decodes a base64 photo (raw or data URL), uploads it and
// returns its public URL
func (s *ImageService) UploadWhiteboard(ctx context.Context, imageBase64, mediaType string) (string, error) {
	payload, mediaType := splitDataURL(imageBase64, mediaType)
	if payload == "" {
		return "", fmt.Errorf("empty image")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if len(data) > maxWhiteboardBytes {
		return "", fmt.Errorf("image too large: %d bytes", len(data))
	}

	key := fmt.Sprintf("wod-images/%s/%s%s", s.now().UTC().Format("2006/01"), uuid.New().String(), extensionFor(mediaType))
	return s.UploadImageToS3(ctx, data, key, mediaType)
}

// UploadImageToS3 uploads image data to S3 and returns the public URL
func (s *ImageService) UploadImageToS3(ctx context.Context, imageData []byte, key, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	log.WithField("url", publicURL).Info("uploaded whiteboard photo")
	return publicURL, nil
}

func extensionFor(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
