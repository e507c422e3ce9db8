// file: service/media.go

package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	appcfg "vidtube-api/config"
	"vidtube-api/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// IMediaStore is the external media collaborator: it stores uploaded image
// bytes somewhere public and returns the URL to persist on the account.
type IMediaStore interface {
	Upload(ctx context.Context, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// S3MediaStore implements IMediaStore on any S3-compatible endpoint
// (AWS S3 or MinIO via the custom base endpoint).
type S3MediaStore struct {
	client *s3.Client
	cfg    appcfg.MediaConfig
}

func NewS3MediaStore(cfg appcfg.MediaConfig) (*S3MediaStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3MediaStore{client: client, cfg: cfg}, nil
}

// storageKey partitions objects by upload date so buckets stay browsable.
func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3MediaStore) Upload(ctx context.Context, contentType string, body io.Reader) (string, error) {
	key := storageKey()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Failed to upload media object")
		return "", fmt.Errorf("failed to upload media object: %w", err)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.BaseURL, "/"), key)
	logger.Log.WithField("url", url).Info("Media object uploaded")
	return url, nil
}

func (s *S3MediaStore) Delete(ctx context.Context, url string) error {
	base := strings.TrimRight(s.cfg.BaseURL, "/") + "/"
	key := strings.TrimPrefix(url, base)
	if key == url || key == "" {
		// Not one of ours; nothing to delete.
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Failed to delete media object")
		return fmt.Errorf("failed to delete media object: %w", err)
	}
	return nil
}
