package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kisy34/foodgram-project-react3/config"
)

// ImageStore persists decoded recipe images and returns a serveable URL
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// DecodeBase64Image decodes a "data:image/...;base64,..." payload and
// returns the raw bytes plus a file extension derived from the media type.
// A bare base64 string without the data URI prefix is accepted as PNG.
func DecodeBase64Image(payload string) ([]byte, string, error) {
	ext := ".png"
	raw := payload
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("malformed image data URI")
		}
		meta := parts[0]
		raw = parts[1]
		switch {
		case strings.Contains(meta, "image/jpeg"), strings.Contains(meta, "image/jpg"):
			ext = ".jpg"
		case strings.Contains(meta, "image/gif"):
			ext = ".gif"
		case strings.Contains(meta, "image/webp"):
			ext = ".webp"
		}
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image: %w", err)
	}
	return data, ext, nil
}

// S3ImageStore uploads images to an S3 bucket
type S3ImageStore struct {
	client *s3.Client
	bucket string
}

// NewS3ImageStore builds an S3-backed store from the configured bucket.
// A custom endpoint supports MinIO-style deployments.
func NewS3ImageStore(ctx context.Context, cfg config.S3Config) (*S3ImageStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ImageStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3ImageStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := "recipes/images/" + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeForName(name)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// LocalImageStore writes images under a media directory; used in
// development and tests where no object storage is available
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{dir: dir}
}

func (s *LocalImageStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	dir := filepath.Join(s.dir, "recipes", "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/media/recipes/images/" + name, nil
}

func contentTypeForName(name string) string {
	switch filepath.Ext(name) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
