package media

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	configs "github.com/videotube/backend/config"
	"github.com/videotube/backend/pkg/logger"
	"go.uber.org/zap"
)

// Uploader relays local temporary files to the S3-compatible media host and
// returns durable public URLs.
type Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewUploader(ctx context.Context, cfg *configs.Config) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Media.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Media.AccessKey,
			cfg.Media.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load media host credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Media.Endpoint)
		o.UsePathStyle = true
	})

	publicBase := cfg.Media.PublicBaseURL
	if publicBase == "" {
		publicBase = strings.TrimRight(cfg.Media.Endpoint, "/") + "/" + cfg.Media.Bucket
	}

	return &Uploader{
		client:        client,
		bucket:        cfg.Media.Bucket,
		publicBaseURL: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload sends the file at localPath to the media host and returns its public
// URL. The local file is removed exactly once per attempt, on success and on
// failure alike. An empty localPath returns ("", nil) so optional files can be
// passed through unconditionally.
func (u *Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", nil
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			logger.GetLogger().Warn("Failed to remove local temp file",
				zap.String("path", localPath),
				zap.Error(err),
			)
		}
	}()

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	key := storageKey(filepath.Ext(localPath))
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return u.publicBaseURL + "/" + key, nil
}

// Delete removes a previously uploaded object given its public URL. Callers
// treat failures as non-fatal.
func (u *Uploader) Delete(ctx context.Context, fileURL string) error {
	key, err := u.keyFromURL(fileURL)
	if err != nil {
		return err
	}

	_, err = u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (u *Uploader) keyFromURL(fileURL string) (string, error) {
	if fileURL == "" {
		return "", fmt.Errorf("empty file URL")
	}
	if strings.HasPrefix(fileURL, u.publicBaseURL+"/") {
		return strings.TrimPrefix(fileURL, u.publicBaseURL+"/"), nil
	}
	// URL from a previous base configuration; fall back to the path
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("malformed file URL %q: %w", fileURL, err)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", fmt.Errorf("no object key in URL %q", fileURL)
	}
	// Path-style URLs carry the bucket as the first segment
	key = strings.TrimPrefix(key, u.bucket+"/")
	return key, nil
}

// storageKey partitions objects by upload date so orphans stay reclaimable.
func storageKey(ext string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("uploads/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
