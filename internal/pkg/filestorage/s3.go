package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/emre/solidarity/internal/pkg/logger"
)

// S3Storage stores files in an S3 bucket, keyed by category prefix.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Storage creates an S3Storage using the default credential chain.
// baseURL is the public prefix files are served from, typically the bucket
// website endpoint or a CDN in front of it.
func NewS3Storage(ctx context.Context, region, bucket, baseURL string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFile uploads the file under the category prefix
func (s *S3Storage) SaveFile(fileHeader *multipart.FileHeader, category string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	key := category + "/" + uniqueFilename(category, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	fileURL := s.baseURL + "/" + key
	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("key", key).
		Str("bucket", s.bucket).
		Msg("File uploaded to S3")
	return fileURL, nil
}

// DeleteFile removes an object. S3 delete is idempotent so a missing key
// is not an error.
func (s *S3Storage) DeleteFile(fileURL string) error {
	if fileURL == "" {
		return nil
	}

	key := strings.TrimPrefix(fileURL, s.baseURL+"/")

	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	logger.Info().Str("key", key).Str("bucket", s.bucket).Msg("File deleted from S3")
	return nil
}
