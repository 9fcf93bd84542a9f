// Package storage keeps upload photo evidence in S3 (or MinIO).
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"sitepay/internal/config"
)

var photoExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	region   string
}

type UploadResult struct {
	S3Key      string
	S3Bucket   string
	FileHash   string // SHA-256 hash of the photo
	FileSize   int64
	MimeType   string
	UploadedAt time.Time
}

// NewS3Service creates a new S3 service instance with MinIO support
func NewS3Service(cfg *config.Config) (*S3Service, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET environment variable is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // MinIO requires path-style addressing
		}
	})

	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
	}, nil
}

// UploadPhoto stores an upload's photo evidence and returns its key.
// Only common image formats are accepted.
func (s *S3Service) UploadPhoto(ctx context.Context, file multipart.File, header *multipart.FileHeader, kind string, submitterID uuid.UUID) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimeType, ok := photoExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported photo format %q", ext)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	hash := sha256.Sum256(data)
	fileHash := hex.EncodeToString(hash[:])

	photoID := uuid.New()
	s3Key := fmt.Sprintf("photos/%s/%s/%s%s", kind, submitterID.String(), photoID.String(), ext)

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
		Metadata: map[string]string{
			"original-filename": header.Filename,
			"submitter-id":      submitterID.String(),
			"photo-hash":        fileHash,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		S3Key:      s3Key,
		S3Bucket:   s.bucket,
		FileHash:   fileHash,
		FileSize:   int64(len(data)),
		MimeType:   mimeType,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// PhotoURL generates a presigned URL for temporary access to a photo.
func (s *S3Service) PhotoURL(ctx context.Context, s3Key string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiration
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeletePhoto deletes a photo from S3
func (s *S3Service) DeletePhoto(ctx context.Context, s3Key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo from S3: %w", err)
	}
	return nil
}

// PhotoExists checks if a photo exists in S3
func (s *S3Service) PhotoExists(ctx context.Context, s3Key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check photo existence: %w", err)
	}
	return true, nil
}
