package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"authcore/internal/config"
)

// S3Storage issues presigned URLs against any S3-compatible endpoint
// (Cloudflare R2 in the reference deployment; R2 speaks the S3 API).
type S3Storage struct {
	client    *s3.S3
	bucket    string
	publicURL string
}

// NewS3Storage creates the storage client from configuration.
func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	if cfg.StorageEndpoint == "" || cfg.StorageBucket == "" {
		return nil, fmt.Errorf("storage endpoint and bucket are required")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("auto"),
		Endpoint:         aws.String(cfg.StorageEndpoint),
		Credentials:      credentials.NewStaticCredentials(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create storage session: %w", err)
	}

	return &S3Storage{
		client:    s3.New(sess),
		bucket:    cfg.StorageBucket,
		publicURL: strings.TrimRight(cfg.StoragePublicURL, "/"),
	}, nil
}

// PresignUpload returns a signed PUT URL for a fresh unique object key.
func (s *S3Storage) PresignUpload(ctx context.Context, filename, contentType string) (*PresignedUpload, error) {
	key := "uploads/" + uniqueFilename(filename)

	req, _ := s.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	req.SetContext(ctx)

	uploadURL, err := req.Presign(presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &PresignedUpload{
		UploadURL: uploadURL,
		FileURL:   s.publicURL + "/" + key,
		Key:       key,
	}, nil
}

// Delete removes an object by key.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// uniqueFilename keeps the original extension and a sanitized stem, prefixed
// with a timestamp and random suffix so keys never collide.
func uniqueFilename(original string) string {
	ext := path.Ext(original)
	stem := strings.TrimSuffix(path.Base(original), ext)
	stem = strings.ToLower(stem)
	var b strings.Builder
	for _, r := range stem {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	clean := b.String()
	if len(clean) > 20 {
		clean = clean[:20]
	}

	suffix := make([]byte, 8)
	rand.Read(suffix)

	return fmt.Sprintf("%s-%d-%s%s", clean, time.Now().UnixMilli(), hex.EncodeToString(suffix), ext)
}
