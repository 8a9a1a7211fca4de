package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"strings"
	"time"

	"github.com/Aravindkumar2195/mom-app/config"
	"github.com/disintegration/imaging"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// CompressEvidenceImage shrinks a base64 data-URL photo so it can be embedded
// in a record. Images already within maxWidth pass through untouched, as does
// anything that fails to decode: evidence is never lost to a transcoding error.
func CompressEvidenceImage(dataURL string, maxWidth, quality int) string {
	payload, ok := splitDataURL(dataURL)
	if !ok {
		return dataURL
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return dataURL
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return dataURL
	}

	if img.Bounds().Dx() <= maxWidth {
		return dataURL // No resize needed
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return dataURL
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// splitDataURL returns the base64 payload of a data URL
func splitDataURL(dataURL string) (string, bool) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return "", false
	}
	idx := strings.Index(dataURL, ";base64,")
	if idx < 0 {
		return "", false
	}
	return dataURL[idx+len(";base64,"):], true
}

// EvidenceStore archives original-resolution evidence photos in object
// storage so the record itself only carries the compressed copy
type EvidenceStore struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewEvidenceStore(cfg *config.MinioConfig) (*EvidenceStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &EvidenceStore{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *EvidenceStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ArchivePhoto stores the original photo under draft/observation and returns
// a presigned URL for later retrieval
func (s *EvidenceStore) ArchivePhoto(ctx context.Context, draftID, observationID, dataURL string) (string, error) {
	payload, ok := splitDataURL(dataURL)
	if !ok {
		return "", fmt.Errorf("not an image data URL")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode photo payload: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s.jpg", draftID, observationID)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive photo: %w", err)
	}

	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// DeletePhoto removes an archived photo
func (s *EvidenceStore) DeletePhoto(ctx context.Context, draftID, observationID string) error {
	objectName := fmt.Sprintf("%s/%s.jpg", draftID, observationID)
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
