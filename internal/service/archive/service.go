package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"vertitrack/internal/domain"
)

// ObjectPutter is the part of *minio.Client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Service interface {
	// Archive writes the alerts as one JSON document and returns its object
	// key.
	Archive(ctx context.Context, alerts []domain.Alert, at time.Time) (string, error)
}

type service struct {
	client ObjectPutter
	bucket string
}

// NewService returns nil when no object store is configured.
func NewService(client ObjectPutter, bucket string) Service {
	if client == nil {
		return nil
	}
	return &service{client: client, bucket: bucket}
}

type snapshot struct {
	ArchivedAt time.Time      `json:"archived_at"`
	Count      int            `json:"count"`
	Alerts     []domain.Alert `json:"alerts"`
}

func (s *service) Archive(ctx context.Context, alerts []domain.Alert, at time.Time) (string, error) {
	payload, err := json.Marshal(snapshot{ArchivedAt: at.UTC(), Count: len(alerts), Alerts: alerts})
	if err != nil {
		return "", fmt.Errorf("encoding alert archive: %w", err)
	}

	key := ObjectKey(at)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey is alerts/purged/YYYY/MM/<date>-<id>.json.
func ObjectKey(at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("alerts/purged/%04d/%02d/%s-%s.json", at.Year(), int(at.Month()), at.Format(domain.DateLayout), uuid.NewString()[:8])
}
