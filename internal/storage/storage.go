package storage

import (
	"context"
	"time"
)

// PresignedUpload is what a client needs to upload a file directly to object
// storage: a short-lived signed PUT URL, the public URL the object will be
// served from, and the object key for later deletion.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
}

// Storage is the object storage capability. The core only ever stores the
// returned URL/key strings on the user profile; file bytes never pass through
// it.
type Storage interface {
	PresignUpload(ctx context.Context, filename, contentType string) (*PresignedUpload, error)
	Delete(ctx context.Context, key string) error
}

// presignTTL bounds how long an issued upload URL stays usable.
const presignTTL = time.Hour
