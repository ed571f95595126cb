package models

import "time"

const (
	UploadPending   = "pending"
	UploadCompleted = "completed"
)

// Document describes server-side metadata of a stored file. The content
// itself lives in object storage under StorageKey and is only ever reached
// through presigned URLs.
type Document struct {
	ID           string
	UserID       string
	FileName     string
	FileType     string
	FileSize     int64
	StorageKey   string
	UploadStatus string
	UploadedAt   time.Time
	DeletedAt    *time.Time
}

// DocumentUploadTask instructs the client to upload a file using a presigned URL.
type DocumentUploadTask struct {
	DocumentID string
	URL        string
}
