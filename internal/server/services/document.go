package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
)

// DocumentService keeps document metadata; contents go straight between the
// client and object storage through presigned URLs.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	signer      URLSigner
	logger      logging.Logger
	now         func() time.Time
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, signer URLSigner, logger logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: m,
		signer:      signer,
		logger:      logger.With("module", "documents"),
		now:         time.Now,
	}
}

// CreateUpload records a pending document and returns it together with a
// presigned PUT URL for its contents.
func (s *DocumentService) CreateUpload(ctx context.Context, userID, fileName, fileType string, size int64) (*models.Document, string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, "", common.ValidationError("file name is required")
	}
	if size <= 0 {
		return nil, "", common.ValidationError("file size must be positive")
	}
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	key := NewStorageKey(userID, s.now())
	url, err := s.signer.PutURL(ctx, ObjectRef{Key: key, FileName: fileName, ContentType: fileType}, common.UploadURLValidity)
	if err != nil {
		s.logger.Error(ctx, "signing upload url failed", "user_id", userID, "error", err)
		return nil, "", common.ErrorInternal
	}

	d, err := s.repomanager.Documents(s.db).Create(ctx, &models.Document{
		UserID:       userID,
		FileName:     fileName,
		FileType:     fileType,
		FileSize:     size,
		StorageKey:   key,
		UploadStatus: models.UploadPending,
	})
	if err != nil {
		return nil, "", fmt.Errorf("error creating document: %w", err)
	}
	return d, url, nil
}

func (s *DocumentService) MarkUploaded(ctx context.Context, userID, id string) error {
	if err := knownIDs(id); err != nil {
		return err
	}
	if err := s.repomanager.Documents(s.db).MarkUploaded(ctx, userID, id); err != nil {
		return fmt.Errorf("error updating document: %w", err)
	}
	return nil
}

func (s *DocumentService) List(ctx context.Context, userID string) ([]*models.Document, error) {
	list, err := s.repomanager.Documents(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return list, nil
}

func (s *DocumentService) Delete(ctx context.Context, userID, id string) error {
	if err := knownIDs(id); err != nil {
		return err
	}
	if err := s.repomanager.Documents(s.db).SoftDelete(ctx, userID, id, s.now()); err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	return nil
}

// OwnerURL returns a presigned GET URL for one of the owner's uploaded documents.
func (s *DocumentService) OwnerURL(ctx context.Context, userID, id string) (string, error) {
	if err := knownIDs(id); err != nil {
		return "", err
	}
	d, err := s.repomanager.Documents(s.db).Get(ctx, userID, id)
	if err != nil {
		return "", fmt.Errorf("error getting document: %w", err)
	}
	if d.UploadStatus != models.UploadCompleted {
		return "", common.ValidationError("document upload is not complete")
	}

	url, err := s.signer.GetURL(ctx, objectRef(d, true), common.SignedURLValidity)
	if err != nil {
		s.logger.Error(ctx, "signing url failed", "document_id", id, "error", err)
		return "", common.ErrorInternal
	}
	return url, nil
}

func objectRef(d *models.Document, attachment bool) ObjectRef {
	return ObjectRef{Key: d.StorageKey, FileName: d.FileName, ContentType: d.FileType, Attachment: attachment}
}
