package grpc

import (
	"github.com/dmitrijs2005/familyvault/internal/rpc"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

func settingsToRPC(t *models.InactivityTrigger) *rpc.Settings {
	return &rpc.Settings{
		IsActive:               t.IsActive,
		InactiveDaysThreshold:  t.InactiveDaysThreshold,
		CustomMessage:          t.CustomMessage,
		NotifyEmail:            t.Channels.Email,
		NotifySMS:              t.Channels.SMS,
		LastActivityAt:         t.LastActivityAt,
		EmergencyAccessGranted: t.EmergencyAccessGranted,
	}
}

func nomineeToRPC(n *models.Nominee) rpc.Nominee {
	return rpc.Nominee{
		ID:         n.ID,
		FullName:   n.FullName,
		Relation:   string(n.Relation),
		Email:      n.Email,
		Phone:      n.Phone,
		Status:     string(n.Status),
		VerifiedAt: n.VerifiedAt,
		CreatedAt:  n.CreatedAt,
	}
}

// documentToRPC never exposes the storage key.
func documentToRPC(d *models.Document, level models.AccessLevel) rpc.Document {
	return rpc.Document{
		ID:           d.ID,
		FileName:     d.FileName,
		FileType:     d.FileType,
		FileSize:     d.FileSize,
		UploadStatus: d.UploadStatus,
		UploadedAt:   d.UploadedAt,
		AccessLevel:  string(level),
	}
}
