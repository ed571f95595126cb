package grpc

import (
	"context"

	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/services"
)

type Accounts interface {
	RequestSignup(ctx context.Context, email, password, displayName string) error
	ConfirmSignup(ctx context.Context, email, code string) (*services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type Inactivity interface {
	UpsertSettings(ctx context.Context, userID string, in services.InactivitySettings) error
	GetSettings(ctx context.Context, userID string) (*models.InactivityTrigger, error)
	RecordActivity(ctx context.Context, userID string) error
}

type Nominees interface {
	Create(ctx context.Context, userID string, in services.NomineeInput) (*models.Nominee, error)
	List(ctx context.Context, userID string) ([]*models.Nominee, error)
	Delete(ctx context.Context, userID, nomineeID string) error
	Grant(ctx context.Context, userID, nomineeID, documentID string, level models.AccessLevel) error
	Revoke(ctx context.Context, userID, nomineeID, documentID string) error
	Grants(ctx context.Context, userID, nomineeID string) ([]*models.AccessControl, error)
}

type Documents interface {
	CreateUpload(ctx context.Context, userID, fileName, fileType string, size int64) (*models.Document, string, error)
	MarkUploaded(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]*models.Document, error)
	Delete(ctx context.Context, userID, id string) error
	OwnerURL(ctx context.Context, userID, id string) (string, error)
}

type Emergency interface {
	RequestAccess(ctx context.Context, email string) error
	VerifyAccess(ctx context.Context, email, code string) (*services.EmergencyGrant, error)
	DocumentURL(ctx context.Context, nomineeToken, documentID string, action models.AccessLevel) (string, error)
}
