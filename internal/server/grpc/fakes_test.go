package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/services"
)

type fakeAccounts struct {
	pair *services.TokenPair
	err  error

	gotEmail, gotCode, gotPassword string
}

func (f *fakeAccounts) RequestSignup(ctx context.Context, email, password, displayName string) error {
	f.gotEmail, f.gotPassword = email, password
	return f.err
}
func (f *fakeAccounts) ConfirmSignup(ctx context.Context, email, code string) (*services.TokenPair, error) {
	f.gotEmail, f.gotCode = email, code
	return f.pair, f.err
}
func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	f.gotEmail, f.gotPassword = email, password
	return f.pair, f.err
}
func (f *fakeAccounts) RequestPasswordReset(ctx context.Context, email string) error {
	f.gotEmail = email
	return f.err
}
func (f *fakeAccounts) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	f.gotEmail, f.gotCode, f.gotPassword = email, code, newPassword
	return f.err
}
func (f *fakeAccounts) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return f.pair, f.err
}

type fakeInactivity struct {
	trigger  *models.InactivityTrigger
	err      error
	saved    services.InactivitySettings
	touched  []string
	touchErr error
}

func (f *fakeInactivity) UpsertSettings(ctx context.Context, userID string, in services.InactivitySettings) error {
	f.saved = in
	return f.err
}
func (f *fakeInactivity) GetSettings(ctx context.Context, userID string) (*models.InactivityTrigger, error) {
	return f.trigger, f.err
}
func (f *fakeInactivity) RecordActivity(ctx context.Context, userID string) error {
	f.touched = append(f.touched, userID)
	return f.touchErr
}

type fakeNominees struct {
	list   []*models.Nominee
	grants []*models.AccessControl
	err    error

	gotUser  string
	gotInput services.NomineeInput
	gotLevel models.AccessLevel
}

func (f *fakeNominees) Create(ctx context.Context, userID string, in services.NomineeInput) (*models.Nominee, error) {
	f.gotUser, f.gotInput = userID, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Nominee{ID: "n1", UserID: userID, FullName: in.FullName, Relation: in.Relation,
		Email: in.Email, Status: models.NomineePending, VerificationToken: "secret-token"}, nil
}
func (f *fakeNominees) List(ctx context.Context, userID string) ([]*models.Nominee, error) {
	f.gotUser = userID
	return f.list, f.err
}
func (f *fakeNominees) Delete(ctx context.Context, userID, nomineeID string) error {
	f.gotUser = userID
	return f.err
}
func (f *fakeNominees) Grant(ctx context.Context, userID, nomineeID, documentID string, level models.AccessLevel) error {
	f.gotUser, f.gotLevel = userID, level
	return f.err
}
func (f *fakeNominees) Revoke(ctx context.Context, userID, nomineeID, documentID string) error {
	f.gotUser = userID
	return f.err
}
func (f *fakeNominees) Grants(ctx context.Context, userID, nomineeID string) ([]*models.AccessControl, error) {
	f.gotUser = userID
	return f.grants, f.err
}

type fakeDocuments struct {
	docs []*models.Document
	url  string
	err  error
}

func (f *fakeDocuments) CreateUpload(ctx context.Context, userID, fileName, fileType string, size int64) (*models.Document, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return &models.Document{ID: "d1", UserID: userID, FileName: fileName, FileType: fileType, FileSize: size,
		StorageKey: "users/" + userID + "/k", UploadStatus: models.UploadPending}, f.url, nil
}
func (f *fakeDocuments) MarkUploaded(ctx context.Context, userID, id string) error { return f.err }
func (f *fakeDocuments) List(ctx context.Context, userID string) ([]*models.Document, error) {
	return f.docs, f.err
}
func (f *fakeDocuments) Delete(ctx context.Context, userID, id string) error { return f.err }
func (f *fakeDocuments) OwnerURL(ctx context.Context, userID, id string) (string, error) {
	return f.url, f.err
}

type fakeEmergency struct {
	grant    *services.EmergencyGrant
	url      string
	err      error
	gotToken string
	gotLevel models.AccessLevel
}

func (f *fakeEmergency) RequestAccess(ctx context.Context, email string) error { return f.err }
func (f *fakeEmergency) VerifyAccess(ctx context.Context, email, code string) (*services.EmergencyGrant, error) {
	return f.grant, f.err
}
func (f *fakeEmergency) DocumentURL(ctx context.Context, nomineeToken, documentID string, action models.AccessLevel) (string, error) {
	f.gotToken, f.gotLevel = nomineeToken, action
	return f.url, f.err
}

type fakes struct {
	accounts   *fakeAccounts
	inactivity *fakeInactivity
	nominees   *fakeNominees
	documents  *fakeDocuments
	emergency  *fakeEmergency
}

const testSecret = "k"

func newFakeServer() (*GRPCServer, *fakes) {
	f := &fakes{
		accounts:   &fakeAccounts{},
		inactivity: &fakeInactivity{},
		nominees:   &fakeNominees{},
		documents:  &fakeDocuments{},
		emergency:  &fakeEmergency{},
	}
	s := NewGRPCServer("127.0.0.1:0", logging.Nop{}, Services{
		Accounts:   f.accounts,
		Inactivity: f.inactivity,
		Nominees:   f.nominees,
		Documents:  f.documents,
		Emergency:  f.emergency,
	}, testSecret)
	return s, f
}

func ownerCtx(userID string) context.Context {
	return context.WithValue(context.Background(), userIDKey, userID)
}

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

