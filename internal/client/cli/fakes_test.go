package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/familyvault/internal/client/config"
	"github.com/dmitrijs2005/familyvault/internal/client/session"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/rpc"
)

type fakeVault struct {
	sess  *session.Context
	calls []string
	err   map[string]error

	signup      rpc.SignupRequest
	code        rpc.CodeRequest
	login       rpc.LoginRequest
	reset       rpc.ResetPasswordRequest
	settings    rpc.Settings
	saved       *rpc.Settings
	nominee     rpc.NomineeRequest
	nominees    []rpc.Nominee
	grants      []rpc.Grant
	grant       rpc.GrantRequest
	documents   []rpc.Document
	upload      rpc.UploadRequest
	uploadURL   string
	downloadURL string
	lastID      string

	emergencyGrant *rpc.EmergencyGrant
	emergencyURLs  []string
}

func newFakeVault(sess *session.Context) *fakeVault {
	return &fakeVault{sess: sess, err: map[string]error{}}
}

func (f *fakeVault) called(name string) error {
	f.calls = append(f.calls, name)
	return f.err[name]
}

func (f *fakeVault) Close() error                 { return f.called("close") }
func (f *fakeVault) Ping(ctx context.Context) error { return f.called("ping") }

func (f *fakeVault) RequestSignup(_ context.Context, email, password, name string) error {
	f.signup = rpc.SignupRequest{Email: email, Password: password, DisplayName: name}
	return f.called("signup")
}

func (f *fakeVault) ConfirmSignup(_ context.Context, email, code string) error {
	f.code = rpc.CodeRequest{Email: email, Code: code}
	if err := f.called("confirm"); err != nil {
		return err
	}
	f.sess.SetTokens("access", "refresh")
	return nil
}

func (f *fakeVault) Login(_ context.Context, email, password string) error {
	f.login = rpc.LoginRequest{Email: email, Password: password}
	if err := f.called("login"); err != nil {
		return err
	}
	f.sess.SetTokens("access", "refresh")
	return nil
}

func (f *fakeVault) RequestPasswordReset(_ context.Context, email string) error {
	f.reset.Email = email
	return f.called("reset-request")
}

func (f *fakeVault) ResetPassword(_ context.Context, email, code, password string) error {
	f.reset = rpc.ResetPasswordRequest{Email: email, Code: code, NewPassword: password}
	return f.called("reset")
}

func (f *fakeVault) GetSettings(context.Context) (*rpc.Settings, error) {
	if err := f.called("get-settings"); err != nil {
		return nil, err
	}
	s := f.settings
	return &s, nil
}

func (f *fakeVault) UpdateSettings(_ context.Context, s rpc.Settings) error {
	f.saved = &s
	return f.called("update-settings")
}

func (f *fakeVault) AddNominee(_ context.Context, req rpc.NomineeRequest) (*rpc.Nominee, error) {
	f.nominee = req
	if err := f.called("add-nominee"); err != nil {
		return nil, err
	}
	return &rpc.Nominee{ID: "n1", FullName: req.FullName, Email: req.Email, Status: "pending"}, nil
}

func (f *fakeVault) ListNominees(context.Context) ([]rpc.Nominee, error) {
	return f.nominees, f.called("list-nominees")
}

func (f *fakeVault) DeleteNominee(_ context.Context, id string) error {
	f.lastID = id
	return f.called("delete-nominee")
}

func (f *fakeVault) GrantAccess(_ context.Context, nomineeID, documentID, level string) error {
	f.grant = rpc.GrantRequest{NomineeID: nomineeID, DocumentID: documentID, AccessLevel: level}
	return f.called("grant")
}

func (f *fakeVault) RevokeAccess(_ context.Context, nomineeID, documentID string) error {
	f.grant = rpc.GrantRequest{NomineeID: nomineeID, DocumentID: documentID}
	return f.called("revoke")
}

func (f *fakeVault) ListGrants(_ context.Context, nomineeID string) ([]rpc.Grant, error) {
	f.lastID = nomineeID
	return f.grants, f.called("list-grants")
}

func (f *fakeVault) CreateUpload(_ context.Context, name, fileType string, size int64) (*rpc.UploadResponse, error) {
	f.upload = rpc.UploadRequest{FileName: name, FileType: fileType, FileSize: size}
	if err := f.called("create-upload"); err != nil {
		return nil, err
	}
	if fileType == "" {
		fileType = "application/octet-stream"
	}
	return &rpc.UploadResponse{Document: rpc.Document{ID: "d1", FileName: name, FileType: fileType}, URL: f.uploadURL}, nil
}

func (f *fakeVault) MarkUploaded(_ context.Context, id string) error {
	f.lastID = id
	return f.called("mark-uploaded")
}

func (f *fakeVault) ListDocuments(context.Context) ([]rpc.Document, error) {
	return f.documents, f.called("list-documents")
}

func (f *fakeVault) DeleteDocument(_ context.Context, id string) error {
	f.lastID = id
	return f.called("delete-document")
}

func (f *fakeVault) DocumentURL(_ context.Context, id string) (string, error) {
	f.lastID = id
	return f.downloadURL, f.called("document-url")
}

func (f *fakeVault) RequestEmergencyAccess(_ context.Context, email string) error {
	return f.called("emergency-request:" + email)
}

func (f *fakeVault) VerifyEmergencyAccess(_ context.Context, email, code string) (*rpc.EmergencyGrant, error) {
	if err := f.called("emergency-verify:" + code); err != nil {
		return nil, err
	}
	return f.emergencyGrant, nil
}

func (f *fakeVault) EmergencyDocumentURL(_ context.Context, token, documentID, action string) (string, error) {
	f.emergencyURLs = append(f.emergencyURLs, token+"/"+documentID+"/"+action)
	return f.downloadURL, f.called("emergency-url")
}

type recordingRegistrar struct {
	registered   []string
	unregistered []string
}

func (r *recordingRegistrar) Available() bool { return true }
func (r *recordingRegistrar) Register(_ context.Context, email string) error {
	r.registered = append(r.registered, email)
	return nil
}
func (r *recordingRegistrar) Unregister(_ context.Context, email string) error {
	r.unregistered = append(r.unregistered, email)
	return nil
}

type testApp struct {
	*App
	vault  *fakeVault
	notify *recordingRegistrar
	out    *bytes.Buffer
}

// newTestApp builds an App reading input line by line. Secrets are served
// from secrets in order.
func newTestApp(t *testing.T, input string, secrets ...string) *testApp {
	t.Helper()

	orig := getSecret
	getSecret = func(string, io.Writer) ([]byte, error) {
		if len(secrets) == 0 {
			return nil, io.EOF
		}
		s := secrets[0]
		secrets = secrets[1:]
		return []byte(s), nil
	}
	t.Cleanup(func() { getSecret = orig })

	sess := session.New()
	sess.Begin()
	vault := newFakeVault(sess)
	notify := &recordingRegistrar{}
	out := &bytes.Buffer{}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DownloadDir = t.TempDir()

	return &testApp{
		App: &App{
			config:  cfg,
			api:     vault,
			session: sess,
			notify:  notify,
			logger:  logging.Nop{},
			reader:  rdr(input),
			out:     out,
		},
		vault:  vault,
		notify: notify,
		out:    out,
	}
}

func (a *testApp) signIn() {
	a.session.SetTokens("access", "refresh")
	a.session.SignIn("owner@x.io")
}
