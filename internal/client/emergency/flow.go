// Package emergency drives a nominee through emergency access: enter the
// email, enter the code sent to it, then browse and fetch the documents the
// owner shared.
//
// The server validates every step. Flow only keeps the in-memory state of
// one session and refuses transitions that make no sense from the current
// state.
package emergency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/rpc"
)

type State int

const (
	AwaitingEmail State = iota
	AwaitingOTP
	Authorized
	Exited
)

func (s State) String() string {
	switch s {
	case AwaitingEmail:
		return "awaiting-email"
	case AwaitingOTP:
		return "awaiting-otp"
	case Authorized:
		return "authorized"
	case Exited:
		return "exited"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var ErrInvalidTransition = errors.New("invalid transition")

// Backend is the part of the Vault API a nominee can reach.
type Backend interface {
	RequestEmergencyAccess(ctx context.Context, email string) error
	VerifyEmergencyAccess(ctx context.Context, email, code string) (*rpc.EmergencyGrant, error)
	EmergencyDocumentURL(ctx context.Context, nomineeToken, documentID, action string) (string, error)
}

const (
	actionView     = "view"
	actionDownload = "download"
)

// Flow is safe for concurrent use, though a session normally has a single
// caller.
type Flow struct {
	mu        sync.Mutex
	backend   Backend
	state     State
	email     string
	code      string
	token     string
	expiresAt time.Time
	documents []rpc.Document
}

func NewFlow(backend Backend) *Flow {
	return &Flow{backend: backend, state: AwaitingEmail}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Documents returns a copy of the documents resolved on verification.
func (f *Flow) Documents() []rpc.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]rpc.Document, len(f.documents))
	copy(out, f.documents)
	return out
}

func (f *Flow) ExpiresAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expiresAt
}

func (f *Flow) expect(s State) error {
	if f.state != s {
		return fmt.Errorf("%w: in state %s, want %s", ErrInvalidTransition, f.state, s)
	}
	return nil
}

// SubmitEmail asks the server to send a code. On any failure the flow stays
// in AwaitingEmail so the user can retry.
func (f *Flow) SubmitEmail(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.expect(AwaitingEmail); err != nil {
		return err
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return common.ValidationError("email is required")
	}

	if err := f.backend.RequestEmergencyAccess(ctx, email); err != nil {
		return err
	}
	f.email = email
	f.state = AwaitingOTP
	return nil
}

// Resend asks for a fresh code for the same email. The previous code stops
// working on the server side.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.expect(AwaitingOTP); err != nil {
		return err
	}
	f.code = ""
	return f.backend.RequestEmergencyAccess(ctx, f.email)
}

// SubmitCode verifies the code. On success the flow carries the nominee
// token and the resolved documents. On failure it stays in AwaitingOTP.
func (f *Flow) SubmitCode(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.expect(AwaitingOTP); err != nil {
		return err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return common.ValidationError("code is required")
	}
	f.code = code

	grant, err := f.backend.VerifyEmergencyAccess(ctx, f.email, code)
	if err != nil {
		f.code = ""
		return err
	}

	f.code = ""
	f.token = grant.Token
	f.expiresAt = grant.ExpiresAt
	f.documents = grant.Documents
	if f.documents == nil {
		f.documents = []rpc.Document{}
	}
	f.state = Authorized
	return nil
}

// Back returns from AwaitingOTP to AwaitingEmail. The issued code is left to
// expire on its own.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.expect(AwaitingOTP); err != nil {
		return err
	}
	f.email, f.code = "", ""
	f.state = AwaitingEmail
	return nil
}

// Exit ends the session and wipes everything it held. Exiting twice is fine.
func (f *Flow) Exit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email, f.code, f.token = "", "", ""
	f.expiresAt = time.Time{}
	f.documents = nil
	f.state = Exited
}

// View returns a signed URL for reading a shared document.
func (f *Flow) View(ctx context.Context, documentID string) (string, error) {
	return f.documentURL(ctx, documentID, actionView)
}

// Download returns a signed URL for saving a shared document. Documents
// shared with view access are refused without asking the server.
func (f *Flow) Download(ctx context.Context, documentID string) (string, error) {
	return f.documentURL(ctx, documentID, actionDownload)
}

func (f *Flow) documentURL(ctx context.Context, documentID, action string) (string, error) {
	f.mu.Lock()
	if err := f.expect(Authorized); err != nil {
		f.mu.Unlock()
		return "", err
	}
	doc, ok := f.find(documentID)
	token := f.token
	f.mu.Unlock()

	if !ok {
		return "", fmt.Errorf("document %s: %w", documentID, common.ErrorNotFound)
	}
	if action == actionDownload && doc.AccessLevel != actionDownload {
		return "", common.Denied(common.ReasonInsufficientLevel)
	}

	return f.backend.EmergencyDocumentURL(ctx, token, documentID, action)
}

func (f *Flow) find(documentID string) (rpc.Document, bool) {
	for _, d := range f.documents {
		if d.ID == documentID {
			return d, true
		}
	}
	return rpc.Document{}, false
}
