package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emergencyGrant() *rpc.EmergencyGrant {
	return &rpc.EmergencyGrant{
		Token:     "nt",
		ExpiresAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Documents: []rpc.Document{
			{ID: "will", FileName: "will.pdf", AccessLevel: "download"},
			{ID: "deed", FileName: "deed.pdf", AccessLevel: "view"},
		},
	}
}

func TestEmergency_FullSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("will body"))
	}))
	defer ts.Close()

	a := newTestApp(t, "kid@x.io\n123456\nlist\nview 2\ndownload 2\ndownload 1\ndownload 9\nexit\n")
	a.vault.emergencyGrant = emergencyGrant()
	a.vault.downloadURL = ts.URL

	require.NoError(t, a.Emergency(context.Background()))

	out := a.out.String()
	assert.Contains(t, out, "A verification code was sent to kid@x.io")
	assert.Contains(t, out, " 1. will.pdf")
	assert.Contains(t, out, " 2. deed.pdf")
	assert.Contains(t, out, "this document is shared for viewing only")
	assert.Contains(t, out, "pick a number from 1 to 2")
	assert.Contains(t, out, "Emergency session closed.")

	assert.Equal(t, []string{"nt/deed/view", "nt/will/download"}, a.vault.emergencyURLs, "view-only download never reaches the server")

	b, err := os.ReadFile(filepath.Join(a.config.DownloadDir, "will.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "will body", string(b))
}

func TestEmergency_DeniedThenRetry(t *testing.T) {
	a := newTestApp(t, "stranger@x.io\nkid@x.io\nq\n")
	a.vault.err["emergency-request:stranger@x.io"] = common.ErrAccessDenied

	require.NoError(t, a.Emergency(context.Background()))

	assert.Contains(t, a.out.String(), "Error: "+common.AccessDeniedGenericMessage)
	assert.Equal(t, []string{"emergency-request:stranger@x.io", "emergency-request:kid@x.io"}, a.vault.calls)
}

func TestEmergency_ResendBackAndWrongCode(t *testing.T) {
	a := newTestApp(t, "kid@x.io\nr\n000000\nb\n\n")
	a.vault.err["emergency-verify:000000"] = common.ErrMismatch

	require.NoError(t, a.Emergency(context.Background()))

	assert.Equal(t, []string{
		"emergency-request:kid@x.io",
		"emergency-request:kid@x.io",
		"emergency-verify:000000",
	}, a.vault.calls)
	out := a.out.String()
	assert.Contains(t, out, "A new code was sent.")
	assert.Contains(t, out, "the code is not correct")
	assert.Contains(t, out, "Emergency session closed.")
}

func TestEmergency_InputEndsMidFlow(t *testing.T) {
	a := newTestApp(t, "kid@x.io\n")
	require.NoError(t, a.Emergency(context.Background()))
	assert.Equal(t, []string{"emergency-request:kid@x.io"}, a.vault.calls)
}

func TestEmergency_NoDocuments(t *testing.T) {
	a := newTestApp(t, "kid@x.io\n123456\nexit\n")
	a.vault.emergencyGrant = &rpc.EmergencyGrant{Token: "nt"}

	require.NoError(t, a.Emergency(context.Background()))
	assert.Contains(t, a.out.String(), "No documents were shared with you.")
}
