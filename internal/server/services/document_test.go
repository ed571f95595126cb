package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentUploadLifecycle(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.seedOwner(t, "o@x.io", 30)

	d, putURL, err := e.documents.CreateUpload(ctx, owner.ID, " will.pdf ", "", 2048)
	require.NoError(t, err)
	assert.Equal(t, "will.pdf", d.FileName)
	assert.Equal(t, "application/octet-stream", d.FileType)
	assert.Equal(t, models.UploadPending, d.UploadStatus)
	assert.True(t, strings.HasPrefix(d.StorageKey, "users/"+owner.ID+"/2026/03/01/"))
	assert.Contains(t, putURL, d.StorageKey)
	assert.Contains(t, putURL, common.UploadURLValidity.String())

	_, err = e.documents.OwnerURL(ctx, owner.ID, d.ID)
	assert.ErrorIs(t, err, common.ErrValidation, "pending uploads are not readable")

	require.NoError(t, e.documents.MarkUploaded(ctx, owner.ID, d.ID))
	getURL, err := e.documents.OwnerURL(ctx, owner.ID, d.ID)
	require.NoError(t, err)
	assert.Contains(t, getURL, common.SignedURLValidity.String())
	require.Len(t, e.signer.puts, 1)
	assert.Equal(t, "application/octet-stream", e.signer.puts[0].ContentType)
	require.Len(t, e.signer.gets, 1)
	assert.Equal(t, ObjectRef{Key: d.StorageKey, FileName: "will.pdf", ContentType: "application/octet-stream", Attachment: true}, e.signer.gets[0])

	list, err := e.documents.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, e.documents.Delete(ctx, owner.ID, d.ID))
	list, err = e.documents.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, e.documents.Delete(ctx, owner.ID, d.ID), common.ErrorNotFound)
}

func TestDocumentOwnership(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.seedOwner(t, "o@x.io", 30)
	other := e.seedOwner(t, "p@x.io", 30)
	d := e.seedDocument(t, owner, "will.pdf")

	_, err := e.documents.OwnerURL(ctx, other.ID, d.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, e.documents.MarkUploaded(ctx, other.ID, d.ID), common.ErrorNotFound)
	assert.ErrorIs(t, e.documents.Delete(ctx, other.ID, d.ID), common.ErrorNotFound)
}

func TestCreateUpload_Errors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, _, err := e.documents.CreateUpload(ctx, "u1", "  ", "text/plain", 1)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, _, err = e.documents.CreateUpload(ctx, "u1", "a.txt", "text/plain", 0)
	assert.ErrorIs(t, err, common.ErrValidation)

	e.signer.err = errors.New("s3 down")
	_, _, err = e.documents.CreateUpload(ctx, "u1", "a.txt", "text/plain", 1)
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.Empty(t, e.store.docs, "nothing is recorded without an upload url")

	e.signer.err = nil
	e.store.fail["docs.Create"] = errors.New("db down")
	_, _, err = e.documents.CreateUpload(ctx, "u1", "a.txt", "text/plain", 1)
	assert.ErrorContains(t, err, "error creating document")
}

func TestDocument_MalformedIDs(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	owner := e.seedOwner(t, "o@x.io", 30)

	_, err := e.documents.OwnerURL(ctx, owner.ID, "../etc")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, e.documents.MarkUploaded(ctx, owner.ID, "7"), common.ErrorNotFound)
	assert.ErrorIs(t, e.documents.Delete(ctx, owner.ID, "7"), common.ErrorNotFound)
	assert.Empty(t, e.signer.gets)
}
