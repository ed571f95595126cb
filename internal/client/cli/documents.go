package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/familyvault/internal/filex"
	"github.com/dmitrijs2005/familyvault/internal/netx"
)

func (a *App) ListDocuments(ctx context.Context) error {
	docs, err := a.api.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		a.println("No documents yet. Use 'upload'.")
		return nil
	}
	for _, d := range docs {
		a.println(fmt.Sprintf("%s  %-32s %10d  %s", d.ID, d.FileName, d.FileSize, d.UploadStatus))
	}
	return nil
}

// Upload sends a local file straight to object storage through a presigned
// URL and then tells the server the upload finished.
func (a *App) Upload(ctx context.Context) error {
	path, err := a.ask("Path to the file")
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	fileType := mime.TypeByExtension(filepath.Ext(path))
	up, err := a.api.CreateUpload(ctx, filepath.Base(path), fileType, info.Size())
	if err != nil {
		return err
	}

	// The URL is signed for the type the server recorded.
	if up.Document.FileType != "" {
		fileType = up.Document.FileType
	}
	if err := netx.UploadToPresignedURL(ctx, up.URL, fileType, f, info.Size()); err != nil {
		a.logger.Error(ctx, "upload failed", "document", up.Document.ID, "error", err)
		return err
	}
	if err := a.api.MarkUploaded(ctx, up.Document.ID); err != nil {
		return err
	}

	a.println("Uploaded:", up.Document.ID)
	return nil
}

// Fetch downloads one of the owner's documents into the download directory.
func (a *App) Fetch(ctx context.Context) error {
	id, err := a.ask("Document ID")
	if err != nil {
		return err
	}

	name := id
	if docs, err := a.api.ListDocuments(ctx); err == nil {
		for _, d := range docs {
			if d.ID == id {
				name = d.FileName
			}
		}
	}

	url, err := a.api.DocumentURL(ctx, id)
	if err != nil {
		return err
	}
	path, err := a.save(ctx, url, name)
	if err != nil {
		return err
	}
	a.println("Saved to", path)
	return nil
}

func (a *App) DeleteDocument(ctx context.Context) error {
	id, err := a.ask("Document ID")
	if err != nil {
		return err
	}
	if err := a.api.DeleteDocument(ctx, id); err != nil {
		return err
	}
	a.println("Document deleted.")
	return nil
}

func (a *App) save(ctx context.Context, url, name string) (string, error) {
	dir, err := filex.EnsureSubdDir(a.config.DownloadDir)
	if err != nil {
		return "", err
	}
	f, err := filex.CreateUnique(dir, name)
	if err != nil {
		return "", err
	}

	if _, err := netx.DownloadFromPresignedURL(ctx, url, f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
