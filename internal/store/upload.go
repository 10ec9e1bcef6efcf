package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dmorgan81/imagedesk/internal/log"
)

type UploadParams struct {
	Name        string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type Uploader interface {
	Upload(context.Context, UploadParams) error
}

// FileUploader writes params.Data verbatim to params.Name, replacing any
// existing file.
type FileUploader struct{}

func (*FileUploader) Upload(ctx context.Context, params UploadParams) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("file")
	log.Info("writing", "file", params.Name, "bytes", len(params.Data))

	if dir := filepath.Dir(params.Name); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(params.Name, params.Data, 0o644)
}
