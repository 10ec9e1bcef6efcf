package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/dmorgan81/imagedesk/internal/session"
)

// NoResultError is returned when saving before any image was generated.
type NoResultError struct{}

func (NoResultError) Error() string { return "no image to save" }

// ErrMirror wraps failures to copy a saved image to the remote bucket.
var ErrMirror = errors.New("image saved locally but mirroring failed")

type ResultSource interface {
	Result() (session.Result, bool)
}

// Saver writes the last generated image to a fixed path, and optionally
// mirrors it to a remote store.
type Saver struct {
	Source      ResultSource
	Local       Uploader
	Remote      Uploader
	Invalidator Invalidator
	Path        string
}

// Save returns the local path written.
func (s *Saver) Save(ctx context.Context) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("saver").With("path", s.Path)

	res, ok := s.Source.Result()
	if !ok {
		log.Warn("nothing to save")
		return "", NoResultError{}
	}

	params := UploadParams{
		Name:        s.Path,
		Data:        res.Data,
		ContentType: res.ContentType,
		Metadata:    res.Metadata(),
	}
	if err := s.Local.Upload(ctx, params); err != nil {
		return "", fmt.Errorf("save %s: %w", s.Path, err)
	}
	log.Info("image saved", "bytes", len(res.Data))

	if s.Remote == nil {
		return s.Path, nil
	}
	if err := s.Remote.Upload(ctx, params); err != nil {
		return s.Path, fmt.Errorf("%w: %w", ErrMirror, err)
	}
	if s.Invalidator != nil {
		if err := s.Invalidator.Invalidate(ctx, []string{"/" + ObjectKey(s.Path)}); err != nil {
			return s.Path, fmt.Errorf("%w: %w", ErrMirror, err)
		}
	}
	return s.Path, nil
}
