package handle

import (
	"context"

	"github.com/dmorgan81/imagedesk/internal/image"
	"github.com/dmorgan81/imagedesk/internal/session"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-binary")

type mockImageGenerator struct {
	release chan struct{}
}

func (m *mockImageGenerator) Generate(ctx context.Context, _ image.Params) ([]byte, string, error) {
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, "", &image.TransportError{Err: ctx.Err()}
		}
	}
	return pngBytes, "11", nil
}

type mockSaver struct {
	path string
	err  error
}

func (m *mockSaver) Save(context.Context) (string, error) {
	return m.path, m.err
}

type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Notify(_ session.Level, msg string) {
	m.messages = append(m.messages, msg)
}
