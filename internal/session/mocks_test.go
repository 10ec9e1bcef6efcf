package session

import (
	"context"

	"github.com/dmorgan81/imagedesk/internal/image"
)

type mockGenerator struct {
	generateFunc func(ctx context.Context, params image.Params) ([]byte, string, error)
	calls        chan image.Params
}

func (m *mockGenerator) Generate(ctx context.Context, params image.Params) ([]byte, string, error) {
	if m.calls != nil {
		m.calls <- params
	}
	return m.generateFunc(ctx, params)
}

func returning(data []byte, seed string, err error) *mockGenerator {
	return &mockGenerator{generateFunc: func(context.Context, image.Params) ([]byte, string, error) {
		return data, seed, err
	}}
}

// blocking waits for release or for the context to end.
func blocking(release <-chan struct{}, data []byte) *mockGenerator {
	return &mockGenerator{
		calls: make(chan image.Params, 1),
		generateFunc: func(ctx context.Context, _ image.Params) ([]byte, string, error) {
			select {
			case <-release:
				return data, "7", nil
			case <-ctx.Done():
				return nil, "", &image.TransportError{Err: ctx.Err()}
			}
		},
	}
}
