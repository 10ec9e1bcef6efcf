package param

import (
	"context"
	"os"
)

// Fetcher resolves a named configuration value.
type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}

// EnvFetcher reads values from the process environment. Unset keys yield "".
type EnvFetcher struct{}

func (EnvFetcher) Fetch(_ context.Context, key string) (string, error) {
	return os.Getenv(key), nil
}
