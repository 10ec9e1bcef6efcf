package session

import (
	"time"

	"github.com/dmorgan81/imagedesk/internal/prompt"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// State is the snapshot pushed to subscribers after every transition.
type State struct {
	Busy      bool   `json:"busy"`
	HasResult bool   `json:"hasResult"`
	Message   string `json:"message,omitempty"`
	Level     Level  `json:"level,omitempty"`
	Version   uint64 `json:"version"`
}

// Result is the last successfully generated image.
type Result struct {
	Data        []byte
	ContentType string
	Seed        string
	Request     prompt.Request
	CreatedAt   time.Time
}

func (r Result) Metadata() map[string]string {
	meta := r.Request.Metadata()
	meta["seed"] = r.Seed
	meta["created"] = r.CreatedAt.UTC().Format(time.RFC3339)
	return meta
}
