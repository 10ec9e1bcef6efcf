package handle

import (
	"context"
	"net/http"

	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/dmorgan81/imagedesk/internal/session"
	"github.com/dmorgan81/imagedesk/internal/store"
	"github.com/samber/do"
)

type Saver interface {
	Save(context.Context) (string, error)
}

type Notifier interface {
	Notify(session.Level, string)
}

type SaveOutput struct {
	Path string `json:"path"`
}

type SaveHandler struct {
	saver    Saver
	notifier Notifier
}

func NewSaveHandler(i *do.Injector) (*SaveHandler, error) {
	return &SaveHandler{
		saver:    do.MustInvoke[*store.Saver](i),
		notifier: do.MustInvoke[*session.Session](i),
	}, nil
}

func (h *SaveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := log.FromContextOrDiscard(r.Context()).WithGroup("SaveHandler")
	log.Info("handling save")

	path, err := h.saver.Save(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.notifier.Notify(session.LevelInfo, "Image saved as "+path)
	writeJSON(w, http.StatusOK, SaveOutput{Path: path})
}
