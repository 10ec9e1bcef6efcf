package handle

import (
	"net/http"
	"strconv"

	"github.com/dmorgan81/imagedesk/internal/session"
	"github.com/dmorgan81/imagedesk/internal/store"
	"github.com/samber/do"
)

type ImageHandler struct {
	source store.ResultSource
}

func NewImageHandler(i *do.Injector) (*ImageHandler, error) {
	return &ImageHandler{source: do.MustInvoke[*session.Session](i)}, nil
}

// ServeHTTP serves the last generated image for the preview.
func (h *ImageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, ok := h.source.Result()
	if !ok {
		writeError(w, r, store.NoResultError{})
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if res.Seed != "" {
		w.Header().Set("X-Image-Seed", res.Seed)
	}
	_, _ = w.Write(res.Data)
}
