package handle

import (
	"net/http"

	"github.com/dmorgan81/imagedesk/internal/page"
	"github.com/dmorgan81/imagedesk/internal/prompt"
	"github.com/samber/do"
)

const title = "AI Image Generator (Stability AI)"

type HtmlHandler struct {
	templator *page.Templator
}

func NewHtmlHandler(i *do.Injector) (*HtmlHandler, error) {
	return &HtmlHandler{templator: do.MustInvoke[*page.Templator](i)}, nil
}

func (h *HtmlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	html, err := h.templator.Template(r.Context(), page.Params{
		Title:          title,
		Styles:         prompt.Styles(),
		Qualities:      prompt.Qualities(),
		DefaultStyle:   prompt.DefaultStyle,
		DefaultQuality: prompt.DefaultQuality,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}
