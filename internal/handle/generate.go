package handle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/dmorgan81/imagedesk/internal/prompt"
	"github.com/dmorgan81/imagedesk/internal/session"
	"github.com/samber/do"
	"github.com/samber/lo"
)

type GenerateInput struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style,omitempty"`
	Quality string `json:"quality,omitempty"`
}

func (i GenerateInput) toRequest() (prompt.Request, error) {
	style := lo.Ternary(i.Style != "", prompt.Style(i.Style), prompt.DefaultStyle)
	quality := lo.Ternary(i.Quality != "", prompt.Quality(i.Quality), prompt.DefaultQuality)
	return prompt.Build(i.Prompt, style, quality)
}

type GenerateOutput struct {
	Prompt  string `json:"prompt"`
	Style   string `json:"style"`
	Quality string `json:"quality"`
}

type Generator interface {
	Generate(context.Context, prompt.Request) (*session.Task, error)
}

type GenerateHandler struct {
	generator Generator
}

func NewGenerateHandler(i *do.Injector) (*GenerateHandler, error) {
	return &GenerateHandler{generator: do.MustInvoke[*session.Session](i)}, nil
}

// ServeHTTP starts a generation and answers 202 without waiting for it; the
// outcome is delivered on the events feed.
func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input GenerateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("bad json: %v", err), Level: session.LevelError})
		return
	}

	log := log.FromContextOrDiscard(r.Context()).WithGroup("GenerateHandler").With("style", input.Style, "quality", input.Quality)
	log.Info("handling generate")

	req, err := input.toRequest()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.generator.Generate(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, GenerateOutput{
		Prompt:  req.Prompt,
		Style:   string(req.Style),
		Quality: string(req.Quality),
	})
}
