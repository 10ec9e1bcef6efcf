package handle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmorgan81/imagedesk/internal/page"
	"github.com/dmorgan81/imagedesk/internal/prompt"
	"github.com/dmorgan81/imagedesk/internal/session"
	"github.com/dmorgan81/imagedesk/internal/store"
	"github.com/gorilla/websocket"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func waitIdle(t *testing.T, s *session.Session) {
	t.Helper()
	require.Eventually(t, func() bool { return !s.State().Busy }, time.Second, 5*time.Millisecond)
}

func TestGenerateHandler(t *testing.T) {
	t.Run("Accepted/StartsGeneration", func(t *testing.T) {
		s := session.New(&mockImageGenerator{})
		h := &GenerateHandler{generator: s}

		rec := postJSON(t, h, `{"prompt":"  a red fox ","style":"Realistic","quality":"HD"}`)

		require.Equal(t, http.StatusAccepted, rec.Code)
		var out GenerateOutput
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, GenerateOutput{Prompt: "a red fox", Style: "Realistic", Quality: "HD"}, out)

		waitIdle(t, s)
		res, ok := s.Result()
		require.True(t, ok)
		assert.Equal(t, pngBytes, res.Data)
	})

	t.Run("Accepted/DefaultsPresets", func(t *testing.T) {
		s := session.New(&mockImageGenerator{})
		h := &GenerateHandler{generator: s}

		rec := postJSON(t, h, `{"prompt":"owl"}`)
		require.Equal(t, http.StatusAccepted, rec.Code)
		waitIdle(t, s)

		res, _ := s.Result()
		assert.Equal(t, prompt.DefaultStyle, res.Request.Style)
		assert.Equal(t, prompt.DefaultQuality, res.Request.Quality)
	})

	t.Run("Rejected/EmptyPrompt", func(t *testing.T) {
		s := session.New(&mockImageGenerator{})
		h := &GenerateHandler{generator: s}

		rec := postJSON(t, h, `{"prompt":"   "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, session.LevelWarning, body.Level)
		assert.Equal(t, prompt.ErrEmptyPrompt.Error(), body.Error)
		assert.Zero(t, s.State().Version, "no generation should have started")
	})

	t.Run("Rejected/UnknownPreset", func(t *testing.T) {
		h := &GenerateHandler{generator: session.New(&mockImageGenerator{})}

		rec := postJSON(t, h, `{"prompt":"owl","style":"Oil"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Rejected/BadJSON", func(t *testing.T) {
		h := &GenerateHandler{generator: session.New(&mockImageGenerator{})}

		rec := postJSON(t, h, `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error, "bad json")
	})

	t.Run("Rejected/Busy", func(t *testing.T) {
		gen := &mockImageGenerator{release: make(chan struct{})}
		s := session.New(gen)
		h := &GenerateHandler{generator: s}

		require.Equal(t, http.StatusAccepted, postJSON(t, h, `{"prompt":"one"}`).Code)
		rec := postJSON(t, h, `{"prompt":"two"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)

		close(gen.release)
		waitIdle(t, s)
		res, _ := s.Result()
		assert.Equal(t, "one", res.Request.Prompt)
	})
}

func TestSaveHandler(t *testing.T) {
	t.Run("NoResult", func(t *testing.T) {
		notifier := &mockNotifier{}
		h := &SaveHandler{saver: &mockSaver{err: store.NoResultError{}}, notifier: notifier}

		rec := postJSON(t, h, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "no image to save", body.Error)
		assert.Equal(t, session.LevelWarning, body.Level)
		assert.Empty(t, notifier.messages)
	})

	t.Run("Saved", func(t *testing.T) {
		notifier := &mockNotifier{}
		h := &SaveHandler{saver: &mockSaver{path: "generated_image.png"}, notifier: notifier}

		rec := postJSON(t, h, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var out SaveOutput
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.Equal(t, "generated_image.png", out.Path)
		assert.Equal(t, []string{"Image saved as generated_image.png"}, notifier.messages)
	})

	t.Run("MirrorFailed", func(t *testing.T) {
		err := fmt.Errorf("%w: %w", store.ErrMirror, fmt.Errorf("denied"))
		h := &SaveHandler{saver: &mockSaver{path: "generated_image.png", err: err}, notifier: &mockNotifier{}}

		rec := postJSON(t, h, "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestImageHandler(t *testing.T) {
	s := session.New(&mockImageGenerator{})
	h := &ImageHandler{source: s}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req, err := prompt.Build("owl", prompt.Cartoon, prompt.Ultra)
	require.NoError(t, err)
	task, err := s.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, task.Wait())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "11", rec.Header().Get("X-Image-Seed"))
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestEventsHandler(t *testing.T) {
	gen := &mockImageGenerator{release: make(chan struct{})}
	s := session.New(gen)
	srv := httptest.NewServer(&EventsHandler{states: s})
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var st session.State
	require.NoError(t, conn.ReadJSON(&st))
	assert.False(t, st.Busy)

	req, err := prompt.Build("owl", prompt.Realistic, prompt.Standard)
	require.NoError(t, err)
	task, err := s.Generate(context.Background(), req)
	require.NoError(t, err)

	require.NoError(t, conn.ReadJSON(&st))
	assert.True(t, st.Busy)

	close(gen.release)
	require.NoError(t, task.Wait())

	require.NoError(t, conn.ReadJSON(&st))
	assert.False(t, st.Busy)
	assert.True(t, st.HasResult)
}

func TestRouter(t *testing.T) {
	injector := do.New()
	s := session.New(&mockImageGenerator{})
	do.ProvideValue(injector, &HtmlHandler{templator: &page.Templator{}})
	do.ProvideValue(injector, &GenerateHandler{generator: s})
	do.ProvideValue(injector, &SaveHandler{saver: &mockSaver{err: store.NoResultError{}}, notifier: s})
	do.ProvideValue(injector, &ImageHandler{source: s})
	do.ProvideValue(injector, &EventsHandler{states: s})

	router, err := NewRouter(injector)
	require.NoError(t, err)

	cases := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/image", http.StatusNotFound},
		{http.MethodPost, "/save", http.StatusNotFound},
		{http.MethodGet, "/generate", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		assert.Equal(t, c.status, rec.Code, "%s %s", c.method, c.path)
	}
}
