package handle

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/gorilla/mux"
	"github.com/samber/do"
)

func NewRouter(i *do.Injector) (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.Handle("/", do.MustInvoke[*HtmlHandler](i)).Methods(http.MethodGet)
	r.HandleFunc("/health", health).Methods(http.MethodGet)
	r.Handle("/generate", do.MustInvoke[*GenerateHandler](i)).Methods(http.MethodPost)
	r.Handle("/save", do.MustInvoke[*SaveHandler](i)).Methods(http.MethodPost)
	r.Handle("/image", do.MustInvoke[*ImageHandler](i)).Methods(http.MethodGet)
	r.Handle("/events", do.MustInvoke[*EventsHandler](i)).Methods(http.MethodGet)

	return r, nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.FromContextOrDiscard(r.Context()).Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
