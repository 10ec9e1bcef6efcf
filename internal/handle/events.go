package handle

import (
	"net/http"
	"time"

	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/dmorgan81/imagedesk/internal/session"
	"github.com/gorilla/websocket"
	"github.com/samber/do"
)

const writeWait = 10 * time.Second

type Subscriber interface {
	Subscribe() (<-chan session.State, func())
}

// EventsHandler streams session state changes to a websocket client.
type EventsHandler struct {
	states   Subscriber
	upgrader websocket.Upgrader
}

func NewEventsHandler(i *do.Injector) (*EventsHandler, error) {
	return &EventsHandler{states: do.MustInvoke[*session.Session](i)}, nil
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := log.FromContextOrDiscard(r.Context()).WithGroup("EventsHandler")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	states, unsubscribe := h.states.Subscribe()
	defer unsubscribe()
	log.Info("subscriber connected", "remote", r.RemoteAddr)

	// the client never sends anything useful; reading only detects the close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			log.Info("subscriber disconnected", "remote", r.RemoteAddr)
			return
		case <-r.Context().Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(st); err != nil {
				log.Warn("websocket write error", "error", err)
				return
			}
		}
	}
}
