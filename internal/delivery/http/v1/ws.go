package v1

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWebSocket echoes every text frame back with an "Echo: " prefix.
func (h *handlerImpl) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to upgrade connection")
		return
	}
	defer conn.Close()

	h.logger.Debug().
		Str("remote_addr", c.Request.RemoteAddr).
		Msg("websocket connected")

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn().
					Err(err).
					Msg("websocket closed unexpectedly")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		err = conn.WriteMessage(websocket.TextMessage, append([]byte("Echo: "), data...))
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to write websocket message")
			break
		}
	}

	h.logger.Debug().
		Str("remote_addr", c.Request.RemoteAddr).
		Msg("websocket disconnected")
}

// checkOrigin accepts requests without an Origin header, same-host origins
// and the configured allowed origins. A "*" entry allows everything.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origins[strings.TrimRight(strings.TrimSpace(origin), "/")] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if _, ok := origins["*"]; ok {
			return true
		}
		if _, ok := origins[origin]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
