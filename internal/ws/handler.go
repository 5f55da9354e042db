package ws

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"memory_party/internal/logger"
)

const (
	defaultMessageRate  = 20
	defaultMessageBurst = 40
)

type Options struct {
	// AllowedOrigins restricts browser origins. Empty allows any.
	AllowedOrigins []string
	// MessageRate and MessageBurst bound inbound messages per connection.
	MessageRate  float64
	MessageBurst int
}

func HandleWS(hub *Hub, sessions Sessions, opts Options) gin.HandlerFunc {
	limit := rate.Limit(opts.MessageRate)
	if opts.MessageRate <= 0 {
		limit = defaultMessageRate
	}
	burst := opts.MessageBurst
	if burst <= 0 {
		burst = defaultMessageBurst
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(opts.AllowedOrigins),
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err, "ip", c.ClientIP())
			return
		}

		client := NewClient(conn, hub, sessions, limit, burst)
		go client.Run()
	}
}

// originChecker accepts requests without an Origin header, which only
// non-browser clients send.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 || slices.Contains(allowed, "*") {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
