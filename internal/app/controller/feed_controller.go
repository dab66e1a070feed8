package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/ikkim/wishwall-backend/internal/middleware"
	"github.com/ikkim/wishwall-backend/internal/websocket"
)

// FeedController upgrades clients onto the live wish feed.
type FeedController struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
}

func NewFeedController(hub *websocket.Hub, allowedOrigins []string) *FeedController {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[origin] = true
	}

	return &FeedController{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin header
				return origin == "" || originSet[origin]
			},
		},
	}
}

// Subscribe upgrades the request and starts the client pumps
// GET /api/v1/ws/feed
func (ctrl *FeedController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	client := websocket.NewClient(ctrl.hub, conn)
	go client.WritePump()
	go client.ReadPump()
}
