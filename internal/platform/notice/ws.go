package notice

import (
	"net/http"

	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Alreriabiceps/clinic-sched/internal/platform/session"
)

var upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same-origin dashboard; the session cookie is the gate.
		return true
	},
}

// WSHandler streams a session's notices over a WebSocket.
type WSHandler struct {
	hub *Hub
}

func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RegisterRoutes registers the notice feed endpoint on an authenticated group.
func (h *WSHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws/notices", h.HandleConnect)
}

// HandleConnect upgrades the connection and pumps notices for the logged-in
// user until the socket closes. The subscription is closed on the way out,
// so the hub never accumulates dead listeners.
func (h *WSHandler) HandleConnect(c echo.Context) error {
	claims := session.FromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := h.hub.Subscribe(TopicFor(claims.Subject))

	go func() {
		defer ws.Close()
		for msg := range sub.C() {
			if err := ws.WriteMessage(gorillawebsocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	go func() {
		defer sub.Close()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}
