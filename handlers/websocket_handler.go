package handlers

import (
	"github.com/anjiri1684/coded/middleware"
	websocketcontrib "github.com/gofiber/contrib/websocket"
)

// ServeWs attaches an upgraded connection to the notification hub. The route
// is behind middleware.Protected, which stores the user id in locals.
func (h *Handler) ServeWs(c *websocketcontrib.Conn) {
	userID, ok := c.Locals(middleware.LocalUserID).(uint)
	if !ok {
		c.Close()
		return
	}
	h.Hub.Serve(userID, c)
}
