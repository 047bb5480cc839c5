package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/janiluuk/defora/internal/websocket"
)

// InitRoutes initializes the mediator server's HTTP surface: a health check,
// a JSON snapshot of the parameter table, and the websocket endpoint speaking
// the triple protocol.
func InitRoutes(e *echo.Echo, server *websocket.Server, logger *zap.Logger) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "defora-mediator",
		})
	})

	e.GET("/state", func(c echo.Context) error {
		return c.JSON(http.StatusOK, server.State().Snapshot())
	})

	// Protocol clients dial ws://host:port with no path, so the triple
	// protocol lives at the root; /ws stays as an alias.
	e.GET("/", func(c echo.Context) error {
		return server.Handle(c)
	})
	e.GET("/ws", func(c echo.Context) error {
		return server.Handle(c)
	})
}
