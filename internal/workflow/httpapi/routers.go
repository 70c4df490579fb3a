package httpapi

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func NewRouter(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/health", h.Health)
	e.GET("/catalog", h.Catalog)

	wf := e.Group("/workflow")
	wf.POST("/events", h.TriggerEvent)
	wf.GET("/events", h.ListEvents)
	wf.GET("/orders/:orderID/events", h.OrderEvents)
	wf.GET("/orders/:orderID/status", h.OrderStatus)
	wf.POST("/orders/:orderID/design-status", h.ChangeDesignStatus)

	e.GET("/designs/statuses/:status/transitions", h.DesignTransitions)
	e.POST("/designs/transitions/validate", h.ValidateTransition)

	e.GET("/orders/flow", h.OrderFlow)

	return e
}
