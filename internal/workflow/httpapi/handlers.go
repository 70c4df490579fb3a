package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/romariotrain/printshop-workflow/internal/workflow/domain"
	"github.com/romariotrain/printshop-workflow/internal/workflow/models"
	"github.com/romariotrain/printshop-workflow/internal/workflow/service"
)

type Handler struct {
	svc    *service.Service
	logger zerolog.Logger
}

func New(svc *service.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With().Str("component", "http").Logger(),
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.StatusCatalog())
}

// TriggerEvent handles POST /workflow/events.
func (h *Handler) TriggerEvent(c echo.Context) error {
	var req TriggerEventRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid json body")
	}

	ev, err := h.svc.RecordStatusChange(c.Request().Context(), models.EventType(req.Type),
		req.OrderID, req.OldStatus, req.NewStatus, req.TriggeredBy)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, ev)
}

// ListEvents handles GET /workflow/events.
func (h *Handler) ListEvents(c echo.Context) error {
	events, err := h.svc.EventHistory(c.Request().Context())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(events))
}

// OrderEvents handles GET /workflow/orders/:orderID/events.
func (h *Handler) OrderEvents(c echo.Context) error {
	events, err := h.svc.EventsByOrder(c.Request().Context(), c.Param("orderID"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(events))
}

// OrderStatus handles GET /workflow/orders/:orderID/status.
func (h *Handler) OrderStatus(c echo.Context) error {
	orderID := c.Param("orderID")

	st, err := h.svc.WorkflowStatus(c.Request().Context(), orderID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatusResponse{OrderID: orderID, WorkflowStatus: st})
}

// ChangeDesignStatus handles POST /workflow/orders/:orderID/design-status.
func (h *Handler) ChangeDesignStatus(c echo.Context) error {
	orderID := c.Param("orderID")

	var req ChangeDesignStatusRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid json body")
	}

	ctx := c.Request().Context()
	if err := h.svc.ChangeDesignStatus(ctx, orderID, req.From, req.To, req.TriggeredBy); err != nil {
		return h.writeError(c, err)
	}

	st, err := h.svc.WorkflowStatus(ctx, orderID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatusResponse{OrderID: orderID, WorkflowStatus: st})
}

// DesignTransitions handles GET /designs/statuses/:status/transitions.
func (h *Handler) DesignTransitions(c echo.Context) error {
	s := domain.DesignStatus(c.Param("status"))
	if !s.IsKnown() {
		return errorJSON(c, http.StatusNotFound, "unknown design status")
	}
	return c.JSON(http.StatusOK, toDesignTransitionsResponse(s))
}

// ValidateTransition handles POST /designs/transitions/validate.
func (h *Handler) ValidateTransition(c echo.Context) error {
	var req ValidateTransitionRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid json body")
	}

	if err := domain.ValidateDesignTransition(req.From, req.To); err != nil {
		return c.JSON(http.StatusOK, ValidateTransitionResponse{Valid: false, Message: err.Error()})
	}
	return c.JSON(http.StatusOK, ValidateTransitionResponse{Valid: true})
}

// OrderFlow handles GET /orders/flow.
func (h *Handler) OrderFlow(c echo.Context) error {
	status := c.QueryParam("status")
	kind := c.QueryParam("customer_kind")

	var hasDeposit bool
	if raw := c.QueryParam("has_deposit"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid has_deposit")
		}
		hasDeposit = v
	}

	steps, err := h.svc.ProjectOrderFlow(status, kind, hasDeposit)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, OrderFlowResponse{
		Status:       status,
		CustomerKind: kind,
		HasDeposit:   hasDeposit,
		Steps:        steps,
	})
}

func (h *Handler) writeError(c echo.Context, err error) error {
	var terr *domain.TransitionError
	switch {
	case errors.As(err, &terr):
		return errorJSON(c, http.StatusUnprocessableEntity, terr.Message)
	case errors.Is(err, models.ErrInvalidArgument):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrConflict):
		return errorJSON(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCascadeDepthExceeded):
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("workflow rules cycle")
		return errorJSON(c, http.StatusInternalServerError, "workflow cascade depth exceeded")
	default:
		h.logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

func nonNil(events []*models.WorkflowEvent) []*models.WorkflowEvent {
	if events == nil {
		return []*models.WorkflowEvent{}
	}
	return events
}
