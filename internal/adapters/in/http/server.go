// Package http exposes the order workflow over an echo HTTP API.
package http

import (
	"errors"
	"net/http"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/subscription"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler    commands.CreateOrderCommandHandler
	acceptOrderHandler    commands.AcceptOrderCommandHandler
	transitionHandler     commands.TransitionOrderCommandHandler
	cancelHandler         commands.CancelActiveJobCommandHandler
	setOrderAmountHandler commands.SetOrderAmountCommandHandler
	registerSubHandler    commands.RegisterSubscriptionCommandHandler

	// Query handlers
	allowedStatusesHandler   queries.GetAllowedStatusesQueryHandler
	undeliveredOrdersHandler queries.GetUndeliveredOrdersQueryHandler
	outboxBacklogHandler     queries.GetOutboxBacklogQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	acceptOrderHandler commands.AcceptOrderCommandHandler,
	transitionHandler commands.TransitionOrderCommandHandler,
	cancelHandler commands.CancelActiveJobCommandHandler,
	setOrderAmountHandler commands.SetOrderAmountCommandHandler,
	registerSubHandler commands.RegisterSubscriptionCommandHandler,
	allowedStatusesHandler queries.GetAllowedStatusesQueryHandler,
	undeliveredOrdersHandler queries.GetUndeliveredOrdersQueryHandler,
	outboxBacklogHandler queries.GetOutboxBacklogQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		acceptOrderHandler:       acceptOrderHandler,
		transitionHandler:        transitionHandler,
		cancelHandler:            cancelHandler,
		setOrderAmountHandler:    setOrderAmountHandler,
		registerSubHandler:       registerSubHandler,
		allowedStatusesHandler:   allowedStatusesHandler,
		undeliveredOrdersHandler: undeliveredOrdersHandler,
		outboxBacklogHandler:     outboxBacklogHandler,
	}
}

// RegisterRoutes wires the API routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/undelivered", s.GetUndeliveredOrders)
	api.POST("/orders/:ref/accept", s.AcceptOrder)
	api.POST("/orders/:ref/status", s.TransitionOrder)
	api.POST("/orders/:ref/cancel", s.CancelOrder)
	api.PUT("/orders/:ref/amount", s.SetOrderAmount)
	api.GET("/orders/:ref/allowed-statuses", s.GetAllowedStatuses)
	api.POST("/subscriptions", s.RegisterSubscription)
	api.GET("/outbox/backlog", s.GetOutboxBacklog)

	e.GET("/health", s.Health)
}

// apiError is the JSON error envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorResponse maps domain failures to HTTP status codes.
//
// Invalid transitions and missing evidence are the caller's fault but not
// malformed requests, so they surface as 422 rather than 400. Lost write
// races surface as 409; the client re-reads and retries if it still wants to.
func errorResponse(ctx echo.Context, err error) error {
	var status int

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, commands.ErrCollaboratorBusy),
		errors.Is(err, commands.ErrOrderNoLongerAvailable),
		errors.Is(err, ports.ErrConcurrencyConflict):
		status = http.StatusConflict
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrMissingEvidence),
		errors.Is(err, order.ErrOrderIsTerminal),
		errors.Is(err, order.ErrOrderAlreadyAssigned):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}

	return ctx.JSON(status, apiError{Code: status, Message: err.Error()})
}

type createOrderRequest struct {
	Code      string `json:"code"`
	Sequence  int64  `json:"sequence"`
	ContactID string `json:"contact_id"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(orderID, req.Code, req.Sequence, req.ContactID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{ID: orderID.String()})
}

type acceptOrderRequest struct {
	CollaboratorID string   `json:"collaborator_id"`
	Price          *float64 `json:"price,omitempty"`
}

// AcceptOrder handles POST /api/v1/orders/:ref/accept.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	var req acceptOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	collaboratorID, err := kernel.UUIDFromString(req.CollaboratorID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewAcceptOrderCommand(ctx.Param("ref"), collaboratorID, req.Price)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.acceptOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type transitionOrderRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// TransitionOrder handles POST /api/v1/orders/:ref/status. The status field
// accepts canonical tokens as well as the free-form synonyms legacy clients
// send.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	var req transitionOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewTransitionOrderCommand(ctx.Param("ref"), req.Status, req.Note)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.transitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type cancelOrderRequest struct {
	Note string `json:"note,omitempty"`
}

// CancelOrder handles POST /api/v1/orders/:ref/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	var req cancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewCancelActiveJobCommand(ctx.Param("ref"), req.Note)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.cancelHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type setAmountRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method,omitempty"`
}

// SetOrderAmount handles PUT /api/v1/orders/:ref/amount.
func (s *Server) SetOrderAmount(ctx echo.Context) error {
	var req setAmountRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewSetOrderAmountCommand(ctx.Param("ref"), req.Amount, req.Method)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.setOrderAmountHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type registerSubscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
	UserID    string `json:"user_id,omitempty"`
	ContactID string `json:"contact_id,omitempty"`
}

// RegisterSubscription handles POST /api/v1/subscriptions.
func (s *Server) RegisterSubscription(ctx echo.Context) error {
	var req registerSubscriptionRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, apiError{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	var userID *kernel.UUID
	if req.UserID != "" {
		id, err := kernel.UUIDFromString(req.UserID)
		if err != nil {
			return errorResponse(ctx, err)
		}
		userID = &id
	}

	cmd, err := commands.NewRegisterSubscriptionCommand(
		req.Endpoint,
		subscription.Keys{P256dh: req.Keys.P256dh, Auth: req.Keys.Auth},
		userID,
		req.ContactID,
	)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.registerSubHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

type allowedStatusesResponse struct {
	OrderID string   `json:"order_id"`
	Current string   `json:"current"`
	Allowed []string `json:"allowed"`
}

// GetAllowedStatuses handles GET /api/v1/orders/:ref/allowed-statuses.
func (s *Server) GetAllowedStatuses(ctx echo.Context) error {
	query, err := queries.NewGetAllowedStatusesQuery(ctx.Param("ref"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.allowedStatusesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, allowedStatusesResponse{
		OrderID: result.OrderID,
		Current: result.Current,
		Allowed: result.Allowed,
	})
}

type undeliveredOrderResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Status         string `json:"status"`
	ContactID      string `json:"contact_id,omitempty"`
	CollaboratorID string `json:"collaborator_id,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// GetUndeliveredOrders handles GET /api/v1/orders/undelivered.
func (s *Server) GetUndeliveredOrders(ctx echo.Context) error {
	query := queries.NewGetUndeliveredOrdersQuery()

	orders, err := s.undeliveredOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]undeliveredOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = undeliveredOrderResponse{
			ID:             o.ID,
			Code:           o.Code,
			Status:         o.Status,
			ContactID:      o.ContactID,
			CollaboratorID: o.CollaboratorID,
			CreatedAt:      o.CreatedAt.Format(time.RFC3339),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type outboxBacklogResponse struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// GetOutboxBacklog handles GET /api/v1/outbox/backlog.
func (s *Server) GetOutboxBacklog(ctx echo.Context) error {
	query := queries.NewGetOutboxBacklogQuery()

	result, err := s.outboxBacklogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, outboxBacklogResponse{
		Pending:    result.Pending,
		Processing: result.Processing,
		Sent:       result.Sent,
		Failed:     result.Failed,
	})
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
