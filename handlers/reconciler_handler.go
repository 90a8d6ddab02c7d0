package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/internal/scheduler"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/response"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/validator"
)

type ReconcilerHandler struct {
	scheduler *scheduler.Scheduler
	ctx       context.Context
	config    *environments.Config
}

type StartReconcilerRequest struct {
	Interval *int `json:"interval,omitempty" validate:"omitempty,min=1"`
}

func NewReconcilerHandler(
	sched *scheduler.Scheduler,
	ctx context.Context,
	cfg *environments.Config,
) *ReconcilerHandler {
	return &ReconcilerHandler{
		scheduler: sched,
		ctx:       ctx,
		config:    cfg,
	}
}

// StartReconciler godoc
// @Summary Start the fallback reconciler
// @Description Starts the periodic replay of fallback leads into the primary store
// @Tags reconciler
// @Accept json
// @Produce json
// @Param x-lead-auth-key header string true "API key for reconciler"
// @Param request body StartReconcilerRequest false "Reconciler parameters (optional)"
// @Success 200 {object} response.SuccessResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/reconciler/start [post]
func (h *ReconcilerHandler) StartReconciler(c echo.Context) error {
	if h.scheduler.IsRunning() {
		return response.OkWithMessage(c, "Reconciler is already running", h.scheduler.GetStatus())
	}

	var req StartReconcilerRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	intervalMinutes := int(h.config.Reconcile.Interval.Minutes())
	if intervalMinutes <= 0 {
		intervalMinutes = 15
	}
	if req.Interval != nil {
		intervalMinutes = *req.Interval
	}

	if err := h.scheduler.StartWithInterval(h.ctx, intervalMinutes); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Reconciler started", h.scheduler.GetStatus())
}

// StopReconciler godoc
// @Summary Stop the fallback reconciler
// @Description Stops the periodic replay loop
// @Tags reconciler
// @Accept json
// @Produce json
// @Param x-lead-auth-key header string true "API key for reconciler"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/reconciler/stop [post]
func (h *ReconcilerHandler) StopReconciler(c echo.Context) error {
	if !h.scheduler.IsRunning() {
		return response.OkWithMessage(c, "Reconciler is not running", h.scheduler.GetStatus())
	}

	if err := h.scheduler.Stop(); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Reconciler stopped", h.scheduler.GetStatus())
}

// GetReconcilerStatus godoc
// @Summary Get reconciler status
// @Description Returns run statistics of the reconciler loop
// @Tags reconciler
// @Accept json
// @Produce json
// @Param x-lead-auth-key header string true "API key for reconciler"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/reconciler/status [get]
func (h *ReconcilerHandler) GetReconcilerStatus(c echo.Context) error {
	return response.Ok(c, h.scheduler.GetStatus())
}
