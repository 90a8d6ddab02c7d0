package handlers

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/internal/repository"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/redis"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/response"
)

// LeadHandler exposes the fallback store and the submitted-lead cache to
// operators.
type LeadHandler struct {
	repo  *repository.FallbackLeadRepository
	redis *redis.Client
}

func NewLeadHandler(repo *repository.FallbackLeadRepository, redisClient *redis.Client) *LeadHandler {
	return &LeadHandler{
		repo:  repo,
		redis: redisClient,
	}
}

// GetFallbackLeads godoc
// @Summary List fallback lead records
// @Description Returns a paginated list of fallback rows with optional reconcile-status filter
// @Tags leads
// @Accept json
// @Produce json
// @Param x-lead-auth-key header string true "API key for leads"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param status query string false "Filter by reconcile status (pending, reconciled, skipped)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/leads/fallback [get]
func (h *LeadHandler) GetFallbackLeads(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	var status *domain.ReconcileStatus
	if statusStr := c.QueryParam("status"); statusStr != "" {
		parsed := domain.ReconcileStatus(statusStr)
		status = &parsed
	}

	records, totalCount, err := h.repo.GetAll(c.Request().Context(), status, page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, records, page, pageSize, totalCount)
}

// GetFallbackStats godoc
// @Summary Get fallback store statistics
// @Description Returns fallback row counts by reconcile status
// @Tags leads
// @Accept json
// @Produce json
// @Param x-lead-auth-key header string true "API key for leads"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/leads/fallback/stats [get]
func (h *LeadHandler) GetFallbackStats(c echo.Context) error {
	pending, reconciled, skipped, err := h.repo.GetStats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"pending":    pending,
		"reconciled": reconciled,
		"skipped":    skipped,
		"total":      pending + reconciled + skipped,
	})
}

// GetCachedLeads godoc
// @Summary Get submitted leads cached in Redis
// @Description Returns the submitted-lead bookkeeping cache (bonus feature)
// @Tags leads
// @Accept json
// @Produce json
// @Param x-lead-auth-key header string true "API key for leads"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/leads/cached [get]
func (h *LeadHandler) GetCachedLeads(c echo.Context) error {
	if h.redis == nil {
		return response.InternalServerError(c, fmt.Errorf("redis client not configured"))
	}

	cached, err := h.redis.GetAllSubmittedLeads(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, cached)
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	page := defaultPage
	if pageStr := c.QueryParam("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	pageSize := defaultPageSize
	if pageSizeStr := c.QueryParam("pageSize"); pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}
		pageSize = ps
	}

	return page, pageSize, nil
}
