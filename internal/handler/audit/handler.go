package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedready/pedready-api/internal/handler"
	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/service/audit"
)

type Handler struct {
	service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/audit-logs")
	{
		logs.GET("", h.ListAuditLogs)
	}
}

func (h *Handler) ListAuditLogs(c *gin.Context) {
	var filters model.AuditFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	logs, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(logs))
}
