package facility

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pedready/pedready-api/internal/handler"
	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/service/facility"
)

type Handler struct {
	service facility.FacilityService
}

func NewHandler(service facility.FacilityService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts facility CRUD and readiness endpoints.
// readinessMiddleware is applied to the readiness lookup only, so the
// router can cache scored results without caching mutations.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, readinessMiddleware ...gin.HandlerFunc) {
	facilities := r.Group("/facilities")
	{
		facilities.POST("", h.CreateFacility)
		facilities.GET("", h.ListFacilities)
		facilities.GET("/:id", h.GetFacility)
		facilities.DELETE("/:id", h.DeleteFacility)

		facilities.POST("/:id/readiness", h.SubmitReadiness)
		facilities.GET("/:id/readiness", append(readinessMiddleware, h.GetReadiness)...)
	}
}

func (h *Handler) CreateFacility(c *gin.Context) {
	var req model.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetFacility(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.Error(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListFacilities(c *gin.Context) {
	facilities, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(facilities))
}

func (h *Handler) DeleteFacility(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) SubmitReadiness(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	var req model.SubmitReadinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.SubmitReadiness(c.Request.Context(), facilityID, currentUserID(c), &req)
	if err != nil {
		c.JSON(handler.Error(err))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) GetReadiness(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid facility ID"))
		return
	}

	result, err := h.service.GetReadiness(c.Request.Context(), facilityID)
	if err != nil {
		c.JSON(handler.Error(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
