package certification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pedready/pedready-api/internal/handler"
	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/service/certification"
)

type Handler struct {
	service certification.CertificationService
}

func NewHandler(service certification.CertificationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	certs := r.Group("/certifications")
	{
		certs.GET("", h.ListCertifications)
		certs.GET("/:id", h.GetCertification)
		certs.POST("/:id/revoke", h.RevokeCertification)
	}
}

// RegisterPublicRoutes exposes verification without authentication so
// employers can check a certificate by its code.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/certifications/verify/:code", h.VerifyCertification)
}

func (h *Handler) GetCertification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid certification ID"))
		return
	}

	cert, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.Error(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(cert))
}

func (h *Handler) ListCertifications(c *gin.Context) {
	var filters model.CertificationFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	certs, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(certs))
}

func (h *Handler) VerifyCertification(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("verification code is required"))
		return
	}

	result, err := h.service.Verify(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) RevokeCertification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid certification ID"))
		return
	}

	var req model.RevokeCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.Revoke(c.Request.Context(), id, req.Reason); err != nil {
		c.JSON(handler.Error(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
