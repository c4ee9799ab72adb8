package course

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pedready/pedready-api/internal/handler"
	"github.com/pedready/pedready-api/internal/model"
	"github.com/pedready/pedready-api/internal/service/course"
)

type Handler struct {
	service course.CourseService
}

func NewHandler(service course.CourseService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	courses := r.Group("/courses")
	{
		courses.POST("", h.CreateCourse)
		courses.GET("", h.ListCourses)
		courses.GET("/:id", h.GetCourse)
		courses.POST("/:id/enroll", h.Enroll)
	}

	enrollments := r.Group("/enrollments")
	{
		enrollments.GET("", h.ListEnrollments)
		enrollments.POST("/:id/complete", h.Complete)
	}
}

func (h *Handler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid course ID"))
		return
	}

	found, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("course not found"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListCourses(c *gin.Context) {
	var filters model.CourseFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	courses, err := h.service.ListCourses(c.Request.Context(), &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(courses))
}

func (h *Handler) Enroll(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid course ID"))
		return
	}

	enrollment, err := h.service.Enroll(c.Request.Context(), courseID, currentUserID(c))
	if err != nil {
		c.JSON(handler.StatusFor(err, http.StatusConflict), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(enrollment))
}

// Complete scores an enrollment. A passing score issues a
// certification in the same call; the response carries both.
func (h *Handler) Complete(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid enrollment ID"))
		return
	}

	var req model.CompleteEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	enrollment, cert, err := h.service.Complete(c.Request.Context(), enrollmentID, req.Score)
	if err != nil {
		c.JSON(handler.StatusFor(err, http.StatusConflict), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"enrollment":    enrollment,
		"certification": cert,
	}))
}

func (h *Handler) ListEnrollments(c *gin.Context) {
	enrollments, err := h.service.ListEnrollments(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(enrollments))
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
