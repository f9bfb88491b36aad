package appointment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinio/clinio-api/internal/handler"
	"github.com/clinio/clinio-api/internal/middleware"
	"github.com/clinio/clinio-api/internal/service/appointment"
	"github.com/clinio/clinio-api/pkg/authz"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claims := middleware.ClaimsFromContext(c)
	apt, err := h.service.Get(c.Request.Context(), claims, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claims := middleware.ClaimsFromContext(c)
	if err := h.service.Cancel(c.Request.Context(), claims, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claims := middleware.ClaimsFromContext(c)
	if err := h.service.Complete(c.Request.Context(), claims, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	appointments := rg.Group("/appointments")
	{
		appointments.GET("/:id", auth.RequireCapability(authz.Any), h.GetAppointment)
		appointments.POST("/:id/cancel", auth.RequireCapability(authz.IsDoctorOrAdmin), h.CancelAppointment)
		appointments.POST("/:id/complete", auth.RequireCapability(authz.IsDoctorOrAdmin), h.CompleteAppointment)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return 0, false
	}
	return id, true
}
