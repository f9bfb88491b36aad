package patient

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
	appointmentSvc *appointment.Service
}

func NewHandler(appointmentSvc *appointment.Service) *Handler {
	return &Handler{appointmentSvc: appointmentSvc}
}

func (h *Handler) GetHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	claims := middleware.ClaimsFromContext(c)
	history, err := h.appointmentSvc.PatientHistory(c.Request.Context(), claims, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(history))
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	patients := rg.Group("/patients")
	{
		patients.GET("/:id/history", auth.RequireCapability(authz.Any), h.GetHistory)
	}
}
