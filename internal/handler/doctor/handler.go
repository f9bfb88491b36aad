package doctor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinio/clinio-api/internal/handler"
	"github.com/clinio/clinio-api/internal/middleware"
	"github.com/clinio/clinio-api/internal/model"
	"github.com/clinio/clinio-api/internal/service/appointment"
	"github.com/clinio/clinio-api/internal/service/doctor"
	"github.com/clinio/clinio-api/internal/service/scheduling"
	"github.com/clinio/clinio-api/pkg/authz"
)

type Handler struct {
	doctorSvc      *doctor.Service
	schedulingSvc  *scheduling.Service
	appointmentSvc *appointment.Service
}

func NewHandler(doctorSvc *doctor.Service, schedulingSvc *scheduling.Service, appointmentSvc *appointment.Service) *Handler {
	return &Handler{
		doctorSvc:      doctorSvc,
		schedulingSvc:  schedulingSvc,
		appointmentSvc: appointmentSvc,
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	ids, err := h.doctorSvc.ListIDs(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ids))
}

func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	info, err := h.doctorSvc.Profile(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(info))
}

func (h *Handler) ListSlots(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	day, ok := dateQuery(c)
	if !ok {
		return
	}

	claims := middleware.ClaimsFromContext(c)
	views, err := h.appointmentSvc.ListDoctorDay(c.Request.Context(), claims, id, day)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(views))
}

func (h *Handler) Book(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	claims := middleware.ClaimsFromContext(c)
	appointmentID, err := h.appointmentSvc.Book(c.Request.Context(), id, claims.SubjectID, req.StartTime, req.DurationMinutes)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.BookAppointmentResponse{AppointmentID: appointmentID}))
}

func (h *Handler) AvailableDoctors(c *gin.Context) {
	day, ok := dateQuery(c)
	if !ok {
		return
	}
	stats, err := h.schedulingSvc.AvailableDoctors(c.Request.Context(), day)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) BusiestDoctors(c *gin.Context) {
	day, ok := dateQuery(c)
	if !ok {
		return
	}
	stats, err := h.schedulingSvc.BusiestDoctors(c.Request.Context(), day)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) DoctorsOverHours(c *gin.Context) {
	day, ok := dateQuery(c)
	if !ok {
		return
	}
	stats, err := h.schedulingSvc.DoctorsOverHours(c.Request.Context(), day, model.OverworkThresholdMinutes)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	doctors := rg.Group("/doctors")
	{
		doctors.GET("", auth.RequireCapability(authz.IsAdmin), h.ListDoctors)
		doctors.GET("/available", auth.RequireCapability(authz.Any), h.AvailableDoctors)
		doctors.GET("/by_top_appointments", auth.RequireCapability(authz.IsAdmin), h.BusiestDoctors)
		doctors.GET("/with_six_hours_plus", auth.RequireCapability(authz.IsAdmin), h.DoctorsOverHours)
		doctors.GET("/:id", auth.RequireCapability(authz.Any), h.GetProfile)
		doctors.GET("/:id/slots", auth.RequireCapability(authz.Any), h.ListSlots)
		doctors.POST("/:id/book", auth.RequireCapability(authz.IsPatient), h.Book)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return 0, false
	}
	return id, true
}

func dateQuery(c *gin.Context) (string, bool) {
	day := c.Query("date")
	if _, err := model.ParseDay(day); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid or missing date, expected YYYY-MM-DD"))
		return "", false
	}
	return day, true
}
