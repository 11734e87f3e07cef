package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/appointment"
)

type Handler struct {
	service appointment.AppointmentService
}

func NewHandler(service appointment.AppointmentService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req appointment.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadJSON(c, err)
		return
	}

	created, err := h.service.CreateAppointment(c.Request.Context(), handler.ClinicID(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

// ListAppointments accepts doctorId, patientId, start and end query
// parameters. Dates are RFC 3339 or YYYY-MM-DD.
func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{ClinicID: handler.ClinicID(c)}

	var err error
	if filters.DoctorID, err = optionalUUID(c.Query("doctorId")); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctorId"))
		return
	}
	if filters.PatientID, err = optionalUUID(c.Query("patientId")); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patientId"))
		return
	}
	if filters.StartDate, err = optionalDate(c.Query("start")); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start"))
		return
	}
	if filters.EndDate, err = optionalDate(c.Query("end")); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end"))
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.GetAppointment(c.Request.Context(), handler.ClinicID(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), handler.ClinicID(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func optionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

func optionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}
