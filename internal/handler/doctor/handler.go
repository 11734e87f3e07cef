package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/service/doctor"
)

type Handler struct {
	service doctor.DoctorService
}

func NewHandler(service doctor.DoctorService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.POST("", h.UpsertDoctor)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
	}
}

// UpsertDoctor creates a doctor, or updates one when the body carries an id.
func (h *Handler) UpsertDoctor(c *gin.Context) {
	var req doctor.UpsertDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadJSON(c, err)
		return
	}

	status := http.StatusCreated
	if req.ID != nil {
		status = http.StatusOK
	}
	h.upsert(c, &req, status)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	var req doctor.UpsertDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadJSON(c, err)
		return
	}
	req.ID = &id
	h.upsert(c, &req, http.StatusOK)
}

func (h *Handler) upsert(c *gin.Context, req *doctor.UpsertDoctorRequest, status int) {
	saved, err := h.service.Upsert(c.Request.Context(), handler.ClinicID(c), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(status, handler.NewSuccessResponse(saved))
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), handler.ClinicID(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.List(c.Request.Context(), handler.ClinicID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), handler.ClinicID(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
