package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/guard"
	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/service/clinic"
)

type Handler struct {
	service clinic.ClinicServicer
}

func NewHandler(service clinic.ClinicServicer) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts clinic creation on authed (any signed-in user) and
// the current-clinic endpoints on tenant (users with a clinic).
func (h *Handler) RegisterRoutes(authed, tenant *gin.RouterGroup) {
	authed.POST("/clinics", h.CreateClinic)

	current := tenant.Group("/clinics/current")
	{
		current.GET("", h.GetClinic)
		current.PUT("", h.UpdateClinic)
		current.DELETE("", h.DeleteClinic)
	}
}

type clinicRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadJSON(c, err)
		return
	}

	sess := handler.CurrentSession(c)
	created, err := h.service.CreateClinic(c.Request.Context(), sess.User.ID, req.Name)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"clinic":   created,
		"redirect": guard.HomePath,
	}))
}

func (h *Handler) GetClinic(c *gin.Context) {
	found, err := h.service.GetClinic(c.Request.Context(), handler.ClinicID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadJSON(c, err)
		return
	}

	updated, err := h.service.UpdateClinic(c.Request.Context(), handler.ClinicID(c), req.Name)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeleteClinic(c *gin.Context) {
	if err := h.service.DeleteClinic(c.Request.Context(), handler.ClinicID(c)); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"redirect": guard.ClinicFormPath}))
}
