// Package page serves the JSON payloads behind the application's pages.
// Each page sits behind the guard matching its requirement.
package page

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/availability"
	"github.com/jwalitptl/clinic-api/internal/guard"
	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/doctor"
	"github.com/jwalitptl/clinic-api/internal/session"
)

type Page struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	User        *session.User   `json:"user,omitempty"`
	Clinic      *session.Clinic `json:"clinic,omitempty"`
	Data        interface{}     `json:"data,omitempty"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type DoctorView struct {
	*model.Doctor
	AppointmentPrice string `json:"appointment_price"`
}

type Handler struct {
	doctors doctor.DoctorService
}

func NewHandler(doctors doctor.DoctorService) *Handler {
	return &Handler{doctors: doctors}
}

// RegisterRoutes mounts each page on the group carrying its guard.
func (h *Handler) RegisterRoutes(guest, authed, tenant *gin.RouterGroup) {
	guest.GET(guard.LoginPath, h.Authentication)
	authed.GET(guard.ClinicFormPath, h.ClinicForm)
	tenant.GET("/", h.Home)
	tenant.GET(guard.HomePath, h.Dashboard)
	tenant.GET("/doctors", h.Doctors)
}

func (h *Handler) Authentication(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(Page{
		Title: "Authentication",
		Data: gin.H{
			"tabs":        []Option{{Value: "login", Label: "Login"}, {Value: "register", Label: "Register"}},
			"default_tab": "login",
		},
	}))
}

func (h *Handler) ClinicForm(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(Page{
		Title:       "Add new clinic",
		Description: "Add a clinic before use the platform",
		User:        &handler.CurrentSession(c).User,
	}))
}

func (h *Handler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, guard.HomePath)
}

func (h *Handler) Dashboard(c *gin.Context) {
	sess := handler.CurrentSession(c)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(Page{
		Title:  "Dashboard",
		User:   &sess.User,
		Clinic: &sess.Clinic,
	}))
}

func (h *Handler) Doctors(c *gin.Context) {
	sess := handler.CurrentSession(c)

	doctors, err := h.doctors.List(c.Request.Context(), sess.ClinicID())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	views := make([]DoctorView, 0, len(doctors))
	for _, d := range doctors {
		views = append(views, DoctorView{Doctor: d, AppointmentPrice: availability.FormatPrice(d.AppointmentPriceInCents)})
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(Page{
		Title:       "Doctors",
		Description: "Manage clinic doctors",
		User:        &sess.User,
		Clinic:      &sess.Clinic,
		Data: gin.H{
			"doctors":     views,
			"form":        doctor.DefaultUpsertDoctorRequest(),
			"specialties": model.Specialties,
			"weekdays":    weekdayOptions(),
		},
	}))
}

func weekdayOptions() []Option {
	opts := make([]Option, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		opts = append(opts, Option{Value: strconv.Itoa(int(d)), Label: d.String()})
	}
	return opts
}
