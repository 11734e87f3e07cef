package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/doctor"
	"github.com/jwalitptl/clinic-api/internal/session"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDoctors struct {
	clinicID uuid.UUID
	upserted *doctor.UpsertDoctorRequest
	deleted  uuid.UUID
}

func (f *fakeDoctors) Upsert(_ context.Context, clinicID uuid.UUID, req *doctor.UpsertDoctorRequest) (*model.Doctor, error) {
	f.clinicID = clinicID
	f.upserted = req
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d, err := req.ToDoctor(clinicID)
	if err != nil {
		return nil, err
	}
	if req.ID == nil {
		d.ID = uuid.New()
	}
	return d, nil
}

func (f *fakeDoctors) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Doctor, error) {
	return nil, apperrors.NotFound("doctor", nil)
}

func (f *fakeDoctors) List(_ context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	f.clinicID = clinicID
	return []*model.Doctor{}, nil
}

func (f *fakeDoctors) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	f.clinicID = clinicID
	f.deleted = id
	return nil
}

func newEngine(svc doctor.DoctorService, clinicID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		sess := &session.Session{Clinic: session.Clinic{ID: &clinicID}}
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

const validDoctor = `{
	"name": "Dr. Lima",
	"specialty": "Cardiology",
	"appointmentPrice": 150,
	"availableFromWeekday": "1",
	"availableToWeekday": 5,
	"availableFromTime": "08:00:00",
	"availableToTime": "18:00:00"
}`

func TestUpsertDoctor_Create(t *testing.T) {
	svc := &fakeDoctors{}
	clinicID := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/doctors", strings.NewReader(validDoctor))
	req.Header.Set("Content-Type", "application/json")
	newEngine(svc, clinicID).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, clinicID, svc.clinicID)
	assert.Contains(t, w.Body.String(), `"appointment_price_in_cents":15000`)
}

func TestUpsertDoctor_ValidationErrors(t *testing.T) {
	body := `{"name":"","specialty":"Astrology","appointmentPrice":"","availableFromWeekday":"1","availableToWeekday":"5","availableFromTime":"18:00","availableToTime":"08:00"}`

	w := httptest.NewRecorder()
	newEngine(&fakeDoctors{}, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/doctors", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	for _, field := range []string{`"name"`, `"specialty"`, `"appointmentPrice"`, `"availableToTime"`} {
		assert.Contains(t, w.Body.String(), field)
	}
}

func TestUpdateDoctor_UsesPathID(t *testing.T) {
	svc := &fakeDoctors{}
	id := uuid.New()

	w := httptest.NewRecorder()
	newEngine(svc, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/doctors/"+id.String(), strings.NewReader(validDoctor)))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.upserted.ID)
	assert.Equal(t, id, *svc.upserted.ID)
}

func TestGetDoctor_NotFound(t *testing.T) {
	w := httptest.NewRecorder()
	newEngine(&fakeDoctors{}, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/doctors/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDoctor(t *testing.T) {
	svc := &fakeDoctors{}
	id := uuid.New()

	w := httptest.NewRecorder()
	newEngine(svc, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/doctors/"+id.String(), nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, id, svc.deleted)
}

func TestDeleteDoctor_BadID(t *testing.T) {
	w := httptest.NewRecorder()
	newEngine(&fakeDoctors{}, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/doctors/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpsertDoctor_PriceAsExponentNumber(t *testing.T) {
	body := strings.Replace(validDoctor, `"appointmentPrice": 150`, `"appointmentPrice": 1e3`, 1)

	w := httptest.NewRecorder()
	newEngine(&fakeDoctors{}, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/doctors", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"appointment_price_in_cents":100000`)
}
