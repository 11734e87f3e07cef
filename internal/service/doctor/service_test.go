package doctor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type fakeRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (r *fakeRepo) Create(_ context.Context, d *model.Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	r.doctors[d.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, d *model.Doctor) error {
	existing, ok := r.doctors[d.ID]
	if !ok || existing.ClinicID != d.ClinicID {
		return repository.ErrNotFound
	}
	cp := *d
	r.doctors[d.ID] = &cp
	return nil
}

func (r *fakeRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok || d.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (r *fakeRepo) List(_ context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range r.doctors {
		if d.ClinicID == clinicID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	d, ok := r.doctors[id]
	if !ok || d.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(r.doctors, id)
	return nil
}

func validRequest() *UpsertDoctorRequest {
	return &UpsertDoctorRequest{
		Name:                 "Dr. Lima",
		Specialty:            string(model.SpecialtyCardiology),
		AppointmentPrice:     "$1,234.50",
		AvailableFromWeekday: "1",
		AvailableToWeekday:   "5",
		AvailableFromTime:    "08:00",
		AvailableToTime:      "18:00",
	}
}

func TestFormValue_AcceptsStringAndNumber(t *testing.T) {
	var req UpsertDoctorRequest
	body := `{"appointmentPrice": 150.5, "availableFromWeekday": "2", "availableToWeekday": 4}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, FormValue("150.5"), req.AppointmentPrice)
	assert.Equal(t, FormValue("2"), req.AvailableFromWeekday)
	assert.Equal(t, FormValue("4"), req.AvailableToWeekday)

	require.NoError(t, json.Unmarshal([]byte(`{"appointmentPrice": null}`), &req))
	assert.Equal(t, FormValue(""), req.AppointmentPrice)

	assert.Error(t, json.Unmarshal([]byte(`{"appointmentPrice": [1]}`), &req))
}

func TestDefaultUpsertDoctorRequest(t *testing.T) {
	req := DefaultUpsertDoctorRequest()
	assert.Equal(t, FormValue("1"), req.AvailableFromWeekday)
	assert.Equal(t, FormValue("5"), req.AvailableToWeekday)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *UpsertDoctorRequest)
		want   map[string]string
	}{
		{
			name:   "valid",
			mutate: func(r *UpsertDoctorRequest) {},
		},
		{
			name: "end before start",
			mutate: func(r *UpsertDoctorRequest) {
				r.AvailableFromTime = "18:00"
				r.AvailableToTime = "08:00"
			},
			want: map[string]string{"availableToTime": "Available to time must be after available from time"},
		},
		{
			name: "equal times",
			mutate: func(r *UpsertDoctorRequest) {
				r.AvailableToTime = "08:00"
			},
			want: map[string]string{"availableToTime": "Available to time must be after available from time"},
		},
		{
			name: "missing fields",
			mutate: func(r *UpsertDoctorRequest) {
				*r = UpsertDoctorRequest{}
			},
			want: map[string]string{
				"name":                 "Name is required",
				"specialty":            "Specialty is required",
				"appointmentPrice":     "Appointment price is required",
				"availableFromWeekday": "Available from weekday is required",
				"availableToWeekday":   "Available to weekday is required",
				"availableFromTime":    "Initial time is required",
				"availableToTime":      "End time is required",
			},
		},
		{
			name: "bad enums",
			mutate: func(r *UpsertDoctorRequest) {
				r.Specialty = "Astrology"
				r.AvailableFromWeekday = "7"
			},
			want: map[string]string{
				"specialty":            "Invalid specialty",
				"availableFromWeekday": "Invalid weekday",
			},
		},
		{
			name: "price not a number",
			mutate: func(r *UpsertDoctorRequest) {
				r.AppointmentPrice = "abc"
			},
			want: map[string]string{"appointmentPrice": "Invalid appointment price"},
		},
		{
			name: "negative price",
			mutate: func(r *UpsertDoctorRequest) {
				r.AppointmentPrice = "-10"
			},
			want: map[string]string{"appointmentPrice": "Appointment price is required"},
		},
		{
			name: "malformed time does not raise ordering",
			mutate: func(r *UpsertDoctorRequest) {
				r.AvailableFromTime = "soon"
			},
			want: map[string]string{"availableFromTime": "Invalid time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			fe, ok := apperrors.AsFieldErrors(err)
			require.True(t, ok, "expected field errors, got %v", err)
			assert.Equal(t, tt.want, map[string]string(fe))
		})
	}
}

func TestToDoctor(t *testing.T) {
	clinicID := uuid.New()
	req := validRequest()
	req.AvailableFromTime = "8:05"

	doctor, err := req.ToDoctor(clinicID)
	require.NoError(t, err)
	assert.Equal(t, clinicID, doctor.ClinicID)
	assert.Equal(t, int64(123450), doctor.AppointmentPriceInCents)
	assert.Equal(t, 1, doctor.AvailableFromWeekDay)
	assert.Equal(t, 5, doctor.AvailableToWeekDay)
	assert.Equal(t, "08:05", doctor.AvailableFromTime)
	assert.Equal(t, "18:00", doctor.AvailableToTime)
}

func TestService_UpsertCreatesThenUpdates(t *testing.T) {
	repo := newFakeRepo()
	m := metrics.NewNop()
	svc := NewService(repo, m)
	clinicID := uuid.New()
	ctx := context.Background()

	created, err := svc.Upsert(ctx, clinicID, validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	req := validRequest()
	req.ID = &created.ID
	req.Name = "Dr. Souza"
	updated, err := svc.Upsert(ctx, clinicID, req)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Dr. Souza", repo.doctors[created.ID].Name)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DoctorWrites.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DoctorWrites.WithLabelValues("update", "success")))
}

func TestService_UpsertAcrossClinicsIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, metrics.NewNop())
	ctx := context.Background()

	created, err := svc.Upsert(ctx, uuid.New(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.ID = &created.ID
	req.Name = "Hijacked"
	_, err = svc.Upsert(ctx, uuid.New(), req)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	assert.Equal(t, "Dr. Lima", repo.doctors[created.ID].Name)
}

func TestService_UpsertRejectsInvalid(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	req := validRequest()
	req.AvailableToTime = "07:00"
	_, err := svc.Upsert(context.Background(), uuid.New(), req)

	fe, ok := apperrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("availableToTime"))
	assert.Empty(t, repo.doctors)
}

func TestService_UpsertWithoutClinic(t *testing.T) {
	_, err := NewService(newFakeRepo(), nil).Upsert(context.Background(), uuid.Nil, validRequest())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
}

func TestService_ListAndDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()
	clinicID := uuid.New()

	empty, err := svc.List(ctx, clinicID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	created, err := svc.Upsert(ctx, clinicID, validRequest())
	require.NoError(t, err)

	got, err := svc.Get(ctx, clinicID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Lima", got.Name)

	_, err = svc.Get(ctx, uuid.New(), created.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, clinicID, created.ID))
	assert.True(t, apperrors.HasCode(svc.Delete(ctx, clinicID, created.ID), apperrors.ErrNotFound))
}
