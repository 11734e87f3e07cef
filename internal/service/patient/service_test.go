package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type fakeRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *fakeRepo) emailTaken(email string, except uuid.UUID) bool {
	for id, p := range r.patients {
		if id != except && p.Email == email {
			return true
		}
	}
	return false
}

func (r *fakeRepo) Create(_ context.Context, p *model.Patient) error {
	if r.emailTaken(p.Email, uuid.Nil) {
		return repository.ErrDuplicate
	}
	p.ID = uuid.New()
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, p *model.Patient) error {
	existing, ok := r.patients[p.ID]
	if !ok || existing.ClinicID != p.ClinicID {
		return repository.ErrNotFound
	}
	if r.emailTaken(p.Email, p.ID) {
		return repository.ErrDuplicate
	}
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Get(_ context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok || p.ClinicID != clinicID {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, f *model.PatientFilters) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range r.patients {
		if p.ClinicID == f.ClinicID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, clinicID, id uuid.UUID) error {
	p, ok := r.patients[id]
	if !ok || p.ClinicID != clinicID {
		return repository.ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

func request(email string) *PatientRequest {
	return &PatientRequest{Name: "Maria", Email: email, PhoneNumber: "+55 11 99999-0000", Sex: "female"}
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newFakeRepo())
	clinicID := uuid.New()

	p, err := svc.CreatePatient(context.Background(), clinicID, request("maria@example.com"))
	require.NoError(t, err)
	assert.Equal(t, clinicID, p.ClinicID)
	assert.Equal(t, model.SexFemale, p.Sex)
}

func TestCreatePatient_DuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.CreatePatient(ctx, uuid.New(), request("maria@example.com"))
	require.NoError(t, err)

	_, err = svc.CreatePatient(ctx, uuid.New(), request("maria@example.com"))
	fe, ok := apperrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "E-mail already registered", fe["email"])
}

func TestCreatePatient_Validation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreatePatient(context.Background(), uuid.New(), &PatientRequest{Email: "bad", Sex: "other"})
	fe, ok := apperrors.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"name":        "Name is required",
		"email":       "Inform a valid e-mail",
		"phoneNumber": "Phone number is required",
		"sex":         "Invalid sex",
	}, map[string]string(fe))
}

func TestCreatePatient_SexIsClosedEnum(t *testing.T) {
	svc := NewService(newFakeRepo())

	for _, sex := range []string{"Female", "other", " male"} {
		req := request("maria@example.com")
		req.Sex = sex
		_, err := svc.CreatePatient(context.Background(), uuid.New(), req)
		fe, ok := apperrors.AsFieldErrors(err)
		require.True(t, ok, sex)
		assert.Equal(t, "Invalid sex", fe["sex"], sex)
	}
}

func TestUpdatePatient_ScopedByClinic(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	clinicID := uuid.New()

	p, err := svc.CreatePatient(ctx, clinicID, request("maria@example.com"))
	require.NoError(t, err)

	req := request("maria.silva@example.com")
	updated, err := svc.UpdatePatient(ctx, clinicID, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "maria.silva@example.com", updated.Email)

	_, err = svc.UpdatePatient(ctx, uuid.New(), p.ID, request("x@example.com"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestListAndDeletePatients(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	clinicID := uuid.New()

	list, err := svc.ListPatients(ctx, &model.PatientFilters{ClinicID: clinicID, Search: "  "})
	require.NoError(t, err)
	assert.NotNil(t, list)

	p, err := svc.CreatePatient(ctx, clinicID, request("maria@example.com"))
	require.NoError(t, err)

	list, err = svc.ListPatients(ctx, &model.PatientFilters{ClinicID: clinicID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.True(t, apperrors.HasCode(svc.DeletePatient(ctx, uuid.New(), p.ID), apperrors.ErrNotFound))
	require.NoError(t, svc.DeletePatient(ctx, clinicID, p.ID))
}
