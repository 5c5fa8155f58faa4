package clinic_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetdesk/clinic-scheduling/internal/clinic"
	"github.com/vetdesk/clinic-scheduling/internal/schedule"
)

// memRepo is an in-memory Repository with the same lookup semantics as
// the Postgres one: sentinel errors for misses, case-exact name and
// email matches.
type memRepo struct {
	clinics map[uuid.UUID]clinic.Clinic
	vets    map[uuid.UUID]clinic.Vet
	hours   map[uuid.UUID]clinic.OperatingHours
}

func newMemRepo() *memRepo {
	return &memRepo{
		clinics: make(map[uuid.UUID]clinic.Clinic),
		vets:    make(map[uuid.UUID]clinic.Vet),
		hours:   make(map[uuid.UUID]clinic.OperatingHours),
	}
}

func (r *memRepo) InsertClinic(_ context.Context, c *clinic.Clinic) (*clinic.Clinic, error) {
	r.clinics[c.ID] = *c
	stored := r.clinics[c.ID]
	return &stored, nil
}

func (r *memRepo) GetClinicByID(_ context.Context, id uuid.UUID) (*clinic.Clinic, error) {
	c, ok := r.clinics[id]
	if !ok {
		return nil, clinic.ErrClinicNotFound
	}
	return &c, nil
}

func (r *memRepo) GetClinicByName(_ context.Context, name string) (*clinic.Clinic, error) {
	for _, c := range r.clinics {
		if c.Name == name {
			stored := c
			return &stored, nil
		}
	}
	return nil, clinic.ErrClinicNotFound
}

func (r *memRepo) ListActiveClinics(_ context.Context) ([]clinic.Clinic, error) {
	var out []clinic.Clinic
	for _, c := range r.clinics {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateClinic(_ context.Context, c *clinic.Clinic) (*clinic.Clinic, error) {
	if _, ok := r.clinics[c.ID]; !ok {
		return nil, clinic.ErrClinicNotFound
	}
	r.clinics[c.ID] = *c
	stored := r.clinics[c.ID]
	return &stored, nil
}

func (r *memRepo) InsertVet(_ context.Context, v *clinic.Vet) (*clinic.Vet, error) {
	r.vets[v.ID] = *v
	stored := r.vets[v.ID]
	return &stored, nil
}

func (r *memRepo) GetVetByID(_ context.Context, id uuid.UUID) (*clinic.Vet, error) {
	v, ok := r.vets[id]
	if !ok {
		return nil, clinic.ErrVetNotFound
	}
	return &v, nil
}

func (r *memRepo) GetVetByEmail(_ context.Context, email string, excludeID *uuid.UUID) (*clinic.Vet, error) {
	for _, v := range r.vets {
		if excludeID != nil && v.ID == *excludeID {
			continue
		}
		if strings.EqualFold(v.Email, email) {
			stored := v
			return &stored, nil
		}
	}
	return nil, clinic.ErrVetNotFound
}

func (r *memRepo) ListVetsByClinic(_ context.Context, clinicID uuid.UUID) ([]clinic.Vet, error) {
	var out []clinic.Vet
	for _, v := range r.vets {
		if v.ClinicID == clinicID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateVet(_ context.Context, v *clinic.Vet) (*clinic.Vet, error) {
	if _, ok := r.vets[v.ID]; !ok {
		return nil, clinic.ErrVetNotFound
	}
	r.vets[v.ID] = *v
	stored := r.vets[v.ID]
	return &stored, nil
}

func (r *memRepo) InsertHours(_ context.Context, h *clinic.OperatingHours) (*clinic.OperatingHours, error) {
	r.hours[h.ID] = *h
	stored := r.hours[h.ID]
	return &stored, nil
}

func (r *memRepo) GetHoursByID(_ context.Context, id uuid.UUID) (*clinic.OperatingHours, error) {
	h, ok := r.hours[id]
	if !ok {
		return nil, clinic.ErrHoursNotFound
	}
	return &h, nil
}

func (r *memRepo) GetHoursByDay(_ context.Context, clinicID uuid.UUID, weekday int, excludeID *uuid.UUID) (*clinic.OperatingHours, error) {
	for _, h := range r.hours {
		if excludeID != nil && h.ID == *excludeID {
			continue
		}
		if h.ClinicID == clinicID && h.Weekday == weekday {
			stored := h
			return &stored, nil
		}
	}
	return nil, clinic.ErrHoursNotFound
}

func (r *memRepo) ListHoursByClinic(_ context.Context, clinicID uuid.UUID) ([]clinic.OperatingHours, error) {
	var out []clinic.OperatingHours
	for _, h := range r.hours {
		if h.ClinicID == clinicID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateHours(_ context.Context, h *clinic.OperatingHours) (*clinic.OperatingHours, error) {
	if _, ok := r.hours[h.ID]; !ok {
		return nil, clinic.ErrHoursNotFound
	}
	r.hours[h.ID] = *h
	stored := r.hours[h.ID]
	return &stored, nil
}

func (r *memRepo) DeleteHours(_ context.Context, id uuid.UUID) error {
	if _, ok := r.hours[id]; !ok {
		return clinic.ErrHoursNotFound
	}
	delete(r.hours, id)
	return nil
}

func newService() (*clinic.Service, *memRepo) {
	repo := newMemRepo()
	return clinic.NewService(repo), repo
}

func mustClinic(t *testing.T, svc *clinic.Service, name string) *clinic.Clinic {
	t.Helper()
	c, err := svc.CreateClinic(context.Background(), clinic.CreateClinicInput{Name: name})
	require.NoError(t, err)
	return c
}

func TestCreateClinicRejectsDuplicateName(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created := mustClinic(t, svc, "VetDesk Central")
	assert.True(t, created.Active)
	assert.JSONEq(t, `{}`, string(created.Settings))

	_, err := svc.CreateClinic(ctx, clinic.CreateClinicInput{Name: "VetDesk Central"})
	assert.ErrorIs(t, err, clinic.ErrDuplicateClinicName)
}

func TestGetActiveClinicHidesDeactivated(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created := mustClinic(t, svc, "VetDesk Central")

	_, err := svc.GetActiveClinic(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.DeactivateClinic(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.GetActiveClinic(ctx, created.ID)
	assert.ErrorIs(t, err, clinic.ErrClinicNotFound)

	// The raw getter still resolves it.
	got, err := svc.GetClinic(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestUpdateClinicPartialFields(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created := mustClinic(t, svc, "VetDesk Central")

	addr := "Rua das Flores 123"
	updated, err := svc.UpdateClinic(ctx, created.ID, clinic.UpdateClinicInput{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "VetDesk Central", updated.Name)
	require.NotNil(t, updated.Address)
	assert.Equal(t, addr, *updated.Address)

	mustClinic(t, svc, "VetDesk Norte")
	taken := "VetDesk Norte"
	_, err = svc.UpdateClinic(ctx, created.ID, clinic.UpdateClinicInput{Name: &taken})
	assert.ErrorIs(t, err, clinic.ErrDuplicateClinicName)
}

func TestCreateVetRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cl := mustClinic(t, svc, "VetDesk Central")

	_, err := svc.CreateVet(ctx, clinic.CreateVetInput{
		ClinicID: cl.ID,
		Name:     "Dra. Ana Souza",
		Email:    "ana@vetdesk.test",
	})
	require.NoError(t, err)

	_, err = svc.CreateVet(ctx, clinic.CreateVetInput{
		ClinicID: cl.ID,
		Name:     "Outra Ana",
		Email:    "ana@vetdesk.test",
	})
	assert.ErrorIs(t, err, clinic.ErrDuplicateVetEmail)

	_, err = svc.CreateVet(ctx, clinic.CreateVetInput{
		ClinicID: uuid.New(),
		Name:     "Dr. Carlos Lima",
		Email:    "carlos@vetdesk.test",
	})
	assert.ErrorIs(t, err, clinic.ErrClinicNotFound)
}

func TestUpdateVetEmailUniquenessExcludesSelf(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cl := mustClinic(t, svc, "VetDesk Central")

	ana, err := svc.CreateVet(ctx, clinic.CreateVetInput{ClinicID: cl.ID, Name: "Dra. Ana Souza", Email: "ana@vetdesk.test"})
	require.NoError(t, err)

	_, err = svc.CreateVet(ctx, clinic.CreateVetInput{ClinicID: cl.ID, Name: "Dr. Carlos Lima", Email: "carlos@vetdesk.test"})
	require.NoError(t, err)

	// Re-submitting the own email is a no-op, not a duplicate.
	same := "ana@vetdesk.test"
	_, err = svc.UpdateVet(ctx, ana.ID, clinic.UpdateVetInput{Email: &same})
	assert.NoError(t, err)

	taken := "carlos@vetdesk.test"
	_, err = svc.UpdateVet(ctx, ana.ID, clinic.UpdateVetInput{Email: &taken})
	assert.ErrorIs(t, err, clinic.ErrDuplicateVetEmail)
}

func TestGetActiveVetHidesDeactivated(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cl := mustClinic(t, svc, "VetDesk Central")
	vet, err := svc.CreateVet(ctx, clinic.CreateVetInput{ClinicID: cl.ID, Name: "Dra. Ana Souza", Email: "ana@vetdesk.test"})
	require.NoError(t, err)

	_, err = svc.DeactivateVet(ctx, vet.ID)
	require.NoError(t, err)

	_, err = svc.GetActiveVet(ctx, vet.ID)
	assert.ErrorIs(t, err, clinic.ErrVetNotFound)
}

func TestCreateHoursValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cl := mustClinic(t, svc, "VetDesk Central")

	_, err := svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 7, OpensAt: "08:00", ClosesAt: "18:00"})
	assert.ErrorIs(t, err, clinic.ErrInvalidWeekday)

	_, err = svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: -1, OpensAt: "08:00", ClosesAt: "18:00"})
	assert.ErrorIs(t, err, clinic.ErrInvalidWeekday)

	_, err = svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 1, OpensAt: "18:00", ClosesAt: "08:00"})
	assert.ErrorIs(t, err, clinic.ErrInvalidHoursWindow)

	_, err = svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 1, OpensAt: "8am", ClosesAt: "18:00"})
	assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)

	created, err := svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 1, OpensAt: "08:00", ClosesAt: "18:00"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Weekday)

	_, err = svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 1, OpensAt: "09:00", ClosesAt: "17:00"})
	assert.ErrorIs(t, err, clinic.ErrDuplicateWeekday)
}

func TestHoursForDay(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cl := mustClinic(t, svc, "VetDesk Central")

	_, err := svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 1, OpensAt: "08:00", ClosesAt: "18:00"})
	require.NoError(t, err)

	h, err := svc.HoursForDay(ctx, cl.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "08:00", h.OpensAt)
	assert.Equal(t, "18:00", h.ClosesAt)

	_, err = svc.HoursForDay(ctx, cl.ID, 0)
	assert.ErrorIs(t, err, clinic.ErrHoursNotFound)
}

func TestUpdateHoursMoveToTakenWeekday(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cl := mustClinic(t, svc, "VetDesk Central")

	mon, err := svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 1, OpensAt: "08:00", ClosesAt: "18:00"})
	require.NoError(t, err)
	_, err = svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 2, OpensAt: "08:00", ClosesAt: "18:00"})
	require.NoError(t, err)

	taken := 2
	_, err = svc.UpdateHours(ctx, mon.ID, clinic.UpdateHoursInput{Weekday: &taken})
	assert.ErrorIs(t, err, clinic.ErrDuplicateWeekday)

	// Narrowing the window in place is fine.
	opens := "09:00"
	updated, err := svc.UpdateHours(ctx, mon.ID, clinic.UpdateHoursInput{OpensAt: &opens})
	require.NoError(t, err)
	assert.Equal(t, "09:00", updated.OpensAt)

	// A partial update may not invert the stored window.
	bad := "19:00"
	_, err = svc.UpdateHours(ctx, mon.ID, clinic.UpdateHoursInput{OpensAt: &bad})
	assert.ErrorIs(t, err, clinic.ErrInvalidHoursWindow)
}

func TestDeleteHours(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cl := mustClinic(t, svc, "VetDesk Central")
	h, err := svc.CreateHours(ctx, cl.ID, clinic.HoursInput{Weekday: 1, OpensAt: "08:00", ClosesAt: "18:00"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteHours(ctx, h.ID))
	assert.ErrorIs(t, svc.DeleteHours(ctx, h.ID), clinic.ErrHoursNotFound)

	_, err = svc.HoursForDay(ctx, cl.ID, 1)
	assert.ErrorIs(t, err, clinic.ErrHoursNotFound)
}
