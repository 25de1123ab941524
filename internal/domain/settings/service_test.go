package settings

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

type mockAPI struct {
	settings *upstream.ClinicSettings
	getErr   error
	saved    *upstream.ClinicSettings
}

func (m *mockAPI) GetSettings(ctx context.Context, token string) (*upstream.ClinicSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.settings, nil
}

func (m *mockAPI) SaveSettings(ctx context.Context, token string, s upstream.ClinicSettings) (*upstream.ClinicSettings, error) {
	m.saved = &s
	return &s, nil
}

func testCache(t *testing.T) Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func upstreamDoc() *upstream.ClinicSettings {
	return &upstream.ClinicSettings{
		ClinicName: "VM Mother and Child Clinic",
		Doctors: []upstream.DoctorSettings{
			{ID: "obgyne", Name: "Dr. Maria Sarah", Track: "OB-GYNE",
				WeeklyHours: map[string]upstream.DayHours{"Monday": {Start: "09:00", End: "17:00"}}},
			{ID: "pedia", Name: "Dr. Shara Mae", Track: "Pediatrics"},
		},
	}
}

func TestGetPrefersUpstreamAndCaches(t *testing.T) {
	api := &mockAPI{settings: upstreamDoc()}
	cache := testCache(t)
	svc := NewService(api, cache, "VM Mother and Child Clinic", zerolog.Nop())

	cfg, err := svc.Get(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, cfg.Doctors, 2)
	assert.Equal(t, TrackObGyne, cfg.Doctors[0].Track)
	// Day keys are normalized to lower case.
	assert.Contains(t, cfg.Doctors[0].WeeklyHours, "monday")

	// With the upstream now down, the cached copy is served.
	api.getErr = upstream.ErrUnavailable
	cached, err := svc.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, cfg, cached)
}

func TestGetDefaultsWhenNothingAvailable(t *testing.T) {
	api := &mockAPI{getErr: upstream.ErrUnavailable}
	svc := NewService(api, testCache(t), "VM Mother and Child Clinic", zerolog.Nop())

	cfg, err := svc.Get(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, cfg.Doctors, 2)
	assert.Equal(t, "VM Mother and Child Clinic", cfg.ClinicName)
	assert.Equal(t, TrackObGyne, cfg.Doctors[0].Track)
	assert.Equal(t, TrackPediatrics, cfg.Doctors[1].Track)

	// No cache configured at all still falls back to defaults.
	svcNoCache := NewService(api, nil, "VM Mother and Child Clinic", zerolog.Nop())
	cfg, err = svcNoCache.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, cfg.Doctors, 2)
}

func TestGetDoesNotMaskExpiredSessions(t *testing.T) {
	api := &mockAPI{getErr: upstream.ErrUnauthorized}
	svc := NewService(api, testCache(t), "VM", zerolog.Nop())

	_, err := svc.Get(context.Background(), "tok")
	assert.ErrorIs(t, err, upstream.ErrUnauthorized)
}

func TestSaveAssignsDoctorIDs(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, testCache(t), "VM", zerolog.Nop())

	in := Settings{
		ClinicName: "VM",
		Doctors: []Doctor{
			{ID: "obgyne", Name: "Dr. Maria Sarah", Track: TrackObGyne},
			{Name: "Dr. New Hire", Track: TrackPediatrics},
		},
	}
	out, err := svc.Save(context.Background(), "tok", in)
	require.NoError(t, err)
	assert.Equal(t, "obgyne", out.Doctors[0].ID)
	assert.NotEmpty(t, out.Doctors[1].ID, "new doctors get a stable id")
	require.NotNil(t, api.saved)
	assert.Equal(t, out.Doctors[1].ID, api.saved.Doctors[1].ID)
}

func TestRoster(t *testing.T) {
	api := &mockAPI{settings: upstreamDoc()}
	svc := NewService(api, nil, "VM", zerolog.Nop())

	refs, err := svc.Roster(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "obgyne", refs[0].ID)
	assert.Equal(t, "Dr. Maria Sarah", refs[0].Name)
}

func TestSettingsValidate(t *testing.T) {
	valid := Settings{
		ClinicName: "VM",
		Doctors: []Doctor{{
			ID: "d1", Name: "Dr. A", Track: TrackObGyne,
			WeeklyHours: map[string]DayHours{
				"monday": {Start: "09:00", End: "17:00"},
				"sunday": {Closed: true},
			},
		}},
	}
	assert.Empty(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*Settings)
		field  string
	}{
		{"empty clinic name", func(s *Settings) { s.ClinicName = " " }, "clinic_name"},
		{"no doctors", func(s *Settings) { s.Doctors = nil }, "doctors"},
		{"blank doctor name", func(s *Settings) { s.Doctors[0].Name = "" }, "doctors.0.name"},
		{"unknown track", func(s *Settings) { s.Doctors[0].Track = "Dermatology" }, "doctors.0.track"},
		{"inverted hours", func(s *Settings) {
			s.Doctors[0].WeeklyHours["monday"] = DayHours{Start: "17:00", End: "09:00"}
		}, "doctors.0.weekly_hours.monday"},
		{"garbage hours", func(s *Settings) {
			s.Doctors[0].WeeklyHours["monday"] = DayHours{Start: "nine", End: "five"}
		}, "doctors.0.weekly_hours.monday"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Settings{
				ClinicName: valid.ClinicName,
				Doctors: []Doctor{{
					ID: "d1", Name: "Dr. A", Track: TrackObGyne,
					WeeklyHours: map[string]DayHours{
						"monday": {Start: "09:00", End: "17:00"},
						"sunday": {Closed: true},
					},
				}},
			}
			tc.mutate(&s)
			assert.Contains(t, s.Validate(), tc.field)
		})
	}

	dup := valid
	dup.Doctors = []Doctor{
		{ID: "d1", Name: "Dr. A", Track: TrackObGyne},
		{ID: "d1", Name: "Dr. B", Track: TrackPediatrics},
	}
	assert.Contains(t, dup.Validate(), "doctors.1.id")
}
