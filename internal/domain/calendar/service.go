package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/settings"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

// Lister fetches the appointment collection the calendar draws from.
type Lister interface {
	ListAppointments(ctx context.Context, token string) ([]upstream.Appointment, error)
}

// Registry supplies the doctor list for track colours.
type Registry interface {
	Get(ctx context.Context, token string) (*settings.Settings, error)
}

type Service struct {
	api      Lister
	registry Registry
	logger   zerolog.Logger

	// now is swapped in tests.
	now func() time.Time
}

func NewService(api Lister, registry Registry, logger zerolog.Logger) *Service {
	return &Service{
		api:      api,
		registry: registry,
		logger:   logger.With().Str("component", "calendar").Logger(),
		now:      time.Now,
	}
}

// ViewResult is one rendered calendar window.
type ViewResult struct {
	View     View      `json:"view"`
	Anchor   string    `json:"anchor"`
	Window   Window    `json:"window"`
	Events   []Event   `json:"events"`
	Holidays []Holiday `json:"holidays"`
}

// Render computes the window for a view and anchor, applying an optional
// navigation action first, and returns the events and holidays inside it.
func (s *Service) Render(ctx context.Context, token string, view View, anchorISO string, action NavAction) (*ViewResult, error) {
	if !validViews[view] {
		view = ViewMonth
	}
	now := s.now()
	anchor := now
	if d, err := appointment.ParseLocalDate(anchorISO); err == nil {
		anchor = d
	}
	if action != "" {
		anchor = Navigate(view, anchor, action, now)
	}
	window := WindowFor(view, anchor)

	raw, err := s.api.ListAppointments(ctx, token)
	if err != nil {
		return nil, err
	}
	tracks := s.trackIndex(ctx, token)

	events := []Event{}
	for _, r := range appointment.NormalizeAll(raw) {
		if r.Date.IsZero() || r.Date.Before(window.Start) || !r.Date.Before(window.End) {
			continue
		}
		track := tracks["id:"+r.DoctorID]
		if track == "" {
			track = tracks["name:"+r.DoctorName]
		}
		events = append(events, ToEvent(r, track))
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})

	return &ViewResult{
		View:     view,
		Anchor:   anchor.Format("2006-01-02"),
		Window:   window,
		Events:   events,
		Holidays: HolidaysIn(window.Start, window.End),
	}, nil
}

// trackIndex maps doctor identities to tracks. A registry failure degrades
// to neutral colours rather than failing the whole calendar.
func (s *Service) trackIndex(ctx context.Context, token string) map[string]settings.Track {
	index := map[string]settings.Track{}
	cfg, err := s.registry.Get(ctx, token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("doctor registry unavailable, using neutral colours")
		return index
	}
	for _, d := range cfg.Doctors {
		if d.ID != "" {
			index["id:"+d.ID] = d.Track
		}
		index["name:"+d.Name] = d.Track
	}
	return index
}
