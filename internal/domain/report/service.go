package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/settings"
	"github.com/Alreriabiceps/clinic-sched/internal/platform/notice"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

// API is the slice of the upstream client this service uses.
type API interface {
	ListAppointments(ctx context.Context, token string) ([]upstream.Appointment, error)
	GetDashboardSummary(ctx context.Context, token string) (*upstream.DashboardSummary, error)
}

// Registry supplies the doctor list reports group by.
type Registry interface {
	Get(ctx context.Context, token string) (*settings.Settings, error)
}

// ErrEmptyReport means the chosen mode and date matched nothing; no
// document is produced.
var ErrEmptyReport = fmt.Errorf("no appointments match this report")

// ErrUnknownDoctor means the requested doctor id is not in the registry.
var ErrUnknownDoctor = fmt.Errorf("unknown doctor")

type Service struct {
	api      API
	registry Registry
	notifier notice.Notifier
	logger   zerolog.Logger

	now func() time.Time
}

func NewService(api API, registry Registry, notifier notice.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		api:      api,
		registry: registry,
		notifier: notifier,
		logger:   logger.With().Str("component", "report").Logger(),
		now:      time.Now,
	}
}

// Build assembles a report for the mode, anchored at dateISO for the date
// modes. A non-empty doctorID restricts the report to that registry
// doctor; empty means every doctor. An empty result short-circuits with
// ErrEmptyReport and a notice; no empty documents are generated.
func (s *Service) Build(ctx context.Context, token, userID string, mode Mode, dateISO, doctorID string) (*Report, error) {
	if !ValidMode(mode) {
		return nil, fmt.Errorf("unknown report mode %q", mode)
	}

	anchor := s.now()
	if d, err := appointment.ParseLocalDate(dateISO); err == nil {
		anchor = d
	}

	cfg, err := s.registry.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	raw, err := s.api.ListAppointments(ctx, token)
	if err != nil {
		return nil, err
	}

	doctors := cfg.Doctors
	matched, label := s.selectRecords(appointment.NormalizeAll(raw), mode, anchor)
	if doctorID != "" {
		doctors = nil
		for _, d := range cfg.Doctors {
			if d.ID == doctorID {
				doctors = []settings.Doctor{d}
				break
			}
		}
		if doctors == nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownDoctor, doctorID)
		}
		kept := matched[:0]
		for _, r := range matched {
			if MatchDoctor(r, doctors) != nil {
				kept = append(kept, r)
			}
		}
		matched = kept
	}
	if len(matched) == 0 {
		s.notifier.Notify(notice.TopicFor(userID), notice.LevelInfo, "No appointments found for this report.")
		return nil, ErrEmptyReport
	}

	r := &Report{
		Mode:        mode,
		Title:       modeTitles[mode],
		ClinicName:  cfg.ClinicName,
		WindowLabel: label,
		GeneratedAt: s.now(),
		Total:       len(matched),
	}
	r.Sections = groupSections(matched, doctors)
	return r, nil
}

// selectRecords applies the mode's window or status predicate and returns
// the matches in stable order plus the window label.
func (s *Service) selectRecords(records []appointment.Record, mode Mode, anchor time.Time) ([]appointment.Record, string) {
	if status, ok := statusModes[mode]; ok {
		var out []appointment.Record
		for _, r := range records {
			if r.Status == status {
				out = append(out, r)
			}
		}
		appointment.SortStable(out)
		return out, ""
	}

	var rng appointment.DateRange
	var label string
	switch mode {
	case ModeWeek:
		rng = appointment.RangeWeek
		label = "Week of " + anchor.AddDate(0, 0, -int(anchor.Weekday())).Format("January 2, 2006")
	case ModeMonth:
		rng = appointment.RangeMonth
		label = anchor.Format("January 2006")
	default:
		rng = appointment.RangeToday
		label = anchor.Format("January 2, 2006")
	}
	return appointment.Filter{Range: rng, Now: anchor}.Apply(records), label
}

// groupSections arranges records into per-doctor sections in registry
// order. Records no doctor claims are collected under an "Unassigned"
// section at the end.
func groupSections(records []appointment.Record, doctors []settings.Doctor) []DoctorSection {
	sections := make([]DoctorSection, len(doctors))
	for i, d := range doctors {
		sections[i] = DoctorSection{Doctor: d, Appointments: []appointment.Record{}}
	}
	unassigned := DoctorSection{
		Doctor:       settings.Doctor{Name: "Unassigned"},
		Appointments: []appointment.Record{},
	}

	for _, r := range records {
		if d := MatchDoctor(r, doctors); d != nil {
			for i := range sections {
				if sections[i].Doctor.ID == d.ID {
					sections[i].Appointments = append(sections[i].Appointments, r)
					break
				}
			}
			continue
		}
		unassigned.Appointments = append(unassigned.Appointments, r)
	}
	if len(unassigned.Appointments) > 0 {
		sections = append(sections, unassigned)
	}

	out := sections[:0]
	for _, sec := range sections {
		sec.Count = len(sec.Appointments)
		if sec.Count == 0 {
			continue
		}
		var names []string
		for _, r := range sec.Appointments {
			if r.Status == appointment.StatusNoShow {
				names = append(names, r.PatientName)
			}
		}
		sec.NoShowNames = joinNames(names)
		out = append(out, sec)
	}
	return out
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	s := names[0]
	for _, n := range names[1 : len(names)-1] {
		s += ", " + n
	}
	return s + " and " + names[len(names)-1]
}

// Dashboard proxies the upstream summary counters.
func (s *Service) Dashboard(ctx context.Context, token string) (*upstream.DashboardSummary, error) {
	return s.api.GetDashboardSummary(ctx, token)
}
