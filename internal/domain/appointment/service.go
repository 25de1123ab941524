package appointment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alreriabiceps/clinic-sched/internal/platform/notice"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
	"github.com/Alreriabiceps/clinic-sched/pkg/pagination"
)

// API is the slice of the upstream client this service uses.
type API interface {
	ListAppointments(ctx context.Context, token string) ([]upstream.Appointment, error)
	GetAppointment(ctx context.Context, token, id string) (*upstream.Appointment, error)
	CreateAppointment(ctx context.Context, token string, req upstream.CreateAppointmentRequest) (*upstream.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, token, id, status string) error
	RescheduleAppointment(ctx context.Context, token, id string, req upstream.RescheduleRequest) error
}

// TransitionError is returned when an action is not offered for the
// appointment's current status.
type TransitionError struct {
	Action Action
	From   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s an appointment that is %s", e.Action, e.From)
}

type Service struct {
	api      API
	notifier notice.Notifier
	logger   zerolog.Logger
}

func NewService(api API, notifier notice.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		api:      api,
		notifier: notifier,
		logger:   logger.With().Str("component", "appointment").Logger(),
	}
}

// ListResult is one page of the filtered appointment collection.
type ListResult struct {
	Groups []DoctorGroup `json:"groups"`
	Page   []Record      `json:"appointments"`
	Total  int           `json:"total"`
}

// List fetches the full collection, filters it in memory, and returns the
// requested page grouped by doctor. Empty-state cards appear only in the
// "today" view.
func (s *Service) List(ctx context.Context, token string, f Filter, pg pagination.Params, roster []DoctorRef) (*ListResult, error) {
	raw, err := s.api.ListAppointments(ctx, token)
	if err != nil {
		return nil, err
	}

	visible := f.Apply(NormalizeAll(raw))
	total := len(visible)

	start, end := pg.Bounds(total)
	page := visible[start:end]

	return &ListResult{
		Groups: GroupByDoctor(page, roster, f.Range == RangeToday),
		Page:   page,
		Total:  total,
	}, nil
}

// Get returns one normalized appointment plus the actions its status allows.
func (s *Service) Get(ctx context.Context, token, id string) (*Record, []Action, error) {
	raw, err := s.api.GetAppointment(ctx, token, id)
	if err != nil {
		return nil, nil, err
	}
	rec := Normalize(*raw)
	return &rec, AllowedActions(rec.Status), nil
}

// CreateInput is a staff-entered appointment draft.
type CreateInput struct {
	PatientID   string `json:"patient_id"`
	DoctorID    string `json:"doctor_id"`
	DoctorName  string `json:"doctor_name"`
	Date        string `json:"date"`
	TimeOfDay   string `json:"time"`
	ServiceType string `json:"service_type"`
	ContactInfo string `json:"contact_info"`
	Reason      string `json:"reason_for_visit"`
}

// Validate reports per-field problems, keyed by field name.
func (in CreateInput) Validate() map[string]string {
	problems := map[string]string{}
	if in.PatientID == "" {
		problems["patient_id"] = "patient is required"
	}
	if in.DoctorID == "" && in.DoctorName == "" {
		problems["doctor_id"] = "doctor is required"
	}
	if _, err := ParseLocalDate(in.Date); err != nil {
		problems["date"] = "a valid date is required"
	}
	if !IsScheduleSlot(in.TimeOfDay) {
		problems["time"] = "time must be one of the clinic's schedule slots"
	}
	if in.ServiceType == "" {
		problems["service_type"] = "service type is required"
	}
	return problems
}

func (s *Service) Create(ctx context.Context, token string, in CreateInput) (*Record, error) {
	raw, err := s.api.CreateAppointment(ctx, token, upstream.CreateAppointmentRequest{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		DoctorName:      in.DoctorName,
		AppointmentDate: in.Date,
		AppointmentTime: in.TimeOfDay,
		ServiceType:     in.ServiceType,
		ContactInfo:     in.ContactInfo,
		ReasonForVisit:  in.Reason,
	})
	if err != nil {
		return nil, err
	}
	rec := Normalize(*raw)
	return &rec, nil
}

// Transition applies confirm/complete/cancel to an appointment. The action
// is gated on the current status as fetched now, the upstream is updated,
// and a notice is published; the caller refetches the list afterwards.
func (s *Service) Transition(ctx context.Context, token, userID, id string, action Action) error {
	t, ok := transitions[action]
	if !ok || action == ActionReschedule {
		return fmt.Errorf("unknown action %q", action)
	}

	raw, err := s.api.GetAppointment(ctx, token, id)
	if err != nil {
		return err
	}
	rec := Normalize(*raw)

	if !t.from[rec.Status] {
		return &TransitionError{Action: action, From: rec.Status}
	}

	if err := s.api.UpdateAppointmentStatus(ctx, token, id, string(t.to)); err != nil {
		s.notifier.Notify(notice.TopicFor(userID), notice.LevelError, upstream.UserMessage(err))
		return err
	}

	s.logger.Info().
		Str("appointment_id", id).
		Str("action", string(action)).
		Str("status", string(t.to)).
		Msg("appointment status updated")
	s.notifier.Notify(notice.TopicFor(userID), notice.LevelSuccess,
		fmt.Sprintf("Appointment for %s on %s %s is now %s.", rec.PatientName, rec.DateISO, rec.TimeOfDay, t.to))
	return nil
}

// RescheduleInput collects the new date and slot time for a reschedule.
type RescheduleInput struct {
	Date      string `json:"date"`
	TimeOfDay string `json:"time"`
}

func (in RescheduleInput) Validate() map[string]string {
	problems := map[string]string{}
	if _, err := ParseLocalDate(in.Date); err != nil {
		problems["date"] = "a valid date is required"
	}
	if !IsScheduleSlot(in.TimeOfDay) {
		problems["time"] = "time must be one of the clinic's schedule slots"
	}
	return problems
}

// Reschedule moves a scheduled or confirmed appointment to a new date and
// slot time, with the fixed staff reason.
func (s *Service) Reschedule(ctx context.Context, token, userID, id string, in RescheduleInput) error {
	raw, err := s.api.GetAppointment(ctx, token, id)
	if err != nil {
		return err
	}
	rec := Normalize(*raw)

	if !transitions[ActionReschedule].from[rec.Status] {
		return &TransitionError{Action: ActionReschedule, From: rec.Status}
	}

	err = s.api.RescheduleAppointment(ctx, token, id, upstream.RescheduleRequest{
		NewDate: in.Date,
		NewTime: in.TimeOfDay,
		Reason:  RescheduleReason,
	})
	if err != nil {
		s.notifier.Notify(notice.TopicFor(userID), notice.LevelError, upstream.UserMessage(err))
		return err
	}

	s.logger.Info().
		Str("appointment_id", id).
		Str("new_date", in.Date).
		Str("new_time", in.TimeOfDay).
		Msg("appointment rescheduled")
	s.notifier.Notify(notice.TopicFor(userID), notice.LevelSuccess,
		fmt.Sprintf("Appointment for %s moved to %s %s.", rec.PatientName, in.Date, in.TimeOfDay))
	return nil
}
