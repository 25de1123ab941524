package portal

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/patient"
	"github.com/Alreriabiceps/clinic-sched/internal/platform/notice"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

// API is the slice of the upstream client the patient portal uses.
type API interface {
	RegisterPatient(ctx context.Context, reg upstream.PortalRegistration) (*upstream.PatientUser, error)
	PatientLogin(ctx context.Context, email, password string) (*upstream.PortalLoginResult, error)
	PatientProfile(ctx context.Context, token string) (*upstream.PatientUser, error)
	PortalDoctors(ctx context.Context, token string) ([]upstream.PortalDoctor, error)
	AvailableDates(ctx context.Context, token, doctorID string) ([]string, error)
	AvailableSlots(ctx context.Context, token, doctorID, date string) ([]string, error)
	BookAppointment(ctx context.Context, token string, req upstream.PortalBookingRequest) (*upstream.Appointment, error)
	MyAppointments(ctx context.Context, token string) ([]upstream.Appointment, error)
	CancelPortalAppointment(ctx context.Context, token, id string) error
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
		logger:   logger.With().Str("component", "portal").Logger(),
	}
}

// ValidateRegistration checks a new portal account before it is created.
func ValidateRegistration(reg upstream.PortalRegistration) map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(reg.FirstName) == "" {
		problems["first_name"] = "first name is required"
	}
	if strings.TrimSpace(reg.LastName) == "" {
		problems["last_name"] = "last name is required"
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		problems["email"] = "a valid email address is required"
	}
	if !patient.ValidPhone(reg.Phone) {
		problems["phone"] = "phone must be a valid PH mobile number"
	}
	if len(reg.Password) < 8 {
		problems["password"] = "password must be at least 8 characters"
	}
	return problems
}

func (s *Service) Register(ctx context.Context, reg upstream.PortalRegistration) (*upstream.PatientUser, error) {
	user, err := s.api.RegisterPatient(ctx, reg)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_user_id", user.ID).Msg("portal account registered")
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*upstream.PortalLoginResult, error) {
	return s.api.PatientLogin(ctx, email, password)
}

func (s *Service) Profile(ctx context.Context, token string) (*upstream.PatientUser, error) {
	return s.api.PatientProfile(ctx, token)
}

func (s *Service) Doctors(ctx context.Context, token string) ([]upstream.PortalDoctor, error) {
	return s.api.PortalDoctors(ctx, token)
}

func (s *Service) AvailableDates(ctx context.Context, token, doctorID string) ([]string, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("doctor is required")
	}
	return s.api.AvailableDates(ctx, token, doctorID)
}

func (s *Service) AvailableSlots(ctx context.Context, token, doctorID, date string) ([]string, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("doctor is required")
	}
	if _, err := appointment.ParseLocalDate(date); err != nil {
		return nil, fmt.Errorf("a valid date is required")
	}
	return s.api.AvailableSlots(ctx, token, doctorID, date)
}

// BookingInput is a portal booking draft.
type BookingInput struct {
	DoctorID    string `json:"doctor_id"`
	Date        string `json:"date"`
	TimeOfDay   string `json:"time"`
	ServiceType string `json:"service_type"`
	Reason      string `json:"reason_for_visit"`
}

func (in BookingInput) Validate() map[string]string {
	problems := map[string]string{}
	if in.DoctorID == "" {
		problems["doctor_id"] = "doctor is required"
	}
	if _, err := appointment.ParseLocalDate(in.Date); err != nil {
		problems["date"] = "a valid date is required"
	}
	if !appointment.IsScheduleSlot(in.TimeOfDay) {
		problems["time"] = "time must be one of the clinic's schedule slots"
	}
	if in.ServiceType == "" {
		problems["service_type"] = "service type is required"
	}
	return problems
}

// Book places a portal booking and notifies the patient's notice topic.
func (s *Service) Book(ctx context.Context, token, userID string, in BookingInput) (*appointment.Record, error) {
	raw, err := s.api.BookAppointment(ctx, token, upstream.PortalBookingRequest{
		DoctorID:        in.DoctorID,
		AppointmentDate: in.Date,
		AppointmentTime: in.TimeOfDay,
		ServiceType:     in.ServiceType,
		ReasonForVisit:  in.Reason,
	})
	if err != nil {
		return nil, err
	}
	rec := appointment.Normalize(*raw)
	s.notifier.Notify(notice.TopicFor(userID), notice.LevelSuccess,
		fmt.Sprintf("Your appointment on %s %s has been requested.", rec.DateISO, rec.TimeOfDay))
	return &rec, nil
}

// MyAppointments returns the patient's own bookings, newest day first.
func (s *Service) MyAppointments(ctx context.Context, token string) ([]appointment.Record, error) {
	raw, err := s.api.MyAppointments(ctx, token)
	if err != nil {
		return nil, err
	}
	records := appointment.NormalizeAll(raw)
	appointment.SortStable(records)
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Cancel cancels one of the patient's own bookings. The upstream enforces
// ownership and cancellation policy.
func (s *Service) Cancel(ctx context.Context, token, userID, id string) error {
	if err := s.api.CancelPortalAppointment(ctx, token, id); err != nil {
		return err
	}
	s.notifier.Notify(notice.TopicFor(userID), notice.LevelInfo, "Your appointment has been cancelled.")
	return nil
}
