package upstream

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// PatientRef is the embedded patient document on staff-booked appointments.
type PatientRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
}

// PatientUserRef is the embedded portal account on portal-booked appointments.
type PatientUserRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Appointment is the raw upstream appointment document. The backend is
// inconsistent about how the patient is referenced: staff bookings embed a
// patient document, portal bookings embed a patient-user document, and some
// historical rows carry only a flat name. Callers normalize through
// appointment.Normalize and never work with this shape directly.
type Appointment struct {
	ID              string          `json:"_id"`
	Patient         *PatientRef     `json:"patient,omitempty"`
	PatientUser     *PatientUserRef `json:"patientUserId,omitempty"`
	PatientName     string          `json:"patientName,omitempty"`
	DoctorID        string          `json:"doctorId,omitempty"`
	DoctorName      string          `json:"doctorName"`
	AppointmentDate string          `json:"appointmentDate"`
	AppointmentTime string          `json:"appointmentTime"`
	ServiceType     string          `json:"serviceType"`
	Status          string          `json:"status"`
	ContactInfo     string          `json:"contactInfo,omitempty"`
	BookingSource   string          `json:"bookingSource,omitempty"`
	ReasonForVisit  string          `json:"reasonForVisit,omitempty"`
}

// CreateAppointmentRequest is a staff-entered appointment.
type CreateAppointmentRequest struct {
	PatientID       string `json:"patientId"`
	DoctorID        string `json:"doctorId"`
	DoctorName      string `json:"doctorName"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	ServiceType     string `json:"serviceType"`
	ContactInfo     string `json:"contactInfo,omitempty"`
	ReasonForVisit  string `json:"reasonForVisit,omitempty"`
}

// RescheduleRequest moves an appointment to a new date and slot time.
type RescheduleRequest struct {
	NewDate string `json:"newDate"`
	NewTime string `json:"newTime"`
	Reason  string `json:"reason"`
}

func (c *Client) ListAppointments(ctx context.Context, token string) ([]Appointment, error) {
	var out struct {
		Appointments []Appointment `json:"appointments"`
	}
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/appointments")
	}, "list appointments")
	if err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

func (c *Client) GetAppointment(ctx context.Context, token, id string) (*Appointment, error) {
	var out Appointment
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/appointments/" + id)
	}, "get appointment")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAppointment(ctx context.Context, token string, req CreateAppointmentRequest) (*Appointment, error) {
	var out Appointment
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(req).SetResult(&out).Post("/appointments")
	}, "create appointment")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, token, id, status string) error {
	body := map[string]string{"status": status}
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(body).Patch("/appointments/" + id + "/status")
	}, "update appointment status")
}

func (c *Client) RescheduleAppointment(ctx context.Context, token, id string, req RescheduleRequest) error {
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(req).Post("/appointments/" + id + "/reschedule")
	}, "reschedule appointment")
}
