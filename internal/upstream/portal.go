package upstream

import (
	"context"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// PatientUser is a patient portal account.
type PatientUser struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// PortalRegistration creates a new portal account.
type PortalRegistration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// PortalLoginResult carries the portal token pair and account profile.
type PortalLoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	Patient      PatientUser `json:"patient"`
}

// PortalDoctor is a bookable doctor as shown to portal patients.
type PortalDoctor struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// PortalBookingRequest books an appointment from the patient portal.
type PortalBookingRequest struct {
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	ServiceType     string `json:"serviceType"`
	ReasonForVisit  string `json:"reasonForVisit,omitempty"`
}

func (c *Client) RegisterPatient(ctx context.Context, reg PortalRegistration) (*PatientUser, error) {
	var out PatientUser
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, "").SetBody(reg).SetResult(&out).Post("/patient-portal/register")
	}, "portal register")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PatientLogin(ctx context.Context, email, password string) (*PortalLoginResult, error) {
	var out PortalLoginResult
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, "").
			SetBody(map[string]string{"email": email, "password": password}).
			SetResult(&out).
			Post("/patient-portal/login")
	}, "portal login")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PatientProfile(ctx context.Context, token string) (*PatientUser, error) {
	var out PatientUser
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/patient-portal/profile")
	}, "portal profile")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PortalDoctors(ctx context.Context, token string) ([]PortalDoctor, error) {
	var out struct {
		Doctors []PortalDoctor `json:"doctors"`
	}
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/patient-portal/doctors")
	}, "portal doctors")
	if err != nil {
		return nil, err
	}
	return out.Doctors, nil
}

func (c *Client) AvailableDates(ctx context.Context, token, doctorID string) ([]string, error) {
	var out struct {
		Dates []string `json:"dates"`
	}
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).
			Get("/patient-portal/doctors/" + doctorID + "/available-dates")
	}, "portal available dates")
	if err != nil {
		return nil, err
	}
	return out.Dates, nil
}

func (c *Client) AvailableSlots(ctx context.Context, token, doctorID, date string) ([]string, error) {
	var out struct {
		Slots []string `json:"slots"`
	}
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).
			Get("/patient-portal/doctors/" + doctorID + "/available-slots?date=" + url.QueryEscape(date))
	}, "portal available slots")
	if err != nil {
		return nil, err
	}
	return out.Slots, nil
}

func (c *Client) BookAppointment(ctx context.Context, token string, req PortalBookingRequest) (*Appointment, error) {
	var out Appointment
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetBody(req).SetResult(&out).Post("/patient-portal/appointments")
	}, "portal book appointment")
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyAppointments(ctx context.Context, token string) ([]Appointment, error) {
	var out struct {
		Appointments []Appointment `json:"appointments"`
	}
	err := c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).SetResult(&out).Get("/patient-portal/appointments")
	}, "portal my appointments")
	if err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

func (c *Client) CancelPortalAppointment(ctx context.Context, token, id string) error {
	return c.execute(func() (*resty.Response, error) {
		return c.req(ctx, token).Post("/patient-portal/appointments/" + id + "/cancel")
	}, "portal cancel appointment")
}
