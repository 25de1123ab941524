package patient

import (
	"regexp"
	"strings"
	"time"

	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

// Type selects which record object a patient chart carries.
type Type string

const (
	TypePediatric Type = "pediatric"
	TypeObGyne    Type = "ob-gyne"
)

// phonePattern accepts Philippine mobile numbers, local or international
// format.
var phonePattern = regexp.MustCompile(`^(09\d{9}|\+639\d{9})$`)

// ValidPhone reports whether s is an acceptable contact number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// validBirthday requires a parseable date that is not in the future.
func validBirthday(s string, now time.Time) bool {
	d, err := appointment.ParseLocalDate(s)
	if err != nil {
		return false
	}
	return !d.After(now)
}

// Summary is one row of the patient list, flattened from whichever record
// the chart carries.
type Summary struct {
	ID            string `json:"id"`
	Type          Type   `json:"type"`
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number,omitempty"`
	Birthday      string `json:"birthday,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Summarize flattens an upstream patient document for the list view.
func Summarize(p upstream.Patient) Summary {
	s := Summary{ID: p.ID, Type: Type(p.PatientType), Status: p.Status}
	switch {
	case p.Pediatric != nil:
		s.Name = p.Pediatric.NameOfChildren
		s.ContactNumber = p.Pediatric.ContactNumber
		s.Birthday = p.Pediatric.Birthday
	case p.ObGyne != nil:
		s.Name = p.ObGyne.PatientName
		s.ContactNumber = p.ObGyne.ContactNumber
		s.Birthday = p.ObGyne.Birthday
	}
	if s.Name == "" {
		s.Name = "Unknown Patient"
	}
	return s
}

// Validate reports per-field problems on a patient document before it is
// written upstream. Exactly one record object must be present and must
// match the declared type.
func Validate(p upstream.Patient, now time.Time) map[string]string {
	problems := map[string]string{}

	switch Type(p.PatientType) {
	case TypePediatric:
		if p.Pediatric == nil {
			problems["pediatric_record"] = "pediatric record is required"
			break
		}
		r := p.Pediatric
		if strings.TrimSpace(r.NameOfChildren) == "" {
			problems["name_of_children"] = "child's name is required"
		}
		if strings.TrimSpace(r.NameOfMother) == "" {
			problems["name_of_mother"] = "mother's name is required"
		}
		if strings.TrimSpace(r.Address) == "" {
			problems["address"] = "address is required"
		}
		if !ValidPhone(r.ContactNumber) {
			problems["contact_number"] = "contact number must be a valid PH mobile number"
		}
		if !validBirthday(r.Birthday, now) {
			problems["birthday"] = "birthday must be a valid past date"
		}
	case TypeObGyne:
		if p.ObGyne == nil {
			problems["ob_gyne_record"] = "ob-gyne record is required"
			break
		}
		r := p.ObGyne
		if strings.TrimSpace(r.PatientName) == "" {
			problems["patient_name"] = "patient name is required"
		}
		if strings.TrimSpace(r.Address) == "" {
			problems["address"] = "address is required"
		}
		if !ValidPhone(r.ContactNumber) {
			problems["contact_number"] = "contact number must be a valid PH mobile number"
		}
		if !validBirthday(r.Birthday, now) {
			problems["birthday"] = "birthday must be a valid past date"
		}
	default:
		problems["patient_type"] = "patient type must be pediatric or ob-gyne"
	}
	return problems
}

// ValidateConsultation checks a visit note before it is appended.
func ValidateConsultation(c upstream.Consultation, now time.Time) map[string]string {
	problems := map[string]string{}
	if d, err := appointment.ParseLocalDate(c.Date); err != nil || d.After(now) {
		problems["date"] = "date must be a valid past or present date"
	}
	if strings.TrimSpace(c.Complaint) == "" && strings.TrimSpace(c.Diagnosis) == "" {
		problems["complaint"] = "a complaint or diagnosis is required"
	}
	return problems
}

// ValidateImmunization checks a vaccine record before it is appended.
func ValidateImmunization(im upstream.Immunization, now time.Time) map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(im.Vaccine) == "" {
		problems["vaccine"] = "vaccine name is required"
	}
	if d, err := appointment.ParseLocalDate(im.Date); err != nil || d.After(now) {
		problems["date"] = "date must be a valid past or present date"
	}
	return problems
}
