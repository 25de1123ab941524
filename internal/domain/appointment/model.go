package appointment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

// Status is an appointment lifecycle state. Cancelled is terminal; rows are
// never hard-deleted.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

var validStatuses = map[Status]bool{
	StatusScheduled: true, StatusConfirmed: true, StatusInProgress: true,
	StatusCompleted: true, StatusCancelled: true, StatusNoShow: true,
}

// BookingSource tags where an appointment originated.
const (
	SourceStaff  = "staff"
	SourcePortal = "patient_portal"
)

// Action is a staff-initiated status transition.
type Action string

const (
	ActionConfirm    Action = "confirm"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
)

// transitions maps an action to the statuses it is allowed from and the
// status it lands on. Reschedule keeps the current status.
var transitions = map[Action]struct {
	from map[Status]bool
	to   Status
}{
	ActionConfirm:  {from: map[Status]bool{StatusScheduled: true}, to: StatusConfirmed},
	ActionComplete: {from: map[Status]bool{StatusConfirmed: true}, to: StatusCompleted},
	ActionCancel:   {from: map[Status]bool{StatusScheduled: true, StatusConfirmed: true}, to: StatusCancelled},
	ActionReschedule: {
		from: map[Status]bool{StatusScheduled: true, StatusConfirmed: true},
	},
}

// AllowedActions returns the actions the UI may offer for a status, in
// stable display order. A completed or cancelled appointment offers none.
func AllowedActions(s Status) []Action {
	var out []Action
	for _, a := range []Action{ActionConfirm, ActionComplete, ActionCancel, ActionReschedule} {
		if transitions[a].from[s] {
			out = append(out, a)
		}
	}
	return out
}

// RescheduleReason is the fixed reason string sent with every staff
// reschedule request.
const RescheduleReason = "Rescheduled by clinic staff"

// ScheduleSlots is the fixed list of bookable times of day.
var ScheduleSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"01:00 PM", "01:30 PM", "02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM",
	"04:00 PM", "04:30 PM",
}

// IsScheduleSlot reports whether t is one of the bookable slot times.
func IsScheduleSlot(t string) bool {
	for _, s := range ScheduleSlots {
		if s == t {
			return true
		}
	}
	return false
}

// Record is the normalized appointment the rest of the system works with.
// The upstream's three patient shapes are resolved once, here; nothing past
// this package sees the raw document.
type Record struct {
	ID            string `json:"id"`
	BookingSource string `json:"booking_source"`
	PatientRef    string `json:"patient_ref,omitempty"`
	PatientName   string `json:"patient_name"`
	DoctorID      string `json:"doctor_id,omitempty"`
	DoctorName    string `json:"doctor_name"`
	DateISO       string `json:"date"`
	TimeOfDay     string `json:"time"`
	ServiceType   string `json:"service_type"`
	Status        Status `json:"status"`
	ContactInfo   string `json:"contact_info,omitempty"`
	Reason        string `json:"reason_for_visit,omitempty"`

	// Date is the parsed local calendar day; zero when DateISO is invalid.
	Date time.Time `json:"-"`
}

// StartTime returns the record's local start instant, combining the calendar
// day with the parsed time of day. Records with an unparseable time sort at
// the start of their day.
func (r Record) StartTime() time.Time {
	hour, min, err := ParseClockTime(r.TimeOfDay)
	if err != nil {
		return r.Date
	}
	return r.Date.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

// Normalize converts a raw upstream appointment into a Record.
func Normalize(a upstream.Appointment) Record {
	rec := Record{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		DoctorName:  a.DoctorName,
		ServiceType: a.ServiceType,
		Status:      Status(a.Status),
		ContactInfo: a.ContactInfo,
		Reason:      a.ReasonForVisit,
	}

	switch {
	case a.Patient != nil:
		rec.BookingSource = SourceStaff
		rec.PatientRef = a.Patient.ID
		rec.PatientName = a.Patient.FullName
		if rec.PatientName == "" {
			rec.PatientName = strings.TrimSpace(a.Patient.FirstName + " " + a.Patient.LastName)
		}
	case a.PatientUser != nil:
		rec.BookingSource = SourcePortal
		rec.PatientRef = a.PatientUser.ID
		rec.PatientName = strings.TrimSpace(a.PatientUser.FirstName + " " + a.PatientUser.LastName)
	default:
		rec.BookingSource = SourceStaff
		rec.PatientName = a.PatientName
	}
	if a.BookingSource != "" {
		rec.BookingSource = a.BookingSource
	}
	if rec.PatientName == "" {
		rec.PatientName = "Unknown Patient"
	}

	if d, err := ParseLocalDate(a.AppointmentDate); err == nil {
		rec.Date = d
		rec.DateISO = d.Format("2006-01-02")
	} else {
		rec.DateISO = a.AppointmentDate
	}

	if hour, min, err := ParseClockTime(a.AppointmentTime); err == nil {
		rec.TimeOfDay = FormatClockTime(hour, min)
	} else {
		rec.TimeOfDay = a.AppointmentTime
	}

	return rec
}

// NormalizeAll converts a fetched collection.
func NormalizeAll(raw []upstream.Appointment) []Record {
	out := make([]Record, 0, len(raw))
	for _, a := range raw {
		out = append(out, Normalize(a))
	}
	return out
}

// ParseLocalDate parses a date string as a local calendar day. Upstream
// dates arrive either as "2006-01-02" or as a full timestamp; the Y-M-D
// part before any "T" is taken and rebuilt as a local date so the calendar
// day never shifts under a non-UTC timezone.
func ParseLocalDate(s string) (time.Time, error) {
	datePart := s
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart = s[:i]
	}
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// ParseClockTime parses a 12-hour "h:mm AM/PM" time of day. 12 AM maps to
// hour 0; PM adds 12 unless the hour is already 12.
func ParseClockTime(s string) (hour, min int, err error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	meridiem := strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, 0, fmt.Errorf("invalid meridiem in %q", s)
	}

	clock := strings.Split(fields[0], ":")
	if len(clock) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err = strconv.Atoi(clock[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	min, err = strconv.Atoi(clock[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	if hour < 1 || hour > 12 || min < 0 || min > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}

	if meridiem == "AM" {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}
	return hour, min, nil
}

// FormatClockTime renders a 24-hour clock time in the canonical 12-hour
// "hh:mm AM/PM" form.
func FormatClockTime(hour, min int) string {
	meridiem := "AM"
	display := hour
	switch {
	case hour == 0:
		display = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		display = hour - 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", display, min, meridiem)
}
