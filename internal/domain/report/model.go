package report

import (
	"strings"
	"time"

	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/settings"
)

// Mode selects what a report covers. Date modes take a window around the
// chosen date; status modes cover every appointment in that status.
type Mode string

const (
	ModeDay       Mode = "day"
	ModeWeek      Mode = "week"
	ModeMonth     Mode = "month"
	ModeNoShow    Mode = "no-show"
	ModeCancelled Mode = "cancelled"
	ModeCompleted Mode = "completed"
)

var validModes = map[Mode]bool{
	ModeDay: true, ModeWeek: true, ModeMonth: true,
	ModeNoShow: true, ModeCancelled: true, ModeCompleted: true,
}

func ValidMode(m Mode) bool { return validModes[m] }

// statusModes maps status modes to the status they report on.
var statusModes = map[Mode]appointment.Status{
	ModeNoShow:    appointment.StatusNoShow,
	ModeCancelled: appointment.StatusCancelled,
	ModeCompleted: appointment.StatusCompleted,
}

// DoctorSection is one doctor's block in a report.
type DoctorSection struct {
	Doctor       settings.Doctor      `json:"doctor"`
	Appointments []appointment.Record `json:"appointments"`
	Count        int                  `json:"count"`

	// NoShowNames is only set for the no-show report: the affected patient
	// names joined for the summary line.
	NoShowNames string `json:"no_show_names,omitempty"`
}

// Report is a generated report document.
type Report struct {
	Mode        Mode            `json:"mode"`
	Title       string          `json:"title"`
	ClinicName  string          `json:"clinic_name"`
	WindowLabel string          `json:"window_label,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Sections    []DoctorSection `json:"sections"`
	Total       int             `json:"total"`
}

// Empty reports whether the report matched no appointments at all.
func (r *Report) Empty() bool { return r.Total == 0 }

// titles per mode.
var modeTitles = map[Mode]string{
	ModeDay:       "Daily Appointment Report",
	ModeWeek:      "Weekly Appointment Report",
	ModeMonth:     "Monthly Appointment Report",
	ModeNoShow:    "No-Show Report",
	ModeCancelled: "Cancelled Appointments Report",
	ModeCompleted: "Completed Appointments Report",
}

// MatchDoctor resolves which registry doctor an appointment belongs to.
// Registry ID wins, then exact name. Older rows predate the registry and
// carry only a free-text doctor name, so the last resort is the historical
// keyword match on name fragments.
func MatchDoctor(r appointment.Record, doctors []settings.Doctor) *settings.Doctor {
	for i := range doctors {
		if doctors[i].ID != "" && doctors[i].ID == r.DoctorID {
			return &doctors[i]
		}
	}
	for i := range doctors {
		if doctors[i].Name == r.DoctorName {
			return &doctors[i]
		}
	}

	name := strings.ToLower(r.DoctorName)
	var track settings.Track
	switch {
	case strings.Contains(name, "maria") || strings.Contains(name, "ob"):
		track = settings.TrackObGyne
	case strings.Contains(name, "shara") || strings.Contains(name, "pedia"):
		track = settings.TrackPediatrics
	default:
		return nil
	}
	for i := range doctors {
		if doctors[i].Track == track {
			return &doctors[i]
		}
	}
	return nil
}
