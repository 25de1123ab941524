package calendar

import (
	"time"

	"github.com/Alreriabiceps/clinic-sched/internal/domain/appointment"
	"github.com/Alreriabiceps/clinic-sched/internal/domain/settings"
)

// View is a calendar layout.
type View string

const (
	ViewMonth  View = "month"
	ViewWeek   View = "week"
	ViewDay    View = "day"
	ViewAgenda View = "agenda"
)

var validViews = map[View]bool{ViewMonth: true, ViewWeek: true, ViewDay: true, ViewAgenda: true}

// NavAction moves the anchor date.
type NavAction string

const (
	NavPrev  NavAction = "prev"
	NavNext  NavAction = "next"
	NavToday NavAction = "today"
)

// EventDuration is the fixed display length of an appointment block.
const EventDuration = 30 * time.Minute

// Track and status colours for event blocks. Confirmed appointments use the
// saturated variant of their doctor's track colour.
const (
	colorCancelled     = "#ef4444"
	colorCompleted     = "#22c55e"
	colorObGyne        = "#f9a8d4"
	colorObGyneStrong  = "#ec4899"
	colorPedia         = "#93c5fd"
	colorPediaStrong   = "#3b82f6"
	colorUnknown       = "#9ca3af"
	colorUnknownStrong = "#6b7280"
)

// Event is one appointment block on the calendar.
type Event struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Start       time.Time          `json:"start"`
	End         time.Time          `json:"end"`
	Color       string             `json:"color"`
	Status      appointment.Status `json:"status"`
	DoctorID    string             `json:"doctor_id,omitempty"`
	DoctorName  string             `json:"doctor_name"`
	ServiceType string             `json:"service_type,omitempty"`
}

// Holiday is an inert calendar decoration; holidays never block booking.
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// holiday is a fixed month/day observance.
type holiday struct {
	month time.Month
	day   int
	name  string
}

var holidays = []holiday{
	{time.January, 1, "New Year's Day"},
	{time.April, 9, "Araw ng Kagitingan"},
	{time.May, 1, "Labor Day"},
	{time.June, 12, "Independence Day"},
	{time.August, 21, "Ninoy Aquino Day"},
	{time.November, 1, "All Saints' Day"},
	{time.November, 30, "Bonifacio Day"},
	{time.December, 25, "Christmas Day"},
	{time.December, 30, "Rizal Day"},
}

// HolidaysIn returns the observances falling inside [start, end).
func HolidaysIn(start, end time.Time) []Holiday {
	out := []Holiday{}
	for year := start.Year(); year <= end.Year(); year++ {
		for _, h := range holidays {
			d := time.Date(year, h.month, h.day, 0, 0, 0, 0, start.Location())
			if !d.Before(start) && d.Before(end) {
				out = append(out, Holiday{Date: d, Name: h.name})
			}
		}
	}
	return out
}

// EventColor picks the block colour for a record. Terminal statuses win;
// otherwise the doctor's track decides, saturated when confirmed.
func EventColor(r appointment.Record, track settings.Track) string {
	switch r.Status {
	case appointment.StatusCancelled, appointment.StatusNoShow:
		return colorCancelled
	case appointment.StatusCompleted:
		return colorCompleted
	}
	confirmed := r.Status == appointment.StatusConfirmed
	switch track {
	case settings.TrackObGyne:
		if confirmed {
			return colorObGyneStrong
		}
		return colorObGyne
	case settings.TrackPediatrics:
		if confirmed {
			return colorPediaStrong
		}
		return colorPedia
	default:
		if confirmed {
			return colorUnknownStrong
		}
		return colorUnknown
	}
}

// ToEvent maps a record onto a fixed-length calendar block.
func ToEvent(r appointment.Record, track settings.Track) Event {
	start := r.StartTime()
	return Event{
		ID:          r.ID,
		Title:       r.PatientName,
		Start:       start,
		End:         start.Add(EventDuration),
		Color:       EventColor(r, track),
		Status:      r.Status,
		DoctorID:    r.DoctorID,
		DoctorName:  r.DoctorName,
		ServiceType: r.ServiceType,
	}
}

// Window is the visible date span of a view, [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// agendaSpan is how far ahead the agenda view looks.
const agendaSpan = 30

// WindowFor computes the visible span for a view anchored at a date.
func WindowFor(view View, anchor time.Time) Window {
	midnight := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	switch view {
	case ViewWeek:
		start := midnight.AddDate(0, 0, -int(midnight.Weekday()))
		return Window{Start: start, End: start.AddDate(0, 0, 7),
			Label: start.Format("Jan 2") + " - " + start.AddDate(0, 0, 6).Format("Jan 2, 2006")}
	case ViewDay:
		return Window{Start: midnight, End: midnight.AddDate(0, 0, 1),
			Label: midnight.Format("Monday, January 2, 2006")}
	case ViewAgenda:
		return Window{Start: midnight, End: midnight.AddDate(0, 0, agendaSpan),
			Label: midnight.Format("Jan 2") + " - " + midnight.AddDate(0, 0, agendaSpan-1).Format("Jan 2, 2006")}
	default: // month
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		return Window{Start: start, End: start.AddDate(0, 1, 0), Label: start.Format("January 2006")}
	}
}

// Navigate moves the anchor by one step of the view. Today resets to now
// regardless of view.
func Navigate(view View, anchor time.Time, action NavAction, now time.Time) time.Time {
	step := 1
	if action == NavPrev {
		step = -1
	}
	switch action {
	case NavToday:
		return now
	case NavPrev, NavNext:
		switch view {
		case ViewWeek:
			return anchor.AddDate(0, 0, 7*step)
		case ViewDay:
			return anchor.AddDate(0, 0, step)
		case ViewAgenda:
			return anchor.AddDate(0, 0, agendaSpan*step)
		default:
			return anchor.AddDate(0, step, 0)
		}
	default:
		return anchor
	}
}

// SlotDraft is the create-form prefill produced by clicking an open
// calendar slot.
type SlotDraft struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// DraftForSlot snaps a clicked instant to the clinic's bookable slot grid.
// Clicks outside clinic hours land on the nearest slot.
func DraftForSlot(at time.Time) SlotDraft {
	best := appointment.ScheduleSlots[0]
	bestDiff := time.Duration(1<<62 - 1)
	clicked := time.Duration(at.Hour())*time.Hour + time.Duration(at.Minute())*time.Minute
	for _, slot := range appointment.ScheduleSlots {
		hour, min, err := appointment.ParseClockTime(slot)
		if err != nil {
			continue
		}
		d := time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute - clicked
		if d < 0 {
			d = -d
		}
		if d < bestDiff {
			bestDiff = d
			best = slot
		}
	}
	return SlotDraft{Date: at.Format("2006-01-02"), Time: best}
}
