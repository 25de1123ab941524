package appointment

import (
	"testing"
	"time"

	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

func TestParseClockTime(t *testing.T) {
	cases := []struct {
		in        string
		hour, min int
	}{
		{"12:00 AM", 0, 0},
		{"12:30 am", 0, 30},
		{"01:00 AM", 1, 0},
		{"9:15 AM", 9, 15},
		{"12:00 PM", 12, 0},
		{"02:30 PM", 14, 30},
		{"11:45 PM", 23, 45},
	}
	for _, tc := range cases {
		hour, min, err := ParseClockTime(tc.in)
		if err != nil {
			t.Fatalf("ParseClockTime(%q): %v", tc.in, err)
		}
		if hour != tc.hour || min != tc.min {
			t.Errorf("ParseClockTime(%q) = %d:%d, want %d:%d", tc.in, hour, min, tc.hour, tc.min)
		}
	}

	for _, bad := range []string{"", "14:00", "02:30", "02 PM", "banana AM", "02:xx PM"} {
		if _, _, err := ParseClockTime(bad); err == nil {
			t.Errorf("ParseClockTime(%q): expected error", bad)
		}
	}
}

func TestClockTimeRoundTrip(t *testing.T) {
	for _, slot := range ScheduleSlots {
		hour, min, err := ParseClockTime(slot)
		if err != nil {
			t.Fatalf("slot %q does not parse: %v", slot, err)
		}
		if got := FormatClockTime(hour, min); got != slot {
			t.Errorf("round trip of %q = %q", slot, got)
		}
	}
}

func TestParseLocalDateKeepsCalendarDay(t *testing.T) {
	// A midnight-UTC timestamp must stay on its own calendar day even in a
	// timezone behind UTC.
	d, err := ParseLocalDate("2025-03-15T00:00:00.000Z")
	if err != nil {
		t.Fatal(err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 15 {
		t.Errorf("got %v, want 2025-03-15", d)
	}
	if d.Location() != time.Local {
		t.Errorf("expected local time, got %v", d.Location())
	}

	plain, err := ParseLocalDate("2025-03-15")
	if err != nil {
		t.Fatal(err)
	}
	if !plain.Equal(d) {
		t.Errorf("plain and timestamp forms differ: %v vs %v", plain, d)
	}

	for _, bad := range []string{"", "2025-13-01", "2025-02-40", "15/03/2025", "2025-03"} {
		if _, err := ParseLocalDate(bad); err == nil {
			t.Errorf("ParseLocalDate(%q): expected error", bad)
		}
	}
}

func TestNormalizePatientShapes(t *testing.T) {
	t.Run("staff booking with populated patient", func(t *testing.T) {
		rec := Normalize(upstream.Appointment{
			ID:              "a1",
			Patient:         &upstream.PatientRef{ID: "p1", FirstName: "Maria", LastName: "Santos"},
			AppointmentDate: "2025-03-15T00:00:00.000Z",
			AppointmentTime: "2:30 pm",
			Status:          "scheduled",
		})
		if rec.BookingSource != SourceStaff {
			t.Errorf("source = %q", rec.BookingSource)
		}
		if rec.PatientName != "Maria Santos" || rec.PatientRef != "p1" {
			t.Errorf("patient = %q / %q", rec.PatientName, rec.PatientRef)
		}
		if rec.DateISO != "2025-03-15" || rec.TimeOfDay != "02:30 PM" {
			t.Errorf("canonical date/time = %q %q", rec.DateISO, rec.TimeOfDay)
		}
	})

	t.Run("portal booking", func(t *testing.T) {
		rec := Normalize(upstream.Appointment{
			ID:          "a2",
			PatientUser: &upstream.PatientUserRef{ID: "u1", FirstName: "Ana", LastName: "Reyes"},
		})
		if rec.BookingSource != SourcePortal {
			t.Errorf("source = %q", rec.BookingSource)
		}
		if rec.PatientName != "Ana Reyes" {
			t.Errorf("patient = %q", rec.PatientName)
		}
	})

	t.Run("legacy flat name", func(t *testing.T) {
		rec := Normalize(upstream.Appointment{ID: "a3", PatientName: "Walk-in Juan"})
		if rec.PatientName != "Walk-in Juan" || rec.BookingSource != SourceStaff {
			t.Errorf("got %q / %q", rec.PatientName, rec.BookingSource)
		}
	})

	t.Run("nothing at all", func(t *testing.T) {
		rec := Normalize(upstream.Appointment{ID: "a4"})
		if rec.PatientName != "Unknown Patient" {
			t.Errorf("patient = %q", rec.PatientName)
		}
	})

	t.Run("explicit source wins", func(t *testing.T) {
		rec := Normalize(upstream.Appointment{
			ID:            "a5",
			Patient:       &upstream.PatientRef{ID: "p2", FullName: "Liza Cruz"},
			BookingSource: SourcePortal,
		})
		if rec.BookingSource != SourcePortal {
			t.Errorf("source = %q", rec.BookingSource)
		}
	})

	t.Run("invalid date kept raw", func(t *testing.T) {
		rec := Normalize(upstream.Appointment{ID: "a6", AppointmentDate: "soon", AppointmentTime: "later"})
		if rec.DateISO != "soon" || rec.TimeOfDay != "later" {
			t.Errorf("got %q %q", rec.DateISO, rec.TimeOfDay)
		}
		if !rec.Date.IsZero() {
			t.Error("parsed date should be zero")
		}
	})
}

func TestAllowedActions(t *testing.T) {
	cases := []struct {
		status Status
		want   []Action
	}{
		{StatusScheduled, []Action{ActionConfirm, ActionCancel, ActionReschedule}},
		{StatusConfirmed, []Action{ActionComplete, ActionCancel, ActionReschedule}},
		{StatusInProgress, nil},
		{StatusCompleted, nil},
		{StatusCancelled, nil},
		{StatusNoShow, nil},
	}
	for _, tc := range cases {
		got := AllowedActions(tc.status)
		if len(got) != len(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.status, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: got %v, want %v", tc.status, got, tc.want)
				break
			}
		}
	}
}

func TestStartTimeOrdersWithinDay(t *testing.T) {
	day := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)
	morning := Record{Date: day, TimeOfDay: "09:00 AM"}
	afternoon := Record{Date: day, TimeOfDay: "02:30 PM"}
	if !morning.StartTime().Before(afternoon.StartTime()) {
		t.Error("09:00 AM should sort before 02:30 PM")
	}
	broken := Record{Date: day, TimeOfDay: "whenever"}
	if !broken.StartTime().Equal(day) {
		t.Error("unparseable time should fall back to midnight")
	}
}
