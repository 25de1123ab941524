package settings

import (
	"fmt"
	"strings"

	"github.com/Alreriabiceps/clinic-sched/internal/upstream"
)

// Track is a doctor's clinical specialty, used for calendar colouring and
// report grouping.
type Track string

const (
	TrackObGyne     Track = "OB-GYNE"
	TrackPediatrics Track = "Pediatrics"
)

var validTracks = map[Track]bool{TrackObGyne: true, TrackPediatrics: true}

// Weekday keys for the weekly hours grid, Sunday first to match the
// calendar layout.
var WeekDays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// DayHours is one day of a doctor's consultation hours.
type DayHours struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Closed bool   `json:"closed"`
}

// Doctor is a registry entry. The ID is stable; the display name may be
// edited freely without breaking appointment references.
type Doctor struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Track       Track               `json:"track"`
	WeeklyHours map[string]DayHours `json:"weekly_hours"`
}

// Settings is the clinic configuration document.
type Settings struct {
	ClinicName string   `json:"clinic_name"`
	Doctors    []Doctor `json:"doctors"`
}

// Defaults returns the built-in configuration used when neither the
// upstream nor the cache can supply one.
func Defaults(clinicName string) *Settings {
	hours := func() map[string]DayHours {
		h := make(map[string]DayHours, len(WeekDays))
		for _, d := range WeekDays {
			h[d] = DayHours{Start: "09:00", End: "17:00", Closed: d == "sunday"}
		}
		return h
	}
	return &Settings{
		ClinicName: clinicName,
		Doctors: []Doctor{
			{ID: "obgyne", Name: "Dr. Maria Sarah", Track: TrackObGyne, WeeklyHours: hours()},
			{ID: "pedia", Name: "Dr. Shara Mae", Track: TrackPediatrics, WeeklyHours: hours()},
		},
	}
}

// Validate reports per-field problems on a settings document before it is
// written upstream.
func (s Settings) Validate() map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(s.ClinicName) == "" {
		problems["clinic_name"] = "clinic name is required"
	}
	if len(s.Doctors) == 0 {
		problems["doctors"] = "at least one doctor is required"
	}
	seen := map[string]bool{}
	for i, d := range s.Doctors {
		key := func(field string) string { return fmt.Sprintf("doctors.%d.%s", i, field) }
		if strings.TrimSpace(d.Name) == "" {
			problems[key("name")] = "name is required"
		}
		if !validTracks[d.Track] {
			problems[key("track")] = "track must be OB-GYNE or Pediatrics"
		}
		if d.ID != "" && seen[d.ID] {
			problems[key("id")] = "duplicate doctor id"
		}
		seen[d.ID] = true
		for day, h := range d.WeeklyHours {
			if h.Closed {
				continue
			}
			if !validClock(h.Start) || !validClock(h.End) || h.Start >= h.End {
				problems[key("weekly_hours."+day)] = "hours must be a valid HH:MM range"
			}
		}
	}
	return problems
}

// validClock accepts 24-hour "HH:MM" strings.
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	return hh < 24 && mm < 60
}

// fromUpstream normalizes the upstream document.
func fromUpstream(in upstream.ClinicSettings) *Settings {
	out := &Settings{ClinicName: in.ClinicName}
	for _, d := range in.Doctors {
		doc := Doctor{ID: d.ID, Name: d.Name, Track: Track(d.Track), WeeklyHours: map[string]DayHours{}}
		for day, h := range d.WeeklyHours {
			doc.WeeklyHours[strings.ToLower(day)] = DayHours(h)
		}
		out.Doctors = append(out.Doctors, doc)
	}
	return out
}

// toUpstream converts back to the wire document.
func toUpstream(in Settings) upstream.ClinicSettings {
	out := upstream.ClinicSettings{ClinicName: in.ClinicName}
	for _, d := range in.Doctors {
		doc := upstream.DoctorSettings{ID: d.ID, Name: d.Name, Track: string(d.Track), WeeklyHours: map[string]upstream.DayHours{}}
		for day, h := range d.WeeklyHours {
			doc.WeeklyHours[day] = upstream.DayHours(h)
		}
		out.Doctors = append(out.Doctors, doc)
	}
	return out
}
