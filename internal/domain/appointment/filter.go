package appointment

import (
	"sort"
	"strings"
	"time"
)

// Tab is the dashboard's status grouping.
type Tab string

const (
	TabActive    Tab = "active"
	TabCompleted Tab = "completed"
	TabAll       Tab = "all"
)

var tabStatuses = map[Tab]map[Status]bool{
	TabActive:    {StatusScheduled: true, StatusConfirmed: true, StatusInProgress: true},
	TabCompleted: {StatusCompleted: true, StatusCancelled: true, StatusNoShow: true},
}

// DateRange selects the visible time window.
type DateRange string

const (
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeAll   DateRange = "all"
)

// DoctorRef identifies a doctor for filtering and grouping. ID is the
// registry identity; Name covers legacy rows that carry only a free-text
// doctor name.
type DoctorRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (d DoctorRef) matches(r Record) bool {
	if d.ID != "" && d.ID == r.DoctorID {
		return true
	}
	return d.Name != "" && d.Name == r.DoctorName
}

// Filter is the four-dimensional appointment filter. All active predicates
// are ANDed. The zero value (empty search, no doctors, TabAll, RangeAll)
// passes everything.
type Filter struct {
	Search  string
	Doctors []DoctorRef // empty = all doctors
	Tab     Tab
	Range   DateRange

	// Now anchors the date-range windows; zero means time.Now().
	Now time.Time
}

func (f Filter) anchor() time.Time {
	if f.Now.IsZero() {
		return time.Now()
	}
	return f.Now
}

// Apply returns the records passing every active predicate, in stable order
// (date, then time of day, then ID). The input slice is not modified.
func (f Filter) Apply(records []Record) []Record {
	now := f.anchor()
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.matchSearch(r) && f.matchDoctor(r) && f.matchTab(r) && f.matchRange(r, now) {
			out = append(out, r)
		}
	}
	SortStable(out)
	return out
}

func (f Filter) matchSearch(r Record) bool {
	q := strings.TrimSpace(f.Search)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.PatientName), strings.ToLower(q))
}

func (f Filter) matchDoctor(r Record) bool {
	if len(f.Doctors) == 0 {
		return true
	}
	for _, d := range f.Doctors {
		if d.matches(r) {
			return true
		}
	}
	return false
}

func (f Filter) matchTab(r Record) bool {
	statuses, ok := tabStatuses[f.Tab]
	if !ok {
		// TabAll and unknown tabs pass everything.
		return true
	}
	return statuses[r.Status]
}

func (f Filter) matchRange(r Record, now time.Time) bool {
	if r.Date.IsZero() {
		// Records with unparseable dates only show without a window.
		return f.Range == RangeAll || f.Range == ""
	}
	switch f.Range {
	case RangeToday:
		return sameDay(r.Date, now)
	case RangeWeek:
		start := weekStart(now)
		end := start.AddDate(0, 0, 7)
		return !r.Date.Before(start) && r.Date.Before(end)
	case RangeMonth:
		return r.Date.Year() == now.Year() && r.Date.Month() == now.Month()
	default:
		return true
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// weekStart returns local midnight of the Sunday on or before d.
func weekStart(d time.Time) time.Time {
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// SortStable orders records by date, then time of day, then ID. Sorting is
// deterministic so pagination never shuffles rows between refetches.
func SortStable(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		si, sj := records[i].StartTime(), records[j].StartTime()
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return records[i].ID < records[j].ID
	})
}

// DoctorGroup is one doctor's card in the list view.
type DoctorGroup struct {
	Doctor       DoctorRef `json:"doctor"`
	Appointments []Record  `json:"appointments"`
	Empty        bool      `json:"empty"`
}

// GroupByDoctor arranges a page of records into per-doctor cards. Roster
// doctors come first in roster order; doctors found only on records (legacy
// names not in the registry) follow in order of appearance. When showEmpty
// is set, as in the "today" view, roster doctors with no appointments still
// get a card, marked Empty.
func GroupByDoctor(page []Record, roster []DoctorRef, showEmpty bool) []DoctorGroup {
	groups := make([]DoctorGroup, 0, len(roster))
	index := make(map[string]int) // doctor name -> group index

	for _, d := range roster {
		index[d.Name] = len(groups)
		groups = append(groups, DoctorGroup{Doctor: d, Appointments: []Record{}})
	}

	for _, r := range page {
		gi := -1
		for i := range groups {
			if groups[i].Doctor.matches(r) {
				gi = i
				break
			}
		}
		if gi < 0 {
			if i, ok := index[r.DoctorName]; ok {
				gi = i
			} else {
				index[r.DoctorName] = len(groups)
				groups = append(groups, DoctorGroup{
					Doctor:       DoctorRef{ID: r.DoctorID, Name: r.DoctorName},
					Appointments: []Record{},
				})
				gi = len(groups) - 1
			}
		}
		groups[gi].Appointments = append(groups[gi].Appointments, r)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Appointments) == 0 {
			if !showEmpty {
				continue
			}
			g.Empty = true
		}
		out = append(out, g)
	}
	return out
}
