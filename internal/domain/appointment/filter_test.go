package appointment

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func rec(id, patient, doctorID, doctorName string, date time.Time, tod string, status Status) Record {
	return Record{
		ID: id, PatientName: patient,
		DoctorID: doctorID, DoctorName: doctorName,
		Date: date, DateISO: date.Format("2006-01-02"), TimeOfDay: tod,
		Status: status,
	}
}

// Saturday March 15 2025; the week containing it starts Sunday March 9.
var anchor = time.Date(2025, 3, 15, 10, 0, 0, 0, time.Local)

func sampleRecords() []Record {
	return []Record{
		rec("a1", "Maria Santos", "d1", "Dr. Maria Sarah", day(2025, 3, 15), "09:00 AM", StatusScheduled),
		rec("a2", "Juan Dela Cruz", "d2", "Dr. Shara Mae", day(2025, 3, 15), "02:30 PM", StatusConfirmed),
		rec("a3", "Marco Reyes", "d1", "Dr. Maria Sarah", day(2025, 3, 12), "10:00 AM", StatusCompleted),
		rec("a4", "Ana Lim", "d2", "Dr. Shara Mae", day(2025, 3, 9), "09:30 AM", StatusCancelled),
		rec("a5", "Liza Cruz", "d1", "Dr. Maria Sarah", day(2025, 3, 8), "11:00 AM", StatusConfirmed),
		rec("a6", "Maria Aquino", "d2", "Dr. Shara Mae", day(2025, 4, 2), "01:00 PM", StatusScheduled),
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func sameIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterZeroValuePassesEverything(t *testing.T) {
	records := sampleRecords()
	got := Filter{Now: anchor}.Apply(records)
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	// Sorted by date then time.
	if !sameIDs(ids(got), "a5", "a4", "a3", "a1", "a2", "a6") {
		t.Errorf("order = %v", ids(got))
	}
}

func TestFilterSearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := Filter{Search: "mar", Now: anchor}.Apply(sampleRecords())
	// Matches Maria Santos, Marco Reyes, Maria Aquino on patient name only.
	if !sameIDs(ids(got), "a3", "a1", "a6") {
		t.Errorf("got %v", ids(got))
	}
}

func TestFilterTabs(t *testing.T) {
	records := sampleRecords()
	active := Filter{Tab: TabActive, Now: anchor}.Apply(records)
	if !sameIDs(ids(active), "a5", "a1", "a2", "a6") {
		t.Errorf("active = %v", ids(active))
	}
	done := Filter{Tab: TabCompleted, Now: anchor}.Apply(records)
	if !sameIDs(ids(done), "a4", "a3") {
		t.Errorf("completed = %v", ids(done))
	}
	if n := len(active) + len(done); n != len(records) {
		t.Errorf("tabs should partition the set: %d + %d != %d", len(active), len(done), len(records))
	}
}

func TestFilterDateRanges(t *testing.T) {
	records := sampleRecords()

	today := Filter{Range: RangeToday, Now: anchor}.Apply(records)
	if !sameIDs(ids(today), "a1", "a2") {
		t.Errorf("today = %v", ids(today))
	}

	// Week starts Sunday March 9: a4 (Mar 9) is in, a5 (Mar 8, a Saturday)
	// is out.
	week := Filter{Range: RangeWeek, Now: anchor}.Apply(records)
	if !sameIDs(ids(week), "a4", "a3", "a1", "a2") {
		t.Errorf("week = %v", ids(week))
	}

	month := Filter{Range: RangeMonth, Now: anchor}.Apply(records)
	if !sameIDs(ids(month), "a5", "a4", "a3", "a1", "a2") {
		t.Errorf("month = %v", ids(month))
	}
}

func TestFilterWeekBoundaryOnSunday(t *testing.T) {
	// When today is Sunday, the week window starts today, not last week.
	sunday := time.Date(2025, 3, 9, 8, 0, 0, 0, time.Local)
	records := []Record{
		rec("sat", "A", "d1", "", day(2025, 3, 8), "09:00 AM", StatusScheduled),
		rec("sun", "B", "d1", "", day(2025, 3, 9), "09:00 AM", StatusScheduled),
	}
	got := Filter{Range: RangeWeek, Now: sunday}.Apply(records)
	if !sameIDs(ids(got), "sun") {
		t.Errorf("got %v", ids(got))
	}
}

func TestFilterDoctorMatchesByIDOrExactName(t *testing.T) {
	records := []Record{
		rec("byID", "A", "d1", "Dr. Renamed", day(2025, 3, 15), "09:00 AM", StatusScheduled),
		rec("byName", "B", "", "Dr. Maria Sarah", day(2025, 3, 15), "09:30 AM", StatusScheduled),
		rec("other", "C", "d2", "Dr. Shara Mae", day(2025, 3, 15), "10:00 AM", StatusScheduled),
	}
	f := Filter{Doctors: []DoctorRef{{ID: "d1", Name: "Dr. Maria Sarah"}}, Now: anchor}
	got := f.Apply(records)
	if !sameIDs(ids(got), "byID", "byName") {
		t.Errorf("got %v", ids(got))
	}
}

func TestFilterPredicatesAreConjoined(t *testing.T) {
	records := sampleRecords()
	combined := Filter{
		Search:  "mar",
		Doctors: []DoctorRef{{ID: "d1", Name: "Dr. Maria Sarah"}},
		Tab:     TabActive,
		Range:   RangeWeek,
		Now:     anchor,
	}
	got := combined.Apply(records)

	// Applying each predicate separately and intersecting must agree.
	inAll := map[string]int{}
	for _, f := range []Filter{
		{Search: "mar", Now: anchor},
		{Doctors: combined.Doctors, Now: anchor},
		{Tab: TabActive, Now: anchor},
		{Range: RangeWeek, Now: anchor},
	} {
		for _, r := range f.Apply(records) {
			inAll[r.ID]++
		}
	}
	var want []string
	for _, r := range (Filter{Now: anchor}).Apply(records) {
		if inAll[r.ID] == 4 {
			want = append(want, r.ID)
		}
	}
	if !sameIDs(ids(got), want...) {
		t.Errorf("combined = %v, intersection = %v", ids(got), want)
	}
	if !sameIDs(ids(got), "a1") {
		t.Errorf("expected only Maria Santos's scheduled visit, got %v", ids(got))
	}
}

func TestFilterUnparseableDateOnlyInAllRange(t *testing.T) {
	broken := Record{ID: "x", PatientName: "A", TimeOfDay: "09:00 AM", Status: StatusScheduled}
	for _, r := range []DateRange{RangeToday, RangeWeek, RangeMonth} {
		if got := (Filter{Range: r, Now: anchor}).Apply([]Record{broken}); len(got) != 0 {
			t.Errorf("range %q should hide undated records", r)
		}
	}
	if got := (Filter{Range: RangeAll, Now: anchor}).Apply([]Record{broken}); len(got) != 1 {
		t.Error("all range should keep undated records")
	}
}

func TestGroupByDoctor(t *testing.T) {
	roster := []DoctorRef{
		{ID: "d1", Name: "Dr. Maria Sarah"},
		{ID: "d2", Name: "Dr. Shara Mae"},
	}
	page := []Record{
		rec("a1", "A", "d2", "Dr. Shara Mae", day(2025, 3, 15), "09:00 AM", StatusScheduled),
		rec("a2", "B", "", "Dr. Locum", day(2025, 3, 15), "10:00 AM", StatusScheduled),
	}

	t.Run("today view keeps empty roster cards", func(t *testing.T) {
		groups := GroupByDoctor(page, roster, true)
		if len(groups) != 3 {
			t.Fatalf("got %d groups", len(groups))
		}
		if groups[0].Doctor.Name != "Dr. Maria Sarah" || !groups[0].Empty || len(groups[0].Appointments) != 0 {
			t.Errorf("first group = %+v", groups[0])
		}
		if groups[1].Doctor.ID != "d2" || len(groups[1].Appointments) != 1 {
			t.Errorf("second group = %+v", groups[1])
		}
		if groups[2].Doctor.Name != "Dr. Locum" {
			t.Errorf("legacy doctor should be appended, got %+v", groups[2])
		}
	})

	t.Run("other views drop empty cards", func(t *testing.T) {
		groups := GroupByDoctor(page, roster, false)
		if len(groups) != 2 {
			t.Fatalf("got %d groups", len(groups))
		}
		for _, g := range groups {
			if g.Empty || len(g.Appointments) == 0 {
				t.Errorf("unexpected empty group %+v", g)
			}
		}
	})
}
