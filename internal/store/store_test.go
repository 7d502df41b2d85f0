package store

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newCatalog is a test helper that creates two schools and two categories.
func newCatalog(t *testing.T, s *Store) (schools, cats []int64) {
	t.Helper()
	for _, name := range []string{"Riverside High", "Hillcrest Elementary"} {
		sc, err := s.CreateSchool(name)
		if err != nil {
			t.Fatalf("create school: %v", err)
		}
		schools = append(schools, sc.ID)
	}
	for _, name := range []string{"Fuel", "Meals"} {
		c, err := s.CreateExpenseCategory(name)
		if err != nil {
			t.Fatalf("create category: %v", err)
		}
		cats = append(cats, c.ID)
	}
	return schools, cats
}

// appendOn is a test helper that stores a schedule on d at slot.
func appendOn(t *testing.T, s *Store, d calendar.Date, slot string, schools, cats []int64, cents int64) schedule.Record {
	t.Helper()
	r, err := s.Append(schedule.Record{
		Type:               schedule.TypeSchoolVisit,
		SchoolIDs:          schools,
		ExpenseCategoryIDs: cats,
		ExpectedAmount:     schedule.Money{Cents: cents},
		Date:               d,
		TimeLabel:          slot,
		DateTimeLabel:      schedule.FormatLabel(d, slot),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	return r
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/agentcal.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateSchool("Persisted"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen; should not re-migrate or lose data
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	schools, _ := s2.ListSchools()
	if len(schools) != 1 || schools[0].DisplayName != "Persisted" {
		t.Fatalf("schools after reopen = %v", schools)
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Catalog
// ============================================================

func TestCreateAndGetSchool(t *testing.T) {
	s := newTestStore(t)
	sc, err := s.CreateSchool("St. Mary's Academy")
	if err != nil {
		t.Fatal(err)
	}
	if sc.ID == 0 || sc.Name != "St. Mary's Academy" || sc.Archived {
		t.Fatalf("unexpected school: %+v", sc)
	}
	if sc.CreatedAt.IsZero() {
		t.Fatal("created_at not parsed")
	}
	got, err := s.GetSchool(sc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != sc.Name {
		t.Fatalf("got %q", got.Name)
	}
}

func TestCreateSchoolDuplicateName(t *testing.T) {
	s := newTestStore(t)
	s.CreateSchool("Dup")
	if _, err := s.CreateSchool("Dup"); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestGetSchoolNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSchool(999); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListSchoolsSortedAndSkipsArchived(t *testing.T) {
	s := newTestStore(t)
	z, _ := s.CreateSchool("Zion Prep")
	s.CreateSchool("Alder School")
	s.ArchiveSchool(z.ID)

	schools, err := s.ListSchools()
	if err != nil {
		t.Fatal(err)
	}
	if len(schools) != 1 || schools[0].DisplayName != "Alder School" {
		t.Fatalf("ListSchools = %v", schools)
	}
	all, _ := s.AllSchools()
	if len(all) != 2 || all[0].DisplayName != "Alder School" {
		t.Fatalf("AllSchools = %v", all)
	}
}

func TestExpenseCategories(t *testing.T) {
	s := newTestStore(t)
	fuel, err := s.CreateExpenseCategory("Fuel")
	if err != nil {
		t.Fatal(err)
	}
	s.CreateExpenseCategory("Meals")
	s.ArchiveExpenseCategory(fuel.ID)

	cats, _ := s.ListExpenseCategories()
	if len(cats) != 1 || cats[0].DisplayName != "Meals" {
		t.Fatalf("ListExpenseCategories = %v", cats)
	}
	all, _ := s.AllExpenseCategories()
	if len(all) != 2 {
		t.Fatalf("AllExpenseCategories = %v", all)
	}
	if _, err := s.GetExpenseCategory(999); err == nil {
		t.Fatal("expected error for missing category")
	}
}

func TestStoreSatisfiesInterfaces(t *testing.T) {
	var _ schedule.Store = (*Store)(nil)
	var _ schedule.Catalog = (*Store)(nil)
}

// ============================================================
// Schedules
// ============================================================

func TestAppendAndGetSchedule(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	d := calendar.New(2026, time.February, 10)

	r, err := s.Append(schedule.Record{
		Type:               schedule.TypeProductDemo,
		SchoolIDs:          []int64{schools[1], schools[0]},
		ExpenseCategoryIDs: cats[:1],
		ExpectedAmount:     schedule.Money{Cents: 15050},
		Remarks:            "bring the projector",
		Date:               d,
		TimeLabel:          "9:00 AM",
		DateTimeLabel:      "Feb 10, 2026 - 9:00 AM",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.ID == 0 {
		t.Fatal("expected an id")
	}
	if r.Status != schedule.StatusScheduled {
		t.Fatalf("status = %s, want SCHEDULED", r.Status)
	}
	if r.Date != d || r.DateTimeLabel != "Feb 10, 2026 - 9:00 AM" || r.TimeLabel != "9:00 AM" {
		t.Fatalf("date fields = %s %q %q", r.Date, r.DateTimeLabel, r.TimeLabel)
	}
	if len(r.SchoolIDs) != 2 || r.SchoolIDs[0] != schools[0] {
		t.Fatalf("school ids = %v, want sorted", r.SchoolIDs)
	}
	if len(r.ExpenseCategoryIDs) != 1 || r.ExpenseCategoryIDs[0] != cats[0] {
		t.Fatalf("category ids = %v", r.ExpenseCategoryIDs)
	}
	if r.ExpectedAmount.Cents != 15050 || r.Remarks != "bring the projector" {
		t.Fatalf("record = %+v", r)
	}
	if r.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	got, err := s.GetSchedule(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != schedule.TypeProductDemo || len(got.SchoolIDs) != 2 {
		t.Fatalf("GetSchedule = %+v", got)
	}
}

func TestAppendDerivesDateFromLabel(t *testing.T) {
	s := newTestStore(t)
	r, err := s.Append(schedule.Record{Type: schedule.TypeCollection, DateTimeLabel: "Mar 3, 2026 - 1:30 PM"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Date != calendar.New(2026, time.March, 3) {
		t.Fatalf("date = %s", r.Date)
	}
}

func TestAppendWithoutDateFails(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Append(schedule.Record{Type: schedule.TypeCollection}); !errors.Is(err, ErrNoDate) {
		t.Fatalf("expected ErrNoDate, got %v", err)
	}
}

func TestAppendUnknownSchoolRollsBack(t *testing.T) {
	s := newTestStore(t)
	d := calendar.New(2026, time.February, 10)
	_, err := s.Append(schedule.Record{Type: schedule.TypeSchoolVisit, SchoolIDs: []int64{999}, Date: d})
	if err == nil {
		t.Fatal("expected foreign key error")
	}
	all, _ := s.All()
	if len(all) != 0 {
		t.Fatalf("failed append left %d schedules behind", len(all))
	}
}

func TestAppendRejectsUnknownStatus(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append(schedule.Record{Date: calendar.New(2026, 1, 1), Status: "DONE"})
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestGetScheduleNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetSchedule(999); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestCorruptStoredDateIsReported(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	r := appendOn(t, s, calendar.New(2026, 1, 5), "9:00 AM", schools[:1], cats[:1], 100)
	if _, err := s.db.Exec(`UPDATE schedules SET date = 'not-a-date' WHERE id = ?`, r.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetSchedule(r.ID); err == nil || !strings.Contains(err.Error(), "not-a-date") {
		t.Fatalf("GetSchedule err = %v, want the bad date reported", err)
	}
	if _, err := s.All(); err == nil {
		t.Fatal("All should fail on a corrupt date")
	}
}

func TestCorruptCreatedAtIsReported(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	r := appendOn(t, s, calendar.New(2026, 1, 5), "9:00 AM", schools[:1], cats[:1], 100)
	s.db.Exec(`UPDATE schedules SET created_at = 'yesterday' WHERE id = ?`, r.ID)
	s.db.Exec(`UPDATE schools SET created_at = 'yesterday' WHERE id = ?`, schools[0])

	if _, err := s.GetSchedule(r.ID); err == nil || !strings.Contains(err.Error(), "created_at") {
		t.Fatalf("GetSchedule err = %v", err)
	}
	if _, err := s.GetSchool(schools[0]); err == nil {
		t.Fatal("GetSchool should fail on a corrupt created_at")
	}
}

func TestAllInInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	late := appendOn(t, s, calendar.New(2026, 3, 1), "9:00 AM", schools[:1], cats[:1], 100)
	early := appendOn(t, s, calendar.New(2026, 1, 1), "9:00 AM", schools[1:], cats[1:], 200)

	all, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != late.ID || all[1].ID != early.ID {
		t.Fatalf("All = %v", all)
	}
	if all[1].SchoolIDs[0] != schools[1] || all[1].ExpenseCategoryIDs[0] != cats[1] {
		t.Fatalf("links mixed up: %+v", all[1])
	}
}

func TestWorkflowCommitsIntoStore(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	opts, _ := s.ListSchools()
	catOpts, _ := s.ListExpenseCategories()

	w := schedule.NewWorkflow(s, opts, catOpts)
	w.SetType(schedule.TypeSchoolVisit)
	w.ToggleSchool(schools[0])
	w.SetDateLabel("10/02/2026")
	w.SetTimeLabel("9:00 AM")
	w.ToggleExpenseCategory(cats[1])
	w.SetExpectedAmount("500")
	w.Submit()
	if w.State() != schedule.Confirming {
		t.Fatalf("state = %s, errors = %v", w.State(), w.Errors())
	}
	rec, err := w.Confirm()
	if err != nil {
		t.Fatal(err)
	}

	all, _ := s.All()
	if len(all) != 1 || all[0].ID != rec.ID {
		t.Fatalf("All = %v", all)
	}
	if !schedule.HasScheduleOn(calendar.New(2026, time.February, 10), all) {
		t.Fatal("committed schedule not found on its day")
	}
}

func TestListSchedulesFilters(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	a := appendOn(t, s, calendar.New(2026, 1, 1), "2:00 PM", schools[:1], cats, 100)
	b := appendOn(t, s, calendar.New(2026, 1, 1), "8:30 AM", schools[1:], cats, 200)
	c := appendOn(t, s, calendar.New(2026, 1, 15), "9:00 AM", schools, cats, 300)
	appendOn(t, s, calendar.New(2026, 2, 1), "9:00 AM", schools[:1], cats, 400)

	from := calendar.New(2026, 1, 1)
	to := calendar.New(2026, 2, 1)
	got, err := s.ListSchedules(ScheduleFilter{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].ID != b.ID || got[1].ID != a.ID || got[2].ID != c.ID {
		t.Fatalf("January = %v, want ids [%d %d %d]", got, b.ID, a.ID, c.ID)
	}

	got, _ = s.ListSchedules(ScheduleFilter{SchoolID: &schools[1]})
	if len(got) != 2 {
		t.Fatalf("school filter = %d results, want 2", len(got))
	}

	s.UpdateScheduleStatus(c.ID, schedule.StatusCompleted)
	got, _ = s.ListSchedules(ScheduleFilter{Status: schedule.StatusCompleted})
	if len(got) != 1 || got[0].ID != c.ID {
		t.Fatalf("status filter = %v", got)
	}

	got, _ = s.ListSchedules(ScheduleFilter{Limit: 2})
	if len(got) != 2 {
		t.Fatalf("limit = %d results", len(got))
	}
}

func TestSchedulesInMonth(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	appendOn(t, s, calendar.New(2025, 12, 31), "9:00 AM", schools, cats, 1)
	in := appendOn(t, s, calendar.New(2026, 1, 31), "9:00 AM", schools, cats, 1)
	appendOn(t, s, calendar.New(2026, 2, 1), "9:00 AM", schools, cats, 1)

	got, err := s.SchedulesInMonth(calendar.Month{Year: 2026, Month: time.January})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != in.ID {
		t.Fatalf("SchedulesInMonth = %v", got)
	}
}

func TestUpdateScheduleStatus(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	r := appendOn(t, s, calendar.New(2026, 1, 1), "9:00 AM", schools, cats, 1)

	if err := s.UpdateScheduleStatus(r.ID, schedule.StatusCancelled); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetSchedule(r.ID)
	if got.Status != schedule.StatusCancelled {
		t.Fatalf("status = %s", got.Status)
	}
	if err := s.UpdateScheduleStatus(r.ID, "DONE"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if err := s.UpdateScheduleStatus(999, schedule.StatusCompleted); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

// ============================================================
// Aggregates
// ============================================================

func TestGetStatusTotals(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	appendOn(t, s, calendar.New(2026, 1, 1), "9:00 AM", schools, cats, 10000)
	appendOn(t, s, calendar.New(2026, 1, 2), "9:00 AM", schools, cats, 5050)
	done := appendOn(t, s, calendar.New(2026, 1, 3), "9:00 AM", schools, cats, 2500)
	appendOn(t, s, calendar.New(2026, 2, 3), "9:00 AM", schools, cats, 99999)
	s.UpdateScheduleStatus(done.ID, schedule.StatusCompleted)

	totals, err := s.GetStatusTotals(calendar.New(2026, 1, 1), calendar.New(2026, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 statuses, got %v", totals)
	}
	// Ordered by status name: COMPLETED, SCHEDULED
	if totals[0].Status != schedule.StatusCompleted || totals[0].Count != 1 || totals[0].Amount.Cents != 2500 {
		t.Fatalf("completed = %+v", totals[0])
	}
	if totals[1].Status != schedule.StatusScheduled || totals[1].Count != 2 || totals[1].Amount.Cents != 15050 {
		t.Fatalf("scheduled = %+v", totals[1])
	}
}

func TestGetStatusTotalsEmpty(t *testing.T) {
	s := newTestStore(t)
	totals, err := s.GetStatusTotals(calendar.New(2026, 1, 1), calendar.New(2026, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != 0 {
		t.Fatalf("expected no totals, got %v", totals)
	}
}

func TestGetDayCounts(t *testing.T) {
	s := newTestStore(t)
	schools, cats := newCatalog(t, s)
	appendOn(t, s, calendar.New(2026, 1, 1), "9:00 AM", schools, cats, 1)
	appendOn(t, s, calendar.New(2026, 1, 1), "1:00 PM", schools, cats, 1)
	appendOn(t, s, calendar.New(2026, 1, 15), "9:00 AM", schools, cats, 1)

	counts, err := s.GetDayCounts(calendar.New(2026, 1, 1), calendar.New(2026, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 2 {
		t.Fatalf("counts = %v", counts)
	}
	if counts[0].Date != calendar.New(2026, 1, 1) || counts[0].Count != 2 {
		t.Fatalf("first = %+v", counts[0])
	}
	if counts[1].Date != calendar.New(2026, 1, 15) || counts[1].Count != 1 {
		t.Fatalf("second = %+v", counts[1])
	}
}

// ============================================================
// Seed
// ============================================================

func TestSeedDemo(t *testing.T) {
	s := newTestStore(t)
	today := calendar.New(2026, time.February, 10)

	seeded, err := s.SeedDemo(today)
	if err != nil {
		t.Fatal(err)
	}
	if !seeded {
		t.Fatal("empty database should be seeded")
	}
	schools, _ := s.ListSchools()
	cats, _ := s.ListExpenseCategories()
	if len(schools) != len(demoSchools) || len(cats) != len(demoCategories) {
		t.Fatalf("catalog = %d schools, %d categories", len(schools), len(cats))
	}
	all, _ := s.All()
	if len(all) == 0 {
		t.Fatal("no demo schedules")
	}
	if !schedule.HasScheduleOn(today, all) {
		t.Fatal("demo data should include a schedule today")
	}

	again, err := s.SeedDemo(today)
	if err != nil {
		t.Fatal(err)
	}
	if again {
		t.Fatal("second seed should be a no-op")
	}
	after, _ := s.All()
	if len(after) != len(all) {
		t.Fatal("second seed wrote schedules")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		SettingDefaultType:     "School Visit",
		SettingDefaultTimeSlot: "9:00 AM",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("a_custom", "x")
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(all))
	}
	// Should be sorted by key
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestFormDefaults(t *testing.T) {
	s := newTestStore(t)
	d, err := s.GetFormDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if d.Type != schedule.TypeSchoolVisit || d.TimeSlot != "9:00 AM" {
		t.Fatalf("defaults = %+v", d)
	}

	if err := s.SetFormDefaults(FormDefaults{Type: schedule.TypeBookFair, TimeSlot: "2:30 PM"}); err != nil {
		t.Fatal(err)
	}
	d, _ = s.GetFormDefaults()
	if d.Type != schedule.TypeBookFair || d.TimeSlot != "2:30 PM" {
		t.Fatalf("defaults = %+v", d)
	}

	if err := s.SetFormDefaults(FormDefaults{TimeSlot: "7:00 PM"}); err == nil {
		t.Fatal("expected error for a time outside the slots")
	}

	// Stale values read back as unset.
	s.SetSetting(SettingDefaultType, "Retired Type")
	d, _ = s.GetFormDefaults()
	if d.Type != "" {
		t.Fatalf("stale type = %q", d.Type)
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	err := s.Close()
	if err != nil {
		t.Fatalf("first close: %v", err)
	}
}
