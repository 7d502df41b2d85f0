package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/agentcal/internal/calendar"
	"github.com/sadopc/agentcal/internal/schedule"
)

var ErrNoDate = errors.New("schedule has no date")

const scheduleColumns = `id, type, amount_cents, remarks, date, time_label, date_time_label, status, created_at`

// Append stores r with its school and category links and returns it with the
// assigned ID. It satisfies schedule.Store.
func (s *Store) Append(r schedule.Record) (schedule.Record, error) {
	if r.Date.IsZero() {
		d, ok := r.Day()
		if !ok {
			return schedule.Record{}, ErrNoDate
		}
		r.Date = d
	}
	if r.Status == "" {
		r.Status = schedule.StatusScheduled
	}
	if !r.Status.Valid() {
		return schedule.Record{}, fmt.Errorf("append schedule: unknown status %q", r.Status)
	}
	if r.DateTimeLabel == "" {
		r.DateTimeLabel = schedule.FormatLabel(r.Date, r.TimeLabel)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC().Truncate(time.Second)

	tx, err := s.db.Begin()
	if err != nil {
		return schedule.Record{}, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO schedules (type, amount_cents, remarks, date, time_label, date_time_label, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.Type), r.ExpectedAmount.Cents, r.Remarks, r.Date.String(),
		r.TimeLabel, r.DateTimeLabel, string(r.Status), r.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return schedule.Record{}, fmt.Errorf("insert schedule: %w", err)
	}
	r.ID, _ = res.LastInsertId()

	for _, id := range r.SchoolIDs {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO schedule_schools (schedule_id, school_id) VALUES (?, ?)`, r.ID, id); err != nil {
			return schedule.Record{}, fmt.Errorf("link school %d: %w", id, err)
		}
	}
	for _, id := range r.ExpenseCategoryIDs {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO schedule_expense_categories (schedule_id, category_id) VALUES (?, ?)`, r.ID, id); err != nil {
			return schedule.Record{}, fmt.Errorf("link expense category %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return schedule.Record{}, fmt.Errorf("commit append: %w", err)
	}
	return s.GetSchedule(r.ID)
}

// All returns every schedule in insertion order. It satisfies schedule.Store.
func (s *Store) All() ([]schedule.Record, error) {
	return s.querySchedules(`SELECT `+scheduleColumns+` FROM schedules ORDER BY id`, nil)
}

func (s *Store) GetSchedule(id int64) (schedule.Record, error) {
	recs, err := s.querySchedules(`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, []any{id})
	if err != nil {
		return schedule.Record{}, fmt.Errorf("get schedule %d: %w", id, err)
	}
	if len(recs) == 0 {
		return schedule.Record{}, fmt.Errorf("get schedule %d: %w", id, sql.ErrNoRows)
	}
	return recs[0], nil
}

// ListSchedules returns schedules matching f ordered by date and time.
func (s *Store) ListSchedules(f ScheduleFilter) ([]schedule.Record, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE 1=1`
	var args []any

	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, f.From.String())
	}
	if f.To != nil {
		query += ` AND date < ?`
		args = append(args, f.To.String())
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.SchoolID != nil {
		query += ` AND id IN (SELECT schedule_id FROM schedule_schools WHERE school_id = ?)`
		args = append(args, *f.SchoolID)
	}
	query += ` ORDER BY date, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	recs, err := s.querySchedules(query, args)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	sortByStart(recs)
	return recs, nil
}

// SchedulesInMonth lists the schedules dated within m.
func (s *Store) SchedulesInMonth(m calendar.Month) ([]schedule.Record, error) {
	from := m.First()
	to := m.Add(1).First()
	return s.ListSchedules(ScheduleFilter{From: &from, To: &to})
}

// UpdateScheduleStatus moves a schedule through its lifecycle.
func (s *Store) UpdateScheduleStatus(id int64, status schedule.Status) error {
	if !status.Valid() {
		return fmt.Errorf("update schedule %d: unknown status %q", id, status)
	}
	res, err := s.db.Exec(`UPDATE schedules SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update schedule %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update schedule %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// GetStatusTotals aggregates count and expected amount per status for
// schedules dated in [from, to).
func (s *Store) GetStatusTotals(from, to calendar.Date) ([]StatusTotal, error) {
	rows, err := s.db.Query(`
		SELECT status, COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM schedules
		WHERE date >= ? AND date < ?
		GROUP BY status
		ORDER BY status`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("status totals: %w", err)
	}
	defer rows.Close()

	var totals []StatusTotal
	for rows.Next() {
		var t StatusTotal
		var status string
		if err := rows.Scan(&status, &t.Count, &t.Amount.Cents); err != nil {
			return nil, err
		}
		t.Status = schedule.Status(status)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// GetDayCounts returns the number of schedules per day in [from, to), only
// for days that have any.
func (s *Store) GetDayCounts(from, to calendar.Date) ([]DayCount, error) {
	rows, err := s.db.Query(`
		SELECT date, COUNT(*)
		FROM schedules
		WHERE date >= ? AND date < ?
		GROUP BY date
		ORDER BY date`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("day counts: %w", err)
	}
	defer rows.Close()

	var counts []DayCount
	for rows.Next() {
		var c DayCount
		var day string
		if err := rows.Scan(&day, &c.Count); err != nil {
			return nil, err
		}
		if c.Date, err = calendar.ParseISO(day); err != nil {
			return nil, fmt.Errorf("day counts: date %q: %w", day, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// querySchedules scans schedule rows and then attaches their links. The rows
// are fully drained first: the pool holds a single connection.
func (s *Store) querySchedules(query string, args []any) ([]schedule.Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	var recs []schedule.Record
	for rows.Next() {
		r, err := scanSchedule(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		recs = append(recs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachLinks(recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func scanSchedule(rows *sql.Rows) (schedule.Record, error) {
	var r schedule.Record
	var typ, day, status, createdAt string
	if err := rows.Scan(&r.ID, &typ, &r.ExpectedAmount.Cents, &r.Remarks, &day,
		&r.TimeLabel, &r.DateTimeLabel, &status, &createdAt); err != nil {
		return r, err
	}
	r.Type = schedule.Type(typ)
	r.Status = schedule.Status(status)
	var err error
	if r.Date, err = calendar.ParseISO(day); err != nil {
		return r, fmt.Errorf("schedule %d: date %q: %w", r.ID, day, err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return r, fmt.Errorf("schedule %d: created_at %q: %w", r.ID, createdAt, err)
	}
	return r, nil
}

func (s *Store) attachLinks(recs []schedule.Record) error {
	if len(recs) == 0 {
		return nil
	}
	pos := make(map[int64]int, len(recs))
	ids := make([]any, len(recs))
	for i, r := range recs {
		pos[r.ID] = i
		ids[i] = r.ID
	}
	in := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	links := []struct {
		query string
		add   func(r *schedule.Record, id int64)
	}{
		{
			`SELECT schedule_id, school_id FROM schedule_schools WHERE schedule_id IN (` + in + `) ORDER BY schedule_id, school_id`,
			func(r *schedule.Record, id int64) { r.SchoolIDs = append(r.SchoolIDs, id) },
		},
		{
			`SELECT schedule_id, category_id FROM schedule_expense_categories WHERE schedule_id IN (` + in + `) ORDER BY schedule_id, category_id`,
			func(r *schedule.Record, id int64) { r.ExpenseCategoryIDs = append(r.ExpenseCategoryIDs, id) },
		},
	}
	for _, l := range links {
		rows, err := s.db.Query(l.query, ids...)
		if err != nil {
			return fmt.Errorf("load schedule links: %w", err)
		}
		for rows.Next() {
			var sid, id int64
			if err := rows.Scan(&sid, &id); err != nil {
				rows.Close()
				return err
			}
			l.add(&recs[pos[sid]], id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

// sortByStart orders records by date then time of day, keeping ID order for
// ties.
func sortByStart(recs []schedule.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.Minutes() < b.Minutes()
	})
}
