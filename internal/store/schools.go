package store

import (
	"fmt"
	"time"

	"github.com/sadopc/agentcal/internal/schedule"
)

func (s *Store) CreateSchool(name string) (*School, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`INSERT INTO schools (name, created_at) VALUES (?, ?)`, name, now)
	if err != nil {
		return nil, fmt.Errorf("insert school: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSchool(id)
}

func (s *Store) GetSchool(id int64) (*School, error) {
	sc := &School{}
	var createdAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, archived, created_at FROM schools WHERE id = ?`, id,
	).Scan(&sc.ID, &sc.Name, &archived, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get school %d: %w", id, err)
	}
	sc.Archived = archived == 1
	if sc.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("get school %d: created_at %q: %w", id, createdAt, err)
	}
	return sc, nil
}

func (s *Store) ArchiveSchool(id int64) error {
	_, err := s.db.Exec(`UPDATE schools SET archived = 1 WHERE id = ?`, id)
	return err
}

// ListSchools returns the selectable (non-archived) schools by name.
func (s *Store) ListSchools() ([]schedule.Option, error) {
	return s.listOptions(`SELECT id, name FROM schools WHERE archived = 0 ORDER BY name`, "schools")
}

// AllSchools includes archived schools, so old schedules still resolve names.
func (s *Store) AllSchools() ([]schedule.Option, error) {
	return s.listOptions(`SELECT id, name FROM schools ORDER BY name`, "schools")
}

func (s *Store) listOptions(query, what string) ([]schedule.Option, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()

	var opts []schedule.Option
	for rows.Next() {
		var o schedule.Option
		if err := rows.Scan(&o.ID, &o.DisplayName); err != nil {
			return nil, err
		}
		opts = append(opts, o)
	}
	return opts, rows.Err()
}
