package store

import (
	"fmt"
	"time"

	"github.com/sadopc/agentcal/internal/schedule"
)

func (s *Store) CreateExpenseCategory(name string) (*ExpenseCategory, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`INSERT INTO expense_categories (name, created_at) VALUES (?, ?)`, name, now)
	if err != nil {
		return nil, fmt.Errorf("insert expense category: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetExpenseCategory(id)
}

func (s *Store) GetExpenseCategory(id int64) (*ExpenseCategory, error) {
	c := &ExpenseCategory{}
	var createdAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, archived, created_at FROM expense_categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &archived, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get expense category %d: %w", id, err)
	}
	c.Archived = archived == 1
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("get expense category %d: created_at %q: %w", id, createdAt, err)
	}
	return c, nil
}

func (s *Store) ArchiveExpenseCategory(id int64) error {
	_, err := s.db.Exec(`UPDATE expense_categories SET archived = 1 WHERE id = ?`, id)
	return err
}

func (s *Store) ListExpenseCategories() ([]schedule.Option, error) {
	return s.listOptions(`SELECT id, name FROM expense_categories WHERE archived = 0 ORDER BY name`, "expense categories")
}

func (s *Store) AllExpenseCategories() ([]schedule.Option, error) {
	return s.listOptions(`SELECT id, name FROM expense_categories ORDER BY name`, "expense categories")
}
