package store

import (
	"fmt"

	"github.com/sadopc/agentcal/internal/schedule"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

const (
	SettingDefaultType     = "default_schedule_type"
	SettingDefaultTimeSlot = "default_time_slot"
)

// FormDefaults are the values the add-schedule form starts with.
type FormDefaults struct {
	Type     schedule.Type
	TimeSlot string
}

// GetFormDefaults reads the form defaults, ignoring stored values that are
// no longer valid choices.
func (s *Store) GetFormDefaults() (FormDefaults, error) {
	var d FormDefaults
	t, err := s.GetSetting(SettingDefaultType)
	if err != nil {
		return d, err
	}
	for _, known := range schedule.Types {
		if string(known) == t {
			d.Type = known
		}
	}
	slot, err := s.GetSetting(SettingDefaultTimeSlot)
	if err != nil {
		return d, err
	}
	if schedule.IsTimeSlot(slot) {
		d.TimeSlot = slot
	}
	return d, nil
}

func (s *Store) SetFormDefaults(d FormDefaults) error {
	if d.TimeSlot != "" && !schedule.IsTimeSlot(d.TimeSlot) {
		return fmt.Errorf("set form defaults: %q is not a time slot", d.TimeSlot)
	}
	if err := s.SetSetting(SettingDefaultType, string(d.Type)); err != nil {
		return err
	}
	return s.SetSetting(SettingDefaultTimeSlot, d.TimeSlot)
}
