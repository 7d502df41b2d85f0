// Package export writes schedules to CSV, JSON and iCalendar files.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sadopc/agentcal/internal/schedule"
)

// Catalog resolves school and expense category ids to names.
type Catalog struct {
	Schools           []schedule.Option
	ExpenseCategories []schedule.Option
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatICS  Format = "ics"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatICS}

// ParseFormats accepts a single format name or "all".
func ParseFormats(s string) ([]Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return Formats, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return []Format{f}, nil
		}
	}
	return nil, fmt.Errorf("unknown export format %q", s)
}

// FileName returns the file name used for f, stamped with the date.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("agentcal-schedules-%s.%s", now.Format("20060102"), f)
}

// All writes every format in formats to dir concurrently and returns the
// written paths in format order.
func All(ctx context.Context, records []schedule.Record, cat Catalog, dir string, formats []Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	now := time.Now()
	paths := make([]string, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		path := filepath.Join(dir, FileName(f, now))
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch f {
			case FormatCSV:
				return ToCSV(records, cat, path)
			case FormatJSON:
				return ToJSON(records, cat, path)
			case FormatICS:
				return ToICS(records, cat, time.Local, path)
			}
			return fmt.Errorf("unknown export format %q", f)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
