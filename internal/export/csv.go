// Package export writes a user's focus session history to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/selahfocus/selah/internal/backend"
)

func ToCSV(sessions []backend.FocusSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Completed", "Duration (min)", "Duration", "Recorded"}); err != nil {
		return err
	}

	for _, s := range sessions {
		row := []string{
			s.ID,
			s.CompletedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", s.DurationMinutes),
			formatMinutes(s.DurationMinutes),
			s.CreatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
