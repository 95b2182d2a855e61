package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/selahfocus/selah/internal/backend"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID          string `json:"id"`
	CompletedAt string `json:"completed_at"`
	Minutes     int    `json:"duration_minutes"`
	Duration    string `json:"duration"`
	CreatedAt   string `json:"created_at"`
}

func ToJSON(sessions []backend.FocusSession, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
	}

	for _, s := range sessions {
		out.Sessions = append(out.Sessions, jsonSession{
			ID:          s.ID,
			CompletedAt: s.CompletedAt.Local().Format(time.RFC3339),
			Minutes:     s.DurationMinutes,
			Duration:    formatMinutes(s.DurationMinutes),
			CreatedAt:   s.CreatedAt.Local().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
