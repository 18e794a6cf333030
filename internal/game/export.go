package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ExportGame appends a finished game to a plain text results file.
func ExportGame(res GameResult, filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if fileExists {
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Scribbledash Game Results - Room %s\n", res.RoomID))
	sb.WriteString(fmt.Sprintf("Ended: %s\n", res.EndedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Rounds: %d\n", res.TotalRounds))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	if len(res.Words) > 0 {
		sb.WriteString("Words:\n")
		for i, w := range res.Words {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, w))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Final scores:\n")
	for i, p := range res.Ranked {
		sb.WriteString(fmt.Sprintf("%d. %s: %d points\n", i+1, p.Name, p.Score))
	}
	sb.WriteString(strings.Repeat("-", 40) + "\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

// FileRecorder exports every finished game to Path. Rooms finish
// concurrently, so writes are serialized.
type FileRecorder struct {
	Path string
	mu   sync.Mutex
}

func (f *FileRecorder) RecordGame(res GameResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ExportGame(res, f.Path)
}
