package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExportGameAppends(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results", "games.txt")
	res := GameResult{
		RoomID:      "ABC123",
		TotalRounds: 2,
		Ranked:      []Player{{Name: "Carol", Score: 300}, {Name: "Alice", Score: 5}},
		Words:       []string{"apple", "pear"},
		EndedAt:     time.Date(2024, 3, 1, 20, 15, 0, 0, time.UTC),
	}

	rec := &FileRecorder{Path: file}
	if err := rec.RecordGame(res); err != nil {
		t.Fatalf("should be able to export: %v", err)
	}
	res.RoomID = "XYZ789"
	if err := rec.RecordGame(res); err != nil {
		t.Fatalf("should be able to export again: %v", err)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("should be able to read export: %v", err)
	}
	out := string(b)
	for _, want := range []string{
		"Room ABC123",
		"Room XYZ789",
		"Ended: 2024-03-01 20:15:00",
		"1. apple",
		"1. Carol: 300 points",
		"2. Alice: 5 points",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected export to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Index(out, "ABC123") > strings.Index(out, "XYZ789") {
		t.Fatal("games should be appended in order")
	}
}
