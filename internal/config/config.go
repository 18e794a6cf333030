package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kiliankoe/scribbledash/internal/game"
)

type Config struct {
	Port           string
	LogLevel       string
	TotalRounds    int
	DrawSeconds    int
	GuessInterval  time.Duration
	WordsFile      string
	CORSOrigins    []string
	ExportEnabled  bool
	ExportFile     string
	MetricsEnabled bool
}

// FromEnv reads the configuration from the environment. When CONFIG_FILE is
// set, that file is read first and the environment still wins.
func FromEnv() (Config, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("total_rounds", 3)
	v.SetDefault("draw_seconds", 60)
	v.SetDefault("guess_interval_ms", 500)
	v.SetDefault("words_file", "")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("export_enabled", false)
	v.SetDefault("export_file", "./scribbledash-results.txt")
	v.SetDefault("metrics_enabled", true)
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	c := Config{
		Port:           v.GetString("port"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		TotalRounds:    v.GetInt("total_rounds"),
		DrawSeconds:    v.GetInt("draw_seconds"),
		GuessInterval:  time.Duration(v.GetInt("guess_interval_ms")) * time.Millisecond,
		WordsFile:      v.GetString("words_file"),
		CORSOrigins:    splitList(v.GetString("cors_origins")),
		ExportEnabled:  v.GetBool("export_enabled"),
		ExportFile:     v.GetString("export_file"),
		MetricsEnabled: v.GetBool("metrics_enabled"),
	}
	if c.TotalRounds < 1 {
		return Config{}, fmt.Errorf("TOTAL_ROUNDS must be at least 1, got %d", c.TotalRounds)
	}
	if c.DrawSeconds < 1 {
		return Config{}, fmt.Errorf("DRAW_SECONDS must be at least 1, got %d", c.DrawSeconds)
	}
	return c, nil
}

// Settings derives the per-room game settings.
func (c Config) Settings() game.Settings {
	s := game.DefaultSettings()
	s.TotalRounds = c.TotalRounds
	s.DrawSeconds = c.DrawSeconds
	s.GuessInterval = c.GuessInterval
	// hints stay at the half and quarter mark of a longer or shorter turn
	if c.DrawSeconds != 60 {
		s.HintAt = []int{c.DrawSeconds / 2, c.DrawSeconds / 4}
	}
	return s
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
