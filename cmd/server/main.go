package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/kiliankoe/scribbledash/internal/config"
	"github.com/kiliankoe/scribbledash/internal/game"
	"github.com/kiliankoe/scribbledash/internal/metrics"
	"github.com/kiliankoe/scribbledash/internal/words"
	"github.com/kiliankoe/scribbledash/internal/ws"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Scribbledash - Real-time draw and guess party game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  LOG_LEVEL           trace, debug, info, warn or error (default: info)
  TOTAL_ROUNDS        Rounds per game (default: 3)
  DRAW_SECONDS        Seconds per drawing turn (default: 60)
  GUESS_INTERVAL_MS   Minimum time between two guesses of a player (default: 500)
  WORDS_FILE          Word list with one word per line (default: built-in list)
  CORS_ORIGINS        Comma separated allowed origins (default: *)
  EXPORT_ENABLED      Export game results to file (default: false)
  EXPORT_FILE         Path to export game results (default: ./scribbledash-results.txt)
  METRICS_ENABLED     Serve Prometheus metrics on /metrics (default: true)
  CONFIG_FILE         Optional YAML file with the same keys in lower case

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Scribbledash %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	cfg, err := config.FromEnv()
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		zerologlog.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	wordList := words.Embedded()
	if cfg.WordsFile != "" {
		wordList, err = words.LoadFile(cfg.WordsFile)
		if err != nil {
			zerologlog.Fatal().Err(err).Msg("failed to load word list")
		}
	}
	zerologlog.Info().Int("words", len(wordList)).Msg("word list loaded")

	var recorder game.Recorder
	if cfg.ExportEnabled {
		recorder = &game.FileRecorder{Path: cfg.ExportFile}
		zerologlog.Info().Str("file", cfg.ExportFile).Msg("exporting game results")
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Socket server + room directory
	m := metrics.New("scribbledash")
	sock := ws.New(m)
	rm := game.NewRoomManager(game.Options{
		Settings: cfg.Settings(),
		Words:    words.New(wordList, 0),
		Emitter:  sock,
		Recorder: recorder,
	})
	sock.SetRoomManager(rm)
	io := sock.Mount(r)
	defer io.Close()

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC(), "rooms": rm.Count()})
	})
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	zerologlog.Info().Str("port", port).Str("version", version).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server stopped")
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
