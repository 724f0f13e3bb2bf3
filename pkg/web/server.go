// Package web exposes the neurobeat HTTP API: music set listing, track
// assignment, EEG classification and the live timeline websocket.
package web

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/neurobeat-io/neurobeat/internal/config"
	"github.com/neurobeat-io/neurobeat/pkg/classifier"
	"github.com/neurobeat-io/neurobeat/pkg/hub"
	"github.com/neurobeat-io/neurobeat/pkg/tracks"
)

// Server is the neurobeat API server.
type Server struct {
	app    *fiber.App
	cfg    config.Config
	scorer classifier.Scorer
	lib    *tracks.Library
	logger *slog.Logger

	// timelineHub streams timeline entries to websocket clients while
	// a scan runs.
	timelineHub *hub.Hub
}

// NewServer creates the API server. scorer may be nil; classification
// requests are then refused with a model-unavailable error while the rest
// of the API keeps working.
func NewServer(cfg config.Config, scorer classifier.Scorer, logger *slog.Logger) *Server {
	s := &Server{
		cfg:         cfg,
		scorer:      scorer,
		lib:         tracks.NewLibrary(cfg.WavesDir),
		logger:      logger.With("component", "web"),
		timelineHub: hub.New("timeline"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "neurobeat",
		DisableStartupMessage: true,
	})

	// CORS for local frontend development
	app.Use(cors.New())
	app.Use(s.requestLogger)

	// Static assets: frontend bundle, audio layers, sample recordings
	app.Static("/static", cfg.StaticDir)
	app.Static("/Waves", cfg.WavesDir)
	app.Static("/sample_EEG", cfg.EEGDir)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile(cfg.StaticDir + "/index.html")
	})

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/music_sets", s.handleMusicSets)
	api.Get("/available_exercises", s.handleExercises)
	api.Get("/assign_tracks/:set/:exercise", s.handleAssignTracks)
	api.Get("/stream_csv/:filename", s.handleStreamCSV)

	// websocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/timeline", websocket.New(s.handleTimelineWS))

	s.app = app
	return s
}

// requestLogger tags each request with an ID and logs its outcome.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	id := uuid.NewString()
	c.Locals("request_id", id)
	start := time.Now()

	err := c.Next()

	s.logger.Info("request",
		"id", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration_ms", time.Since(start).Milliseconds())
	return err
}

// Start runs the server. It blocks until shutdown.
func (s *Server) Start() error {
	go s.timelineHub.Run()
	s.logger.Info("listening", "port", s.cfg.Port)
	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.Port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
