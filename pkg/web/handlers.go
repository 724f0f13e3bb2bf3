package web

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/neurobeat-io/neurobeat/pkg/classifier"
	"github.com/neurobeat-io/neurobeat/pkg/eeg"
	"github.com/neurobeat-io/neurobeat/pkg/hub"
	"github.com/neurobeat-io/neurobeat/pkg/pipeline"
	"github.com/neurobeat-io/neurobeat/pkg/tracks"
)

// handleStatus reports service liveness.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"msg":    "EEG to music API running",
	})
}

// handleMusicSets lists the available music sets. A missing waves
// directory is an empty listing, not an error.
func (s *Server) handleMusicSets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"sets": s.lib.Sets()})
}

// handleExercises lists the configured exercise names.
func (s *Server) handleExercises(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"exercises": tracks.Exercises()})
}

// handleAssignTracks maps the movement classes of :exercise onto the files
// of music set :set. Each request draws a fresh seed; reproducibility is a
// property of the tracks package, not of the endpoint.
func (s *Server) handleAssignTracks(c *fiber.Ctx) error {
	setName := c.Params("set")
	exercise := c.Params("exercise")

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	mapping, err := s.lib.Assign(setName, exercise, rng)
	if err != nil {
		return s.trackError(c, err)
	}

	return c.JSON(fiber.Map{
		"set":      setName,
		"exercise": exercise,
		"mapping":  mapping,
	})
}

func (s *Server) trackError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, tracks.ErrSetNotFound), errors.Is(err, tracks.ErrExerciseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, tracks.ErrNotEnoughTracks):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// handleStreamCSV classifies one stored recording end to end and returns
// the timeline and per-epoch spectrograms. Entries are also broadcast to
// timeline websocket clients as they are produced.
func (s *Server) handleStreamCSV(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" || filename != filepath.Base(filename) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "file not found: " + filename,
		})
	}

	// existence and model checks come before any parsing or inference
	path := filepath.Join(s.cfg.EEGDir, filename)
	f, err := os.Open(path)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "file not found: " + filename,
		})
	}
	defer f.Close()

	if s.scorer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "model not loaded",
		})
	}

	sig, err := eeg.DecodeCSV(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	orch := pipeline.New(s.scorer, pipeline.Config{
		SampleRate:     s.cfg.SampleRate,
		EpochLen:       s.cfg.EpochLen,
		Stride:         s.cfg.Stride,
		Threshold:      s.cfg.Threshold,
		Layers:         s.cfg.ClassLayers,
		SpectroChannel: s.cfg.SpectroChannel,
		Workers:        s.cfg.Workers,
		Logger:         s.logger,
	})
	orch.OnEpoch = func(entry pipeline.TimelineEntry) {
		if err := s.timelineHub.BroadcastJSON(entry); err != nil {
			s.logger.Debug("timeline broadcast failed", "error", err)
		}
	}

	res, err := orch.Scan(c.UserContext(), sig)
	if err != nil {
		if errors.Is(err, classifier.ErrModelUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "model not loaded",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"file":     filename,
		"timeline": res.Timeline,
		"epochs":   res.Spectrograms,
	})
}

// handleTimelineWS streams timeline entries of running scans.
func (s *Server) handleTimelineWS(c *websocket.Conn) {
	client := hub.NewClient(s.timelineHub, c)
	client.Run()
}
