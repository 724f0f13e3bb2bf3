// Neurobeat - EEG motor-intent classification server
// Streams windowed EEG recordings through a remote scorer and maps
// predicted movements onto music layers.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/neurobeat-io/neurobeat/internal/config"
	"github.com/neurobeat-io/neurobeat/internal/log"
	"github.com/neurobeat-io/neurobeat/pkg/classifier"
	"github.com/neurobeat-io/neurobeat/pkg/web"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP listen port")
	scorerURL := flag.String("scorer-url", cfg.ScorerURL, "Base URL of the scoring service (empty disables scoring)")
	wavesDir := flag.String("waves-dir", cfg.WavesDir, "Directory of music sets")
	eegDir := flag.String("eeg-dir", cfg.EEGDir, "Directory of sample EEG recordings")
	workers := flag.Int("workers", cfg.Workers, "Epoch scoring workers (1 = sequential)")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flag.Parse()

	cfg.Port = *port
	cfg.ScorerURL = *scorerURL
	cfg.WavesDir = *wavesDir
	cfg.EEGDir = *eegDir
	cfg.Workers = *workers
	cfg.LogLevel = *logLevel

	log.Init(cfg.LogLevel)
	logger := log.L()

	var scorer classifier.Scorer
	if cfg.ScorerURL != "" {
		remote, err := classifier.NewRemote(
			classifier.WithBaseURL(cfg.ScorerURL),
			classifier.WithLogger(logger),
		)
		if err != nil {
			logger.Error("scorer init failed", "error", err)
			os.Exit(1)
		}
		defer remote.Close()
		scorer = remote

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := remote.Health(ctx); err != nil {
			logger.Warn("scorer not reachable yet", "url", cfg.ScorerURL, "error", err)
		}
		cancel()
	} else {
		logger.Warn("no scorer configured, stream endpoints will report the model as unavailable")
	}

	srv := web.NewServer(cfg, scorer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
	}
}
