// Package config loads process configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Asset directories
	WavesDir  string // per-set audio layers, one subdirectory per music set
	EEGDir    string // sample EEG recordings served and classified by name
	StaticDir string // frontend bundle

	// Signal geometry
	SampleRate int // Hz
	EpochLen   int // samples per epoch (300 = 1.5s at 200 Hz)
	Stride     int // samples between epoch starts

	// Classification
	Threshold      float64 // confidence gate
	SpectroChannel int     // channel rendered in the per-epoch spectrogram
	Workers        int     // parallel epoch scoring (1 = sequential)

	// Scorer sidecar. Empty URL means no model is available and every
	// classification request is refused with a model-unavailable error.
	ScorerURL string

	// ClassLayers maps movement class IDs to the audio layer they enable.
	// Class 2 (neutral) is deliberately absent: it is a valid prediction
	// but never activates a layer.
	ClassLayers map[int]string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port:     envInt("NEUROBEAT_PORT", 8080),
		LogLevel: envStr("NEUROBEAT_LOG_LEVEL", "info"),

		WavesDir:  envStr("NEUROBEAT_WAVES_DIR", "Waves"),
		EEGDir:    envStr("NEUROBEAT_EEG_DIR", "sample_EEG"),
		StaticDir: envStr("NEUROBEAT_STATIC_DIR", "static"),

		SampleRate: envInt("NEUROBEAT_SAMPLE_RATE", 200),
		EpochLen:   envInt("NEUROBEAT_EPOCH_LEN", 300),
		Stride:     envInt("NEUROBEAT_STRIDE", 300),

		Threshold:      envFloat("NEUROBEAT_THRESHOLD", 0.70),
		SpectroChannel: envInt("NEUROBEAT_SPECTRO_CHANNEL", 10),
		Workers:        envInt("NEUROBEAT_WORKERS", 1),

		ScorerURL: envStr("NEUROBEAT_SCORER_URL", ""),

		ClassLayers: map[int]string{
			0: "left_hand.wav",
			1: "right_hand.wav",
			3: "left_leg.wav",
			5: "right_leg.wav",
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
