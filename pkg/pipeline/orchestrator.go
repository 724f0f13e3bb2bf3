// Package pipeline turns a continuous EEG recording into an ordered
// timeline of motor-intent events and per-epoch spectrograms.
//
// The orchestrator drives the windower over the signal, classifies each
// epoch, runs the confidence gate against the monotone layer set and
// extracts a diagnostic spectrogram of one configured channel. All state
// is per-scan; nothing survives a request.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/neurobeat-io/neurobeat/pkg/classifier"
	"github.com/neurobeat-io/neurobeat/pkg/eeg"
	"github.com/neurobeat-io/neurobeat/pkg/spectrogram"
)

// TimelineEntry is one epoch's outcome. ActiveLayers is a snapshot taken
// after the entry's own gate update, so the epoch that first activates a
// layer already lists it.
type TimelineEntry struct {
	TimeSec      float64  `json:"time_sec"`
	Class        int      `json:"predicted_class"`
	Confidence   float64  `json:"confidence"`
	ActiveLayers []string `json:"active_layers"`
}

// Result is the complete output of one scan, ordered by epoch index.
type Result struct {
	Timeline     []TimelineEntry `json:"timeline"`
	Spectrograms [][][]float64   `json:"epochs"`
}

// Config holds the scan parameters.
type Config struct {
	// SampleRate of the recording in Hz.
	SampleRate int

	// EpochLen and Stride in samples.
	EpochLen int
	Stride   int

	// Gate settings.
	Threshold float64
	Layers    map[int]string

	// SpectroChannel is the channel rendered per epoch.
	SpectroChannel int

	// Workers sets how many epochs are scored concurrently. 1 scans
	// sequentially. Timeline order and layer accumulation are always
	// index-ordered regardless.
	Workers int

	// Logger is the structured logger.
	Logger *slog.Logger
}

// DefaultConfig returns the reference deployment parameters: 200 Hz,
// 1.5 s non-overlapping epochs, 0.70 gate, spectrogram on channel 10.
func DefaultConfig() Config {
	return Config{
		SampleRate: 200,
		EpochLen:   300,
		Stride:     300,
		Threshold:  0.70,
		Layers: map[int]string{
			0: "left_hand.wav",
			1: "right_hand.wav",
			3: "left_leg.wav",
			5: "right_leg.wav",
		},
		SpectroChannel: 10,
		Workers:        1,
		Logger:         slog.Default(),
	}
}

// Orchestrator runs classification scans. The scorer is shared, read-only
// state; every scan builds its own layer set and timeline.
type Orchestrator struct {
	scorer classifier.Scorer
	cfg    Config

	// OnEpoch, when set, is invoked with each timeline entry as it is
	// produced, in index order. Used for live streaming.
	OnEpoch func(TimelineEntry)
}

// New creates an orchestrator. A nil scorer is allowed; scans will then
// fail fast with classifier.ErrModelUnavailable.
func New(scorer classifier.Scorer, cfg Config) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Orchestrator{scorer: scorer, cfg: cfg}
}

// Scan processes one recording end to end and returns the ordered timeline
// and spectrograms. It fails fast when no model is loaded and returns no
// partial results on error. A recording shorter than one epoch yields an
// empty timeline, not an error.
func (o *Orchestrator) Scan(ctx context.Context, sig *eeg.Signal) (*Result, error) {
	if o.scorer == nil {
		return nil, classifier.ErrModelUnavailable
	}

	w, err := eeg.NewWindower(sig, o.cfg.EpochLen, o.cfg.Stride)
	if err != nil {
		return nil, err
	}
	if w.Count() > 0 && (o.cfg.SpectroChannel < 0 || o.cfg.SpectroChannel >= sig.Channels()) {
		return nil, fmt.Errorf("pipeline: spectrogram channel %d out of range for %d-channel signal",
			o.cfg.SpectroChannel, sig.Channels())
	}

	var epochs []eeg.Epoch
	for {
		ep, ok := w.Next()
		if !ok {
			break
		}
		epochs = append(epochs, ep)
	}

	var scores []classifier.ClassScore
	var spectra [][][]float64
	if o.cfg.Workers > 1 && len(epochs) > 1 {
		scores, spectra, err = o.scoreParallel(ctx, epochs)
	} else {
		scores, spectra, err = o.scoreSequential(ctx, epochs)
	}
	if err != nil {
		return nil, err
	}

	// Gate accumulation is applied strictly in epoch-index order, even
	// when inference ran out of order above.
	gate := Gate{Threshold: o.cfg.Threshold, Layers: o.cfg.Layers}
	active := NewLayerSet()
	result := &Result{
		Timeline:     make([]TimelineEntry, 0, len(epochs)),
		Spectrograms: spectra,
	}
	for i, ep := range epochs {
		pred := scores[i].Prediction()
		if layer := gate.Apply(pred, active); layer != "" {
			o.cfg.Logger.Debug("layer activated",
				"layer", layer,
				"class", pred.Class,
				"confidence", pred.Confidence,
				"time_sec", ep.Time(o.cfg.SampleRate))
		}
		entry := TimelineEntry{
			TimeSec:      ep.Time(o.cfg.SampleRate),
			Class:        pred.Class,
			Confidence:   pred.Confidence,
			ActiveLayers: active.Snapshot(),
		}
		result.Timeline = append(result.Timeline, entry)
		if o.OnEpoch != nil {
			o.OnEpoch(entry)
		}
	}

	o.cfg.Logger.Info("scan complete",
		"epochs", len(epochs),
		"active_layers", active.Len())
	return result, nil
}

func (o *Orchestrator) scoreSequential(ctx context.Context, epochs []eeg.Epoch) ([]classifier.ClassScore, [][][]float64, error) {
	extractor := spectrogram.New(o.cfg.SampleRate)
	scores := make([]classifier.ClassScore, len(epochs))
	spectra := make([][][]float64, len(epochs))
	for i, ep := range epochs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		score, err := classifier.Classify(ctx, o.scorer, ep)
		if err != nil {
			return nil, nil, err
		}
		scores[i] = score
		spectra[i] = extractor.Compute(ep.Channel(o.cfg.SpectroChannel))
	}
	return scores, spectra, nil
}

// scoreParallel fans epochs out to a worker pool. Results land in
// index-addressed slices so output order never depends on scheduling.
func (o *Orchestrator) scoreParallel(ctx context.Context, epochs []eeg.Epoch) ([]classifier.ClassScore, [][][]float64, error) {
	scores := make([]classifier.ClassScore, len(epochs))
	spectra := make([][][]float64, len(epochs))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for n := 0; n < o.cfg.Workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			extractor := spectrogram.New(o.cfg.SampleRate)
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				score, err := classifier.Classify(ctx, o.scorer, epochs[i])
				if err != nil {
					fail(err)
					return
				}
				scores[i] = score
				spectra[i] = extractor.Compute(epochs[i].Channel(o.cfg.SpectroChannel))
			}
		}()
	}

feed:
	for i := range epochs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return scores, spectra, nil
}
