// Package classifier adapts an opaque pretrained motor-intent model into
// per-epoch class probability distributions.
//
// The model is a capability, not a concrete type: anything implementing
// Scorer can back the pipeline. The package ships two implementations, a
// Remote scorer that calls a scoring sidecar over HTTP and a Mock for
// deterministic tests.
//
// Example usage:
//
//	scorer, _ := classifier.NewRemote(
//	    classifier.WithBaseURL("http://localhost:9090"),
//	)
//	defer scorer.Close()
//
//	score, _ := classifier.Classify(ctx, scorer, epoch)
//	pred := score.Prediction()
package classifier

import (
	"context"
	"math"

	"github.com/neurobeat-io/neurobeat/pkg/eeg"
)

// Scorer is the opaque model capability: it scores a batch of channel-major
// signal windows. The model is loaded once, read-only, and safe for
// concurrent Score calls.
type Scorer interface {
	// Score runs inference on a batch of windows, each channels × samples.
	Score(ctx context.Context, batch [][][]float64) (*RawOutput, error)

	// Health checks that the model is loaded and reachable.
	Health(ctx context.Context) error

	// Close releases any resources held by the scorer.
	Close() error
}

// RawOutput is the model's raw score tensor for one batch. Exactly one of
// the two fields is populated, depending on the model architecture.
type RawOutput struct {
	// Scores is batch × classes, for models emitting a single vector.
	Scores [][]float64

	// TemporalScores is batch × classes × time, for models emitting
	// per-time-step logits. It is mean-reduced along the time axis
	// before normalization.
	TemporalScores [][][]float64
}

// Logits returns the per-class logits for one batch item, reducing any
// temporal axis by averaging.
func (r *RawOutput) Logits(item int) []float64 {
	if item < 0 {
		return nil
	}
	if r.TemporalScores != nil {
		if item >= len(r.TemporalScores) {
			return nil
		}
		classes := r.TemporalScores[item]
		out := make([]float64, len(classes))
		for c, series := range classes {
			if len(series) == 0 {
				continue
			}
			sum := 0.0
			for _, v := range series {
				sum += v
			}
			out[c] = sum / float64(len(series))
		}
		return out
	}
	if item < len(r.Scores) {
		return r.Scores[item]
	}
	return nil
}

// ClassScore is a probability distribution over movement classes.
// Values are non-negative and sum to 1.
type ClassScore []float64

// Prediction is the top class of a ClassScore and its probability.
type Prediction struct {
	Class      int     `json:"predicted_class"`
	Confidence float64 `json:"confidence"`
}

// Prediction returns the argmax class and its probability.
func (s ClassScore) Prediction() Prediction {
	best := 0
	for i, v := range s {
		if v > s[best] {
			best = i
		}
	}
	conf := 0.0
	if len(s) > 0 {
		conf = s[best]
	}
	return Prediction{Class: best, Confidence: conf}
}

// Classify scores one epoch: transposes it to channel-major, wraps it in a
// batch of one, invokes the scorer and softmax-normalizes the result.
// A nil scorer is never invoked and yields ErrModelUnavailable.
func Classify(ctx context.Context, s Scorer, ep eeg.Epoch) (ClassScore, error) {
	if s == nil {
		return nil, ErrModelUnavailable
	}

	batch := [][][]float64{ep.ChannelMajor()}
	raw, err := s.Score(ctx, batch)
	if err != nil {
		return nil, err
	}

	logits := raw.Logits(0)
	if len(logits) == 0 {
		return nil, ErrEmptyOutput
	}
	return softmax(logits), nil
}

// softmax converts logits to a probability distribution. The max is
// subtracted first for numerical stability.
func softmax(logits []float64) ClassScore {
	maxv := logits[0]
	for _, v := range logits[1:] {
		if v > maxv {
			maxv = v
		}
	}
	out := make(ClassScore, len(logits))
	sum := 0.0
	for i, v := range logits {
		out[i] = math.Exp(v - maxv)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
