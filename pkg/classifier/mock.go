package classifier

import (
	"context"
	"sync"
)

// Mock implements Scorer for testing.
type Mock struct {
	// ScoreFunc is called when Score is invoked.
	ScoreFunc func(ctx context.Context, batch [][][]float64) (*RawOutput, error)

	// HealthFunc is called when Health is invoked.
	HealthFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls int
}

// NewMock creates a mock that always predicts the given class with the
// given share of the probability mass, spread over numClasses classes.
// The achieved confidence after softmax depends on the logit gap, so
// callers that need an exact post-softmax confidence should supply their
// own ScoreFunc with raw logits instead.
func NewMock(class, numClasses int, logit float64) *Mock {
	return &Mock{
		ScoreFunc: func(ctx context.Context, batch [][][]float64) (*RawOutput, error) {
			scores := make([][]float64, len(batch))
			for i := range scores {
				row := make([]float64, numClasses)
				row[class] = logit
				scores[i] = row
			}
			return &RawOutput{Scores: scores}, nil
		},
	}
}

// WithError returns a mock whose every call fails with err.
func WithError(err error) *Mock {
	return &Mock{
		ScoreFunc: func(ctx context.Context, batch [][][]float64) (*RawOutput, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Score calls ScoreFunc and records the call.
func (m *Mock) Score(ctx context.Context, batch [][][]float64) (*RawOutput, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, batch)
	}
	return nil, ErrModelUnavailable
}

// Health calls HealthFunc.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }

// Calls returns the number of Score invocations.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Verify Mock implements Scorer at compile time.
var _ Scorer = (*Mock)(nil)
