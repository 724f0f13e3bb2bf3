package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/neurobeat-io/neurobeat/internal/httpc"
)

// Remote scores windows by calling a scoring sidecar over HTTP. The sidecar
// owns the model weights; this client treats it as a frozen, reentrant
// scoring function.
type Remote struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewRemote creates a remote scorer.
func NewRemote(opts ...Option) (*Remote, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("classifier: base URL required")
	}

	return &Remote{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "classifier.remote"),
	}, nil
}

type scoreRequest struct {
	Windows [][][]float64 `json:"windows"`
}

type scoreResponse struct {
	Scores         [][]float64   `json:"scores,omitempty"`
	TemporalScores [][][]float64 `json:"temporal_scores,omitempty"`
}

// Score runs one batch of windows through the sidecar.
func (r *Remote) Score(ctx context.Context, batch [][][]float64) (*RawOutput, error) {
	start := time.Now()

	body, err := json.Marshal(scoreRequest{Windows: batch})
	if err != nil {
		return nil, fmt.Errorf("classifier: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("classifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("classifier: decode response: %w", err)
	}
	if result.Scores == nil && result.TemporalScores == nil {
		return nil, ErrEmptyOutput
	}

	r.logger.Debug("scored batch",
		"windows", len(batch),
		"latency_ms", time.Since(start).Milliseconds())

	return &RawOutput{
		Scores:         result.Scores,
		TemporalScores: result.TemporalScores,
	}, nil
}

// Health checks sidecar connectivity and model readiness.
func (r *Remote) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: sidecar status %d", ErrModelUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases client resources.
func (r *Remote) Close() error {
	r.http.CloseIdleConnections()
	return nil
}

// Verify Remote implements Scorer at compile time.
var _ Scorer = (*Remote)(nil)
