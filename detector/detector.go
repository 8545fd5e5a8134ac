// Package detector talks to the audio analysis backend that extracts chord
// changes from a YouTube video's soundtrack.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mager/chordlegend/config"
	"github.com/mager/chordlegend/timeline"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2
	DefaultBackoff = time.Second

	analyzePath = "/analyze"
	healthPath  = "/api/health"
)

var (
	// ErrDisabled means no backend URL is configured.
	ErrDisabled = errors.New("detector: analyzer backend not configured")
	// ErrInvalidResponse is returned for payloads that will not get better
	// on retry.
	ErrInvalidResponse = errors.New("detector: invalid response")
)

// Result is what the backend found in a video.
type Result struct {
	Detections []timeline.Detection
	// Duration and Title are reported by some backends, zero otherwise.
	Duration float64
	Title    string
}

type analyzeRequest struct {
	YoutubeURL string         `json:"youtube_url"`
	Options    analyzeOptions `json:"options"`
}

type analyzeOptions struct {
	Detailed bool `json:"detailed"`
}

type analyzeResponse struct {
	Status   string          `json:"status"`
	Chords   []chordResponse `json:"chords"`
	Error    string          `json:"error"`
	Duration float64         `json:"duration"`
	Title    string          `json:"title"`
}

type chordResponse struct {
	Time       *float64 `json:"time"`
	Chord      string   `json:"chord"`
	Confidence *float64 `json:"confidence"`
	Duration   float64  `json:"duration"`
	Beat       int      `json:"beat"`
}

// Client calls the backend with a per attempt timeout and linear backoff
// between attempts.
type Client struct {
	log        *zap.SugaredLogger
	httpClient *http.Client
	baseURL    string

	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// New builds a client for baseURL. An empty baseURL yields a client whose
// calls fail with ErrDisabled.
func New(log *zap.SugaredLogger, httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		log:        log,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		Timeout:    DefaultTimeout,
		Retries:    DefaultRetries,
		Backoff:    DefaultBackoff,
	}
}

// ProvideDetector builds the client from config.
func ProvideDetector(log *zap.SugaredLogger, cfg config.Config) *Client {
	c := New(log, &http.Client{}, cfg.AnalyzerURL)
	if cfg.AnalyzerTimeout > 0 {
		c.Timeout = cfg.AnalyzerTimeout
	}
	if cfg.AnalyzerRetries >= 0 {
		c.Retries = cfg.AnalyzerRetries
	}
	return c
}

var Options = ProvideDetector

// Enabled reports whether a backend URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Analyze asks the backend for the chord changes of a video.
func (c *Client) Analyze(ctx context.Context, youtubeURL string) (*Result, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	body, err := json.Marshal(analyzeRequest{
		YoutubeURL: youtubeURL,
		Options:    analyzeOptions{Detailed: true},
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			wait := c.Backoff * time.Duration(attempt)
			c.log.Infow("Retrying chord analysis", "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		res, err := c.analyzeOnce(ctx, body)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if errors.Is(err, ErrInvalidResponse) || ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, lastErr
}

func (c *Client) analyzeOnce(ctx context.Context, body []byte) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detector: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("detector: read response: %w", err)
	}

	var payload analyzeResponse
	decodeErr := json.Unmarshal(data, &payload)

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if decodeErr == nil && payload.Error != "" {
			msg = payload.Error
		}
		// client errors are our fault and will fail again
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, msg)
		}
		return nil, fmt.Errorf("detector: backend error: %s", msg)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, decodeErr)
	}
	if payload.Status != "success" || payload.Chords == nil {
		msg := payload.Error
		if msg == "" {
			msg = "unexpected response format"
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, msg)
	}

	detections := make([]timeline.Detection, 0, len(payload.Chords))
	for i, ch := range payload.Chords {
		if ch.Time == nil || strings.TrimSpace(ch.Chord) == "" || ch.Confidence == nil {
			return nil, fmt.Errorf("%w: chord %d is incomplete", ErrInvalidResponse, i)
		}
		detections = append(detections, timeline.Detection{
			Time:       *ch.Time,
			Chord:      strings.TrimSpace(ch.Chord),
			Confidence: min(1, max(0, *ch.Confidence)),
			Duration:   ch.Duration,
			Beat:       ch.Beat,
		})
	}

	return &Result{
		Detections: detections,
		Duration:   payload.Duration,
		Title:      payload.Title,
	}, nil
}

// Healthy pings the backend health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	if !c.Enabled() {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
