package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/flowboard/internal/domain"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultTripFailures = 3
	defaultOpenFor      = 30 * time.Second
	maxResponseBytes    = 1 << 20
)

// ErrUnavailable is returned while the breaker rejects calls.
var ErrUnavailable = errors.New("board endpoint unavailable")

// RemoteError is a rejection reported by the board endpoint.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("board endpoint rejected board (HTTP %d): %s", e.StatusCode, e.Message)
}

// saveResponse is the endpoint's reply: {"status": "success"} or
// {"status": "error", "message": "..."}.
type saveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HTTPSink posts boards as JSON to a remote board service. Consecutive
// failures open a circuit breaker that fails fast until it half-opens.
type HTTPSink struct {
	url     string
	client  *http.Client
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker[struct{}]

	tripAfter uint32
	openFor   time.Duration
}

type HTTPOption func(*HTTPSink)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSink) { s.client = c }
}

func WithLogger(l *slog.Logger) HTTPOption {
	return func(s *HTTPSink) { s.logger = l }
}

// WithBreaker sets how many consecutive failures open the breaker and how
// long it stays open.
func WithBreaker(failures uint32, openFor time.Duration) HTTPOption {
	return func(s *HTTPSink) {
		s.tripAfter = failures
		s.openFor = openFor
	}
}

func NewHTTPSink(url string, opts ...HTTPOption) *HTTPSink {
	s := &HTTPSink{
		url:       url,
		client:    &http.Client{Timeout: defaultTimeout},
		logger:    slog.New(slog.DiscardHandler),
		tripAfter: defaultTripFailures,
		openFor:   defaultOpenFor,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "board-sink",
		Timeout: s.openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= s.tripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		// Rejections carry a verdict from a healthy endpoint.
		IsSuccessful: func(err error) bool {
			var remote *RemoteError
			return err == nil || (errors.As(err, &remote) && remote.StatusCode < 500)
		},
	})
	return s
}

func (s *HTTPSink) Publish(ctx context.Context, b *domain.Board) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.post(ctx, b)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("publishing board %s: %w", b.ID, ErrUnavailable)
	}
	if err != nil {
		return fmt.Errorf("publishing board %s: %w", b.ID, err)
	}
	return nil
}

// State reports the breaker state, for diagnostics.
func (s *HTTPSink) State() string {
	return s.breaker.State().String()
}

func (s *HTTPSink) post(ctx context.Context, b *domain.Board) error {
	body, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding board: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting board: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	var out saveResponse
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	if resp.StatusCode >= 300 {
		return &RemoteError{StatusCode: resp.StatusCode, Message: domain.CoalesceStr(out.Message, http.StatusText(resp.StatusCode))}
	}
	if out.Status != "success" {
		return &RemoteError{StatusCode: resp.StatusCode, Message: domain.CoalesceStr(out.Message, "save failed")}
	}
	s.logger.Debug("board published", "board_id", b.ID, "url", s.url)
	return nil
}
