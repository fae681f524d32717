package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itineraries/config"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Provider = (*HTTPProvider)(nil)

// Provider dispatches a rendered email and returns the provider's raw
// send-result JSON.
type Provider interface {
	Send(ctx context.Context, msg types.EmailMessage) (json.RawMessage, error)
}

// HTTPProvider posts messages to a Resend-compatible /emails endpoint.
// A circuit breaker sheds calls while the provider keeps failing; rejected
// sends surface as errors, same as provider failures.
type HTTPProvider struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker[json.RawMessage]
}

func NewHTTPProvider(cfg config.EmailConfig, logger *slog.Logger) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        "email-provider",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// At least 5 calls in the window and a 60%+ failure rate.
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Email provider circuit state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &HTTPProvider{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.ProviderBaseURL, "/"),
		apiKey:     cfg.APIKey,
		breaker:    breaker,
	}
}

func (p *HTTPProvider) Send(ctx context.Context, msg types.EmailMessage) (json.RawMessage, error) {
	ctx, span := otel.Tracer("EmailProvider").Start(ctx, "Send", trace.WithAttributes(
		attribute.Int("email.recipients", len(msg.To)),
	))
	defer span.End()

	result, err := p.breaker.Execute(func() (json.RawMessage, error) {
		return p.post(ctx, msg)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			p.logger.WarnContext(ctx, "Email send rejected by circuit breaker", slog.Any("error", err))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Email send failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Email sent")
	return result, nil
}

func (p *HTTPProvider) post(ctx context.Context, msg types.EmailMessage) (json.RawMessage, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("email provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.RawMessage(body), nil
}
