package mailer

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itineraries/config"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

func newTestProvider(t *testing.T, providerFn http.HandlerFunc) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(providerFn)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewHTTPProvider(config.EmailConfig{
		ProviderBaseURL: srv.URL,
		APIKey:          "re_test_key",
		Timeout:         2 * time.Second,
	}, logger)
}

func testEmailMessage() types.EmailMessage {
	return types.EmailMessage{
		From:    "Trip Itineraries <no-reply@example.com>",
		To:      []string{"traveler@example.com"},
		Subject: "Confirm your email",
		HTML:    "<p>hello</p>",
	}
}

func TestHTTPProvider_Send(t *testing.T) {
	ctx := context.Background()
	msg := testEmailMessage()

	t.Run("returns the provider body on success", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"email_abc"}`))
		})

		result, err := provider.Send(ctx, msg)

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"email_abc"}`, string(result))
	})

	t.Run("non-2xx surfaces the status and body", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message":"unprocessable"}`, http.StatusUnprocessableEntity)
		})

		_, err := provider.Send(ctx, msg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 422")
		assert.Contains(t, err.Error(), "unprocessable")
	})

	t.Run("circuit opens after repeated failures", func(t *testing.T) {
		hits := 0
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			hits++
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})

		// the breaker trips once five calls in the window have all failed
		for i := 0; i < 5; i++ {
			_, err := provider.Send(ctx, msg)
			require.Error(t, err)
			assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
		}
		assert.Equal(t, 5, hits)

		_, err := provider.Send(ctx, msg)
		assert.ErrorIs(t, err, gobreaker.ErrOpenState)
		assert.Equal(t, 5, hits, "an open breaker must not reach the provider")
	})
}
