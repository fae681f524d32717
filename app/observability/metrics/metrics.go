package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	SuggestionRequestsTotal       metric.Int64Counter
	SuggestionDurationSeconds     metric.Float64Histogram
	ItinerariesCreatedTotal       metric.Int64Counter
	EmailsSentTotal               metric.Int64Counter
	EmailSendDurationSeconds      metric.Float64Histogram
	WebhookSignatureFailuresTotal metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() { // Ensure this only runs once
		meter := otel.GetMeterProvider().Meter("TripItineraries") // Get meter from global provider
		var err error
		m := &AppMetrics{}

		m.SuggestionRequestsTotal, err = meter.Int64Counter(
			"suggestion_requests_total",
			metric.WithDescription("Total number of itinerary suggestion requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggestion_requests_total: %v", err)
		}

		m.SuggestionDurationSeconds, err = meter.Float64Histogram(
			"suggestion_duration_seconds",
			metric.WithDescription("Duration of itinerary suggestion requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggestion_duration_seconds: %v", err)
		}

		m.ItinerariesCreatedTotal, err = meter.Int64Counter(
			"itineraries_created_total",
			metric.WithDescription("Total number of itineraries created"),
			metric.WithUnit("{itinerary}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itineraries_created_total: %v", err)
		}

		m.EmailsSentTotal, err = meter.Int64Counter(
			"emails_sent_total",
			metric.WithDescription("Total number of verification emails handed to the provider"),
			metric.WithUnit("{email}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create emails_sent_total: %v", err)
		}

		m.EmailSendDurationSeconds, err = meter.Float64Histogram(
			"email_send_duration_seconds",
			metric.WithDescription("Duration of provider email deliveries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create email_send_duration_seconds: %v", err)
		}

		m.WebhookSignatureFailuresTotal, err = meter.Int64Counter(
			"webhook_signature_failures_total",
			metric.WithDescription("Total number of email webhook payloads with a bad signature"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create webhook_signature_failures_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m // Assign to global variable
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		// This indicates a programming error - InitAppMetrics must be called at startup.
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
