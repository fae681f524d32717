package mailer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-trip-itineraries/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	SendEmail(w http.ResponseWriter, r *http.Request)
}

// HandlerImpl serves the public send-email function. The response contract
// is the auth hook's, not the API envelope: 200 with the provider's JSON on
// success, {"error": msg} otherwise.
type HandlerImpl struct {
	service       Service
	logger        *slog.Logger
	webhookSecret string
}

func NewHandler(service Service, webhookSecret string, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service:       service,
		logger:        logger,
		webhookSecret: webhookSecret,
	}
}

// SendEmail handles the auth service's send-email hook
// @Summary Send verification email
// @Description Renders and dispatches a verification email for the auth hook payload
// @Tags mailer
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /functions/v1/send-email [post]
func (h *HandlerImpl) SendEmail(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MailerHandler").Start(r.Context(), "SendEmail")
	defer span.End()

	l := h.logger.With(slog.String("handler", "SendEmail"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		l.WarnContext(ctx, "Unable to read request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Unreadable body")
		writeHookError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	// Signature failures are recorded but do not abort the send.
	if !verifySignature(h.webhookSecret, r.Header, body) {
		l.WarnContext(ctx, "Webhook signature verification failed",
			slog.String("webhookID", r.Header.Get("webhook-id")))
		metrics.Get().WebhookSignatureFailuresTotal.Add(ctx, 1)
	}

	var req types.SendEmailRequest
	if err := json.Unmarshal(body, &req); err != nil {
		l.WarnContext(ctx, "Invalid hook payload", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid payload")
		writeHookError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.User.Email == "" {
		l.WarnContext(ctx, "Hook payload missing recipient email")
		span.SetStatus(codes.Error, "Missing recipient")
		writeHookError(w, http.StatusBadRequest, "user email is required")
		return
	}

	start := time.Now()
	result, err := h.service.SendVerificationEmail(ctx, req)
	metrics.Get().EmailSendDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		l.ErrorContext(ctx, "Failed to send email", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Send failed")
		writeHookError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.Get().EmailsSentTotal.Add(ctx, 1)
	span.SetStatus(codes.Ok, "Email dispatched")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result); err != nil {
		l.WarnContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

func writeHookError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// verifySignature checks the standard webhook headers: the base64 HMAC-SHA256
// of "{id}.{timestamp}.{body}" under the shared secret must match one of the
// v1 signatures in the webhook-signature header.
func verifySignature(secret string, header http.Header, body []byte) bool {
	if secret == "" {
		return false
	}
	id := header.Get("webhook-id")
	timestamp := header.Get("webhook-timestamp")
	signatures := header.Get("webhook-signature")
	if id == "" || timestamp == "" || signatures == "" {
		return false
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "v1,whsec_"))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id + "." + timestamp + "." + string(body)))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// The header holds space-separated "v1,<base64>" entries.
	for _, part := range strings.Fields(signatures) {
		candidate := strings.TrimPrefix(part, "v1,")
		if hmac.Equal([]byte(candidate), []byte(expected)) {
			return true
		}
	}
	return false
}
