package mailer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-itineraries/config"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

//go:embed templates/verification_email.html
var verificationEmailHTML string

var verificationTemplate = template.Must(template.New("verification_email").Parse(verificationEmailHTML))

var _ Service = (*ServiceImpl)(nil)

// Service renders and dispatches transactional emails.
type Service interface {
	SendVerificationEmail(ctx context.Context, req types.SendEmailRequest) (json.RawMessage, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	provider Provider
	cfg      config.EmailConfig
}

func NewService(provider Provider, cfg config.EmailConfig, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		provider: provider,
		cfg:      cfg,
	}
}

// SendVerificationEmail renders the verification template for the hook
// payload and dispatches it. The returned JSON is the provider's
// send-result, passed through untouched.
func (s *ServiceImpl) SendVerificationEmail(ctx context.Context, req types.SendEmailRequest) (json.RawMessage, error) {
	ctx, span := otel.Tracer("MailerService").Start(ctx, "SendVerificationEmail", trace.WithAttributes(
		attribute.String("email.action", req.EmailData.EmailActionType),
	))
	defer span.End()

	html, err := s.renderVerificationEmail(req.EmailData)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	msg := types.EmailMessage{
		From:    s.cfg.FromAddress,
		To:      []string{req.User.Email},
		Subject: s.cfg.Subject,
		HTML:    html,
	}

	result, err := s.provider.Send(ctx, msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to send verification email",
			slog.String("email", req.User.Email),
			slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	s.logger.InfoContext(ctx, "Verification email sent",
		slog.String("email", req.User.Email),
		slog.String("action", req.EmailData.EmailActionType))
	span.SetStatus(codes.Ok, "Verification email sent")
	return result, nil
}

func (s *ServiceImpl) renderVerificationEmail(data types.EmailData) (string, error) {
	// The hook payload names the auth origin; the configured base URL is
	// the fallback for older hook versions that omit it.
	base := strings.TrimSuffix(data.SiteURL, "/")
	if base == "" {
		base = strings.TrimSuffix(s.cfg.SiteBaseURL, "/")
	}

	params := url.Values{}
	params.Set("token", data.TokenHash)
	params.Set("type", data.EmailActionType)
	params.Set("redirect_to", data.RedirectTo)

	var buf bytes.Buffer
	err := verificationTemplate.Execute(&buf, struct {
		VerifyURL string
		Token     string
	}{
		VerifyURL: base + "/auth/v1/verify?" + params.Encode(),
		Token:     data.Token,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render verification email: %w", err)
	}
	return buf.String(), nil
}
