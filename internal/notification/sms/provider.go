package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/masterdata-core/internal/infrastructure/config"
	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

// Gateway query parameter names.
const (
	paramAuthKey   = "authkey"
	paramMessage   = "message"
	paramRoute     = "route"
	paramSender    = "sender"
	paramRecipient = "mobiles"
	paramUnicode   = "unicode"
	paramCountry   = "country"
)

// Response statuses and messages.
const (
	StatusSuccess  = "success"
	MessageSuccess = "Sms Request Sent"
)

// maxErrorBody caps how much of a rejected response is kept in the error.
const maxErrorBody = 4096

// Response reports the outcome of a send.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Logger defines the logging interface used by the Provider.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Provider sends SMS messages through the configured gateway.
//
// Thread Safety: All methods are safe for concurrent use.
type Provider struct {
	cfg        config.SMSConfig
	httpClient *http.Client
	logger     Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the HTTP client used for gateway calls.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithLogger sets the provider's logger.
func WithLogger(l Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// New creates a Provider from the sms section of config.yaml.
//
// Parameters:
//   - cfg: SMS gateway configuration
//   - opts: Optional overrides (HTTP client, logger)
//
// Returns:
//   - *Provider: Provider ready for use
func New(cfg config.SMSConfig, opts ...Option) *Provider {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	p := &Provider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     noopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send validates contactNumber and sends message to it.
//
// Parameters:
//   - ctx: Context for cancellation of the gateway call
//   - contactNumber: Digits only, length within [min_length, max_length]
//   - message: Text to send
//
// Returns:
//   - *Response: Success response
//   - error: *masterdata.Error of kind InvalidInput for a bad number,
//     ErrGatewayUnreachable or ErrGatewayRejected for gateway failures
func (p *Provider) Send(ctx context.Context, contactNumber, message string) (*Response, error) {
	if err := p.validate(contactNumber); err != nil {
		return nil, err
	}

	if !p.cfg.Enabled {
		p.logger.Info("sms disabled, not sending", "recipient", maskNumber(contactNumber))
		return &Response{Status: StatusSuccess, Message: MessageSuccess}, nil
	}

	reqURL, err := p.buildURL(contactNumber, message)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating sms request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best-effort body read

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Warn("sms gateway rejected request",
			"status", resp.StatusCode,
			"recipient", maskNumber(contactNumber),
		)
		return nil, fmt.Errorf("%w: status %d: %s", ErrGatewayRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	p.logger.Debug("sms sent", "recipient", maskNumber(contactNumber))
	return &Response{Status: StatusSuccess, Message: MessageSuccess}, nil
}

// validate checks the contact number before anything is sent.
func (p *Provider) validate(contactNumber string) error {
	n := len(contactNumber)
	if !isNumeric(contactNumber) || n < p.cfg.MinLength || n > p.cfg.MaxLength {
		msg := InvalidNumber.Message + strconv.Itoa(p.cfg.MinLength) + "-" + strconv.Itoa(p.cfg.MaxLength) + " digits"
		return masterdata.NewInvalidInput(InvalidNumber, msg)
	}
	return nil
}

func (p *Provider) buildURL(contactNumber, message string) (string, error) {
	u, err := url.Parse(p.cfg.API)
	if err != nil {
		return "", fmt.Errorf("parsing sms api url: %w", err)
	}

	q := u.Query()
	q.Set(paramAuthKey, p.cfg.AuthKey)
	q.Set(paramMessage, message)
	q.Set(paramRoute, p.cfg.Route)
	q.Set(paramSender, p.cfg.Sender)
	q.Set(paramRecipient, contactNumber)
	q.Set(paramUnicode, p.cfg.Unicode)
	q.Set(paramCountry, p.cfg.CountryCode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// isNumeric reports whether s is non-empty and made only of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// maskNumber keeps the last four digits of a contact number for logs.
func maskNumber(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
