package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"chat-backend/internal/domain"
	"chat-backend/internal/usecase"
)

const (
	headerContentType   = "Content-Type"
	headerCorrelationID = "X-Correlation-Id"
	contentTypeJSON     = "application/json"

	msgMalformed        = "Malformed request"
	msgMethodNotAllowed = "Method not allowed"

	defaultMaxBodyBytes = 1 << 20
)

type ChatUseCase interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

// Handler serves the chat endpoint for both API Gateway proxy events and
// plain net/http. It holds no per-request state.
type Handler struct {
	uc           ChatUseCase
	logger       *slog.Logger
	maxBodyBytes int64
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMaxBodyBytes caps the accepted request body. Non-positive values keep
// the default of 1 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

func NewHandler(uc ChatUseCase, opts ...Option) (*Handler, error) {
	if uc == nil {
		return nil, errors.New("handler: chat use case must not be nil")
	}
	h := &Handler{uc: uc, maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h, nil
}

// Handle is the Lambda entrypoint for API Gateway REST proxy events.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	correlationID := headerValue(event.Headers, headerCorrelationID)
	if correlationID == "" {
		correlationID = newCorrelationID()
	}

	if event.HTTPMethod != "" && event.HTTPMethod != http.MethodPost {
		h.logger.WarnContext(ctx, "rejecting request", "reason", "method_not_allowed", "method", event.HTTPMethod, "correlation_id", correlationID)
		resp := lambdaResponse(http.StatusMethodNotAllowed, domain.ErrorResponse{Error: msgMethodNotAllowed}, correlationID)
		resp.Headers["Allow"] = http.MethodPost
		return resp, nil
	}

	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			h.logger.WarnContext(ctx, "rejecting request", "reason", "invalid_base64", "err", err, "correlation_id", correlationID)
			return lambdaResponse(http.StatusBadRequest, domain.ErrorResponse{Error: msgMalformed}, correlationID), nil
		}
		body = decoded
	}
	if int64(len(body)) > h.maxBodyBytes {
		h.logger.WarnContext(ctx, "rejecting request", "reason", "body_too_large", "size", len(body), "correlation_id", correlationID)
		return lambdaResponse(http.StatusBadRequest, domain.ErrorResponse{Error: msgMalformed}, correlationID), nil
	}

	status, payload := h.process(ctx, headerValue(event.Headers, headerContentType), body, correlationID)
	return lambdaResponse(status, payload, correlationID), nil
}

// ServeHTTP serves the chat endpoint on a standalone HTTP server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	correlationID := r.Header.Get(headerCorrelationID)
	if correlationID == "" {
		correlationID = newCorrelationID()
	}

	if r.Method != http.MethodPost {
		h.logger.WarnContext(ctx, "rejecting request", "reason", "method_not_allowed", "method", r.Method, "remote_addr", r.RemoteAddr, "correlation_id", correlationID)
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, domain.ErrorResponse{Error: msgMethodNotAllowed}, correlationID)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		reason := "read_error"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			reason = "body_too_large"
		}
		h.logger.WarnContext(ctx, "rejecting request", "reason", reason, "err", err, "correlation_id", correlationID)
		writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: msgMalformed}, correlationID)
		return
	}

	status, payload := h.process(ctx, r.Header.Get(headerContentType), body, correlationID)
	writeJSON(w, status, payload, correlationID)
}

// process runs one request through the use case and maps the outcome onto a
// status code and payload. It never reports a server error.
func (h *Handler) process(ctx context.Context, contentType string, body []byte, correlationID string) (int, any) {
	if !isJSONContentType(contentType) {
		h.logger.WarnContext(ctx, "rejecting request", "reason", "unsupported_content_type", "content_type", contentType, "correlation_id", correlationID)
		return http.StatusBadRequest, domain.ErrorResponse{Error: msgMalformed}
	}

	out, err := h.uc.Chat(ctx, usecase.ChatInput{Body: body, CorrelationID: correlationID})
	if err != nil {
		h.logger.WarnContext(ctx, "rejecting request", "err", err, "correlation_id", correlationID)
		return http.StatusBadRequest, domain.ErrorResponse{Error: errorMessage(err)}
	}
	return http.StatusOK, domain.ChatResponse{Response: out.Response}
}

func errorMessage(err error) string {
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		return ucErr.Message()
	}
	return msgMalformed
}

// isJSONContentType accepts application/json, any +json media type and an
// absent header. Flask's get_json rejects the absent case; clients that omit
// the header are served here.
func isJSONContentType(v string) bool {
	if strings.TrimSpace(v) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(v)
	if err != nil {
		return false
	}
	return mediaType == contentTypeJSON || strings.HasSuffix(mediaType, "+json")
}

func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func encode(payload any) []byte {
	b, err := json.Marshal(payload)
	if err != nil {
		return []byte(`{"error":"` + msgMalformed + `"}`)
	}
	return b
}

func lambdaResponse(status int, payload any, correlationID string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			headerContentType:   contentTypeJSON,
			headerCorrelationID: correlationID,
		},
		Body: string(encode(payload)),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any, correlationID string) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.Header().Set(headerCorrelationID, correlationID)
	w.WriteHeader(status)
	_, _ = w.Write(encode(payload))
}

var newCorrelationID = func() string {
	return uuid.NewString()
}
