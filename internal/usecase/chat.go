package usecase

import (
	"context"
	"errors"
	"log/slog"
)

type ChatService struct {
	respond Responder
	logger  *slog.Logger
}

type ChatInput struct {
	Body          []byte
	CorrelationID string
}

type ChatOutput struct {
	Message  string
	Response string
}

type Option func(*ChatService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *ChatService) {
		s.logger = logger
	}
}

// NewChatService creates a ChatService answering with respond. Logs go to
// slog.Default unless WithLogger says otherwise.
func NewChatService(respond Responder, opts ...Option) (*ChatService, error) {
	if respond == nil {
		return nil, errors.New("usecase: responder must not be nil")
	}
	s := &ChatService{respond: respond}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Chat validates the raw request body, logs the message and classifies it.
// Failures are always *Error.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	message, err := decodeMessage(in.Body)
	if err != nil {
		return ChatOutput{}, err
	}

	s.logger.InfoContext(ctx, "incoming message",
		"message", message,
		"correlation_id", in.CorrelationID,
	)

	return ChatOutput{
		Message:  message,
		Response: s.respond(message),
	}, nil
}
