package usecase

import (
	"strings"

	"chat-backend/internal/domain"
)

const (
	// KeywordFallbackPrefix precedes the message when no route matches.
	KeywordFallbackPrefix = "You said: "
	// EchoPrefix precedes the message in echo mode.
	EchoPrefix = "Echo: "
)

// Responder maps a validated message to the response text.
type Responder func(message string) string

// DefaultRoutes returns the built-in contact cards, in match order.
func DefaultRoutes() []domain.Route {
	return []domain.Route{
		{Keyword: "manager", Response: "name: John Smith | tel: [12345678901](tel:12345678901)"},
		{Keyword: "customer", Response: "name: Mary Davis | location: [Company HQ](location: 1600 Amphitheatre Parkway, Mountain View, CA)"},
	}
}

// KeywordResponder returns the response of the first route whose keyword is
// contained in the message, compared case-insensitively. Keywords keep their
// whitespace; blank ones never match. Without a match it replies with
// fallbackPrefix followed by the message as received.
func KeywordResponder(routes []domain.Route, fallbackPrefix string) Responder {
	normalized := make([]domain.Route, 0, len(routes))
	for _, r := range routes {
		if strings.TrimSpace(r.Keyword) == "" {
			continue
		}
		normalized = append(normalized, domain.Route{Keyword: strings.ToLower(r.Keyword), Response: r.Response})
	}

	return func(message string) string {
		lower := strings.ToLower(message)
		for _, r := range normalized {
			if strings.Contains(lower, r.Keyword) {
				return r.Response
			}
		}
		return fallbackPrefix + message
	}
}

// EchoResponder replies with prefix followed by the message.
func EchoResponder(prefix string) Responder {
	return func(message string) string {
		return prefix + message
	}
}
