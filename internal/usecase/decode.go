package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

const messageField = "message"

// decodeMessage extracts the message field from a raw request body.
//
// A body that is empty, an empty JSON value (null, false, 0, "", [] or {}) or
// a value that does not contain "message" is a missing message. A string or
// array that does contain "message" and any other scalar cannot be indexed by
// field name, so it is malformed, as is a non-string message.
func decodeMessage(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", missing("empty_body")
	}
	if !utf8.Valid(body) {
		return "", malformed("invalid_utf8", nil)
	}

	var data any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&data); err != nil {
		return "", malformed("invalid_json", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return "", malformed("trailing_data", err)
	}

	switch v := data.(type) {
	case nil:
		return "", missing("null_body")
	case map[string]any:
		raw, ok := v[messageField]
		if !ok {
			return "", missing("missing_message")
		}
		message, ok := raw.(string)
		if !ok {
			return "", malformed("message_not_string", nil)
		}
		return message, nil
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == messageField {
				return "", malformed("body_not_object", nil)
			}
		}
		return "", missing("missing_message")
	case string:
		if strings.Contains(v, messageField) {
			return "", malformed("body_not_object", nil)
		}
		return "", missing("missing_message")
	case bool:
		if !v {
			return "", missing("empty_value")
		}
	case float64:
		if v == 0 {
			return "", missing("empty_value")
		}
	}
	return "", malformed("body_not_object", nil)
}
