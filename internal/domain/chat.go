package domain

// ChatResponse is the success payload returned by the chat endpoint.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the failure payload returned by the chat endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
