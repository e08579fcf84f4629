package domain

// Route maps a keyword to the canned reply sent when a message contains it.
type Route struct {
	Keyword  string `json:"keyword"`
	Response string `json:"response"`
}
