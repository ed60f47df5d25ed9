// internal/model/suggestion.go
package model

// Suggestion is a generated offer: a title plus the message body.
type Suggestion struct {
	Title   string `json:"title" yaml:"title"`
	Message string `json:"message" yaml:"message"`
}
