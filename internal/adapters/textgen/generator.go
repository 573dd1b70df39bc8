package textgen

import "context"

// FallbackMessage is returned whenever generation fails or no provider is
// configured. Callers never see a text-generation error.
const FallbackMessage = "Congratulations on your approved activity! Thank you for contributing to the club."

// Request describes the activity the message celebrates.
type Request struct {
	ActivityType string
	Description  string
	AuthorName   string
}

// Generator produces a short congratulatory message for an approved
// activity.
type Generator interface {
	Congratulate(ctx context.Context, req Request) (string, error)
}
