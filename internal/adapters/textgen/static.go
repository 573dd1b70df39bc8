package textgen

import "context"

// StaticGenerator always returns the fixed fallback message. Used when no
// provider is configured and in tests.
type StaticGenerator struct{}

// NewStaticGenerator creates a StaticGenerator.
func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

// Congratulate returns the fallback message.
func (s *StaticGenerator) Congratulate(_ context.Context, _ Request) (string, error) {
	return FallbackMessage, nil
}
