// Package summary abstracts the external text service used to summarise
// event feedback. The contract is string in, string out; nothing here
// depends on any particular provider.
package summary

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces a short summary from a prompt.
type Generator interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Static is a canned Generator used until a real provider is wired in.
// It echoes the event name and category out of the prompt's first line.
type Static struct{}

// Summarize returns a deterministic placeholder summary.
func (Static) Summarize(_ context.Context, prompt string) (string, error) {
	subject := prompt
	if i := strings.IndexByte(prompt, '\n'); i >= 0 {
		subject = prompt[:i]
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "No feedback available yet for this event.", nil
	}
	return fmt.Sprintf(
		"Based on participant feedback, %s has been well received for its comprehensive content and engaging format.",
		subject,
	), nil
}
