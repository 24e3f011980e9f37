package aiassist

import (
	"context"
	"fmt"
	"strings"
)

// Generator is the AI collaborator behind the metered assist endpoints.
// Quota enforcement and usage recording happen around it, never inside it.
type Generator interface {
	SuggestDescription(ctx context.Context, title string) (string, error)
	SuggestSubtasks(ctx context.Context, title string) ([]string, error)
	SuggestRoutine(ctx context.Context, goal string) ([]string, error)
}

// templateGenerator is the built-in fallback used when no external model is
// configured. It keeps the endpoints functional in development and tests.
type templateGenerator struct{}

// NewTemplateGenerator returns the deterministic built-in generator.
func NewTemplateGenerator() Generator {
	return &templateGenerator{}
}

func (g *templateGenerator) SuggestDescription(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("title is required")
	}
	return fmt.Sprintf("Work through %q: clarify the outcome, gather what you need, and block time to finish it.", title), nil
}

func (g *templateGenerator) SuggestSubtasks(ctx context.Context, title string) ([]string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	return []string{
		fmt.Sprintf("Outline the steps for %q", title),
		"Gather required materials",
		"Do a first pass",
		"Review and wrap up",
	}, nil
}

func (g *templateGenerator) SuggestRoutine(ctx context.Context, goal string) ([]string, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("goal is required")
	}
	return []string{
		fmt.Sprintf("Monday: plan the week around %q", goal),
		"Wednesday: mid-week progress check",
		"Friday: review what moved and what stalled",
	}, nil
}
