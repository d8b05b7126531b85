package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/remit/internal/prompts"
)

// ComposePrompt joins the stage's instructions and output spec, followed
// by document text between "---" markers when text is non-empty.
func ComposePrompt(ctx context.Context, src prompts.Source, stage prompts.Stage, text string) (string, error) {
	instructions, err := src.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := src.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if text != "" {
		sb.WriteString("\n\nPlease extract all invoice data from the following text:\n\n---\n")
		sb.WriteString(text)
		sb.WriteString("\n---")
	}

	return sb.String(), nil
}
