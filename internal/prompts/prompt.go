// Package prompts manages named instruction overrides for the model stages
// of the invoice workflow. At most one override per stage is active; stages
// without one use the built-in instructions.
package prompts

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prompt is a named instruction override for a stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// Command carries the writable fields of a prompt for create and update.
type Command struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// Validate trims the command and checks required fields.
func (c *Command) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Instructions = strings.TrimSpace(c.Instructions)

	if c.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalid)
	}
	if c.Instructions == "" {
		return fmt.Errorf("%w: instructions required", ErrInvalid)
	}
	if _, err := ParseStage(string(c.Stage)); err != nil {
		return err
	}
	return nil
}
