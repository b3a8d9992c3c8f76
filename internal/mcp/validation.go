package mcp

import (
	"fmt"

	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/validation"
)

// ValidateListPluginsInput validates ListPluginsInput fields.
func ValidateListPluginsInput(in *ListPluginsInput) error {
	if in.Category == "" {
		return nil
	}
	if _, err := plugin.ParseCategory(in.Category); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	return nil
}

// ValidateRunTaskInput validates RunTaskInput fields.
func ValidateRunTaskInput(in *RunTaskInput) error {
	if err := validation.ValidateName(in.Handler); err != nil {
		return fmt.Errorf("invalid handler: %w", err)
	}
	return nil
}

// ValidateCallToolInput validates CallToolInput fields.
func ValidateCallToolInput(in *CallToolInput) error {
	if err := validation.ValidateName(in.Tool); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	return nil
}
