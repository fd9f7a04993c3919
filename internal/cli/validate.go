package cli

import (
	"fmt"

	"github.com/BolkaZ/Tracker/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	trackers, err := ctx.Trackers.List(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to load trackers: %w", err)
	}

	ctx.println("Validating trackers...")
	result := validation.ValidateTrackers(trackers)

	// problems are reported, not returned
	ctx.println()
	ctx.println(result.FormatReport())
	return nil
}
