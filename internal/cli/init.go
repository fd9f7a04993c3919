package cli

import (
	"fmt"

	"github.com/BolkaZ/Tracker/internal/logger"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.DB.Init(ctx.Ctx); err != nil {
		return err
	}
	logger.Info("Initialized storage", "target", ctx.DB.Target())
	ctx.printf("Initialized tracker storage at: %s\n", ctx.DB.Target())
	return nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	applied, err := ctx.DB.Migrate(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if applied == 0 {
		ctx.println("Database schema is up to date.")
		return nil
	}
	ctx.printf("✓ Applied %d migration(s)\n", applied)
	return nil
}
