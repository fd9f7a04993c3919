package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/storage"
	"github.com/BolkaZ/Tracker/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	return tui.Run(ctx.Ctx, tui.Stores{
		DB:         ctx.DB,
		Categories: ctx.Categories,
		Trackers:   ctx.Trackers,
		Records:    ctx.Records,
	}, tea.WithAltScreen(), tea.WithContext(ctx.Ctx))
}

// PerformAutomaticBackup backs up a SQLite database without interrupting
// the user on failure.
func (c *Context) PerformAutomaticBackup() {
	if c.DB.Dialect() != storage.DialectSQLite {
		return
	}
	mgr, err := backupManager(c)
	if err != nil {
		return
	}
	if _, err := mgr.Create(c.Ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
