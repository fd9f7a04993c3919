package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BolkaZ/Tracker/internal/backup"
	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/logger"
	"github.com/BolkaZ/Tracker/internal/storage"
)

var errBackupUnsupported = errors.New("backups are only supported for SQLite databases, use pg_dump for PostgreSQL")

func backupManager(ctx *Context) (*backup.Manager, error) {
	if ctx.DB.Dialect() != storage.DialectSQLite {
		return nil, errBackupUnsupported
	}
	return backup.NewManager(ctx.DB.Target()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	backupPath, err := mgr.Create(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		ctx.printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Do not ask for confirmation." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(mgr.Dir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.println("A backup of your current database will be created before restoring.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(backupPath))
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.DB.Close(); err != nil {
		logger.Warn("Failed to close database connection", "error", err)
	}
	if err := mgr.Restore(ctx.Ctx, backupPath); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.println("✓ Database restored successfully!")
	return nil
}
