package cli

import (
	"fmt"
	"time"

	"github.com/BolkaZ/Tracker/internal/storage"
	"github.com/BolkaZ/Tracker/internal/utils"
	"github.com/BolkaZ/Tracker/internal/validation"
)

type DoctorCmd struct{}

type healthCheck struct {
	name     string
	run      func(*Context) error
	warnOnly bool
}

// checks that need a reachable database
var healthChecks = []healthCheck{
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Data validation", run: checkValidation},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	if err := checkDBReachable(ctx); err != nil {
		ctx.printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		for _, check := range healthChecks {
			ctx.printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
		}
		hasError = true
	} else {
		ctx.println("✓ Database reachable: OK")
		for _, check := range healthChecks {
			err := check.run(ctx)
			switch {
			case err == nil:
				ctx.printf("✓ %s: OK\n", check.name)
			case check.warnOnly:
				ctx.printf("⚠ %s: WARNING\n   %v\n", check.name, err)
			default:
				ctx.printf("❌ %s: FAIL\n   Error: %v\n", check.name, err)
				hasError = true
			}
		}
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return ctx.DB.Ping(ctx.Ctx)
}

func checkSchemaVersion(ctx *Context) error {
	current, latest, err := ctx.DB.SchemaVersion(ctx.Ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d, run 'tracker migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	if ctx.DB.Dialect() != storage.DialectSQLite {
		return nil
	}
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'tracker backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) error {
	trackers, err := ctx.Trackers.List(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get trackers: %w", err)
	}
	result := validation.ValidateTrackers(trackers)
	if result.HasProblems() {
		return fmt.Errorf("%d problem(s), run 'tracker validate' for details", len(result.Problems))
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	settings, err := ctx.DB.GetSettings(ctx.Ctx)
	if err != nil {
		return err
	}
	now, err := utils.NowInTimezone(settings.Timezone)
	if err != nil {
		return err
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
