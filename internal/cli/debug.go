package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/models"
)

type DebugCmd struct {
	DBPath      DebugDBPathCmd      `cmd:"" help:"Show database location."`
	DumpTracker DebugDumpTrackerCmd `cmd:"" help:"Dump tracker data as JSON."`
	DumpDay     DebugDumpDayCmd     `cmd:"" help:"Dump the completion records of a day as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"dialect": string(ctx.DB.Dialect()),
		"path":    ctx.DB.Target(),
	}
	return ctx.dumpJSON(output)
}

type DebugDumpTrackerCmd struct {
	Tracker string `arg:"" help:"Tracker id or title."`
}

func (cmd *DebugDumpTrackerCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	t, err := ctx.Trackers.Resolve(ctx.Ctx, cmd.Tracker)
	if err != nil {
		return err
	}
	category, _, err := ctx.Trackers.CategoryTitle(ctx.Ctx, t.ID)
	if err != nil {
		return err
	}
	return ctx.dumpJSON(struct {
		models.Tracker
		Category string `json:"category"`
	}{t, category})
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Day to dump (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	date, err := ctx.parseDate(cmd.Date)
	if err != nil {
		return err
	}
	completed, err := ctx.Records.CompletedOn(ctx.Ctx, date)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(completed))
	for id := range completed {
		ids = append(ids, id.String())
	}
	slices.Sort(ids)
	return ctx.dumpJSON(map[string]any{
		"date":      date.Format(constants.DateFormat),
		"completed": ids,
	})
}

func (c *Context) dumpJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(jsonBytes))
	return nil
}
