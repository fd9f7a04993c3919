package cli

import (
	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/query"
)

type DoneCmd struct {
	Tracker string `arg:"" help:"Tracker id or title."`
	Date    string `help:"Day to mark (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *DoneCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	date, err := ctx.parseDate(c.Date)
	if err != nil {
		return err
	}
	if date.After(ctx.DB.Today()) {
		return query.ErrFutureDate
	}
	t, err := ctx.Trackers.Resolve(ctx.Ctx, c.Tracker)
	if err != nil {
		return err
	}
	if _, err := ctx.Records.Add(ctx.Ctx, t.ID, date); err != nil {
		return err
	}
	ctx.printf("✓ %s %s completed on %s\n", t.Emoji, t.Title, date.Format(constants.DateFormat))
	return nil
}

type UndoCmd struct {
	Tracker string `arg:"" help:"Tracker id or title."`
	Date    string `help:"Day to clear (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *UndoCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	date, err := ctx.parseDate(c.Date)
	if err != nil {
		return err
	}
	t, err := ctx.Trackers.Resolve(ctx.Ctx, c.Tracker)
	if err != nil {
		return err
	}
	if err := ctx.Records.Remove(ctx.Ctx, t.ID, date); err != nil {
		return err
	}
	ctx.printf("✓ %s %s no longer completed on %s\n", t.Emoji, t.Title, date.Format(constants.DateFormat))
	return nil
}
