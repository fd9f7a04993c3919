package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/BolkaZ/Tracker/internal/models"
)

type TrackerAddCmd struct {
	Title    string `arg:"" help:"Tracker title."`
	Category string `help:"Category title. Created if missing." short:"c" required:""`
	Color    string `help:"Color as six hex digits." default:"5B8DEF"`
	Emoji    string `help:"Emoji shown next to the title." default:"⭐"`
	Days     string `help:"Comma-separated weekdays (mon,wed or 1,3) or 'daily'. Empty for an irregular event." short:"d"`
	Pinned   bool   `help:"Pin the tracker."`
}

func (c *TrackerAddCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	schedule, err := models.ParseWeekdays(c.Days)
	if err != nil {
		return err
	}
	if _, err := ctx.Categories.Ensure(ctx.Ctx, c.Category); err != nil {
		return err
	}

	t, err := ctx.Trackers.Create(ctx.Ctx, models.Tracker{
		Title:    c.Title,
		ColorHex: c.Color,
		Emoji:    c.Emoji,
		Schedule: schedule,
		IsPinned: c.Pinned,
	}, c.Category)
	if err != nil {
		return err
	}

	ctx.printf("✓ Added %s %q (%s) to %s\n", t.Kind(), t.Title, t.Schedule, c.Category)
	ctx.printf("  id: %s\n", t.ID)
	return nil
}

type TrackerEditCmd struct {
	Tracker   string `arg:"" help:"Tracker id or title."`
	Title     string `help:"New title."`
	Category  string `help:"Move to this category." short:"c"`
	Color     string `help:"New color."`
	Emoji     string `help:"New emoji."`
	Days      string `help:"New weekdays (mon,wed or 1,3) or 'daily'." short:"d"`
	Irregular bool   `help:"Clear the schedule, turning the tracker into an irregular event."`
}

func (c *TrackerEditCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	t, err := ctx.Trackers.Resolve(ctx.Ctx, c.Tracker)
	if err != nil {
		return err
	}
	category, _, err := ctx.Trackers.CategoryTitle(ctx.Ctx, t.ID)
	if err != nil {
		return err
	}

	if c.Title != "" {
		t.Title = c.Title
	}
	if c.Category != "" {
		category = c.Category
	}
	if c.Color != "" {
		t.ColorHex = c.Color
	}
	if c.Emoji != "" {
		t.Emoji = c.Emoji
	}
	switch {
	case c.Irregular:
		t.Schedule = models.Schedule{}
	case c.Days != "":
		if t.Schedule, err = models.ParseWeekdays(c.Days); err != nil {
			return err
		}
	}

	if c.Category != "" {
		if _, err := ctx.Categories.Ensure(ctx.Ctx, category); err != nil {
			return err
		}
	}

	updated, err := ctx.Trackers.Update(ctx.Ctx, t, category)
	if err != nil {
		return err
	}
	ctx.printf("✓ Updated %q\n", updated.Title)
	return nil
}

type TrackerPinCmd struct {
	Tracker string `arg:"" help:"Tracker id or title."`
}

func (c *TrackerPinCmd) Run(ctx *Context) error {
	return setPinned(ctx, c.Tracker, true)
}

type TrackerUnpinCmd struct {
	Tracker string `arg:"" help:"Tracker id or title."`
}

func (c *TrackerUnpinCmd) Run(ctx *Context) error {
	return setPinned(ctx, c.Tracker, false)
}

func setPinned(ctx *Context, ref string, pinned bool) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	t, err := ctx.Trackers.Resolve(ctx.Ctx, ref)
	if err != nil {
		return err
	}
	if err := ctx.Trackers.SetPinned(ctx.Ctx, t.ID, pinned); err != nil {
		return err
	}
	verb := "Unpinned"
	if pinned {
		verb = "Pinned"
	}
	ctx.printf("✓ %s %q\n", verb, t.Title)
	return nil
}

type TrackerDeleteCmd struct {
	Tracker string `arg:"" help:"Tracker id or title."`
	Yes     bool   `help:"Do not ask for confirmation." short:"y"`
}

func (c *TrackerDeleteCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	t, err := ctx.Trackers.Resolve(ctx.Ctx, c.Tracker)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Delete %q and all of its completion records?", t.Title))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Trackers.Delete(ctx.Ctx, t.ID); err != nil {
		return err
	}
	ctx.printf("✓ Deleted %q\n", t.Title)
	return nil
}

type TrackerListCmd struct {
	Category string `help:"Only list trackers of this category." short:"c"`
}

func (c *TrackerListCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}

	snapshot, err := ctx.Trackers.Snapshot(ctx.Ctx)
	if err != nil {
		return err
	}
	if c.Category != "" {
		trackers, err := ctx.Trackers.ListInCategory(ctx.Ctx, c.Category)
		if err != nil {
			return err
		}
		snapshot = []models.CategoryWithTrackers{{Title: c.Category, Trackers: trackers}}
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	count := 0
	for _, cat := range snapshot {
		if len(cat.Trackers) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\n", strings.ToUpper(cat.Title))
		for _, t := range cat.Trackers {
			pin := ""
			if t.IsPinned {
				pin = "📌"
			}
			fmt.Fprintf(w, "  %s %s\t%s\t#%s\t%s\t%s\n", t.Emoji, t.Title, t.Schedule, t.ColorHex, pin, t.ID)
			count++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if count == 0 {
		ctx.println("No trackers found.")
	}
	return nil
}
