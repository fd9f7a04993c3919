package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/models"
	"github.com/BolkaZ/Tracker/internal/query"
	"github.com/BolkaZ/Tracker/internal/utils"
)

var errTodayFilterDate = errors.New("the today filter always shows the current day, drop --date or pick another filter")

type ViewCmd struct {
	Date   string `help:"Day to show (YYYY-MM-DD, today or yesterday)." default:"today"`
	Search string `help:"Only show trackers whose title contains this text." short:"s"`
	Filter string `help:"Filter: all, today, completed or uncompleted." default:"all" enum:"all,today,completed,uncompleted" short:"f"`
}

func (c *ViewCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	date, err := ctx.parseDate(c.Date)
	if err != nil {
		return err
	}
	filter, err := models.ParseFilter(c.Filter)
	if err != nil {
		return err
	}
	if filter == models.FilterToday && !utils.SameDay(date, ctx.DB.Now(), ctx.DB.Location()) {
		return errTodayFilterDate
	}

	b := query.NewBrowser(ctx.Trackers, ctx.Records, ctx.DB.Location(), ctx.DB.Now)
	b.SelectFilter(filter)
	b.SetDate(date)
	b.SetSearch(c.Search)
	state, err := b.Refresh(ctx.Ctx)
	if err != nil {
		return err
	}

	ctx.printf("%s  (%s)\n\n", b.Date().Format("Monday, "+constants.DateFormat), state.Filter.Title())
	switch state.EmptyReason {
	case models.EmptyNoTrackersForDate:
		ctx.println("Nothing to track on this day.")
		return nil
	case models.EmptyNoResults:
		ctx.println("Nothing found.")
		return nil
	}

	cells := map[uuid.UUID]query.Cell{}
	for _, cell := range b.Cells() {
		cells[cell.Tracker.ID] = cell
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	for _, section := range state.Sections {
		fmt.Fprintf(w, "%s\n", section.Title)
		for _, t := range section.Trackers {
			cell := cells[t.ID]
			mark := "[ ]"
			if cell.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(w, "  %s %s %s\t%s\n", mark, t.Emoji, t.Title, pluralDays(cell.Days))
		}
	}
	return w.Flush()
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
