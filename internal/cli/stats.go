package cli

import (
	"github.com/BolkaZ/Tracker/internal/stats"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	records, err := ctx.Records.List(ctx.Ctx)
	if err != nil {
		return err
	}

	summary, ok := stats.Calculate(records, ctx.DB.Location())
	if !ok {
		ctx.println("No statistics yet. Complete a tracker to get started.")
		return nil
	}
	for _, m := range summary.Metrics() {
		ctx.println(m.String())
	}
	return nil
}
