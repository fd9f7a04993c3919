package cli

import "fmt"

type CategoryAddCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryAddCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	cat, err := ctx.Categories.Create(ctx.Ctx, c.Title)
	if err != nil {
		return err
	}
	ctx.printf("✓ Added category %q\n", cat.Title)
	return nil
}

type CategoryRenameCmd struct {
	Old string `arg:"" help:"Current title."`
	New string `arg:"" help:"New title."`
}

func (c *CategoryRenameCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	if err := ctx.Categories.Rename(ctx.Ctx, c.Old, c.New); err != nil {
		return err
	}
	ctx.printf("✓ Renamed category %q to %q\n", c.Old, c.New)
	return nil
}

type CategoryDeleteCmd struct {
	Title string `arg:"" help:"Category title."`
}

func (c *CategoryDeleteCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	if err := ctx.Categories.Delete(ctx.Ctx, c.Title); err != nil {
		return err
	}
	ctx.printf("✓ Deleted category %q\n", c.Title)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	snapshot, err := ctx.Trackers.Snapshot(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	if len(snapshot) == 0 {
		ctx.println("No categories yet. Add one with 'tracker category add <title>'.")
		return nil
	}
	for _, cat := range snapshot {
		ctx.printf("%s (%d)\n", cat.Title, len(cat.Trackers))
	}
	return nil
}
