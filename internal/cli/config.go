package cli

import (
	"errors"
	"fmt"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/keyring"
	"github.com/BolkaZ/Tracker/internal/storage/postgres"
	"github.com/BolkaZ/Tracker/internal/utils"
)

// ConfigSetConnectionCmd stores a PostgreSQL connection string in the OS keyring.
type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (c *ConfigSetConnectionCmd) Run(ctx *Context) error {
	if !postgres.IsConnString(c.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}
	if err := postgres.ValidateConnString(c.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so a password is acceptable here
		ctx.println("⚠️  Connection string contains embedded credentials. It will be stored in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	ctx.println("✓ Connection string stored in OS keyring")
	ctx.printf("  Use it with: %s --config %s\n", constants.AppName, KeyringTarget)
	return nil
}

type ConfigShowConnectionCmd struct{}

func (c *ConfigShowConnectionCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.println(keyring.MaskPassword(connStr))
	return nil
}

type ConfigDeleteConnectionCmd struct{}

func (c *ConfigDeleteConnectionCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.println("✓ Connection string deleted from OS keyring")
	return nil
}

// ConfigTimezoneCmd shows or changes the timezone day boundaries use.
type ConfigTimezoneCmd struct {
	Timezone string `arg:"" optional:"" help:"IANA timezone name or Local."`
}

func (c *ConfigTimezoneCmd) Run(ctx *Context) error {
	if err := ctx.DB.Load(ctx.Ctx); err != nil {
		return err
	}
	settings, err := ctx.DB.GetSettings(ctx.Ctx)
	if err != nil {
		return err
	}
	if c.Timezone == "" {
		ctx.println(settings.Timezone)
		return nil
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	settings.Timezone = c.Timezone
	if err := ctx.DB.SaveSettings(ctx.Ctx, settings); err != nil {
		return err
	}
	ctx.printf("✓ Timezone set to %s\n", c.Timezone)
	return nil
}
