// Package cli holds the command implementations bound by kong in cmd/tracker.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/keyring"
	"github.com/BolkaZ/Tracker/internal/storage"
	"github.com/BolkaZ/Tracker/internal/storage/postgres"
	"github.com/BolkaZ/Tracker/internal/utils"
)

// KeyringTarget selects the connection string stored in the OS keyring.
const KeyringTarget = "keyring"

// Context is handed to every command. The stores share one DB.
type Context struct {
	Ctx        context.Context
	DB         *storage.DB
	Categories *storage.CategoryStore
	Trackers   *storage.TrackerStore
	Records    *storage.RecordStore
	Out        io.Writer
	In         io.Reader
}

// NewContext wires the stores over a single DB.
func NewContext(ctx context.Context, db *storage.DB) *Context {
	return &Context{
		Ctx:        ctx,
		DB:         db,
		Categories: storage.NewCategoryStore(db),
		Trackers:   storage.NewTrackerStore(db),
		Records:    storage.NewRecordStore(db),
		Out:        os.Stdout,
		In:         os.Stdin,
	}
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// ResolveTarget turns the --config value into a SQLite path or a PostgreSQL
// connection string. A connection string from the environment or the keyring
// may carry a password; one given on the command line may not.
func ResolveTarget(config string) (string, error) {
	if env := strings.TrimSpace(os.Getenv(constants.EnvConnection)); env != "" {
		return env, nil
	}

	if config == KeyringTarget {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return "", errors.New("no connection string in keyring, run 'tracker config set-connection' first")
			}
			return "", err
		}
		return connStr, nil
	}

	if postgres.IsConnString(config) {
		if err := postgres.ValidateConnString(config); err != nil {
			return "", err
		}
		return config, nil
	}

	return expandHome(config)
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// ConfigDir is where logs and backups live for target.
func ConfigDir(target string) string {
	if postgres.IsConnString(target) {
		if dir, err := expandHome(filepath.Dir(constants.DefaultConfigPath)); err == nil {
			return dir
		}
	}
	return filepath.Dir(target)
}

// parseDate reads a --date value: empty or "today" for today, "yesterday",
// or YYYY-MM-DD in the store's location.
func (c *Context) parseDate(value string) (time.Time, error) {
	loc := c.DB.Location()
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return c.DB.Today(), nil
	case "yesterday":
		return utils.AddDays(c.DB.Today(), -1), nil
	}
	day, err := utils.ParseDay(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today or yesterday)", value)
	}
	return day, nil
}

func (c *Context) confirm(prompt string) (bool, error) {
	c.printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
