package storage

import (
	"context"

	"github.com/BolkaZ/Tracker/internal/constants"
	"github.com/BolkaZ/Tracker/internal/models"
)

func (d *DB) GetSettings(ctx context.Context) (models.Settings, error) {
	rows, err := d.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, d.wrap("scan settings", err)
		}
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, d.wrap("list settings", rows.Err())
}

// SaveSettings writes every setting. It is not a tracked change, so no
// subscriber is notified.
func (d *DB) SaveSettings(ctx context.Context, settings models.Settings) error {
	if d.conn == nil {
		return ErrNotInitialized
	}
	values := map[string]string{
		constants.SettingTimezone: settings.Timezone,
	}
	for key, value := range values {
		_, err := d.conn.ExecContext(ctx, rebind(d.dialect,
			"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value"),
			key, value)
		if err != nil {
			return d.wrap("save settings", err)
		}
	}
	return nil
}
