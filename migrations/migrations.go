// Package migrations embeds the versioned schema for every supported engine.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
