package constants

const (
	AppName            = "tracker"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tracker/tracker.db"
	Version            = "v0.3.0"

	// EnvConnection holds a PostgreSQL connection string that must not be
	// passed on the command line.
	EnvConnection = "TRACKER_DB_CONNECTION"

	// Tracker constraints
	TrackerTitleLimit = 38

	// PinnedSectionTitle is the title of the synthetic leading section
	PinnedSectionTitle = "Pinned"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tracker-"
	BackupFileSuffix = ".db"

	// Change subjects
	EntityCategory = "category"
	EntityTracker  = "tracker"
	EntityRecord   = "record"
)
