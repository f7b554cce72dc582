// Package config loads the timelog configuration from ~/.timelog/config.yaml
// and the environment.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Timer   TimerConfig   `yaml:"timer"`
	Tracker TrackerConfig `yaml:"tracker"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
	Outlook OutlookConfig `yaml:"outlook"`
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// StorageConfig selects where tasks, entries and timer state live.
type StorageConfig struct {
	// Backend is "file" (one JSON file per key) or "sqlite".
	Backend string `yaml:"backend" env:"TLOG_STORAGE_BACKEND" env-default:"file"`
	// Dir is the data directory. Empty means ~/.timelog.
	Dir string `yaml:"dir" env:"TLOG_STORAGE_DIR"`
}

// TimerConfig holds timer settings.
type TimerConfig struct {
	// MaxSnapshotAge bounds how old a saved timer may be and still resume.
	MaxSnapshotAge time.Duration `yaml:"max_snapshot_age" env:"TLOG_TIMER_MAX_SNAPSHOT_AGE" env-default:"1h"`
}

// TrackerConfig selects the labelling variant.
type TrackerConfig struct {
	// RequireTask refuses to save an entry while no task is selected and
	// labels exports by task name.
	RequireTask bool `yaml:"require_task" env:"TLOG_TRACKER_REQUIRE_TASK" env-default:"false"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	Dir        string `yaml:"dir"         env:"TLOG_EXPORT_DIR"         env-default:"."`
	TimeLayout string `yaml:"time_layout" env:"TLOG_EXPORT_TIME_LAYOUT" env-default:"2006-01-02 15:04:05"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"TLOG_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"TLOG_LOG_FORMAT" env-default:"text"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `yaml:"tenant_id" env:"TLOG_OUTLOOK_TENANT_ID" env-default:"common"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `yaml:"client_id" env:"TLOG_OUTLOOK_CLIENT_ID" env-default:"04b07795-8542-4c4a-95af-30b2c573d5ab"`
	// DefaultProject is the task name assigned to imported events.
	DefaultProject string `yaml:"default_project" env:"TLOG_OUTLOOK_DEFAULT_PROJECT" env-default:"Meetings"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `yaml:"timezone" env:"TLOG_OUTLOOK_TIMEZONE"`
}

// Location resolves the configured Outlook timezone, falling back to UTC.
func (o OutlookConfig) Location() *time.Location {
	if o.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// template is the annotated config written on first run.
const template = `# timelog configuration
#
# All settings are optional. Every key can also be set through the
# environment, e.g. TLOG_STORAGE_BACKEND=sqlite.

storage:
  # "file" keeps one JSON file per collection, "sqlite" a single database.
  backend: file
  # Data directory. Empty means ~/.timelog.
  dir: ""

timer:
  # Saved timer state older than this is discarded on start.
  max_snapshot_age: 1h

tracker:
  # true: entries must belong to a task and exports are labelled by task.
  # false: entries carry a free-text description.
  require_task: false

export:
  dir: "."
  # Go reference layout for the Date & Time column.
  time_layout: "2006-01-02 15:04:05"

log:
  # debug | info | warn | error
  level: warn
  # text | json
  format: text

outlook:
  # "common" works for personal accounts and most organisations.
  tenant_id: common
  # Public Azure CLI app id; replace with your own app registration if needed.
  client_id: 04b07795-8542-4c4a-95af-30b2c573d5ab
  # Task that imported calendar events are booked on.
  default_project: Meetings
  # IANA timezone for event times, e.g. "Europe/Berlin". Empty means UTC.
  timezone: ""
`
