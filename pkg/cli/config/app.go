package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Tuning is the optional TOML application configuration
type Tuning struct {
	SearchTopK      int      `toml:"search_top_k"`
	MoodMapLimit    int      `toml:"mood_map_limit"`
	MaxUploadSizeMB int64    `toml:"max_upload_size_mb"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// DefaultTuning returns the tuning applied without a config file
func DefaultTuning() *Tuning {
	return &Tuning{
		SearchTopK:      10,
		MoodMapLimit:    100,
		MaxUploadSizeMB: 10,
		CORSOrigins:     []string{"*"},
	}
}

// Validate checks if the tuning values are usable
func (t *Tuning) Validate() error {
	if t.SearchTopK <= 0 {
		return goerr.New("search_top_k must be positive", goerr.V("value", t.SearchTopK))
	}
	if t.MoodMapLimit <= 0 {
		return goerr.New("mood_map_limit must be positive", goerr.V("value", t.MoodMapLimit))
	}
	if t.MaxUploadSizeMB <= 0 {
		return goerr.New("max_upload_size_mb must be positive", goerr.V("value", t.MaxUploadSizeMB))
	}
	return nil
}

// MaxUploadSizeBytes returns the upload cap in bytes
func (t *Tuning) MaxUploadSizeBytes() int64 {
	return t.MaxUploadSizeMB << 20
}

// App holds CLI flags for the application configuration file
type App struct {
	path string
}

// Flags returns CLI flags for app configuration
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML application configuration",
			Sources:     cli.EnvVars("MEMORA_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the TOML configuration, falling back to defaults when
// no path is given. Fields absent from the file keep their defaults.
func (a *App) Configure() (*Tuning, error) {
	tuning := DefaultTuning()
	if a.path == "" {
		return tuning, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", a.path))
	}
	if err := toml.Unmarshal(data, tuning); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", a.path))
	}
	if err := tuning.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", a.path))
	}
	return tuning, nil
}
