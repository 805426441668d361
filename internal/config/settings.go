package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings holds the runtime configuration read from the environment.
type Settings struct {
	Port     string `env:"GABBAI_PORT" envDefault:"18080"`
	BindAddr string `env:"GABBAI_BIND_ADDR" envDefault:"127.0.0.1"`

	// Language serves synagogues that set none and words operator log messages.
	Language        string        `env:"GABBAI_LANGUAGE" envDefault:"he"`
	Diaspora        bool          `env:"GABBAI_DIASPORA"`
	RefreshInterval time.Duration `env:"GABBAI_REFRESH_INTERVAL" envDefault:"1h"`

	// ReminderTrigger is relative to the event start (e.g. "-18h"); zero disables alarms.
	ReminderTrigger time.Duration `env:"GABBAI_REMINDER_TRIGGER"`

	DirectoryURL       string `env:"GABBAI_DIRECTORY_URL"`
	DirectoryUser      string `env:"GABBAI_DIRECTORY_USER"`
	DirectoryFile      string `env:"GABBAI_DIRECTORY_FILE"`
	DirectorySynagogue string `env:"GABBAI_DIRECTORY_SYNAGOGUE"`
	Seed               bool   `env:"GABBAI_SEED"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("%s: %w", ErrEnvParse, err)
	}
	return nil
}

// LoadSettings reads the optional dotenv files, then the process environment.
// Variables already set in the environment win over the file.
func LoadSettings(files ...string) (Settings, error) {
	if len(files) == 0 {
		files = []string{DotEnvFile}
	}
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("%s: %w", ErrEnvParse, err)
		}
		slog.Debug(MsgDotEnvSkipped, LogKeyComponent, CompConfig, LogKeyFile, files)
	}

	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the values env parsing cannot express.
func (s Settings) Validate() error {
	if s.Port == "" {
		return errors.New(ErrPortRequired)
	}
	p, err := strconv.Atoi(s.Port)
	if err != nil || p < MinPort || p > MaxPort {
		return errors.New(ErrPortRange)
	}
	if s.RefreshInterval < 0 {
		return fmt.Errorf("%s: %s", ErrEnvParse, "negative refresh interval")
	}
	return nil
}

// SourceMode reports where directory imports come from.
func (s Settings) SourceMode() string {
	switch {
	case s.DirectoryURL != "":
		return SourceModeWeb
	case s.DirectoryFile != "":
		return SourceModeLocal
	default:
		return SourceModeNone
	}
}

// Interval returns the refresh interval, falling back to the default when unset.
func (s Settings) Interval() time.Duration {
	if s.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	return s.RefreshInterval
}

// Addr joins the bind address and port.
func (s Settings) Addr() string {
	return s.BindAddr + AddrSeparator + s.Port
}

// IsIsrael reports whether the Israeli reading schedule applies.
func (s Settings) IsIsrael() bool {
	return !s.Diaspora
}
