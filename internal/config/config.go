package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite    = "sqlite"
	DriverSQLiteCGO = "sqlite3"

	DispatchOutlook = "outlook"
	DispatchFile    = "file"
	DispatchNoop    = "noop"

	defaultDatabaseFile = "cadastro.sqlite"
	defaultTemplate     = "registration_default.oft"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppDir      string
	Environment string

	Database  DatabaseConfig
	Templates TemplatesConfig
	Dispatch  DispatchConfig
	Logger    LoggerConfig
}

type DatabaseConfig struct {
	Driver        string
	Filename      string
	Path          string
	ForeignKeys   bool
	SlowThreshold time.Duration
}

type TemplatesConfig struct {
	Dir     string
	Default string
}

type DispatchConfig struct {
	Driver    string
	OutboxDir string
}

type LoggerConfig struct {
	Level  string
	Format string
}

// Load reads configuration from an optional config file, the .env file and
// CADASTRO_* environment variables, in increasing order of precedence.
func Load(cfgFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CADASTRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("cadastro")
		v.SetConfigType("yaml")
		if dir, err := ExecutableDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppDir:      strings.TrimSpace(v.GetString("app.dir")),
		Environment: v.GetString("app.environment"),
		Database: DatabaseConfig{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
			Filename:      strings.TrimSpace(v.GetString("database.filename")),
			Path:          strings.TrimSpace(v.GetString("database.path")),
			ForeignKeys:   v.GetBool("database.foreign_keys"),
			SlowThreshold: v.GetDuration("database.slow_threshold"),
		},
		Templates: TemplatesConfig{
			Dir:     strings.TrimSpace(v.GetString("templates.dir")),
			Default: strings.TrimSpace(v.GetString("templates.default")),
		},
		Dispatch: DispatchConfig{
			Driver:    strings.ToLower(strings.TrimSpace(v.GetString("dispatch.driver"))),
			OutboxDir: strings.TrimSpace(v.GetString("dispatch.outbox_dir")),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		},
	}

	if cfg.AppDir == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return Config{}, err
		}
		cfg.AppDir = dir
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cadastro")
	v.SetDefault("app.dir", "")
	v.SetDefault("app.environment", "production")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.filename", defaultDatabaseFile)
	v.SetDefault("database.path", "")
	v.SetDefault("database.foreign_keys", true)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)
	v.SetDefault("templates.dir", "")
	v.SetDefault("templates.default", defaultTemplate)
	v.SetDefault("dispatch.driver", "")
	v.SetDefault("dispatch.outbox_dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// ExecutableDir returns the directory holding the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// DataDir is the directory holding the database file.
func (c Config) DataDir() string {
	return filepath.Join(c.AppDir, "data")
}

// DatabasePath is the absolute path of the database file.
func (c Config) DatabasePath() string {
	if c.Database.Path != "" {
		if abs, err := filepath.Abs(c.Database.Path); err == nil {
			return abs
		}
		return c.Database.Path
	}
	name := c.Database.Filename
	if name == "" {
		name = defaultDatabaseFile
	}
	return filepath.Join(c.DataDir(), name)
}

// TemplateDir is where template names without a directory are looked up.
func (c Config) TemplateDir() string {
	if c.Templates.Dir != "" {
		if filepath.IsAbs(c.Templates.Dir) {
			return c.Templates.Dir
		}
		return filepath.Join(c.AppDir, c.Templates.Dir)
	}
	return filepath.Join(c.AppDir, "resources", "oft")
}

// DefaultTemplate is used when the caller does not name a template.
func (c Config) DefaultTemplate() string {
	if c.Templates.Default == "" {
		return defaultTemplate
	}
	return c.Templates.Default
}

// OutboxDir is where the file dispatcher writes rendered drafts.
func (c Config) OutboxDir() string {
	if c.Dispatch.OutboxDir != "" {
		if filepath.IsAbs(c.Dispatch.OutboxDir) {
			return c.Dispatch.OutboxDir
		}
		return filepath.Join(c.AppDir, c.Dispatch.OutboxDir)
	}
	return filepath.Join(c.AppDir, "outbox")
}

func (c Config) Debug() bool {
	return c.Logger.Level == "debug"
}
