package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime settings and flags.
type Config struct {
	Tier           string // pro|flash
	ProModel       string
	FlashModel     string
	ThinkingBudget int
	BaseURL        string // optional inference endpoint override

	HistoryBackend string // sqlite|postgres|memory
	SQLitePath     string
	DSN            string

	KeyFile          string
	KeySelectCommand string

	Theme     string
	LogDir    string
	ExportDir string
}

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// HomeDir is the per-user state directory (~/.humanos).
func HomeDir() string {
	if override := strings.TrimSpace(os.Getenv("HUMANOS_HOME")); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".humanos"
	}
	return filepath.Join(home, ".humanos")
}

// NewViper returns a viper instance wired to HUMANOS_* env vars and the
// optional ~/.humanos/config.yaml file. A .env in the working directory is
// loaded first if present.
func NewViper() *viper.Viper {
	_ = godotenv.Load()
	v := viper.New()
	v.SetEnvPrefix("HUMANOS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(HomeDir())
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	home := HomeDir()
	v.SetDefault("tier", "pro")
	v.SetDefault("pro_model", "gemini-3-pro-preview")
	v.SetDefault("flash_model", "gemini-3-flash-preview")
	v.SetDefault("thinking_budget", 32768)
	v.SetDefault("history_backend", BackendSQLite)
	v.SetDefault("sqlite_path", filepath.Join(home, "humanos.db"))
	v.SetDefault("key_file", filepath.Join(home, "api_key"))
	v.SetDefault("theme", "humanos")
	v.SetDefault("log_dir", home)
	v.SetDefault("export_dir", filepath.Join(home, "exports"))
}

// Load reads the config file (if any), applies defaults and validates.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	cfg := Config{
		Tier:             strings.ToLower(strings.TrimSpace(v.GetString("tier"))),
		ProModel:         v.GetString("pro_model"),
		FlashModel:       v.GetString("flash_model"),
		ThinkingBudget:   v.GetInt("thinking_budget"),
		BaseURL:          v.GetString("base_url"),
		HistoryBackend:   strings.ToLower(strings.TrimSpace(v.GetString("history_backend"))),
		SQLitePath:       v.GetString("sqlite_path"),
		DSN:              v.GetString("dsn"),
		KeyFile:          v.GetString("key_file"),
		KeySelectCommand: v.GetString("key_select_command"),
		Theme:            v.GetString("theme"),
		LogDir:           v.GetString("log_dir"),
		ExportDir:        v.GetString("export_dir"),
	}
	if cfg.DSN == "" {
		cfg.DSN = os.Getenv("DATABASE_URL")
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []string
	switch c.Tier {
	case "pro", "flash":
	default:
		problems = append(problems, fmt.Sprintf("tier must be pro or flash, got %q", c.Tier))
	}
	switch c.HistoryBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "sqlite_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DSN == "" {
			problems = append(problems, "dsn (or DATABASE_URL) is required for the postgres backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown history_backend %q", c.HistoryBackend))
	}
	if c.ThinkingBudget < 0 {
		problems = append(problems, "thinking_budget must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
