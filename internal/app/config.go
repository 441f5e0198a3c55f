package app

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type Config struct {
	Server struct {
		Port        string   `toml:"port"`
		CORSOrigins []string `toml:"cors_origins"`
	} `toml:"server"`

	API struct {
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN string `toml:"dsn"`
	} `toml:"database"`

	Storage struct {
		DataDir           string              `toml:"data_dir"`
		MaxFileSizeMB     int64               `toml:"max_file_size_mb"`
		EnforceExtensions bool                `toml:"enforce_extensions"`
		AllowedExtensions map[string][]string `toml:"allowed_extensions"`
	} `toml:"storage"`

	Cache struct {
		RedisURL string `toml:"redis_url"`
		TTL      string `toml:"ttl"`
	} `toml:"cache"`

	Schedules struct {
		SlotMinutes  int `toml:"slot_minutes"`
		UpcomingDays int `toml:"upcoming_days"`
	} `toml:"schedules"`

	GSheet struct {
		CredentialsFile string        `toml:"credentials_file"`
		Exports         []SheetExport `toml:"exports"`
	} `toml:"gsheet"`

	Bot struct {
		Token  string  `toml:"token"`
		Admins []int64 `toml:"admins"`
		Round  string  `toml:"default_round"`
	} `toml:"bot"`
}

// SheetExport writes the team rankings of Round into Range of a spreadsheet on Cron.
type SheetExport struct {
	SpreadsheetID string `toml:"spreadsheet_id"`
	Range         string `toml:"range"`
	Round         string `toml:"round"`
	Limit         int    `toml:"limit"`
	Cron          string `toml:"cron"`
}

const (
	defaultDataDir      = "uploads"
	defaultSlotMinutes  = 30
	defaultUpcomingDays = 7
	defaultCacheTTL     = 5 * time.Minute
)

// envOverrides maps environment variables to the config values they replace.
var envOverrides = map[string]func(c *Config) *string{
	"SEMLA_DATABASE_DSN": func(c *Config) *string { return &c.Database.DSN },
	"SEMLA_REDIS_URL":    func(c *Config) *string { return &c.Cache.RedisURL },
	"SEMLA_BOT_TOKEN":    func(c *Config) *string { return &c.Bot.Token },
	"SEMLA_DATA_DIR":     func(c *Config) *string { return &c.Storage.DataDir },
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Error.Printf("Failed to load .env file: %v", err)
	}
	config.applyEnv()
	config.applyDefaults()

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database DSN is not specified in config or SEMLA_DATABASE_DSN")
	}
	if _, err := config.CacheTTL(); err != nil {
		return nil, err
	}

	logger.Debug.Printf("Loaded storage config: %+v", config.Storage)
	logger.Debug.Printf("Loaded schedules config: %+v", config.Schedules)

	return &config, nil
}

func (c *Config) applyEnv() {
	for name, field := range envOverrides {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field(c) = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaultDataDir
	}
	if c.Schedules.SlotMinutes <= 0 {
		c.Schedules.SlotMinutes = defaultSlotMinutes
	}
	if c.Schedules.UpcomingDays <= 0 {
		c.Schedules.UpcomingDays = defaultUpcomingDays
	}
}

func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return defaultCacheTTL, nil
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.Cache.TTL, err)
	}
	return ttl, nil
}

func (c *Config) SlotSeconds() float64 {
	return float64(c.Schedules.SlotMinutes * 60)
}
