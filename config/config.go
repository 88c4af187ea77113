package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/icodeforyou/barrywatch-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
}

type AppConfigDatabase struct {
	Path string
	// How many days of prices/consumption to keep before purging
	DataRetentionDays *int `mapstructure:"data_retention_days"`
	// How many days daily backup files should be kept
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 90
	}
	return *d.DataRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigBarry struct {
	Token string // API token issued in the Barry app
	Area  string `mapstructure:"area"` // "DK_NORDPOOL_SPOT_DK1", "DK_NORDPOOL_SPOT_DK2" or "FR_EPEX_SPOT_FR"
	// Metering point id for consumption and kWh quotes. When 0, the
	// daemon only collects spot prices and logs the metering points it
	// can see so the id can be picked from the log.
	MeteringPoint int64  `mapstructure:"metering_point"`
	RunAt         string `mapstructure:"run_at"` // Cron spec for the spot price fetch
}

type AppConfigConsumption struct {
	RunAt string `mapstructure:"run_at"`
	// How many days back to request. The API rejects windows under one
	// day, so values below 1 fall back to the default of 2.
	LookbackDays *int `mapstructure:"lookback_days"`
}

func (c AppConfigConsumption) GetLookbackDays() int {
	if c.LookbackDays == nil || *c.LookbackDays < 1 {
		return 2
	}
	return *c.LookbackDays
}

type AppConfigQuote struct {
	RunAt string `mapstructure:"run_at"` // Cron spec for the total kWh price fetch
}

type AppConfigLogging struct {
	// Min log level for database: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for the console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.LogAttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	Barry       AppConfigBarry
	Consumption AppConfigConsumption `mapstructure:"consumption"`
	Quote       AppConfigQuote       `mapstructure:"quote"`
	Logging     AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
