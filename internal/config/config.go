package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/lead-sync/internal/campaign"
)

// Config holds the full application configuration.
type Config struct {
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Debounce   DebounceConfig   `yaml:"debounce" mapstructure:"debounce"`
	Instantly  InstantlyConfig  `yaml:"instantly" mapstructure:"instantly"`
	Campaigns  campaign.IDs     `yaml:"campaigns" mapstructure:"campaigns"`
	Sync       SyncConfig       `yaml:"sync" mapstructure:"sync"`
	Ledger     LedgerConfig     `yaml:"ledger" mapstructure:"ledger"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string  `yaml:"client_id" mapstructure:"client_id"`
	Username string  `yaml:"username" mapstructure:"username"`
	KeyPath  string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string  `yaml:"login_url" mapstructure:"login_url"`
	RateRPS  float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
}

// DebounceConfig holds Debounce deliverability API settings.
type DebounceConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// InstantlyConfig holds Instantly outreach API settings.
type InstantlyConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SyncConfig configures the lead query window and CRM-side filter.
type SyncConfig struct {
	WindowDays int      `yaml:"window_days" mapstructure:"window_days"`
	SubChannel string   `yaml:"sub_channel" mapstructure:"sub_channel"`
	Owners     []string `yaml:"owners" mapstructure:"owners"`
}

// LedgerConfig configures the dedup tracker backend.
type LedgerConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ledger.driver", "sqlite")
	v.SetDefault("ledger.database_url", "leadsync.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.rate_rps", 5.0)

	// Credentials default empty so AutomaticEnv can bind them.
	for _, key := range []string{
		"salesforce.client_id", "salesforce.username", "salesforce.key_path",
		"debounce.key", "instantly.key",
		"campaigns.pricing", "campaigns.blogs", "campaigns.compare", "campaigns.home",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("debounce.base_url", "https://api.debounce.io/v1/")
	v.SetDefault("instantly.base_url", "https://api.instantly.ai")
	v.SetDefault("sync.window_days", 30)
	v.SetDefault("sync.sub_channel", "Website Visit")
	v.SetDefault("sync.owners", []string{"Vipul Babbar", "Anirudh Vashishth"})

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
