package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Nansen        NansenConfig        `yaml:"nansen"`
	Moralis       MoralisConfig       `yaml:"moralis"`
	Analysis      AnalysisConfig      `yaml:"analysis"`
	WalletProfile WalletProfileConfig `yaml:"walletProfile"`
	Cache         CacheConfig         `yaml:"cache"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// NansenConfig holds the configuration for the Nansen analytics provider.
// The API key is read from the NANSEN_API_KEY environment variable, never
// from the config file.
type NansenConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimit            float64 `yaml:"rateLimit"`
	BurstLimit           int     `yaml:"burstLimit"`
}

// MoralisConfig holds the configuration for the Moralis balance provider.
// The API key is read from the MORALIS_API_KEY environment variable.
type MoralisConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimit            float64 `yaml:"rateLimit"`
	BurstLimit           int     `yaml:"burstLimit"`
}

// AnalysisConfig holds configuration for the batch token analysis.
type AnalysisConfig struct {
	MaxTokens             int     `yaml:"maxTokens"`
	LeaderboardLimit      int     `yaml:"leaderboardLimit"`
	LookbackDays          int     `yaml:"lookbackDays"`
	MinRealisedPnlUSD     float64 `yaml:"minRealisedPnlUSD"`
	MinHoldingUSD         float64 `yaml:"minHoldingUSD"`
	MaxConcurrentRequests int     `yaml:"maxConcurrentRequests"`
	HolderListLimit       int     `yaml:"holderListLimit"`
	MinHolderValueUSD     float64 `yaml:"minHolderValueUSD"`
}

// WalletProfileConfig holds configuration for on-demand wallet lookups.
type WalletProfileConfig struct {
	LookbackDays       int     `yaml:"lookbackDays"`
	BatchSize          int     `yaml:"batchSize"`
	MinHoldingValueUSD float64 `yaml:"minHoldingValueUSD"`
}

// CacheConfig holds configuration for the token metadata cache.
type CacheConfig struct {
	TokenInfoTTLMinutes    int `yaml:"tokenInfoTTLMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file and applies defaults for
// anything left unset.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	cfg.applyDefaults()

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// Default returns a Config with every default applied, for callers running
// without a config file.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":3001"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Nansen.BaseURL == "" {
		cfg.Nansen.BaseURL = "https://api.nansen.ai/api/v1"
		logrus.Infof("Nansen.BaseURL not set, defaulting to %s", cfg.Nansen.BaseURL)
	}
	if cfg.Nansen.RequestTimeoutMillis == 0 {
		cfg.Nansen.RequestTimeoutMillis = 15000
	}
	if cfg.Nansen.RateLimit == 0 {
		cfg.Nansen.RateLimit = 10
	}
	if cfg.Nansen.BurstLimit == 0 {
		cfg.Nansen.BurstLimit = 5
	}

	if cfg.Moralis.BaseURL == "" {
		cfg.Moralis.BaseURL = "https://deep-index.moralis.io/api/v2.2"
		logrus.Infof("Moralis.BaseURL not set, defaulting to %s", cfg.Moralis.BaseURL)
	}
	if cfg.Moralis.RequestTimeoutMillis == 0 {
		cfg.Moralis.RequestTimeoutMillis = 15000
	}
	if cfg.Moralis.RateLimit == 0 {
		cfg.Moralis.RateLimit = 10
	}
	if cfg.Moralis.BurstLimit == 0 {
		cfg.Moralis.BurstLimit = 5
	}

	if cfg.Analysis.MaxTokens == 0 {
		cfg.Analysis.MaxTokens = 5
	}
	if cfg.Analysis.LeaderboardLimit == 0 {
		cfg.Analysis.LeaderboardLimit = 10
	}
	if cfg.Analysis.LookbackDays == 0 {
		cfg.Analysis.LookbackDays = 7
	}
	if cfg.Analysis.MinRealisedPnlUSD == 0 {
		cfg.Analysis.MinRealisedPnlUSD = 100
	}
	// MinHoldingUSD stays 0: the leaderboard is open to traders that already
	// exited their position.
	if cfg.Analysis.MaxConcurrentRequests == 0 {
		cfg.Analysis.MaxConcurrentRequests = 5
	}
	if cfg.Analysis.HolderListLimit == 0 {
		cfg.Analysis.HolderListLimit = 100
	}
	if cfg.Analysis.MinHolderValueUSD == 0 {
		cfg.Analysis.MinHolderValueUSD = 50
	}

	if cfg.WalletProfile.LookbackDays == 0 {
		cfg.WalletProfile.LookbackDays = 90
	}
	if cfg.WalletProfile.BatchSize == 0 {
		cfg.WalletProfile.BatchSize = 10
	}
	if cfg.WalletProfile.MinHoldingValueUSD == 0 {
		cfg.WalletProfile.MinHoldingValueUSD = 1
	}

	if cfg.Cache.TokenInfoTTLMinutes == 0 {
		cfg.Cache.TokenInfoTTLMinutes = 60
	}
	if cfg.Cache.CleanupIntervalMinutes == 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
