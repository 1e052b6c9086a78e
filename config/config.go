package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-json"

	"github.com/masmgr/gamerules/internal/validation"
)

// FileName is the configuration file looked up in the working and home directories.
const FileName = ".gamerules.json"

// Config is the root configuration structure.
type Config struct {
	Catalog    CatalogConfig  `json:"catalog"`
	Vocabulary string         `json:"vocabulary"` // YAML vocabulary file, empty for the built-in lists
	Features   FeaturesConfig `json:"features"`
	Mining     MiningConfig   `json:"mining"`
	Pairs      PairsConfig    `json:"pairs"`
	Output     OutputConfig   `json:"output"`
	Server     ServerConfig   `json:"server"`
	Log        LogConfig      `json:"log"`
}

// CatalogConfig selects the catalog shards.
type CatalogConfig struct {
	Patterns []string `json:"patterns" validate:"required,min=1,dive,required"` // doublestar globs
	Exclude  []string `json:"exclude"`
	RepoPath string   `json:"repoPath"` // read shards from this git repository
	Revision string   `json:"revision"` // Default: "HEAD"
}

// FeaturesConfig holds feature encoding options.
type FeaturesConfig struct {
	MinReviews   int     `json:"minReviews" validate:"gte=0"`           // Default: 25
	NeutralScore float64 `json:"neutralScore" validate:"gte=0,lte=100"` // Default: 50
}

// MiningConfig holds rule mining options.
type MiningConfig struct {
	MinOccurrences   int     `json:"minOccurrences" validate:"gte=1"`      // Default: 25
	MinSupport       float64 `json:"minSupport" validate:"gte=0,lte=1"`    // overrides MinOccurrences when > 0
	MinConfidence    float64 `json:"minConfidence" validate:"gte=0,lte=1"` // Default: 0.5
	MaxLen           int     `json:"maxLen" validate:"gte=0"`              // 0 for unlimited
	ExactOccurrences bool    `json:"exactOccurrences"`
}

// PairsConfig holds theme x genre aggregation options.
type PairsConfig struct {
	MinOccurrences int `json:"minOccurrences" validate:"gte=0"` // Default: 10
}

// OutputConfig holds persisted table locations.
type OutputConfig struct {
	Dir      string `json:"dir" validate:"required"` // CSV snapshot directory, default "data"
	Database string `json:"database"`                // SQLite snapshot, empty to skip
}

// ServerConfig holds serve API options.
type ServerConfig struct {
	Addr            string   `json:"addr" validate:"required,hostname_port"` // Default: ":8050"
	AllowedOrigins  []string `json:"allowedOrigins"`
	RateLimit       int      `json:"rateLimit" validate:"gte=0"` // requests per window, 0 disables
	RateLimitWindow Duration `json:"rateLimitWindow"`            // Default: 1m
}

// LogConfig holds logging options.
type LogConfig struct {
	Level  string `json:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `json:"format" validate:"oneof=console json"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Patterns: []string{"data/games*.json"},
			Exclude:  []string{},
			Revision: "HEAD",
		},
		Features: FeaturesConfig{
			MinReviews:   25,
			NeutralScore: 50,
		},
		Mining: MiningConfig{
			MinOccurrences: 25,
			MinConfidence:  0.5,
		},
		Pairs: PairsConfig{
			MinOccurrences: 10,
		},
		Output: OutputConfig{
			Dir: "data",
		},
		Server: ServerConfig{
			Addr:            ":8050",
			AllowedOrigins:  []string{},
			RateLimit:       100,
			RateLimitWindow: Duration(defaultRateLimitWindow),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, p := range append(append([]string{}, c.Catalog.Patterns...), c.Catalog.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid configuration: bad catalog pattern %q", p)
		}
	}
	return nil
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
