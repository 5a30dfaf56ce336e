// Package config loads run configuration from .env, the environment and an
// optional YAML file
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/table"
	"github.com/vsinha/replenish/pkg/infrastructure/storage"
)

// Config holds all run configuration
type Config struct {
	Branches          []BranchConfig `yaml:"branches"`
	Sales             SalesConfig    `yaml:"sales"`
	Storage           StorageConfig  `yaml:"storage"`
	CompletionDefault string         `yaml:"completion_default"`
	Log               LogConfig      `yaml:"log"`
}

// BranchConfig describes one branch
type BranchConfig struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	ShortName  string `yaml:"short_name"`
	SheetName  string `yaml:"sheet_name"`
	IDLabel    string `yaml:"id_label"`
	TransferIn string `yaml:"transfer_in"`
	SalesToken string `yaml:"sales_token"`
}

// SalesConfig locates the sales master files
type SalesConfig struct {
	Dir    string `yaml:"dir"`
	Marker string `yaml:"marker"`
}

// StorageConfig selects where reports are published
type StorageConfig struct {
	Provider        string `yaml:"provider"`
	Bucket          string `yaml:"bucket"`
	CredentialsJSON string `yaml:"-"`
	Root            string `yaml:"root"`
	LocalDir        string `yaml:"local_dir"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the two-branch deployment configuration
func Default() *Config {
	return &Config{
		Branches: []BranchConfig{
			{
				Code:       "cuautitlan",
				Name:       "CUAUTITLAN",
				ShortName:  "CUAUTI",
				SheetName:  "DIA CUAUTITLAN",
				IDLabel:    "N° PARTE",
				TransferIn: "TRASPASO A CUAUTITLAN",
				SalesToken: "CUAUTITLAN",
			},
			{
				Code:       "tultitlan",
				Name:       "TULTITLAN",
				ShortName:  "TULTI",
				SheetName:  "DIA TULTITLAN",
				IDLabel:    "NUM. PARTE",
				TransferIn: "TRASPASO A TULTITLAN",
				SalesToken: "TULTITLAN",
			},
		},
		Sales: SalesConfig{
			Marker: "MASTER",
		},
		Storage: StorageConfig{
			Provider: storage.ProviderNone,
			Root:     "Analisis Compras",
			LocalDir: "reportes",
		},
		CompletionDefault: "blank",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// REPLENISH_CONFIG), then environment variables. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("REPLENISH_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.Sales.Dir = getEnv("SALES_MASTER_DIR", cfg.Sales.Dir)
	cfg.Sales.Marker = getEnv("SALES_MARKER", cfg.Sales.Marker)
	cfg.Storage.Provider = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_PROVIDER", cfg.Storage.Provider)))
	cfg.Storage.Bucket = getEnv("GCS_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.CredentialsJSON = os.Getenv("GCS_CREDENTIALS_JSON")
	cfg.Storage.Root = getEnv("REPORT_ROOT", cfg.Storage.Root)
	cfg.Storage.LocalDir = getEnv("LOCAL_STORE_DIR", cfg.Storage.LocalDir)
	cfg.CompletionDefault = getEnv("COMPLETION_DEFAULT", cfg.CompletionDefault)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a run depends on
func (c *Config) Validate() error {
	if len(c.Branches) != 2 {
		return fmt.Errorf("exactly 2 branches are required, got %d", len(c.Branches))
	}
	for i, b := range c.Branches {
		if b.Code == "" || b.Name == "" || b.SheetName == "" || b.IDLabel == "" {
			return fmt.Errorf("branch %d needs code, name, sheet_name and id_label", i+1)
		}
	}
	if c.Branches[0].Code == c.Branches[1].Code {
		return fmt.Errorf("branch code %q is used twice", c.Branches[0].Code)
	}

	switch c.Storage.Provider {
	case storage.ProviderNone, storage.ProviderLocal:
	case storage.ProviderGCS:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for the gcs storage provider")
		}
	default:
		return fmt.Errorf("invalid storage provider: %s (expected: gcs, local or none)", c.Storage.Provider)
	}

	if _, err := table.ParseDefault(c.CompletionDefault); err != nil {
		return err
	}
	return nil
}

// Completion returns the completion policy for columns without their own default
func (c *Config) Completion() table.Default {
	d, _ := table.ParseDefault(c.CompletionDefault)
	return d
}

// BranchList returns the configured branches as domain values
func (c *Config) BranchList() []entities.Branch {
	out := make([]entities.Branch, len(c.Branches))
	for i, b := range c.Branches {
		out[i] = b.Branch()
	}
	return out
}

// Branch converts the configuration into a domain branch. Missing optional
// labels are derived from the name.
func (b BranchConfig) Branch() entities.Branch {
	branch := entities.Branch{
		Code:       b.Code,
		Name:       b.Name,
		ShortName:  b.ShortName,
		SheetName:  b.SheetName,
		IDLabel:    b.IDLabel,
		TransferIn: b.TransferIn,
		SalesToken: b.SalesToken,
	}
	if branch.ShortName == "" {
		branch.ShortName = branch.Name
	}
	if branch.TransferIn == "" {
		branch.TransferIn = "TRASPASO A " + branch.Name
	}
	if branch.SalesToken == "" {
		branch.SalesToken = branch.Name
	}
	return branch
}

// FindBranch looks a branch up by code, case-insensitively
func (c *Config) FindBranch(code string) (entities.Branch, bool) {
	for _, b := range c.Branches {
		if strings.EqualFold(b.Code, strings.TrimSpace(code)) {
			return b.Branch(), true
		}
	}
	return entities.Branch{}, false
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
