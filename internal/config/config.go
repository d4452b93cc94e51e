package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. CAPACITY_STORE_DSN
const EnvPrefix = "CAPACITY"

// Config represents the application configuration
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Import ImportConfig `mapstructure:"import"`
	Output OutputConfig `mapstructure:"output"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
}

// InputConfig holds workbook discovery settings
type InputConfig struct {
	RootDir     string   `mapstructure:"root_dir"`     // Directory scanned when no paths are given
	ExcludeDirs []string `mapstructure:"exclude_dirs"` // Directories to skip while scanning
}

// ImportConfig holds import behavior settings
type ImportConfig struct {
	FiscalYear string `mapstructure:"fiscal_year"` // Fiscal year replaced by an import (e.g., "FY_25-26")
	Workers    int    `mapstructure:"workers"`     // Workbooks parsed concurrently
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Output directory
	FileName string   `mapstructure:"file_name"` // Output file name (without extension)
	Formats  []string `mapstructure:"formats"`   // Export formats (excel, json, word)
	LogFile  string   `mapstructure:"log_file"`  // Log file name inside Dir; empty disables file logging
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver       string `mapstructure:"driver"` // none, memory or postgres
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// ServerConfig holds HTTP upload service settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
// A .env file in the working directory, when present, is loaded first so its
// CAPACITY_* variables override file values
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// Set sensible defaults
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Determine config file to use
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Set config file
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		// Check if it's just a file not found error
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			// Config file not found - use defaults
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Input:  ./input")
			fmt.Println("  Output: ./output")
			fmt.Println("==========================================")
		} else {
			// Config file found but has some other error
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Normalize paths
	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	// Create output directory if it doesn't exist
	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	// Input defaults - use ./input for double-click usability
	v.SetDefault("input.root_dir", "./input")
	v.SetDefault("input.exclude_dirs", []string{
		"**/archive/**",
		"**/backup/**",
		"**/.git/**",
		"**/node_modules/**",
	})

	// Import defaults
	v.SetDefault("import.fiscal_year", "FY_25-26")
	v.SetDefault("import.workers", 4)

	// Output defaults
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "capacity-report")
	v.SetDefault("output.formats", []string{"excel", "json"})
	v.SetDefault("output.log_file", "capacity-recon.log")

	// Store defaults
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_open_conns", 4)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_upload_mb", 32)
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	// Normalize input directory
	absRoot, err := filepath.Abs(c.Input.RootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve input.root_dir: %w", err)
	}
	c.Input.RootDir = absRoot

	// Normalize output directory
	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ShouldExclude checks if a file path should be excluded based on exclude_dirs
func (c *Config) ShouldExclude(filePath string) bool {
	// Convert to forward slashes and wrap so top-level directories match too
	normalizedPath := "/" + strings.Trim(filepath.ToSlash(filePath), "/") + "/"

	for _, pattern := range c.Input.ExcludeDirs {
		if matchPathPattern(normalizedPath, pattern) {
			return true
		}
	}
	return false
}

// GetOutputPath returns the full path for an output file with the given extension
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+ext)
}

// GetLogPath returns the log file path, or "" when file logging is disabled
func (c *Config) GetLogPath() string {
	if c.Output.LogFile == "" {
		return ""
	}
	return filepath.Join(c.Output.Dir, c.Output.LogFile)
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Check if output filename is not empty
	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	if strings.TrimSpace(c.Import.FiscalYear) == "" {
		return fmt.Errorf("import.fiscal_year cannot be empty")
	}

	if c.Import.Workers < 1 {
		return fmt.Errorf("import.workers must be at least 1, got %d", c.Import.Workers)
	}

	switch strings.ToLower(c.Store.Driver) {
	case "none", "memory":
	case "postgres", "postgresql":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("store.driver must be one of none, memory, postgres (got %q)", c.Store.Driver)
	}

	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}

	return nil
}

// ValidateInput checks that the scan root exists; only needed when no
// explicit input paths are given
func (c *Config) ValidateInput() error {
	if _, err := os.Stat(c.Input.RootDir); os.IsNotExist(err) {
		return fmt.Errorf("input.root_dir does not exist: %s", c.Input.RootDir)
	}
	return nil
}

// matchPathPattern checks if a path matches a glob pattern
// Supports ** for recursive directory matching
func matchPathPattern(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	path = filepath.ToSlash(path)

	if strings.Contains(pattern, "**") {
		// **/ pattern - match anywhere in path
		parts := strings.Split(pattern, "**")
		if len(parts) == 2 {
			prefix := strings.Trim(parts[0], "/")
			suffix := strings.Trim(parts[1], "/")

			// Handle prefix matching
			hasPrefix := true
			if prefix != "" {
				hasPrefix = strings.HasPrefix(path, prefix+"/") || strings.Contains(path, "/"+prefix+"/")
			}

			// Handle suffix matching (must match directory or file name)
			hasSuffix := true
			if suffix != "" {
				hasSuffix = strings.Contains(path, "/"+suffix+"/") ||
					strings.HasSuffix(path, "/"+suffix) ||
					strings.HasPrefix(path, suffix+"/")
			}

			return hasPrefix && hasSuffix
		}
	}

	// Simple contains matching for patterns with *
	cleanPattern := strings.Trim(pattern, "*")
	return strings.Contains(path, cleanPattern)
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Capacity Recon Configuration ===")
	fmt.Printf("Input Root:       %s\n", c.Input.RootDir)
	fmt.Printf("Exclude Dirs:     %v\n", c.Input.ExcludeDirs)
	fmt.Printf("Fiscal Year:      %s\n", c.Import.FiscalYear)
	fmt.Printf("Workers:          %d\n", c.Import.Workers)
	fmt.Printf("Store Driver:     %s\n", c.Store.Driver)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Output Formats:   %v\n", c.Output.Formats)
	fmt.Printf("Output File:      %s\n", c.GetOutputPath(".*"))
	fmt.Println("====================================")
}
