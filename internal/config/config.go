// Package config loads pgintrospect.yaml with precedence
// flags > env > config file > defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	maxWalkDepth = 25

	// EnvPrefix prefixes environment overrides, e.g. PGINTROSPECT_DATABASE_HOST.
	EnvPrefix = "PGINTROSPECT"
)

// FileNames are the config file names looked up during discovery, in order.
var FileNames = []string{"pgintrospect.yaml", "pgintrospect.yml"}

// Config is the pgintrospect configuration.
type Config struct {
	Schema      string         `mapstructure:"schema" json:"schema"`
	Concurrency int            `mapstructure:"concurrency" json:"concurrency"`
	Database    DatabaseConfig `mapstructure:"database" json:"database"`
	Types       TypesConfig    `mapstructure:"types" json:"types"`
	Output      OutputConfig   `mapstructure:"output" json:"output"`
	Generate    GenerateConfig `mapstructure:"generate" json:"generate"`
	Remote      RemoteConfig   `mapstructure:"remote" json:"remote"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	URL      string `mapstructure:"url" json:"url"`
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	Name     string `mapstructure:"name" json:"name"`
	User     string `mapstructure:"user" json:"user"`
	Password string `mapstructure:"password" json:"password"`
	SSLMode  string `mapstructure:"sslmode" json:"sslmode"`
}

// TypesConfig holds the catalog type names to treat as numbers or strings.
type TypesConfig struct {
	Numbers []string `mapstructure:"numbers" json:"numbers"`
	Strings []string `mapstructure:"strings" json:"strings"`
}

// OutputConfig controls where introspect writes its document.
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format"`
	File   string `mapstructure:"file" json:"file"`
}

// GenerateConfig controls Go type emission.
type GenerateConfig struct {
	Package string `mapstructure:"package" json:"package"`
	Output  string `mapstructure:"output" json:"output"`
}

// RemoteConfig configures the HTTP transport.
type RemoteConfig struct {
	URL    string `mapstructure:"url" json:"url"`
	APIKey string `mapstructure:"api_key" json:"api_key"`
}

// Load discovers and loads configuration. It returns the config, the path of
// the file read (empty if none was found) and any error.
func Load(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Concurrency < 1 {
		return nil, configPath, fmt.Errorf("concurrency must be at least 1, got %d", cfg.Concurrency)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schema", "public")
	v.SetDefault("concurrency", 4)

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "prefer")

	v.SetDefault("types.numbers", []string{})
	v.SetDefault("types.strings", []string{})

	v.SetDefault("output.format", "json")
	v.SetDefault("output.file", "")

	v.SetDefault("generate.package", "models")
	v.SetDefault("generate.output", "")

	v.SetDefault("remote.url", "")
	v.SetDefault("remote.api_key", "")
}

// findConfigFile validates an explicit path, or walks up from the working
// directory until a config file, a .git entry or maxWalkDepth is reached.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	dir := cwd
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// DSN returns database.url when set, or a postgres:// URL built from the
// discrete fields.
func (c *Config) DSN() (string, error) {
	db := c.Database

	if db.URL != "" {
		return db.URL, nil
	}

	if db.Host == "" {
		return "", fmt.Errorf("database.host is required when database.url is not set")
	}
	if db.Name == "" {
		return "", fmt.Errorf("database.name is required when database.url is not set")
	}
	if db.User == "" {
		return "", fmt.Errorf("database.user is required when database.url is not set")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   "/" + db.Name,
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else {
		u.User = url.User(db.User)
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Database.Password != "" {
		out.Database.Password = "********"
	}
	if out.Remote.APIKey != "" {
		out.Remote.APIKey = "********"
	}
	if u, err := url.Parse(out.Database.URL); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "********")
			out.Database.URL = u.String()
		}
	}
	return &out
}
