package ignore

import (
	"os"

	"github.com/BurntSushi/toml"
)

const (
	// IgnoreFileName is the default name of the ignore file
	IgnoreFileName = ".pgintrospectignore"
)

// fileConfig is the TOML layout of the ignore file:
//
//	[tables]
//	patterns = ["temp_*", "!temp_keep"]
type fileConfig struct {
	Tables   patternSection `toml:"tables,omitempty"`
	Types    patternSection `toml:"types,omitempty"`
	Routines patternSection `toml:"routines,omitempty"`
}

type patternSection struct {
	Patterns []string `toml:"patterns,omitempty"`
}

// Load reads the ignore file from the current directory.
// Returns nil if the file doesn't exist (ignore functionality is optional)
func Load() (*Config, error) {
	return LoadFromPath(IgnoreFileName)
}

// LoadFromPath reads an ignore file from the specified path.
// Returns nil if the file doesn't exist.
func LoadFromPath(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(filePath, &fc); err != nil {
		return nil, err
	}

	return &Config{
		Tables:   fc.Tables.Patterns,
		Types:    fc.Types.Patterns,
		Routines: fc.Routines.Patterns,
	}, nil
}
