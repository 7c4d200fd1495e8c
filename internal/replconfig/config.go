package replconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultPath is where the repl command looks for its configuration,
// relative to the working directory.
const DefaultPath = "./.config/clip.json"

type Config struct {
	Prompt             string `json:"prompt"`
	ContinuationPrompt string `json:"continuationPrompt"`
}

func Default() *Config {
	return &Config{
		Prompt:             ">> ",
		ContinuationPrompt: ".. ",
	}
}

// ReadConfigFile loads the repl configuration. A missing file is not an
// error; the defaults apply, as they do for any key the file omits.
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("read repl config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("unmarshal repl config file: %w", err)
	}

	return config, nil
}

func SaveConfigFile(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal repl config file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save repl config file: %w", err)
	}

	return nil
}
