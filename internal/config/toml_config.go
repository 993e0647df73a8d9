package config

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// applyTOML layers a TOML document over cfg. Keys missing from the document
// keep their current value; unknown keys are an error.
//
//	[uuid]
//	format = "canonical"
//	[performance]
//	max_goroutines = 4
func applyTOML(cfg *Config, content []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return nil
}
