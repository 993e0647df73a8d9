package config

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/google/uuid"
	"github.com/hbollon/go-edlib"

	encerrors "github.com/standardbeagle/openenc/internal/errors"
)

// maxSuggestDistance bounds how far a typo may be from a known value and
// still earn a "did you mean".
const maxSuggestDistance = 2

// Validator validates configuration and fills in derived defaults.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults returns a *errors.ConfigError for the first bad field.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateFormat(cfg.UUID.Format); err != nil {
		return encerrors.NewConfigError("uuid.format", cfg.UUID.Format, err)
	}

	if _, err := uuid.Parse(cfg.UUID.Namespace); err != nil {
		return encerrors.NewConfigError("uuid.namespace", cfg.UUID.Namespace, err)
	}

	if err := v.validateHash(cfg.UUID.Hash); err != nil {
		return encerrors.NewConfigError("uuid.hash", cfg.UUID.Hash, err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateFormat(format string) error {
	if slices.Contains(Formats, format) {
		return nil
	}
	if suggestion, ok := Suggest(format, Formats); ok {
		return fmt.Errorf("unknown format (did you mean '%s'?)", suggestion)
	}
	return fmt.Errorf("unknown format, want one of %v", Formats)
}

func (v *Validator) validateHash(name string) error {
	if _, ok := Hashes[name]; ok {
		return nil
	}
	if suggestion, ok := Suggest(name, HashNames()); ok {
		return fmt.Errorf("unknown hash (did you mean '%s'?)", suggestion)
	}
	return fmt.Errorf("unknown hash, want one of %v", HashNames())
}

func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.MaxGoroutines <= 0 {
		cfg.Performance.MaxGoroutines = runtime.NumCPU()
	}
}

// Suggest returns the candidate closest to input by Levenshtein distance, if
// any is close enough to be a likely typo.
func Suggest(input string, candidates []string) (string, bool) {
	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, c := range candidates {
		if d := edlib.LevenshteinDistance(input, c); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best, best != ""
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
