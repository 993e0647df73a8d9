package config

import (
	"crypto"
	_ "crypto/md5"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/standardbeagle/openenc/internal/debug"
	encerrors "github.com/standardbeagle/openenc/internal/errors"
	"github.com/standardbeagle/openenc/pkg/id"
)

// FileName is the config file looked up in the home and working directories.
const FileName = ".openenc.kdl"

// UUID output formats.
const (
	FormatCompact   = "compact"
	FormatCanonical = "canonical"
	FormatURN       = "urn"
)

// Formats lists every accepted uuid.format value.
var Formats = []string{FormatCompact, FormatCanonical, FormatURN}

// DefaultNamespace is the RFC 4122 URL namespace.
const DefaultNamespace = "6ba7b811-9dad-11d1-80b4-00c04fd430c8"

// DefaultHash is the digest name-based UUIDs use unless configured otherwise.
const DefaultHash = "sha1"

// Hashes maps the accepted uuid.hash values to digests linked into the binary.
var Hashes = map[string]crypto.Hash{
	"md5":    crypto.MD5,
	"sha1":   crypto.SHA1,
	"sha256": crypto.SHA256,
	"sha512": crypto.SHA512,
}

// HashNames returns the keys of Hashes in sorted order.
func HashNames() []string {
	names := make([]string, 0, len(Hashes))
	for name := range Hashes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type Config struct {
	Version     int         `toml:"version"`
	UUID        UUID        `toml:"uuid"`
	Performance Performance `toml:"performance"`
	Output      Output      `toml:"output"`
}

type UUID struct {
	Format    string `toml:"format"`    // compact, canonical or urn
	Namespace string `toml:"namespace"` // used by "uuid name" when --namespace is not given
	Hash      string `toml:"hash"`      // digest for name-based UUIDs, a key of Hashes
}

type Performance struct {
	MaxGoroutines int `toml:"max_goroutines"` // <= 0 means runtime.NumCPU()
}

type Output struct {
	KeepGoing bool `toml:"keep_going"` // report every failing input instead of stopping at the first
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Version: 1,
		UUID: UUID{
			Format:    FormatCompact,
			Namespace: DefaultNamespace,
			Hash:      DefaultHash,
		},
		Performance: Performance{
			MaxGoroutines: runtime.NumCPU(),
		},
	}
}

// NamespaceUUID returns the parsed namespace. It is only meaningful on a
// validated config.
func (c *Config) NamespaceUUID() uuid.UUID {
	u, err := uuid.Parse(c.UUID.Namespace)
	if err != nil {
		return uuid.Nil
	}
	return u
}

// HashFunc returns the configured digest. It is only meaningful on a
// validated config.
func (c *Config) HashFunc() crypto.Hash {
	return Hashes[c.UUID.Hash]
}

// FormatUUID renders u in the configured output format.
func (c *Config) FormatUUID(u uuid.UUID) string {
	switch c.UUID.Format {
	case FormatCanonical:
		return u.String()
	case FormatURN:
		return id.ToURI(u)
	default:
		return id.ToCompact(u)
	}
}

// Load reads an explicit config file when path is set. Otherwise it layers
// ~/.openenc.kdl and then ./.openenc.kdl over the defaults, so the project
// file wins for every key it sets. The result is validated.
func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

func LoadWithRoot(path string, rootDir string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
		return cfg, ValidateConfig(cfg)
	}

	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	var dirs []string
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, homeDir)
	}
	dirs = append(dirs, searchDir)

	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		kdlPath := filepath.Join(dir, FileName)
		if abs, err := filepath.Abs(kdlPath); err == nil {
			if seen[abs] {
				continue
			}
			seen[abs] = true
		}
		if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
			continue
		}
		if err := applyFile(cfg, kdlPath); err != nil {
			return nil, err
		}
	}

	return cfg, ValidateConfig(cfg)
}

// applyFile layers the file at path over cfg, choosing the parser by extension.
func applyFile(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	debug.LogConfig("loading %s\n", path)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".kdl":
		return applyKDL(cfg, string(content))
	case ".toml":
		return applyTOML(cfg, content)
	default:
		return encerrors.NewConfigError("path", path, fmt.Errorf("unsupported config format %q (want .kdl or .toml)", ext))
	}
}
