// ABOUTME: Realm manifest loading from TOML with prefix validation
// ABOUTME: Each realm binds a URL prefix to a name and a password file

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Realm binds one protected URL prefix to a realm display name and the
// password file that backs it.
type Realm struct {
	Name         string `toml:"name"`
	Prefix       string `toml:"prefix"`
	PasswordFile string `toml:"password_file"`
}

// Manifest is the parsed realm manifest.
type Manifest struct {
	Realms []Realm `toml:"realm"`
}

// LoadManifest reads a TOML realm manifest from the given path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading realm manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing realm manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating realm manifest: %w", err)
	}

	return &m, nil
}

// Validate checks every realm entry and rejects duplicate prefixes.
func (m *Manifest) Validate() error {
	seen := make(map[string]string)

	for i, r := range m.Realms {
		if r.Name == "" {
			return fmt.Errorf("realm %d: name is required", i)
		}
		if !strings.HasPrefix(r.Prefix, "/") {
			return fmt.Errorf("realm %q: prefix must start with /", r.Name)
		}
		if r.PasswordFile == "" {
			return fmt.Errorf("realm %q: password_file is required", r.Name)
		}
		if other, dup := seen[r.Prefix]; dup {
			return fmt.Errorf("realm %q: prefix %q already used by realm %q",
				r.Name, r.Prefix, other)
		}
		seen[r.Prefix] = r.Name
	}

	return nil
}
