// ABOUTME: Tests for realm manifest loading and validation
// ABOUTME: Covers TOML parsing, prefix rules and duplicate detection

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realms.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoadManifest_Valid(t *testing.T) {
	path := writeManifest(t, `
[[realm]]
name = "Staging"
prefix = "/staging/"
password_file = "/etc/realmgate/staging.passwd"

[[realm]]
name = "Admin"
prefix = "/admin/"
password_file = "/etc/realmgate/admin.passwd"
`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if len(m.Realms) != 2 {
		t.Fatalf("expected 2 realms, got %d", len(m.Realms))
	}
	if m.Realms[0].Name != "Staging" || m.Realms[0].Prefix != "/staging/" {
		t.Errorf("unexpected first realm: %+v", m.Realms[0])
	}
	if m.Realms[1].PasswordFile != "/etc/realmgate/admin.passwd" {
		t.Errorf("unexpected second realm: %+v", m.Realms[1])
	}
}

func TestLoadManifest_Empty(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, ""))
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if len(m.Realms) != 0 {
		t.Errorf("expected no realms, got %d", len(m.Realms))
	}
}

func TestLoadManifest_MissingName(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, `
[[realm]]
prefix = "/x/"
password_file = "/etc/x.passwd"
`))
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Errorf("expected name validation error, got %v", err)
	}
}

func TestLoadManifest_BadPrefix(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, `
[[realm]]
name = "X"
prefix = "x/"
password_file = "/etc/x.passwd"
`))
	if err == nil || !strings.Contains(err.Error(), "prefix must start with /") {
		t.Errorf("expected prefix validation error, got %v", err)
	}
}

func TestLoadManifest_MissingPasswordFile(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, `
[[realm]]
name = "X"
prefix = "/x/"
`))
	if err == nil || !strings.Contains(err.Error(), "password_file is required") {
		t.Errorf("expected password_file validation error, got %v", err)
	}
}

func TestLoadManifest_DuplicatePrefix(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, `
[[realm]]
name = "A"
prefix = "/x/"
password_file = "/etc/a.passwd"

[[realm]]
name = "B"
prefix = "/x/"
password_file = "/etc/b.passwd"
`))
	if err == nil || !strings.Contains(err.Error(), "already used") {
		t.Errorf("expected duplicate prefix error, got %v", err)
	}
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestLoadManifest_MalformedTOML(t *testing.T) {
	_, err := LoadManifest(writeManifest(t, "[[realm\nname ="))
	if err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
