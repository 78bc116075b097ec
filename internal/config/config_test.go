package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	return p
}

func TestLoad_Valid(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "beanlens.yaml", `
extraStereotypes:
  - org.springframework.stereotype.Controller
repositories:
  - name: internal
    url: https://repo.example.com/maven2
cacheDir: /tmp/beanlens-cache
catalogVersion: "4.8.0"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.ExtraStereotypes) != 1 || cfg.ExtraStereotypes[0] != "org.springframework.stereotype.Controller" {
		t.Fatalf("unexpected extra stereotypes: %+v", cfg.ExtraStereotypes)
	}
	if len(cfg.Repositories) != 1 || cfg.Repositories[0].Name != "internal" {
		t.Fatalf("unexpected repositories: %+v", cfg.Repositories)
	}
	if cfg.CatalogVersion != "4.8.0" {
		t.Fatalf("unexpected catalog version: %q", cfg.CatalogVersion)
	}
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "beanlens.yaml", `stereotypes: [a]`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestLoad_RepositoryWithoutURLRejected(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "beanlens.yaml", `
repositories:
  - name: broken
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected validation error for repository without url")
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.ExtraStereotypes) != 0 || len(cfg.Repositories) != 0 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "beanlens.yaml", "")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for empty file")
	}
}
