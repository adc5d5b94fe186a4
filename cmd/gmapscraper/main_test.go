package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scraper.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildConfig_DBPathPrecedence(t *testing.T) {
	// WHAT: db path precedence is flag > YAML > env > default.
	yamlPath := writeConfig(t, "queries: [\"coffee\"]\ndb_path: from-yaml.db\n")

	t.Setenv("GMAPS_DB", "from-env.db")

	cfg, err := buildConfig(yamlPath, "", "", 0, "", false, false, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "from-yaml.db" {
		t.Errorf("DBPath = %q, want YAML to beat env", cfg.DBPath)
	}

	cfg, err = buildConfig(yamlPath, "", "", 0, "", false, false, false, "from-flag.db")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "from-flag.db" {
		t.Errorf("DBPath = %q, want flag to beat YAML", cfg.DBPath)
	}
}

func TestBuildConfig_DBPathEnvThenDefault(t *testing.T) {
	t.Setenv("GMAPS_DB", "from-env.db")
	cfg, err := buildConfig("", "coffee", "", 0, "", false, false, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "from-env.db" {
		t.Errorf("DBPath = %q, want env when flag and YAML are silent", cfg.DBPath)
	}

	t.Setenv("GMAPS_DB", "")
	cfg, err = buildConfig("", "coffee", "", 0, "", false, false, false, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "records.db" {
		t.Errorf("DBPath = %q, want the default", cfg.DBPath)
	}
}

func TestBuildConfig_RequiresInput(t *testing.T) {
	if _, err := buildConfig("", "", "", 0, "", false, false, false, ""); err == nil {
		t.Fatal("expected error with no query, url, or config")
	}
}

func TestBuildConfig_FlagsOverrideSearch(t *testing.T) {
	yamlPath := writeConfig(t, "queries: [\"coffee\"]\nsearch:\n  max_results: 20\n  locale: de\n")
	cfg, err := buildConfig(yamlPath, "", "", 50, "ja", true, true, true, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.MaxResults != 50 || cfg.Search.Locale != "ja" {
		t.Errorf("flags did not win: %+v", cfg.Search)
	}
	if !cfg.Search.EnableDetail || !cfg.Search.EnableEmail || !cfg.Search.MultiRegion {
		t.Errorf("toggles not applied: %+v", cfg.Search)
	}
}
