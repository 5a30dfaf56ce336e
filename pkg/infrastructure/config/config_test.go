package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/replenish/pkg/domain/table"
)

var configEnvKeys = []string{
	"REPLENISH_CONFIG", "SALES_MASTER_DIR", "SALES_MARKER", "STORAGE_PROVIDER",
	"GCS_BUCKET", "GCS_CREDENTIALS_JSON", "REPORT_ROOT", "LOCAL_STORE_DIR",
	"COMPLETION_DEFAULT", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	branches := cfg.BranchList()
	if len(branches) != 2 {
		t.Fatalf("Expected 2 branches, got %d", len(branches))
	}
	if branches[0].SheetName != "DIA CUAUTITLAN" || branches[1].IDLabel != "NUM. PARTE" {
		t.Errorf("Unexpected default branches: %+v", branches)
	}
	if cfg.Sales.Marker != "MASTER" {
		t.Errorf("Expected marker MASTER, got %s", cfg.Sales.Marker)
	}
	if cfg.Storage.Provider != "none" {
		t.Errorf("Expected storage provider none, got %s", cfg.Storage.Provider)
	}
	if cfg.Completion() != table.DefaultBlank {
		t.Errorf("Expected blank completion, got %s", cfg.Completion())
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "replenish.yaml")
	yamlText := strings.Join([]string{
		"sales:",
		"  dir: /data/ventas",
		"  marker: FINAL",
		"completion_default: zero",
		"storage:",
		"  provider: local",
		"  local_dir: /data/reportes",
	}, "\n")
	if err := os.WriteFile(path, []byte(yamlText), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("SALES_MARKER", "MASTER")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Sales.Dir != "/data/ventas" {
		t.Errorf("Expected sales dir from YAML, got %s", cfg.Sales.Dir)
	}
	if cfg.Sales.Marker != "MASTER" {
		t.Errorf("Expected the environment to override the marker, got %s", cfg.Sales.Marker)
	}
	if cfg.Completion() != table.DefaultZero {
		t.Errorf("Expected zero completion, got %s", cfg.Completion())
	}
	if cfg.Storage.LocalDir != "/data/reportes" || cfg.Storage.Root != "Analisis Compras" {
		t.Errorf("Expected YAML storage merged over defaults, got %+v", cfg.Storage)
	}
	if len(cfg.Branches) != 2 {
		t.Errorf("Expected default branches to survive, got %d", len(cfg.Branches))
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown provider", map[string]string{"STORAGE_PROVIDER": "ftp"}},
		{"gcs without bucket", map[string]string{"STORAGE_PROVIDER": "gcs"}},
		{"unknown completion", map[string]string{"COMPLETION_DEFAULT": "nan"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}

func TestFindBranch(t *testing.T) {
	cfg := Default()

	branch, ok := cfg.FindBranch(" Tultitlan ")
	if !ok || branch.Name != "TULTITLAN" {
		t.Fatalf("Expected to find TULTITLAN, got %+v", branch)
	}
	if _, ok := cfg.FindBranch("toluca"); ok {
		t.Errorf("Expected no branch for an unknown code")
	}

	derived := BranchConfig{Code: "x", Name: "TOLUCA", SheetName: "DIA TOLUCA", IDLabel: "PARTE"}.Branch()
	if derived.TransferIn != "TRASPASO A TOLUCA" || derived.SalesToken != "TOLUCA" || derived.ShortName != "TOLUCA" {
		t.Errorf("Expected labels derived from the name, got %+v", derived)
	}
}
