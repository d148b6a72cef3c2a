package modinfo

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadSelf verifies the running test binary exposes readable build info.
func TestLoadSelf(t *testing.T) {
	report, err := LoadSelf()
	if err != nil {
		t.Fatalf("LoadSelf() error = %v", err)
	}
	if report.Main.Path == "" {
		t.Error("LoadSelf() main module path is empty")
	}
	if report.GoVersion == "" {
		t.Error("LoadSelf() GoVersion is empty")
	}
	if report.BinaryPath != "" {
		t.Errorf("LoadSelf() BinaryPath = %q, want empty", report.BinaryPath)
	}
}

// TestLoadMissingFile verifies Load fails for a path that does not exist.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-binary"))
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
}

// TestLoadNotABinary verifies Load fails for a file without build info.
func TestLoadNotABinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not an executable"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should fail for a non-binary file")
	}
}

func TestFind(t *testing.T) {
	report := &Report{
		Main: Module{Path: "github.com/example/app", Version: "(devel)"},
		Deps: []Module{
			{Path: "github.com/spf13/cobra", Version: "v1.10.1"},
			{Path: "gopkg.in/yaml.v3", Version: "v3.0.1"},
		},
	}

	t.Run("finds main module", func(t *testing.T) {
		mod, ok := report.Find("github.com/example/app")
		if !ok {
			t.Fatal("Find() did not locate the main module")
		}
		if mod.Version != "(devel)" {
			t.Errorf("Version = %q, want %q", mod.Version, "(devel)")
		}
	})

	t.Run("finds dependency", func(t *testing.T) {
		mod, ok := report.Find("gopkg.in/yaml.v3")
		if !ok {
			t.Fatal("Find() did not locate the dependency")
		}
		if mod.Version != "v3.0.1" {
			t.Errorf("Version = %q, want %q", mod.Version, "v3.0.1")
		}
	})

	t.Run("missing module", func(t *testing.T) {
		if _, ok := report.Find("github.com/absent/module"); ok {
			t.Error("Find() located a module that is not in the report")
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, ok := report.Find(""); ok {
			t.Error("Find() located a module for the empty path")
		}
	})

	t.Run("nil report", func(t *testing.T) {
		var r *Report
		if _, ok := r.Find("github.com/example/app"); ok {
			t.Error("Find() on nil report returned ok")
		}
	})
}

func TestModules(t *testing.T) {
	report := &Report{
		Main: Module{Path: "github.com/example/app", Version: "v1.2.3"},
		Deps: []Module{
			{Path: "github.com/spf13/cobra", Version: "v1.10.1"},
		},
	}

	mods := report.Modules()
	if len(mods) != 2 {
		t.Fatalf("Modules() returned %d modules, want 2", len(mods))
	}
	if mods[0].Path != "github.com/example/app" {
		t.Errorf("Modules()[0] = %q, want main module first", mods[0].Path)
	}

	var nilReport *Report
	if got := nilReport.Modules(); got != nil {
		t.Errorf("Modules() on nil report = %v, want nil", got)
	}
}
