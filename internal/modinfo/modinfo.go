// Package modinfo loads the module metadata the Go toolchain embeds in
// compiled binaries.
//
// Every Go binary records its main module and the full set of dependency
// modules it was built from. Load reads that record from a binary on disk;
// LoadSelf reads the record of the running process. The resulting Report is
// what the contract package's checks are applied to.
package modinfo

import (
	"debug/buildinfo"
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrNoBuildInfo indicates the running binary carries no embedded build info.
var ErrNoBuildInfo = errors.New("modinfo: no build info embedded in running binary")

// Module identifies one module recorded in a binary's build info.
type Module struct {
	// Path is the module path, e.g. "github.com/spf13/cobra".
	Path string

	// Version is the module version as stamped at build time. Released
	// builds carry a semantic version; local builds of the main module
	// carry the "(devel)" placeholder.
	Version string
}

// Report holds the module metadata loaded from a single binary.
type Report struct {
	// BinaryPath is the file the report was loaded from.
	// Empty when the report describes the running binary.
	BinaryPath string

	// GoVersion is the toolchain version the binary was built with.
	GoVersion string

	// Main is the binary's main module.
	Main Module

	// Deps are the dependency modules linked into the binary.
	Deps []Module
}

// Load reads build info from the compiled Go binary at path.
// It fails when the file does not exist, cannot be read, or is not a Go
// binary with embedded build info.
func Load(path string) (*Report, error) {
	info, err := buildinfo.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read build info from %s: %w", path, err)
	}
	return fromBuildInfo(path, info), nil
}

// LoadSelf reads the running binary's own build info.
func LoadSelf() (*Report, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrNoBuildInfo
	}
	return fromBuildInfo("", info), nil
}

// fromBuildInfo converts the toolchain's build info record into a Report.
// A replaced dependency keeps its original path but reports the version of
// the replacement, since that is what was actually linked.
func fromBuildInfo(path string, info *debug.BuildInfo) *Report {
	report := &Report{
		BinaryPath: path,
		GoVersion:  info.GoVersion,
		Main: Module{
			Path:    info.Main.Path,
			Version: info.Main.Version,
		},
	}

	for _, dep := range info.Deps {
		if dep == nil {
			continue
		}
		mod := Module{Path: dep.Path, Version: dep.Version}
		if dep.Replace != nil {
			mod.Version = dep.Replace.Version
		}
		report.Deps = append(report.Deps, mod)
	}

	return report
}

// Find locates the module with the given path in the report, checking the
// main module first and then dependencies. The returned pointer aliases the
// report and stays valid for the report's lifetime.
func (r *Report) Find(path string) (*Module, bool) {
	if r == nil || path == "" {
		return nil, false
	}
	if r.Main.Path == path {
		return &r.Main, true
	}
	for i := range r.Deps {
		if r.Deps[i].Path == path {
			return &r.Deps[i], true
		}
	}
	return nil, false
}

// Modules returns the main module followed by all dependency modules.
func (r *Report) Modules() []Module {
	if r == nil {
		return nil
	}
	out := make([]Module, 0, len(r.Deps)+1)
	out = append(out, r.Main)
	return append(out, r.Deps...)
}
