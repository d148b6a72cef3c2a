// Package contract implements the shape checks modcheck applies to loaded
// module metadata: a module reference must be importable (present and
// addressable) and must expose a non-empty version identifier.
//
// Each check is a stateless, single-shot predicate. A failed check returns a
// *Violation wrapping ErrViolation; nothing is caught, retried, or recovered
// locally. Errors propagate unmodified to the caller, which decides how to
// report them.
package contract

import (
	"errors"
	"fmt"

	"github.com/harrison/modcheck/internal/modinfo"
)

// Check names, as reported in results and persisted to history.
const (
	CheckImportable = "importable"
	CheckHasVersion = "has-version"
)

// develVersion is the placeholder the Go toolchain stamps on binaries that
// were not built from a released module version.
const develVersion = "(devel)"

// ErrViolation indicates a module failed a shape check. Every *Violation
// matches it via errors.Is.
var ErrViolation = errors.New("contract: violation")

// Violation describes a single failed check.
type Violation struct {
	ModulePath string // empty when the module reference itself is unusable
	Check      string // CheckImportable or CheckHasVersion
	Reason     string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v.ModulePath == "" {
		return fmt.Sprintf("contract: %s check failed: %s", v.Check, v.Reason)
	}
	return fmt.Sprintf("contract: %s check failed for %s: %s", v.Check, v.ModulePath, v.Reason)
}

// Unwrap makes every Violation match ErrViolation via errors.Is.
func (v *Violation) Unwrap() error {
	return ErrViolation
}

// Result captures the outcome of one check against one module.
type Result struct {
	Check   string
	Module  string
	Version string
	Err     error // nil when the check passed
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

type options struct {
	strict bool
}

// Option configures behaviour of the version check.
type Option func(*options)

// WithStrict makes HasVersion reject the "(devel)" placeholder version in
// addition to the empty string. Off by default: the base contract only
// requires a non-empty version.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Importable checks that mod is a usable module reference: non-nil with a
// non-empty module path.
func Importable(mod *modinfo.Module) error {
	if mod == nil {
		return &Violation{Check: CheckImportable, Reason: "module reference is nil"}
	}
	if mod.Path == "" {
		return &Violation{Check: CheckImportable, Reason: "module path is empty"}
	}
	return nil
}

// HasVersion checks that mod exposes a non-empty version identifier.
// With WithStrict it additionally rejects the "(devel)" placeholder.
func HasVersion(mod *modinfo.Module, opts ...Option) error {
	config := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&config)
		}
	}

	if mod == nil {
		return &Violation{Check: CheckHasVersion, Reason: "module reference is nil"}
	}
	if mod.Version == "" {
		return &Violation{ModulePath: mod.Path, Check: CheckHasVersion, Reason: "version is empty"}
	}
	if config.strict && mod.Version == develVersion {
		return &Violation{
			ModulePath: mod.Path,
			Check:      CheckHasVersion,
			Reason:     fmt.Sprintf("version is the %s placeholder", develVersion),
		}
	}
	return nil
}

// Run applies both checks to mod and returns one Result per check, in a
// fixed order (importable, then has-version). The checks share no state, so
// a failure in one never short-circuits the other.
func Run(mod *modinfo.Module, opts ...Option) []Result {
	var path, version string
	if mod != nil {
		path = mod.Path
		version = mod.Version
	}

	return []Result{
		{Check: CheckImportable, Module: path, Version: version, Err: Importable(mod)},
		{Check: CheckHasVersion, Module: path, Version: version, Err: HasVersion(mod, opts...)},
	}
}

// AllPassed reports whether every result in the slice passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed() {
			return false
		}
	}
	return true
}
