// Package gate decides whether a process run should produce a static export.
package gate

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/blogpress/internal/config"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
)

// ExecutionContext describes the environment the process runs in.
type ExecutionContext struct {
	// Identity names the build environment, such as a CI runner or machine name.
	Identity string
}

// FromEnvironment reads the identity from identityVar, falling back to the host name.
func FromEnvironment(identityVar string) ExecutionContext {
	if identityVar != "" {
		if v, ok := os.LookupEnv(identityVar); ok {
			return ExecutionContext{Identity: v}
		}
	}
	host, err := os.Hostname()
	if err != nil {
		slog.Debug("Host name unavailable for build identity", logfields.Error(err))
	}
	return ExecutionContext{Identity: host}
}

// Gate holds the resolved export mode and the identity allowed to export in auto mode.
type Gate struct {
	Mode          config.ExportMode
	BuildIdentity string
}

// New resolves the effective mode for cfg, honouring environment overrides.
func New(cfg *config.Config) Gate {
	g := Gate{Mode: config.ResolveExportMode(cfg)}
	if cfg != nil {
		g.BuildIdentity = cfg.Export.BuildIdentity
	}
	return g
}

// ShouldGenerate reports whether ec may produce a static export.
// In auto mode the identity must equal BuildIdentity exactly; an empty BuildIdentity never matches.
func (g Gate) ShouldGenerate(ec ExecutionContext) bool {
	ok, _ := g.Decide(ec)
	return ok
}

// Decide is ShouldGenerate plus a short reason suitable for logging.
func (g Gate) Decide(ec ExecutionContext) (bool, string) {
	switch g.Mode {
	case config.ExportModeAlways:
		return true, "export mode always"
	case config.ExportModeNever:
		return false, "export mode never"
	}
	if g.BuildIdentity == "" {
		return false, "no build identity configured"
	}
	if ec.Identity != g.BuildIdentity {
		return false, "identity does not match build identity"
	}
	return true, "identity matches build identity"
}
