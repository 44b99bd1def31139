package config

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/blogpress/internal/foundation"
)

// ExportMode controls whether a static export runs for a given execution context.
type ExportMode string

const (
	// ExportModeAuto exports only when the execution context carries the configured build identity.
	ExportModeAuto ExportMode = "auto"
	// ExportModeAlways exports on every run.
	ExportModeAlways ExportMode = "always"
	// ExportModeNever disables export.
	ExportModeNever ExportMode = "never"
)

// Environment overrides for the export decision.
const (
	EnvSkipExport  = "BLOGPRESS_SKIP_EXPORT"
	EnvForceExport = "BLOGPRESS_FORCE_EXPORT"
)

// NormalizeExportMode returns the canonical mode for raw or "" when unknown.
func NormalizeExportMode(raw string) ExportMode {
	return exportModes.Normalize(raw)
}

var exportModes = foundation.NewEnum(map[string]ExportMode{
	"auto":   ExportModeAuto,
	"always": ExportModeAlways,
	"on":     ExportModeAlways,
	"true":   ExportModeAlways,
	"never":  ExportModeNever,
	"off":    ExportModeNever,
	"false":  ExportModeNever,
})

// ResolveExportMode determines the effective export mode.
// Precedence:
// 1. BLOGPRESS_SKIP_EXPORT=1 => never
// 2. BLOGPRESS_FORCE_EXPORT=1 => always
// 3. export.mode (always|never|auto)
// 4. fallback: auto
func ResolveExportMode(cfg *Config) ExportMode {
	if os.Getenv(EnvSkipExport) == "1" {
		if cfg != nil && cfg.Export.Mode != ExportModeNever {
			slog.Info("Overriding configured export mode due to "+EnvSkipExport+"=1", "configured", cfg.Export.Mode)
		}
		return ExportModeNever
	}
	if os.Getenv(EnvForceExport) == "1" {
		if cfg != nil && cfg.Export.Mode != ExportModeAlways {
			slog.Info("Overriding configured export mode due to "+EnvForceExport+"=1", "configured", cfg.Export.Mode)
		}
		return ExportModeAlways
	}
	if cfg == nil {
		return ExportModeAuto
	}
	switch cfg.Export.Mode {
	case ExportModeAlways:
		return ExportModeAlways
	case ExportModeNever:
		return ExportModeNever
	default:
		return ExportModeAuto
	}
}

// LinkCheckMode controls post-export link verification.
type LinkCheckMode string

const (
	LinkCheckOff  LinkCheckMode = "off"
	LinkCheckWarn LinkCheckMode = "warn"
	LinkCheckFail LinkCheckMode = "fail"
)

// NormalizeLinkCheckMode returns the canonical mode for raw or "" when unknown.
func NormalizeLinkCheckMode(raw string) LinkCheckMode {
	return linkCheckModes.Normalize(raw)
}

var linkCheckModes = foundation.NewEnum(map[string]LinkCheckMode{
	"off":   LinkCheckOff,
	"false": LinkCheckOff,
	"none":  LinkCheckOff,
	"warn":  LinkCheckWarn,
	"fail":  LinkCheckFail,
	"error": LinkCheckFail,
})
