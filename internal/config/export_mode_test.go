package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveExportMode(t *testing.T) {
	t.Setenv(EnvSkipExport, "")
	t.Setenv(EnvForceExport, "")

	require.Equal(t, ExportModeAuto, ResolveExportMode(nil))
	require.Equal(t, ExportModeAlways, ResolveExportMode(&Config{Export: ExportConfig{Mode: ExportModeAlways}}))
	require.Equal(t, ExportModeNever, ResolveExportMode(&Config{Export: ExportConfig{Mode: ExportModeNever}}))
	require.Equal(t, ExportModeAuto, ResolveExportMode(&Config{Export: ExportConfig{Mode: "weird"}}))
}

func TestResolveExportModeEnvOverrides(t *testing.T) {
	cfg := &Config{Export: ExportConfig{Mode: ExportModeAlways}}

	t.Setenv(EnvSkipExport, "1")
	t.Setenv(EnvForceExport, "1")
	require.Equal(t, ExportModeNever, ResolveExportMode(cfg), "skip takes precedence over force")

	t.Setenv(EnvSkipExport, "")
	cfg.Export.Mode = ExportModeNever
	require.Equal(t, ExportModeAlways, ResolveExportMode(cfg))
}

func TestNormalizeModes(t *testing.T) {
	require.Equal(t, ExportModeAlways, NormalizeExportMode(" On "))
	require.Equal(t, ExportModeNever, NormalizeExportMode("false"))
	require.Equal(t, ExportMode(""), NormalizeExportMode("later"))
	require.Equal(t, LinkCheckOff, NormalizeLinkCheckMode("none"))
	require.Equal(t, LinkCheckMode(""), NormalizeLinkCheckMode("strict"))
}
