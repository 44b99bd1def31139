package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  title: Test\n"))
	require.NoError(t, err)
	require.Equal(t, "Test", cfg.Site.Title)
	require.Equal(t, DefaultContentRoot, cfg.Content.Root)
	require.Equal(t, DefaultRoutePrefix, cfg.Content.RoutePrefix)
	require.Equal(t, DefaultIndexFile, cfg.Content.IndexFile)
	require.Equal(t, DefaultOutput, cfg.Export.Output)
	require.Equal(t, ExportModeAuto, cfg.Export.Mode)
	require.Equal(t, DefaultIdentityEnv, cfg.Export.IdentityEnv)
	require.Equal(t, LinkCheckWarn, cfg.Export.VerifyLinks)
	require.False(t, cfg.Export.Manifest)
	require.False(t, cfg.Export.ExitWhenDone)
	require.Len(t, cfg.Export.Resources, 5)
	require.Equal(t, EnvironmentProduction, cfg.Server.Environment)
	require.Equal(t, DefaultMetricsPath, cfg.Server.MetricsPath)
}

func TestParseNormalizesModes(t *testing.T) {
	cfg, err := Parse([]byte("export:\n  mode: ALWAYS\n  verify_links: error\n"))
	require.NoError(t, err)
	require.Equal(t, ExportModeAlways, cfg.Export.Mode)
	require.Equal(t, LinkCheckFail, cfg.Export.VerifyLinks)
}

func TestParseExplicitEmptyResources(t *testing.T) {
	cfg, err := Parse([]byte("export:\n  resources: []\n"))
	require.NoError(t, err)
	require.Empty(t, cfg.Export.Resources)
}

func TestValidationFailures(t *testing.T) {
	cases := map[string]string{
		"bad mode":        "export:\n  mode: sometimes\n",
		"bad link mode":   "export:\n  verify_links: maybe\n",
		"bad kind":        "export:\n  resources:\n    - {kind: font, route: /a.woff}\n",
		"empty route":     "export:\n  resources:\n    - {kind: css, route: \"\"}\n",
		"relative prefix": "content:\n  route_prefix: Blog\n",
		"bad environment": "server:\n  environment: moon\n",
		"nested document": "export:\n  default_document: a/index.html\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("BLOGPRESS_TEST_TITLE", "From Env")
	path := filepath.Join(t.TempDir(), "blogpress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  title: ${BLOGPRESS_TEST_TITLE}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "From Env", cfg.Site.Title)
}

func TestInitWritesLoadableConfig(t *testing.T) {
	t.Setenv("CI_BUILD_IDENTITY", "builder-01")
	path := filepath.Join(t.TempDir(), "blogpress.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "builder-01", cfg.Export.BuildIdentity)
	require.True(t, cfg.Export.ExitWhenDone)
	require.Equal(t, DefaultResources(), cfg.Export.Resources)
}
