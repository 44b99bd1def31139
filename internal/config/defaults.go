package config

// Environment names recognised by the live server.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

const (
	DefaultContentRoot = "posts"
	DefaultRoutePrefix = "/Blog"
	DefaultIndexFile   = "index.md"
	DefaultWebRoot     = "wwwroot"
	DefaultOutput      = "bin/static"
	DefaultDocument    = "index.html"
	DefaultIdentityEnv = "BLOGPRESS_BUILD_IDENTITY"
	DefaultServerAddr  = ":8080"
	DefaultMetricsPath = "/metrics"
	DefaultSiteTitle   = "Blog"
)

// DefaultResources mirrors the literal resource list every export carries unless configured otherwise.
func DefaultResources() []ResourceConfig {
	return []ResourceConfig{
		{Kind: "js", Route: "/lib/highlightjs-badge.js"},
		{Kind: "css", Route: "/ShalzuthBlog.styles.css"},
		{Kind: "css", Route: "/css/site.css"},
		{Kind: "bin", Route: "/favicon.ico"},
		{Kind: "page", Route: "/"},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Site.WebRoot == "" {
		cfg.Site.WebRoot = DefaultWebRoot
	}

	if cfg.Content.Root == "" {
		cfg.Content.Root = DefaultContentRoot
	}
	if cfg.Content.RoutePrefix == "" {
		cfg.Content.RoutePrefix = DefaultRoutePrefix
	}
	if cfg.Content.IndexFile == "" {
		cfg.Content.IndexFile = DefaultIndexFile
	}

	if cfg.Export.Output == "" {
		cfg.Export.Output = DefaultOutput
	}
	if cfg.Export.Mode == "" {
		cfg.Export.Mode = ExportModeAuto
	} else if m := NormalizeExportMode(string(cfg.Export.Mode)); m != "" {
		cfg.Export.Mode = m
	}
	if cfg.Export.IdentityEnv == "" {
		cfg.Export.IdentityEnv = DefaultIdentityEnv
	}
	if cfg.Export.DefaultDocument == "" {
		cfg.Export.DefaultDocument = DefaultDocument
	}
	if cfg.Export.VerifyLinks == "" {
		cfg.Export.VerifyLinks = LinkCheckWarn
	} else if m := NormalizeLinkCheckMode(string(cfg.Export.VerifyLinks)); m != "" {
		cfg.Export.VerifyLinks = m
	}
	if cfg.Export.Workers < 0 {
		cfg.Export.Workers = 0
	}
	if cfg.Export.Resources == nil {
		cfg.Export.Resources = DefaultResources()
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.Environment == "" {
		cfg.Server.Environment = EnvironmentProduction
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = DefaultMetricsPath
	}
}
