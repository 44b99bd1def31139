package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Export  ExportConfig  `yaml:"export"`
	Server  ServerConfig  `yaml:"server"`
}

// SiteConfig holds presentation settings for rendered pages.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	// WebRoot holds static assets (stylesheets, scripts, favicon) served verbatim.
	WebRoot string `yaml:"web_root"`
}

// ContentConfig describes where blog posts live and how they map to routes.
type ContentConfig struct {
	Root        string `yaml:"root"`
	RoutePrefix string `yaml:"route_prefix"`
	IndexFile   string `yaml:"index_file"`
	// HideDrafts answers 404 for posts marked draft and leaves them out of the listing and the export.
	HideDrafts bool `yaml:"hide_drafts,omitempty"`
}

// ExportConfig controls static export.
type ExportConfig struct {
	Output          string           `yaml:"output"`
	Mode            ExportMode       `yaml:"mode"`
	BuildIdentity   string           `yaml:"build_identity,omitempty"`
	IdentityEnv     string           `yaml:"identity_env,omitempty"`
	ExitWhenDone    bool             `yaml:"exit_when_done,omitempty"`
	Clean           bool             `yaml:"clean,omitempty"`
	Workers         int              `yaml:"workers,omitempty"`
	DefaultDocument string           `yaml:"default_document,omitempty"`
	Manifest        bool             `yaml:"manifest,omitempty"`
	VerifyLinks     LinkCheckMode    `yaml:"verify_links,omitempty"`
	Resources       []ResourceConfig `yaml:"resources"`
}

// ResourceConfig is one literal entry of the resource catalog.
type ResourceConfig struct {
	Kind  string `yaml:"kind"` // page, css, js, bin
	Route string `yaml:"route"`
}

// ServerConfig configures the live HTTP server.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	Environment   string `yaml:"environment"`
	HTTPSRedirect bool   `yaml:"https_redirect,omitempty"`
	Metrics       bool   `yaml:"metrics,omitempty"`
	MetricsPath   string `yaml:"metrics_path,omitempty"`
}

// IsDevelopment reports whether the server runs in the development environment.
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == EnvironmentDevelopment
}

// Load loads configuration from the specified file.
//
// .env and .env.local are loaded first (without overriding the process environment), then
// ${VAR} references in the YAML are expanded, defaults applied and the result validated.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file could not be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return ferrors.FileSystemError("failed to write configuration file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}

const exampleConfig = `# blogpress configuration
site:
  title: "My Blog"
  description: "Notes and posts"
  web_root: wwwroot

content:
  root: posts          # one sub-directory per post, each with an index.md
  route_prefix: /Blog
  index_file: index.md
  hide_drafts: false   # true: posts with draft: true are neither served nor exported

export:
  output: bin/static
  # auto: export only when the build identity matches; always; never
  mode: auto
  build_identity: ${CI_BUILD_IDENTITY}
  identity_env: BLOGPRESS_BUILD_IDENTITY
  exit_when_done: true
  verify_links: warn
  resources:
    - { kind: js,  route: /lib/highlightjs-badge.js }
    - { kind: css, route: /ShalzuthBlog.styles.css }
    - { kind: css, route: /css/site.css }
    - { kind: bin, route: /favicon.ico }
    - { kind: page, route: / }

server:
  addr: ":8080"
  environment: production
  https_redirect: false
  metrics: true
`
