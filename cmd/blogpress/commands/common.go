package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogpress/internal/config"
)

// EnvLogLevel overrides the log level when --verbose is not given.
const EnvLogLevel = "BLOGPRESS_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogpress.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve  ServeCmd  `cmd:"" default:"withargs" help:"Export when the build gate allows it, then serve the blog"`
	Export ExportCmd `cmd:"" help:"Export every route to static files"`
	Routes RoutesCmd `cmd:"" help:"List the routes an export would write"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
	New    NewCmd    `cmd:"" help:"Create a new draft post"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}
