package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogpress/cmd/blogpress/commands"
	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
	"git.home.luguber.info/inful/blogpress/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("blogpress"),
		kong.Description("Serve a Markdown blog and export it as static files."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
