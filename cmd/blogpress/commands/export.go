package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogpress/internal/export"
)

// ExportCmd implements the 'export' command. It ignores the build gate.
type ExportCmd struct {
	Output  string `short:"o" name:"output" help:"Destination directory (overrides export.output)"`
	Workers int    `name:"workers" help:"Concurrent renders (overrides export.workers)"`
	Watch   bool   `short:"w" name:"watch" help:"Keep running and re-export when content or static files change"`
}

func (e *ExportCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if e.Output != "" {
		cfg.Export.Output = e.Output
	}
	if e.Workers > 0 {
		cfg.Export.Workers = e.Workers
	}
	p, err := NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunExport(ctx, p, e.Watch, os.Stdout)
}

// RunExport exports once and prints a summary to out. With watch it keeps
// re-exporting on changes until ctx is done.
func RunExport(ctx context.Context, p *Pipeline, watch bool, out io.Writer) error {
	dest := p.Config.Export.Output
	build := func(ctx context.Context) error {
		res, err := p.Export(ctx, dest)
		if err != nil {
			return err
		}
		printSummary(out, res, dest)
		return nil
	}
	if err := build(ctx); err != nil {
		return err
	}
	if !watch {
		return nil
	}
	w := export.NewWatcher(build, []string{p.Config.Content.Root, p.Config.Site.WebRoot},
		export.WithIgnoredDirs(dest))
	return w.Run(ctx)
}

func printSummary(out io.Writer, res *export.Result, dest string) {
	_, _ = fmt.Fprintf(out, "Exported %d files to %s in %s\n", len(res.Files), dest, res.Duration.Round(time.Millisecond))
	for _, b := range res.BrokenLinks {
		_, _ = fmt.Fprintf(out, "  broken link on %s: %s\n", b.Page, b.Link.URL)
	}
}
