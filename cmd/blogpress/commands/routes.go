package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct{}

func (r *RoutesCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	p, err := NewPipeline(cfg)
	if err != nil {
		return err
	}
	return RunRoutes(p, os.Stdout)
}

// RunRoutes prints each catalog entry with the file it is exported to.
func RunRoutes(p *Pipeline, out io.Writer) error {
	cat, err := p.Catalog()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KIND\tROUTE\tOUTPUT")
	for _, d := range cat.Entries() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Kind, d.Route, cat.OutputPath(d))
	}
	return tw.Flush()
}
