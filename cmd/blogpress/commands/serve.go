package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogpress/internal/gate"
	"git.home.luguber.info/inful/blogpress/internal/logfields"
	"git.home.luguber.info/inful/blogpress/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `name:"addr" help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	p, err := NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, p, gate.FromEnvironment(cfg.Export.IdentityEnv))
}

// RunServe exports when the gate allows ec to, then serves until ctx is done.
// With export.exit_when_done it returns right after a successful export.
func RunServe(ctx context.Context, p *Pipeline, ec gate.ExecutionContext) error {
	ok, reason := gate.New(p.Config).Decide(ec)
	if ok {
		slog.Info("Static export enabled", slog.String("reason", reason), slog.String("identity", ec.Identity))
		if _, err := p.Export(ctx, p.Config.Export.Output); err != nil {
			return err
		}
		if p.Config.Export.ExitWhenDone {
			return nil
		}
	} else {
		slog.Info("Static export skipped", slog.String("reason", reason))
		p.Recorder.IncExportOutcome(metrics.ExportSkipped)
	}

	srv := p.Server()
	if err := srv.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping server")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		slog.Warn("Server did not stop cleanly", logfields.Error(err))
		return err
	}
	return nil
}
