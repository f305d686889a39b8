package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/prpanel/internal/adapter/driven/github"
	secretadapter "github.com/ericfisherdev/prpanel/internal/adapter/driven/secret"
	httphandler "github.com/ericfisherdev/prpanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/prpanel/internal/adapter/driving/tui"
	"github.com/ericfisherdev/prpanel/internal/application"
	"github.com/ericfisherdev/prpanel/internal/config"
)

// CLI is the command-line interface. Flags double as PRPANEL_* environment
// variables.
type CLI struct {
	Interval   time.Duration `help:"Poll interval." default:"5m" env:"PRPANEL_POLL_INTERVAL"`
	Reasons    string        `help:"Comma-separated notification reasons counted toward the badge. Empty counts all." default:"review_requested,mention,comment,assign,state_change" env:"PRPANEL_NOTIFY_REASONS"`
	TokenFile  string        `help:"File holding the GitHub access token. PRPANEL_GITHUB_TOKEN overrides." type:"path" env:"PRPANEL_TOKEN_FILE"`
	ListenAddr string        `help:"Status API listen address." default:"127.0.0.1:8080" env:"PRPANEL_LISTEN_ADDR"`

	Serve ServeCmd `cmd:"" default:"1" help:"Run the poller with the local status API."`
	Panel PanelCmd `cmd:"" help:"Run the interactive terminal panel."`
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("prpanel"),
		kong.Description("GitHub pull request status panel."),
	)

	if err := kctx.Run(cli); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// buildService wires the adapters into a poll service.
func buildService(cli *CLI) (*application.PollService, *config.Config, error) {
	cfg, err := config.New(cli.Interval, cli.Reasons, cli.TokenFile, cli.ListenAddr)
	if err != nil {
		return nil, nil, err
	}

	tokenStore := secretadapter.NewStore(cfg.TokenFile)
	ghClient := githubadapter.NewClient()
	svc := application.NewPollService(ghClient, tokenStore, cfg.PollInterval, cfg.Reasons)

	return svc, cfg, nil
}

// ServeCmd runs the poller alongside the local status API until signaled.
type ServeCmd struct{}

func (*ServeCmd) Run(cli *CLI) error {
	svc, cfg, err := buildService(cli)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := httphandler.NewRouter(httphandler.NewHandler(svc, slog.Default()), slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		svc.Run(gctx)
		return nil
	})

	g.Go(func() error {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	slog.Info("prpanel started",
		"listen_addr", cfg.ListenAddr,
		"poll_interval", cfg.PollInterval,
	)

	err = g.Wait()
	slog.Info("shutdown complete")
	return err
}

// PanelCmd runs the poller and the terminal panel in one process.
type PanelCmd struct{}

func (*PanelCmd) Run(cli *CLI) error {
	svc, _, err := buildService(cli)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go svc.Run(ctx)

	p := tea.NewProgram(tui.NewModel(svc), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}
