package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dafonte/formrelay/pkg/api"
	"github.com/dafonte/formrelay/pkg/cli"
	"github.com/dafonte/formrelay/pkg/config"
	"github.com/dafonte/formrelay/pkg/credentials"
	"github.com/dafonte/formrelay/pkg/mail"
	"github.com/dafonte/formrelay/pkg/system"
	"github.com/dafonte/formrelay/pkg/telemetry"
	"github.com/dafonte/formrelay/pkg/version"
)

func main() {
	flags, err := cli.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if flags.PrintVersion {
		fmt.Println("formrelay", version.GetBuildInfo())
		return
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		stdlog.Fatalf("Error loading formrelay config: %v", err)
	}
	debug := flags.Debug || cfg.Logging.Debug

	zl, err := system.NewLogger(debug, cfg.Logging.File)
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()
	log.With("version", version.Version, "commit", version.GitCommit).Info("Starting formrelay")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, shutdownTracing, err := telemetry.Init(ctx, cfg.Tracing, version.Version, zl)
	if err != nil {
		log.Fatalf("Error initializing tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warnw("Failed to flush traces", "error", err)
		}
	}()

	server, err := newServer(zl, cfg, credentials.NewKeyringStore(), debug)
	if err != nil {
		log.Fatalf("Error setting up formrelay server: %v", err)
	}

	if err := server.Listen(ctx); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
	log.Info("Server stopped")
}

// newServer resolves credentials, selects the mail transport and registers
// the contact form controller.
func newServer(zl *zap.Logger, cfg config.Config, store credentials.SecretStore, debug bool) (*api.Server, error) {
	log := zl.Sugar()

	cfg.Credentials = credentials.NewResolver(store, cfg.Mail.SenderAddress, log).Resolve()
	if debug {
		log.Debugw("Resolved configuration",
			"listenAddress", cfg.Server.ListenAddress,
			"staticDir", cfg.Server.StaticDir,
			"destination", cfg.Mail.Destination,
			"mode", cfg.Mode())
	}

	transport := mail.NewTransport(cfg, log)
	relay := mail.NewRelay(transport, mail.SenderFor(cfg), cfg.Mail.Destination)

	server := api.NewServer(zl, cfg, debug)
	if err := server.RegisterAll([]api.APIController{
		api.NewContactController(log, relay),
	}); err != nil {
		return nil, err
	}

	log.Infow("Servidor rodando",
		"address", cfg.Server.ListenAddress,
		"staticDir", cfg.Server.StaticDir,
		"destination", relay.Destination(),
		"transport", relay.Mode())
	return server, nil
}
