// Package app provides the access center server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/access-center/cmd/access-center/app/options"
	accesscenter "github.com/kart-io/access-center/internal/access-center"
	"github.com/kart-io/access-center/pkg/app"
)

// commandDesc is the description of the command.
const commandDesc = `Access Center Service

The central authorization service resolving users to their effective
roles, permissions and menu trees across tenants.

This server provides:
  - Token-based authentication (register, login, refresh, logout)
  - Role, feature and menu administration per tenant
  - Authorization resolution with a TTL-bounded cache
  - Permission-gated management API`

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		app.WithName(accesscenter.Name),
		app.WithShortDescription("Access center authorization service"),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)

	return application
}

// run contains the main logic for initializing and running the server.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
