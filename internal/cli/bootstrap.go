// Package cli provides CLI commands for the casesla application.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/example/casesla/internal/config"
	"github.com/example/casesla/internal/ctxutil"
	"github.com/example/casesla/internal/logging"
	"github.com/example/casesla/internal/wire"
)

var (
	// globalActorID is the actor recorded on transitions for this invocation.
	// Set from --actor, falling back to the configured actor.
	globalActorID string
	configPath    string
	verbose       bool
)

// Bootstrap resolves configuration, builds the logger and hands both to wire.
// Called once per invocation from the root command's PersistentPreRunE.
func Bootstrap() error {
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()

	cfg, err := config.Resolve(configPath, cwd, home)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if globalActorID == "" {
		globalActorID = cfg.Actor
	}

	wire.Configure(cfg, logger)
	return nil
}

// GetActorID returns the actor for the current CLI invocation.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
