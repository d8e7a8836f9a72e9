// Package cli implements the untangle command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/untangle/pkg/buildinfo"
	"github.com/matzehuels/untangle/pkg/config"
	"github.com/matzehuels/untangle/pkg/game"
	"github.com/matzehuels/untangle/pkg/observability"
	"github.com/matzehuels/untangle/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "untangle"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Untangle is a planar graph puzzle",
		Long:         `Untangle generates planar graph puzzles with tangled layouts, stores and verifies saved games, and serves games over an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(optionalConfig(cmd)); err != nil {
				return err
			}
			c.SetLogLevel(c.logLevel())
			c.installHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: search "+config.EnvConfigPath+", ./"+config.FileName+", then the user config dir)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.savesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// annotationOptionalConfig marks commands that run with defaults when an
// explicit --config file does not exist yet.
const annotationOptionalConfig = "optional-config"

func optionalConfig(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		if cmd.Annotations[annotationOptionalConfig] == "true" {
			return true
		}
	}
	return false
}

func (c *CLI) loadConfig(optional bool) error {
	if c.configPath != "" && optional && !fileExists(c.configPath) {
		c.cfg = config.Default()
		return nil
	}
	if c.configPath != "" {
		cfg, err := config.LoadFile(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
		c.Logger.Debug("config loaded", "path", c.configPath)
		return nil
	}
	cfg, path, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	if path != "" {
		c.Logger.Debug("config loaded", "path", path)
	}
	return nil
}

// logLevel returns debug for --verbose, otherwise the configured level.
func (c *CLI) logLevel() log.Level {
	if c.verbose {
		return log.DebugLevel
	}
	if c.cfg != nil {
		if level, err := log.ParseLevel(strings.ToLower(c.cfg.Log.Level)); err == nil {
			return level
		}
	}
	return log.InfoLevel
}

func (c *CLI) installHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetGameHooks(h)
	observability.SetStoreHooks(h)
	observability.SetHTTPHooks(h)
}

// settings returns the loaded configuration, or defaults before loading.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// gameOptions builds session options from the configuration.
func (c *CLI) gameOptions() []game.Option {
	cfg := c.settings()
	opts := []game.Option{
		game.WithLogger(c.Logger),
		game.WithDensity(cfg.Game.Density),
	}
	if cfg.Game.Seed != 0 {
		opts = append(opts, game.WithSeed(cfg.Game.Seed))
	}
	return opts
}

// openStore opens the configured save store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.settings().Store
	c.Logger.Debug("opening store", "backend", cfg.Backend)
	if cfg.Backend == config.BackendRedis || cfg.Backend == config.BackendMongo {
		sp := startSpinner(ctx, os.Stderr, "Connecting to "+cfg.Backend+"...")
		defer sp.stop()
	}
	return store.Open(ctx, cfg)
}

// =============================================================================
// Paths
// =============================================================================

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
