package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/parttree/pkg/buildinfo"
	"github.com/matzehuels/parttree/pkg/cache"
	"github.com/matzehuels/parttree/pkg/config"
	"github.com/matzehuels/parttree/pkg/errors"
	"github.com/matzehuels/parttree/pkg/pipeline"
	"github.com/matzehuels/parttree/pkg/source/inventree"
)

// appName is the application name used for display.
const appName = "parttree"

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

	// Config is loaded before any subcommand runs.
	Config config.Config

	configPath string
	verbose    bool
	getenv     func(string) string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		getenv: os.Getenv,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "parttree draws InvenTree part hierarchies",
		Long: `parttree turns InvenTree bills of materials into Mermaid diagrams, Graphviz
SVGs and terminal outlines, and serves the hierarchy panel for the
InvenTree plugin slot.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/parttree/config.toml)")

	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.outlineCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.bomCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		installLogHooks(c.Logger)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(c.getenv)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The host client is only
// attached when a host is configured, so file-based commands work offline.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)

	if c.Config.Host != "" {
		client, err := c.newClient(store)
		if err != nil {
			store.Close()
			return nil, err
		}
		runner.Host = client
	}
	return runner, nil
}

func (c *CLI) newClient(store cache.Cache) (*inventree.Client, error) {
	return inventree.NewClient(inventree.Config{
		Host:   c.Config.Host,
		Token:  c.Config.Token,
		Cache:  store,
		TTL:    c.Config.Cache.TTL.Duration,
		Logger: c.Logger,
	})
}

// requireHost reports a helpful error when a command needs a host.
func (c *CLI) requireHost() error {
	if c.Config.Host == "" {
		return errors.New(errors.ErrCodeInvalidInput,
			"no InvenTree host configured: set host in %s, %s, or use --bom/--tree", configHint(), config.EnvHost)
	}
	return nil
}

func configHint() string {
	if p, err := config.DefaultPath(); err == nil {
		return p
	}
	return "the config file"
}

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   c.Config.Cache.RedisAddr,
			DB:     c.Config.Cache.RedisDB,
			Prefix: appName + ":",
		})
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the file cache directory: the configured one or
// ~/.cache/parttree.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.CacheDir()
}
