package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqtracks/internal/config"
	"github.com/matzehuels/seqtracks/pkg/buildinfo"
	"github.com/matzehuels/seqtracks/pkg/cache"
	"github.com/matzehuels/seqtracks/pkg/feeds"
	"github.com/matzehuels/seqtracks/pkg/manager"
	"github.com/matzehuels/seqtracks/pkg/metadata"
	"github.com/matzehuels/seqtracks/pkg/observability"
	"github.com/matzehuels/seqtracks/pkg/source"
	"github.com/matzehuels/seqtracks/pkg/source/builtin"
)

// appName is the application name used for display.
const appName = "seqtracks"

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
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
// At debug level feed traffic is logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := logHooks{logger: c.Logger}
		observability.SetHTTPHooks(h)
		observability.SetCacheHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Seqtracks lays out protein sequence annotations as tracks",
		Long:         `Seqtracks fetches structural, proteomic and feature annotations for a UniProtKB accession and packs them into collapsible tracks along the sequence.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seqtracks/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sourcesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Manager Factory
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "settings", cfg)
	return cfg, nil
}

// runtime bundles what a command needs to load tracks.
type runtime struct {
	manager *manager.Manager
	cache   cache.Cache
}

func (r *runtime) Close() error { return r.cache.Close() }

// loadOptions tune newRuntime.
type loadOptions struct {
	noCache bool
	refresh bool
	onState func(accession string, s manager.State)
}

// newRuntime wires cache, fetcher, registry and manager from cfg.
func (c *CLI) newRuntime(ctx context.Context, cfg config.Config, opts loadOptions) (*runtime, error) {
	store, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, err
	}

	client := feeds.NewClient(store,
		feeds.WithTimeout(cfg.Timeout),
		feeds.WithTTL(cfg.Cache.TTL),
		feeds.WithRefresh(opts.refresh),
		feeds.WithHeaders(map[string]string{"User-Agent": appName + "/" + buildinfo.Version}),
	)

	meta := metadata.Default()
	if cfg.Metadata != "" {
		if meta, err = metadata.LoadFile(cfg.Metadata); err != nil {
			store.Close()
			return nil, err
		}
	}

	all := source.NewRegistry()
	deps := builtin.Deps{Fetcher: client, Metadata: meta, CoverageURL: cfg.CoverageURL}
	if err := builtin.Register(all, cfg.Endpoints, deps); err != nil {
		store.Close()
		return nil, err
	}
	reg, err := all.Subset(cfg.Sources)
	if err != nil {
		store.Close()
		return nil, err
	}

	m := manager.New(reg, client,
		manager.WithLogger(c.Logger),
		manager.WithSequenceURL(cfg.SequenceURL),
		manager.WithStateHook(opts.onState),
	)
	return &runtime{manager: m, cache: store}, nil
}

// openCache opens the configured backend, falling back to no cache when it
// is unreachable.
func (c *CLI) openCache(ctx context.Context, cfg config.Config, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	opts, err := cfg.CacheOptions()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", opts.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}
