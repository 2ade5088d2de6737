package application

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/eugenenazirov/clusterconf/internal/config"
	"github.com/eugenenazirov/clusterconf/internal/resolver"
)

// Option configures App construction.
type Option func(*App)

// WithLocator overrides the properties source locator.
func WithLocator(locator config.SourceLocator) Option {
	return func(a *App) {
		a.locator = locator
	}
}

// WithResolver overrides the host resolver (primarily for tests).
func WithResolver(r *resolver.Resolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithSignalNotify overrides signal registration (primarily for tests).
func WithSignalNotify(notify func(chan<- os.Signal, ...os.Signal)) Option {
	return func(a *App) {
		a.notify = notify
	}
}

// App owns the live ClusterConfig and the collaborators that mutate it.
type App struct {
	cfg      *config.ClusterConfig
	locator  config.SourceLocator
	loader   *config.Loader
	reloader *config.Reloader
	resolver *resolver.Resolver
	logger   *zap.Logger
	notify   func(chan<- os.Signal, ...os.Signal)
}

// New loads the configuration layers and applies command-line overrides.
// A rejected override invocation is logged and the configuration from the
// earlier layers is kept; a malformed properties file fails construction.
func New(logger *zap.Logger, args []string, opts ...Option) (*App, error) {
	app := &App{
		loader:   config.NewLoader(logger),
		reloader: config.NewReloader(logger),
		resolver: resolver.New(),
		logger:   logger,
		notify:   signal.Notify,
	}
	for _, opt := range opts {
		opt(app)
	}

	cfg, err := app.loader.Load(app.locator)
	if err != nil {
		return nil, err
	}
	if err := app.loader.ApplyCommandLine(cfg, args); err != nil {
		logger.Error("command-line overrides rejected, keeping prior configuration", zap.Error(err))
	}
	app.cfg = cfg
	return app, nil
}

// Config returns the live configuration record.
func (a *App) Config() *config.ClusterConfig {
	return a.cfg
}

// NormalizeAddresses runs the hostname-to-IP pass over the live
// configuration. It must complete before listeners bind to the resolved
// identity.
func (a *App) NormalizeAddresses() error {
	return a.resolver.NormalizeAddresses(a.cfg)
}

// Reload re-applies the hot-modifiable properties from the source.
func (a *App) Reload() error {
	return a.reloader.Reload(a.cfg, a.locator)
}

// WatchReload blocks until ctx is cancelled, re-applying the hot-modifiable
// properties whenever SIGHUP arrives. Reload failures keep the live
// configuration and are logged.
func (a *App) WatchReload(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	a.notify(hup, syscall.SIGHUP)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := a.Reload(); err != nil {
				a.logger.Error("hot reload failed, keeping live configuration", zap.Error(err))
			}
		}
	}
}
