package dashboard

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	core "github.com/goliatone/go-bda-dashboard/components/dashboard"
	"github.com/goliatone/go-bda-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-bda-dashboard/pkg/config"
	"github.com/goliatone/go-bda-dashboard/pkg/fetch"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// App bundles the service with its transports as configured.
type App struct {
	Config     config.Config
	Service    *Service
	Controller *core.Controller
	Executor   *httpapi.CommandExecutor
	Broadcast  *core.BroadcastHook
	Logger     logrus.FieldLogger

	watcher *core.SourceWatcher
}

// New assembles an App from configuration. Templates come from the configured
// directory, or the built-in set.
func New(cfg config.Config, logger logrus.FieldLogger) (*App, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	manifest, err := cfg.Manifest()
	if err != nil {
		return nil, err
	}
	fetcher, err := fetch.New(cfg.Data.Base, cfg.Data.APIKey)
	if err != nil {
		return nil, err
	}
	renderer, err := core.NewTemplateRenderer(cfg.Dashboard.Templates)
	if err != nil {
		return nil, fmt.Errorf("dashboard: templates: %w", err)
	}
	assetsHost := cfg.Dashboard.AssetsHost
	if assetsHost == "" {
		assetsHost = core.DefaultEChartsAssetsHost()
	}

	broadcast := core.NewBroadcastHook()
	telemetry := core.NewLogTelemetry(logger)
	service := core.NewService(core.Options{
		Catalog:  catalog,
		Fetcher:  fetcher,
		Manifest: manifest,
		ChartRenderer: core.NewEChartsRenderer(
			core.WithChartTheme(cfg.Dashboard.ChartTheme),
			core.WithChartAssetsHost(assetsHost),
		),
		RefreshHook:   broadcast,
		Telemetry:     telemetry,
		Logger:        logger,
		MaxConcurrent: cfg.Data.MaxConcurrent,
	})

	app := &App{
		Config:  cfg,
		Service: service,
		Controller: core.NewController(core.ControllerOptions{
			Service:      service,
			Renderer:     renderer,
			EndpointBase: path.Join("/", cfg.HTTP.BasePath, "dashboard"),
		}),
		Executor:  httpapi.NewCommandExecutor(service, telemetry),
		Broadcast: broadcast,
		Logger:    logger,
	}

	if cfg.Data.Watch {
		if cfg.IsRemote() {
			logger.Warn("data watch ignored for remote sources")
		} else {
			app.watcher, err = core.NewSourceWatcher(core.SourceWatcherOptions{
				Dir:      cfg.Data.Base,
				Catalog:  catalog,
				Reloader: service,
				Debounce: cfg.Data.WatchDebounce,
				Logger:   logger,
			})
			if err != nil {
				return nil, fmt.Errorf("dashboard: watcher: %w", err)
			}
		}
	}
	return app, nil
}

// Watching reports whether the data directory watcher is enabled.
func (a *App) Watching() bool { return a.watcher != nil }

// Run starts the service, the watcher when enabled, and serve, if given.
// It returns when ctx is cancelled or serve fails.
func (a *App) Run(ctx context.Context, serve func(ctx context.Context) error) error {
	group, gctx := errgroup.WithContext(ctx)
	if a.watcher != nil {
		if err := a.watcher.Start(gctx); err != nil {
			return fmt.Errorf("dashboard: watch %s: %w", a.Config.Data.Base, err)
		}
		defer a.watcher.Stop()
	}
	group.Go(func() error {
		return a.Service.Run(gctx)
	})
	if serve != nil {
		group.Go(func() error {
			return serve(gctx)
		})
	}
	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
