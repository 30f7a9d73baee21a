package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/nova/internal/config"
	"github.com/aretw0/nova/internal/logging"
	"github.com/aretw0/nova/internal/runtime"
	"github.com/aretw0/nova/pkg/adapters/local"
	"github.com/aretw0/nova/pkg/adapters/memory"
	"github.com/aretw0/nova/pkg/adapters/redis"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/observability"
	"github.com/aretw0/nova/pkg/ports"
	"github.com/aretw0/nova/pkg/registry"
	"github.com/aretw0/nova/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// App holds what every command builds from the configuration.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Steps    *registry.Registry
	Store    ports.StateStore
	Sessions *session.Manager

	closers []io.Closer
}

// NewApp loads the steps and opens the session store: Redis when an address
// is configured, memory otherwise.
func NewApp(cfg config.Config, logOut io.Writer) (*App, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(logOut, level)

	steps := registry.Default()
	if cfg.Steps != "" {
		steps, err = registry.Load(cfg.Steps)
		if err != nil {
			return nil, err
		}
	}

	app := &App{Config: cfg, Logger: logger, Steps: steps}

	var mgrOpts []session.Option
	mgrOpts = append(mgrOpts, session.WithLogger(logger))
	if cfg.Redis.Addr != "" {
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		app.Store = store
		app.closers = append(app.closers, store)
		mgrOpts = append(mgrOpts, session.WithLocker(redis.NewLocker(store.Client(), store.Prefix())))
		logger.Debug("using redis session store", "addr", cfg.Redis.Addr, "prefix", store.Prefix())
	} else {
		app.Store = memory.NewStore()
	}
	app.Sessions = session.NewManager(app.Store, mgrOpts...)
	return app, nil
}

// Ping checks the session store when it supports it.
func (a *App) Ping(ctx context.Context) error {
	if p, ok := a.Store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Hooks logs engine events and, with m set, counts them.
func (a *App) Hooks(m *observability.Metrics) domain.LifecycleHooks {
	hooks := observability.LoggingHooks(a.Logger)
	if m != nil {
		hooks = observability.Combine(hooks, m.Hooks())
	}
	return hooks
}

// Service builds the stateless session service.
func (a *App) Service(m *observability.Metrics) *session.Service {
	return session.NewService(a.Sessions, a.Steps, session.Config{
		Timing:    a.Config.EngineTiming(),
		AssetName: a.Config.Asset.Name,
		Anchors:   a.Config.Anchors,
		Hooks:     a.Hooks(m),
		Logger:    a.Logger,
	})
}

// Metrics registers the collectors on a fresh registry with the Go and
// process collectors.
func (a *App) Metrics() (*observability.Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	return observability.NewMetrics(reg), reg
}

// LocalEffects builds the collaborators for a terminal session: speech when
// enabled and available, the bell, the file downloader and the anchor list.
func (a *App) LocalEffects(ctx context.Context, out io.Writer) []runtime.EngineOption {
	cfg := a.Config
	opts := []runtime.EngineOption{
		runtime.WithTiming(cfg.EngineTiming()),
		runtime.WithAssetName(cfg.Asset.Name),
		runtime.WithSoundCue(local.NewBell(out)),
		runtime.WithNavigator(local.NewNavigator(out, cfg.Anchors...)),
		runtime.WithDownloader(local.NewDownloader(cfg.Asset.SourceDir, cfg.Asset.DownloadDir, a.Logger)),
		runtime.WithLifecycleHooks(a.Hooks(nil)),
	}
	if speaker := a.speaker(ctx); speaker != nil {
		opts = append(opts, runtime.WithVoice(speaker))
	}
	return opts
}

func (a *App) speaker(ctx context.Context) *local.Speaker {
	cfg := a.Config.Voice
	if !cfg.Enabled {
		return nil
	}
	command := cfg.Command
	if command == "" {
		found, ok := local.DetectSpeechCommand()
		if !ok {
			a.Logger.Debug("no speech command found, voice disabled")
			return nil
		}
		command = found
	}

	opts := []local.SpeakerOption{
		local.WithPitch(cfg.Pitch),
		local.WithRate(cfg.Rate),
		local.WithSpeakerLogger(a.Logger),
	}
	if len(cfg.Voices) > 0 {
		available, err := local.ListVoices(ctx, command)
		if err != nil {
			a.Logger.Debug("voice list unavailable", "err", err)
		} else if v := local.SelectVoice(available, cfg.Voices); v != "" {
			opts = append(opts, local.WithVoice(v))
		}
	}
	return local.NewSpeaker(command, opts...)
}

// Close releases the session store.
func (a *App) Close() error {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close: %w", err)
		}
	}
	return nil
}
