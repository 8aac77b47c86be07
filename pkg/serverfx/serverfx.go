package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-dispatch/pkg/filters/jwtauth"
	"github.com/joeydtaylor/steeze-dispatch/pkg/invoke"
	"github.com/joeydtaylor/steeze-dispatch/pkg/manifest"
	"github.com/joeydtaylor/steeze-dispatch/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-dispatch/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-dispatch/pkg/routing"
	"github.com/joeydtaylor/steeze-dispatch/pkg/transport/httpx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

type Config struct {
	Service         string // for logs only
	ManifestEnv     string // STEEZE_MANIFEST
	DefaultManifest string // manifest.toml
	ListenEnv       string // SERVER_LISTEN_ADDRESS
	DefaultListen   string // used when neither env nor manifest set one
	TLSCertEnv      string // SSL_SERVER_CERTIFICATE
	TLSKeyEnv       string // SSL_SERVER_KEY
}

type Option func(*Config)

func WithService(s string) Option            { return func(c *Config) { c.Service = s } }
func WithManifestEnv(k string) Option        { return func(c *Config) { c.ManifestEnv = k } }
func WithDefaultManifest(path string) Option { return func(c *Config) { c.DefaultManifest = path } }
func WithListenEnv(k string) Option          { return func(c *Config) { c.ListenEnv = k } }
func WithTLSCertKeyEnv(cert, key string) Option {
	return func(c *Config) { c.TLSCertEnv, c.TLSKeyEnv = cert, key }
}

func defaultConfig() Config {
	return Config{
		Service:         "steeze",
		ManifestEnv:     "STEEZE_MANIFEST",
		DefaultManifest: "manifest.toml",
		ListenEnv:       "SERVER_LISTEN_ADDRESS",
		DefaultListen:   ":4000",
		TLSCertEnv:      "SSL_SERVER_CERTIFICATE",
		TLSKeyEnv:       "SSL_SERVER_KEY",
	}
}

// ManifestPath is the manifest the module will load.
func (c Config) ManifestPath() string { return envOr(c.ManifestEnv, c.DefaultManifest) }

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts ...Option) fx.Option {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return fx.Options(
		// Middleware, auth filter, metrics handler
		bundlefx.Module,
		// Config into DI
		fx.Provide(func() Config { return cfg }),
		// Action set, pipeline, live endpoint table
		fx.Provide(provideManifest),
		fx.Provide(provideHandlers),
		fx.Provide(provideFilters),
		fx.Provide(providePipeline),
		fx.Provide(provideHost),
		fx.Provide(fx.Annotate(
			func(h *httpx.Host) http.Handler { return h },
			fx.ResultTags(`name:"app"`),
		)),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}

// ---------- Action set + pipeline ----------

func provideManifest(lc fx.Lifecycle, cfg Config, zl *zap.Logger) (*manifest.FileProvider, error) {
	p, err := manifest.OpenFile(cfg.ManifestPath(), zl)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return p.Close() }})
	return p, nil
}

// provideHandlers serves invoke.DefaultHandlers so handlers registered with
// invoke.Register in init functions are visible to the manifest.
func provideHandlers() *invoke.Handlers {
	invoke.RegisterBuiltins(invoke.DefaultHandlers)
	return invoke.DefaultHandlers
}

func provideFilters(a *jwtauth.Authenticator) *invoke.Filters {
	fs := invoke.NewFilters()
	a.Register(fs)
	return fs
}

func providePipeline(hs *invoke.Handlers, fs *invoke.Filters, zl *zap.Logger) *invoke.Pipeline {
	return invoke.NewPipeline(invoke.WithHandlers(hs), invoke.WithFilters(fs), invoke.WithLogger(zl))
}

// Source returns a function building a fresh data source over actions and the
// given dynamic routes, with the default route-value selector.
func Source(actions action.Provider, routes []routing.DynamicRoute, invokers invoke.Factory, zl *zap.Logger) httpx.SourceFunc {
	return func() (*routing.DataSource, error) {
		return routing.New(routing.Config{
			Actions:  actions,
			Invokers: invokers,
			Selector: action.NewRouteValueSelector(actions, zl),
			Routes:   routes,
			Observer: metrics.ObserveDispatch,
			Logger:   zl,
		})
	}
}

// ---------- Router ----------

type hostDeps struct {
	fx.In

	Manifest *manifest.FileProvider
	Pipeline *invoke.Pipeline
	LogMW    *logger.Middleware
	Metrics  http.Handler `name:"metrics"`
	Log      *zap.Logger
}

func provideHost(lc fx.Lifecycle, d hostDeps) (*httpx.Host, error) {
	man := d.Manifest.Config()
	metrics.SetPathNormalizer(metrics.RoutePattern)

	mount := httpx.MountOptions{
		Fallthrough: http.NotFoundHandler(),
		Timeout:     time.Duration(man.Server.TimeoutMS) * time.Millisecond,
		Log:         d.Log,
	}
	h, err := httpx.NewHost(d.Manifest,
		Source(d.Manifest, man.DynamicRoutes(), d.Pipeline, d.Log),
		func(ds *routing.DataSource) http.Handler {
			return httpx.BuildRouter(ds, httpx.BuildDeps{
				Router:  httpx.NewChi(),
				LogMW:   d.LogMW,
				Metrics: d.Metrics,
				Mount:   mount,
				Log:     d.Log,
			})
		},
		httpx.HostOptions{
			OnBuild:   metrics.TableBuilt,
			OnRebuild: metrics.Rebuilt,
			Log:       d.Log,
		},
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { h.Close(); return nil }})
	return h, nil
}

// ---------- Lifecycle (HTTP server) ----------

type serverDeps struct {
	fx.In
	Logger   *zap.Logger
	Manifest *manifest.FileProvider
	App      http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, cfg Config, d serverDeps) {
	def := d.Manifest.Config().Server.Listen
	if def == "" {
		def = cfg.DefaultListen
	}
	addr := envOr(cfg.ListenEnv, def)
	cert := os.Getenv(cfg.TLSCertEnv)
	key := os.Getenv(cfg.TLSKeyEnv)

	srv := &http.Server{
		Addr:         addr,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", cfg.Service), zap.String("addr", addr), zap.String("cert", cert))
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			} else {
				d.Logger.Info("server starting (PLAINTEXT)",
					zap.String("service", cfg.Service), zap.String("addr", addr))
				go func() {
					srv.TLSConfig = nil
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", cfg.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
