package httpx

import (
	"context"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-dispatch/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/steeze-dispatch/pkg/middleware/metrics"
	"github.com/joeydtaylor/steeze-dispatch/pkg/routing"
	"go.uber.org/zap"
)

// BuildDeps are the collaborators BuildRouter mounts around the endpoint table.
// Everything but Router is optional.
type BuildDeps struct {
	Router  Router
	LogMW   *logger.Middleware
	Metrics http.Handler
	Mount   MountOptions
	Log     *zap.Logger
}

// BuildRouter installs the standard middleware, /metrics and the endpoints of ds
// on d.Router and returns the resulting handler. Endpoints whose templates the
// router rejects are logged and left out.
func BuildRouter(ds *routing.DataSource, d BuildDeps) http.Handler {
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware())
	}
	if d.Metrics != nil {
		r.Use(hmetrics.Collect())
		r.Handle(http.MethodGet, "/metrics", d.Metrics)
	}

	opts := d.Mount
	if opts.Log == nil {
		opts.Log = d.Log
	}
	if err := Mount(r, ds, opts); err != nil && d.Log != nil {
		d.Log.Error("endpoints not mounted", zap.Error(err))
	}
	return r.Mux()
}

func withTimeout(next http.HandlerFunc, d time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}
