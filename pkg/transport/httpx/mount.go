package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-dispatch/pkg/invoke"
	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
	"github.com/joeydtaylor/steeze-dispatch/pkg/routing"
	"go.uber.org/zap"
)

// anyMethod is what an endpoint without a method constraint is registered for.
var anyMethod = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodOptions,
}

// MountOptions tune how endpoints are served.
type MountOptions struct {
	// Fallthrough serves requests whose dispatch ended with no action. Nil
	// leaves the response untouched (an empty 200).
	Fallthrough http.Handler
	// Timeout bounds each dispatch's request context when positive.
	Timeout time.Duration
	Log     *zap.Logger
}

// Mount registers every endpoint of ds on r. Endpoints are registered by
// ascending Order; when two produce the same method and pattern the first
// wins. Templates chi rejects are skipped and reported in the returned error;
// the rest stay mounted.
func Mount(r Router, ds *routing.DataSource, opts MountOptions) error {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	eps := ds.Endpoints()
	sort.SliceStable(eps, func(i, j int) bool { return eps[i].Order < eps[j].Order })

	seen := map[string]bool{}
	var errs []error
	for _, ep := range eps {
		segs := routing.ParseTemplate(ep.Template)
		h := serve(ep, segs, opts.Fallthrough, log)
		if opts.Timeout > 0 {
			h = withTimeout(h, opts.Timeout)
		}

		methods := ep.Methods()
		if len(methods) == 0 {
			methods = anyMethod
		}
		for _, pattern := range Patterns(segs, ep.Defaults) {
			for _, m := range methods {
				key := m + " " + pattern
				if seen[key] {
					log.Debug("pattern shadowed", zap.String("method", m), zap.String("pattern", pattern),
						zap.String("endpoint", ep.String()))
					continue
				}
				if err := handle(r, m, pattern, h); err != nil {
					errs = append(errs, fmt.Errorf("endpoint %q: %w", ep.Template, err))
					break
				}
				seen[key] = true
			}
		}
	}
	return errors.Join(errs...)
}

// handle turns chi's registration panics into errors.
func handle(r Router, method, pattern string, h http.Handler) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pattern %q: %v", pattern, p)
		}
	}()
	r.Handle(method, pattern, h)
	return nil
}

// Patterns expands a parsed template into chi patterns, longest first. Trailing
// segments that are optional, catch-all or defaulted may be left off.
func Patterns(segs []routing.Segment, defaults route.Values) []string {
	minLen := len(segs)
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if !s.IsParam() {
			break
		}
		_, hasDefault := defaults.Get(s.Param)
		if !(s.Optional || s.CatchAll || s.Default != "" || hasDefault) {
			break
		}
		minLen = i
	}

	out := make([]string, 0, len(segs)-minLen+1)
	for n := len(segs); n >= minLen; n-- {
		var b strings.Builder
		for _, s := range segs[:n] {
			b.WriteString("/")
			switch {
			case !s.IsParam():
				b.WriteString(s.Literal)
			case s.CatchAll:
				b.WriteString("*")
			default:
				b.WriteString("{" + s.Param + "}")
			}
		}
		if b.Len() == 0 {
			b.WriteString("/")
		}
		out = append(out, b.String())
	}
	return out
}

// values collects chi's URL params, then fills in endpoint and inline defaults.
func values(r *http.Request, segs []routing.Segment, ep *routing.Endpoint) route.Values {
	vals := route.Values{}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		for i, k := range rc.URLParams.Keys {
			if k == "*" {
				continue
			}
			vals[k] = rc.URLParams.Values[i]
		}
	}
	for _, s := range segs {
		if s.CatchAll {
			if v := chi.URLParam(r, "*"); v != "" {
				vals[s.Param] = v
			}
		}
	}
	vals = vals.WithDefaults(ep.Defaults)
	for _, s := range segs {
		if s.Default == "" {
			continue
		}
		if _, ok := vals.Get(s.Param); !ok {
			vals[s.Param] = s.Default
		}
	}
	return vals
}

func serve(ep *routing.Endpoint, segs []routing.Segment, fallback http.Handler, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := chimd.NewWrapResponseWriter(w, r.ProtoMajor)
		r = r.WithContext(routing.WithMatch(r.Context(), ep, values(r, segs, ep)))

		out, err := ep.Dispatch(ww, r)
		if err != nil {
			status := invoke.StatusOf(err, http.StatusInternalServerError)
			log.Error("dispatch failed",
				zap.String("requestId", chimd.GetReqID(r.Context())),
				zap.String("endpoint", ep.String()),
				zap.Int("status", status),
				zap.Error(err),
			)
			if ww.Status() == 0 {
				http.Error(ww, http.StatusText(status), status)
			}
			return
		}
		if out == routing.OutcomeNoAction && fallback != nil {
			fallback.ServeHTTP(ww, r)
		}
	}
}
