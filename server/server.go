// Package server assembles the HTTP server from the routes provided to the
// fx graph.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"
	"github.com/mager/chordlegend/config"
	"github.com/mager/chordlegend/util"
	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sentryFlushTimeout = 2 * time.Second

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
}

// MethodRoute is a Route that only answers some methods. Other methods get
// a 405.
type MethodRoute interface {
	Route
	Methods() []string
}

// AsRoute annotates the given constructor to state that
// it provides a route to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Log       *zap.SugaredLogger
	Config    config.Config
	Routes    []Route `group:"routes"`
}

func NewHTTPServer(p Params) *http.Server {
	handler := newRouter(p.Log, p.Config, p.Routes)

	if p.Config.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         p.Config.SentryDSN,
			Environment: p.Config.Environment,
		})
		if err != nil {
			p.Log.Errorw("Failed to initialize Sentry", "error", err)
		} else {
			handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(handler)
			p.Lifecycle.Append(fx.Hook{
				OnStop: func(context.Context) error {
					sentry.Flush(sentryFlushTimeout)
					return nil
				},
			})
		}
	}

	srv := &http.Server{
		Addr:              ":" + p.Config.Port,
		Handler:           recoverer(p.Log, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			p.Log.Infow("Starting HTTP server", "addr", srv.Addr, "routes", len(p.Routes))
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
	return srv
}

// NewRouter registers routes on a gorilla router behind request logging,
// panic recovery and CORS.
func NewRouter(log *zap.SugaredLogger, cfg config.Config, routes []Route) http.Handler {
	return recoverer(log, newRouter(log, cfg, routes))
}

func newRouter(log *zap.SugaredLogger, cfg config.Config, routes []Route) http.Handler {
	r := mux.NewRouter().StrictSlash(true)
	for _, route := range routes {
		rt := r.Handle(route.Pattern(), route)
		if m, ok := route.(MethodRoute); ok {
			rt.Methods(m.Methods()...)
		}
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		util.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		util.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Use(requestLogger(log))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(r)
}

var Options = NewHTTPServer
