package main

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"impractical.co/components"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr   string
		static string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the templates directory over HTTP",
		Long: `Serve every template in the templates directory over HTTP.

A request for /about renders about.html, and a request for / renders
index.html. Templates that don't exist and the templates of declared
components are not found. Prometheus metrics are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())

			engine, err := flags.engine(components.WithMetrics(reg))
			if err != nil {
				return err
			}

			log := flags.logger()
			ctx := components.LoggingContext(cmd.Context(), log)
			server := &http.Server{
				Addr:              addr,
				Handler:           newRouter(engine, os.DirFS(flags.templates), reg, static),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(_ net.Listener) context.Context {
					return ctx
				},
			}
			log.InfoContext(ctx, "serving templates", "addr", addr, "templates", flags.templates)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "address to listen on")
	cmd.Flags().StringVar(&static, "static", "", "directory to serve at the engine's static URL")

	return cmd
}

func newRouter(engine *components.Engine, templates fs.FS, reg *prometheus.Registry, static string) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if static != "" {
		prefix := engine.Config().StaticURL
		if strings.HasPrefix(prefix, "/") {
			router.Handle(strings.TrimSuffix(prefix, "/")+"/*",
				http.StripPrefix(prefix, http.FileServer(http.Dir(static))))
		}
	}

	router.Group(func(r chi.Router) {
		r.Use(engine.Middleware)
		hidden := componentTemplates(engine.Registry())
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			name := templateFor(r.URL.Path)
			if _, ok := hidden[name]; ok {
				http.NotFound(w, r)
				return
			}
			info, err := fs.Stat(templates, name)
			if err != nil || info.IsDir() {
				http.NotFound(w, r)
				return
			}
			engine.ServeTemplate(w, r, name, nil)
		})
	})
	return router
}

// componentTemplates returns the templates of the declared components in
// registry, which render fragments and aren't pages of their own.
func componentTemplates(registry *components.Registry) map[string]struct{} {
	result := map[string]struct{}{}
	for _, name := range registry.Names() {
		component, err := registry.Get(name)
		if err != nil {
			continue
		}
		if declared, ok := component.(*components.DeclaredComponent); ok {
			result[strings.TrimPrefix(path.Clean(declared.TemplatePath), "/")] = struct{}{}
		}
	}
	return result
}

// templateFor maps a request path to the template that renders it.
func templateFor(urlPath string) string {
	name := strings.Trim(path.Clean(urlPath), "/")
	if name == "" || name == "." {
		return "index.html"
	}
	if path.Ext(name) == "" {
		name += ".html"
	}
	return name
}
