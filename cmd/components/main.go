// Command components renders and serves templates that use the component
// tags, with components declared in a TOML config file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"impractical.co/components"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// globalFlags are the flags every subcommand shares.
type globalFlags struct {
	templates string
	config    string
	debug     bool
	verbose   bool
}

func main() {
	flags := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "components",
		Short: "Render templates built from reusable components",
		Long: `components renders pongo2 templates that use the component, component_block
and slot tags.

Components are declared in a TOML config file, along with the settings of the
engine that renders them. Templates are loaded from a directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.templates, "templates", "t", ".", "directory to load templates from")
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "components.toml", "config file, relative to the templates directory")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "turn on development-mode checks")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug messages")

	rootCmd.AddCommand(
		renderCmd(flags),
		serveCmd(flags),
		listCmd(flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// logger returns a logger that writes to stderr.
func (f *globalFlags) logger() *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (f *globalFlags) loggingContext(ctx context.Context) context.Context {
	return components.LoggingContext(ctx, f.logger())
}

// engine builds an Engine from the config file and the templates directory.
func (f *globalFlags) engine(opts ...components.Option) (*components.Engine, error) {
	fsys := os.DirFS(f.templates)
	cfg, err := components.LoadConfig(fsys, f.config)
	if err != nil {
		return nil, err
	}
	if f.debug {
		cfg.Engine.Debug = true
	}
	registry := components.NewRegistry()
	if err := cfg.RegisterComponents(registry); err != nil {
		return nil, fmt.Errorf("error registering components: %w", err)
	}
	opts = append([]components.Option{components.WithConfig(cfg.Engine)}, opts...)
	return components.NewEngine(fsys, registry, opts...)
}
