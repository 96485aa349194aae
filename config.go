package components

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/pelletier/go-toml"
)

// Config holds the settings that control how an Engine renders components
// and their media.
type Config struct {
	// Debug turns on development-mode checks: rendering a Component that
	// declares media without a Dependencies set becomes an error, slots
	// supplied to a Component that doesn't declare them are logged as
	// warnings, and templates are re-read from disk on every render.
	Debug bool `toml:"debug"`

	// ImportScriptsAsModules renders every <script> element the
	// dependency pass writes with type="module".
	ImportScriptsAsModules bool `toml:"import_scripts_as_modules"`

	// StaticURL is prefixed to relative CSS and JavaScript URLs. URLs that
	// start with "/", "http://" or "https://" are used as-is.
	StaticURL string `toml:"static_url"`

	// ErrorTemplate, if set, is the template ServeTemplate renders when
	// rendering the requested template fails.
	ErrorTemplate string `toml:"error_template"`
}

// DefaultConfig returns the Config an Engine uses unless it's told
// otherwise.
func DefaultConfig() Config {
	return Config{
		StaticURL: "/static/",
	}
}

func (c Config) staticPath(path string) string {
	if c.StaticURL == "" {
		return path
	}
	for _, prefix := range []string{"/", "http://", "https://"} {
		if strings.HasPrefix(path, prefix) {
			return path
		}
	}
	return strings.TrimSuffix(c.StaticURL, "/") + "/" + path
}

// Option configures an Engine when passed to NewEngine.
type Option func(*Engine) error

// WithConfig replaces the Engine's whole Config.
func WithConfig(cfg Config) Option {
	return func(e *Engine) error {
		e.cfg = cfg
		return nil
	}
}

// WithDebug turns development-mode checks on or off.
func WithDebug(debug bool) Option {
	return func(e *Engine) error {
		e.cfg.Debug = debug
		return nil
	}
}

// WithStaticURL sets the prefix for relative CSS and JavaScript URLs.
func WithStaticURL(url string) Option {
	return func(e *Engine) error {
		e.cfg.StaticURL = url
		return nil
	}
}

// WithScriptModules makes every rendered <script> element an ES module.
func WithScriptModules(modules bool) Option {
	return func(e *Engine) error {
		e.cfg.ImportScriptsAsModules = modules
		return nil
	}
}

// WithErrorTemplate sets the template ServeTemplate falls back to when
// rendering fails.
func WithErrorTemplate(name string) Option {
	return func(e *Engine) error {
		e.cfg.ErrorTemplate = name
		return nil
	}
}

// ConfigFile is the TOML file format for configuring an Engine and declaring
// Components without writing Go code:
//
//	[engine]
//	debug = true
//	static_url = "/assets/"
//
//	[[components]]
//	name = "card"
//	template = "components/card.html"
//	css = ["card.css"]
//
//	[[components.positional]]
//	name = "title"
//
//	[[components.positional]]
//	name = "subtitle"
//	default = "Untitled"
type ConfigFile struct {
	Engine     Config            `toml:"engine"`
	Components []ComponentConfig `toml:"components"`
}

// LoadConfig reads and parses the ConfigFile at name within fsys. Settings
// the file leaves out keep their DefaultConfig values.
func LoadConfig(fsys fs.FS, name string) (ConfigFile, error) {
	contents, err := fs.ReadFile(fsys, name)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("error reading config %q: %w", name, err)
	}
	tree, err := toml.LoadBytes(contents)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("error parsing config %q: %w", name, err)
	}
	var file ConfigFile
	if err := tree.Unmarshal(&file); err != nil {
		return ConfigFile{}, fmt.Errorf("error decoding config %q: %w", name, err)
	}
	if !tree.Has("engine.static_url") {
		file.Engine.StaticURL = DefaultConfig().StaticURL
	}
	return file, nil
}
