package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/tmux-popup-browser/internal/app"
	"github.com/atomicstack/tmux-popup-browser/internal/tmux"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envRoot       = "TMUX_POPUP_BROWSER_ROOT"
	envSelect     = "TMUX_POPUP_BROWSER_SELECT"
	envHidden     = "TMUX_POPUP_BROWSER_HIDDEN"
	envFilter     = "TMUX_POPUP_BROWSER_FILTER"
	envExt        = "TMUX_POPUP_BROWSER_EXT"
	envWidth      = "TMUX_POPUP_BROWSER_WIDTH"
	envHeight     = "TMUX_POPUP_BROWSER_HEIGHT"
	envShowFooter = "TMUX_POPUP_BROWSER_FOOTER"
	envMouse      = "TMUX_POPUP_BROWSER_MOUSE"
	envWatch      = "TMUX_POPUP_BROWSER_WATCH"
	envTrace      = "TMUX_POPUP_BROWSER_TRACE"
	envLogFile    = "TMUX_POPUP_BROWSER_LOG_FILE"
	envSocket     = "TMUX_POPUP_BROWSER_SOCKET"
)

// paneCurrentPath is swapped out in tests.
var paneCurrentPath = tmux.PaneCurrentPath

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. A single
// positional argument is accepted as the root directory.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("tmux-popup-browser", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	root := fs.String("root", envOrDefault(env, envRoot, ""), "directory to browse (defaults to the invoking tmux pane's directory, then the working directory)")
	socket := fs.String("socket", envOrDefault(env, envSocket, ""), "tmux socket path used to find the invoking pane")
	selectPath := fs.String("select", envOrDefault(env, envSelect, ""), "path to reveal and select on startup")
	hidden := fs.Bool("hidden", envOrBool(env, envHidden, false), "show entries whose name starts with a dot")
	filter := fs.String("filter", envOrDefault(env, envFilter, ""), "fuzzy filter applied to file names")
	ext := fs.String("ext", envOrDefault(env, envExt, ""), "comma separated list of file extensions to show")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer with key hints and entry details")
	mouse := fs.Bool("mouse", envOrBool(env, envMouse, true), "enable mouse hover and clicks")
	watch := fs.Duration("watch", envOrDuration(env, envWatch, 2*time.Second), "poll interval for refreshing expanded directories (0 disables)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		if *root != "" && *root != fs.Arg(0) {
			return Config{}, fmt.Errorf("root given twice (%q and %q)", *root, fs.Arg(0))
		}
		*root = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("expected at most one directory argument, got %d", fs.NArg())
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *watch < 0 {
		return Config{}, fmt.Errorf("watch must be >= 0 (got %s)", *watch)
	}

	rootArg := *root
	if rootArg == "" {
		rootArg = defaultRoot(env, *socket)
	}
	rootPath, err := absPath(rootArg)
	if err != nil {
		return Config{}, fmt.Errorf("resolve root: %w", err)
	}
	selected := ""
	if *selectPath != "" {
		if selected, err = absPath(*selectPath); err != nil {
			return Config{}, fmt.Errorf("resolve select: %w", err)
		}
	}

	cfg := Config{
		App: app.Config{
			Root:          rootPath,
			Select:        selected,
			ShowHidden:    *hidden,
			Filter:        strings.TrimSpace(*filter),
			Extensions:    splitList(*ext),
			Width:         *width,
			Height:        *height,
			ShowFooter:    *footer,
			Mouse:         *mouse,
			WatchInterval: *watch,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"root":    *root,
			"socket":  *socket,
			"select":  *selectPath,
			"hidden":  strconv.FormatBool(*hidden),
			"filter":  *filter,
			"ext":     *ext,
			"width":   strconv.Itoa(*width),
			"height":  strconv.Itoa(*height),
			"footer":  strconv.FormatBool(*footer),
			"mouse":   strconv.FormatBool(*mouse),
			"watch":   watch.String(),
			"trace":   strconv.FormatBool(*trace),
			"logFile": *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// defaultRoot returns the current path of the tmux pane that opened the
// popup, or "" when there is no tmux server to ask.
func defaultRoot(env map[string]string, socket string) string {
	if env["TMUX"] == "" && socket == "" {
		return ""
	}
	path, err := paneCurrentPath(tmux.ResolveSocketPath(socket, env["TMUX"]), env["TMUX_PANE"])
	if err != nil {
		return ""
	}
	return path
}

func absPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = "."
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks that the root is an existing directory.
func Validate(cfg Config) error {
	info, err := os.Stat(cfg.App.Root)
	if err != nil {
		return fmt.Errorf("root %s: %w", cfg.App.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s: %w", cfg.App.Root, errNotDirectory)
	}
	return nil
}

var errNotDirectory = errors.New("not a directory")
