package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/atomicstack/tmux-popup-browser/internal/backend"
	"github.com/atomicstack/tmux-popup-browser/internal/filebrowser"
	"github.com/atomicstack/tmux-popup-browser/internal/logging/events"
	"github.com/atomicstack/tmux-popup-browser/internal/ui"
)

// ErrCancelled is returned by Run when the user quits without choosing.
var ErrCancelled = errors.New("selection cancelled")

// Config describes user-provided application options.
type Config struct {
	Root          string
	Select        string
	ShowHidden    bool
	Filter        string
	Extensions    []string
	Width         int
	Height        int
	ShowFooter    bool
	Mouse         bool
	WatchInterval time.Duration
}

// Run bootstraps and executes the Bubble Tea program. A confirmed path is
// written to out followed by a newline; cancelling writes nothing and
// returns ErrCancelled.
func Run(cfg Config, out io.Writer) error {
	lister := filebrowser.OSLister{}

	var watcher *backend.Watcher
	if cfg.WatchInterval > 0 {
		watcher = backend.NewWatcher(lister, cfg.WatchInterval)
		defer watcher.Stop()
	}

	model := ui.NewModel(ui.Options{
		Root:       cfg.Root,
		Select:     cfg.Select,
		Filter:     BuildFilter(cfg),
		Lister:     lister,
		Watcher:    watcher,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Mouse:      cfg.Mouse,
	})
	program := tea.NewProgram(model, programOptions(cfg, out)...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	if err != nil {
		return err
	}

	path, ok := model.Result()
	events.App.Exit(path, ok)
	if !ok {
		return ErrCancelled
	}
	if _, err := fmt.Fprintln(out, path); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	return nil
}

// BuildFilter combines the entry filters selected by cfg. It returns nil
// when every entry is accepted.
func BuildFilter(cfg Config) filebrowser.Filter {
	var hidden filebrowser.Filter
	if !cfg.ShowHidden {
		hidden = filebrowser.HiddenFilter()
	}
	var fuzzy, ext filebrowser.Filter
	if cfg.Filter != "" {
		fuzzy = filebrowser.NewFuzzyFilter(cfg.Filter)
	}
	if len(cfg.Extensions) > 0 {
		ext = filebrowser.NewExtensionFilter(cfg.Extensions...)
	}
	return filebrowser.AllOf(hidden, fuzzy, ext)
}

// programOptions renders on stderr when out is not a terminal, so the
// chosen path can be captured from stdout.
func programOptions(cfg Config, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		opts = append(opts, tea.WithOutput(os.Stderr))
	}
	return opts
}
