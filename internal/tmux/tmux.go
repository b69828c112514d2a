// Package tmux asks the tmux server that launched the popup about the pane
// it was opened from.
package tmux

import (
	"errors"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

const paneCurrentPathFormat = "#{pane_current_path}"

var errNoPath = errors.New("tmux: pane reported no current path")

type paneQuerier interface {
	DisplayMessage(target, format string) (string, error)
}

var newTmux = func(socketPath string) (paneQuerier, func(), error) {
	var (
		client *gotmux.Tmux
		err    error
	)
	if socketPath != "" {
		client, err = gotmux.NewTmux(socketPath)
	} else {
		client, err = gotmux.DefaultTmux()
	}
	if err != nil {
		return nil, nil, err
	}
	return client, func() { client.Close() }, nil
}

// ResolveSocketPath returns the socket named by flagValue, else the one in
// the $TMUX value tmuxEnv. An empty result selects the default server.
func ResolveSocketPath(flagValue, tmuxEnv string) string {
	if s := strings.TrimSpace(flagValue); s != "" {
		return s
	}
	if tmuxEnv != "" {
		if parts := strings.Split(tmuxEnv, ","); parts[0] != "" {
			return parts[0]
		}
	}
	return ""
}

// PaneCurrentPath returns the working directory of pane. An empty pane
// means the server's current pane.
func PaneCurrentPath(socketPath, pane string) (string, error) {
	client, closeClient, err := newTmux(socketPath)
	if err != nil {
		return "", err
	}
	defer closeClient()
	out, err := client.DisplayMessage(strings.TrimSpace(pane), paneCurrentPathFormat)
	if err != nil {
		return "", err
	}
	path := strings.TrimSpace(out)
	if path == "" {
		return "", errNoPath
	}
	return path, nil
}
