package events

import "github.com/atomicstack/tmux-popup-browser/internal/logging"

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Watch(dirs []string) {
	logging.Trace("backend.watch", map[string]interface{}{"dirs": dirs})
}

func (BackendTracer) Change(dir string, err error) {
	payload := map[string]interface{}{"dir": dir}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("backend.change", payload)
}
