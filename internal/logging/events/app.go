package events

import "github.com/atomicstack/tmux-popup-browser/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Exit(selection string, confirmed bool) {
	logging.Trace("app.exit", map[string]interface{}{"selection": selection, "confirmed": confirmed})
}
