package events

import "github.com/atomicstack/tmux-popup-browser/internal/logging"

type UITracer struct{}

type DispatchTracer struct{}

type TreeTracer struct{}

type BrowserTracer struct{}

var (
	UI       = UITracer{}
	Dispatch = DispatchTracer{}
	Tree     = TreeTracer{}
	Browser  = BrowserTracer{}
)

func (UITracer) Cursor(row int, path string) {
	logging.Trace("ui.cursor", map[string]interface{}{"row": row, "path": path})
}

func (UITracer) Focus(target string) {
	logging.Trace("ui.focus", map[string]interface{}{"target": target})
}

func (UITracer) Confirm(path string) {
	logging.Trace("ui.confirm", map[string]interface{}{"path": path})
}

func (UITracer) Cancel() {
	logging.Trace("ui.cancel", nil)
}

func (DispatchTracer) Message(dest, payload string) {
	logging.Trace("dispatch.message", map[string]interface{}{"dest": dest, "msg": payload})
}

func (DispatchTracer) Drop(dest, payload string) {
	logging.Trace("dispatch.drop", map[string]interface{}{"dest": dest, "msg": payload})
}

func (TreeTracer) Expand(node string, expanded bool) {
	logging.Trace("tree.expand", map[string]interface{}{"node": node, "expanded": expanded})
}

func (TreeTracer) Select(root, node string) {
	logging.Trace("tree.select", map[string]interface{}{"root": root, "node": node})
}

func (BrowserTracer) Rebuild(path string) {
	logging.Trace("browser.rebuild", map[string]interface{}{"path": path})
}

func (BrowserTracer) Enumerate(dir string, listed, accepted int) {
	logging.Trace("browser.enumerate", map[string]interface{}{"dir": dir, "listed": listed, "accepted": accepted})
}

func (BrowserTracer) EnumerateFailed(dir string, err error) {
	if err == nil {
		return
	}
	logging.Trace("browser.enumerate-failed", map[string]interface{}{"dir": dir, "error": err.Error()})
}

func (BrowserTracer) SelectionChanged(path string) {
	logging.Trace("browser.selection", map[string]interface{}{"path": path})
}

func (BrowserTracer) SelectionDropped(path string) {
	logging.Trace("browser.selection-dropped", map[string]interface{}{"path": path})
}
