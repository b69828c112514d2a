// Package ui contains the Bubble Tea program that drives the popup file
// browser. The Model owns a widget.UserInterface holding one FileBrowser
// and projects it onto the terminal as a flat list of rows.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are
//     routed through a typed handler registry (keys, mouse, window size,
//     directory watcher events).
//   - Handlers never mutate controls directly. They send routed messages
//     (RootSelected, TreeExpand, MouseDown, MouseEnter, TextChanged) into the
//     widget graph and then call sync, which drains the queue, runs the
//     arrange pass and rebuilds the row projection.
//   - Navigation helpers (navigation.go) translate keys into cursor moves,
//     expansion and selection. Path field editing lives in input.go.
//
// State ownership:
//   - Row cursor and viewport live in internal/ui/state.Rows, rebuilt from
//     the tree on every sync.
//   - The selected path is owned by the FileBrowser; the text field only
//     mirrors it while the tree has focus.
//   - An optional backend.Watcher polls expanded directories; a change
//     re-enumerates the directory and restores nested expansion and the
//     selection where possible.
package ui
