package backend

import (
	"context"
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"github.com/atomicstack/tmux-popup-browser/internal/filebrowser"
)

// Event reports that the listing of Dir changed since it was last polled,
// or that polling it failed.
type Event struct {
	Dir string
	Err error
}

// Watcher polls a set of directories at a fixed interval and publishes an
// event whenever one of their listings changes.
type Watcher struct {
	lister   filebrowser.Lister
	interval time.Duration
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	seen map[string]uint64

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that lists watched directories every
// interval.
func NewWatcher(lister filebrowser.Lister, interval time.Duration) *Watcher {
	return newWatcher(lister, interval, 250*time.Millisecond)
}

func newWatcher(lister filebrowser.Lister, interval, minGap time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		lister:   lister,
		interval: interval,
		throttle: newThrottle(minGap),
		ctx:      ctx,
		cancel:   cancel,
		seen:     make(map[string]uint64),
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of listing changes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Watch replaces the watched set. Directories already watched keep their
// last listing; new ones are recorded on the next poll without an event.
func (w *Watcher) Watch(dirs []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next := make(map[string]uint64, len(dirs))
	for _, dir := range dirs {
		if sig, ok := w.seen[dir]; ok {
			next[dir] = sig
			continue
		}
		next[dir] = 0
	}
	w.seen = next
}

// Stop cancels the watcher. The poller exits after its current pass; use
// Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !w.throttle.wait(w.ctx) {
				return
			}
			for _, evt := range w.scan() {
				select {
				case <-w.ctx.Done():
					return
				case w.events <- evt:
				}
			}
		}
	}
}

// scan lists every watched directory once and returns the changes.
func (w *Watcher) scan() []Event {
	w.mu.Lock()
	dirs := make([]string, 0, len(w.seen))
	for dir := range w.seen {
		dirs = append(dirs, dir)
	}
	w.mu.Unlock()
	slices.Sort(dirs)

	var changed []Event
	for _, dir := range dirs {
		entries, err := w.lister.List(dir)
		sig := signature(entries)
		if err != nil {
			sig = 1
		}

		w.mu.Lock()
		prev, watched := w.seen[dir]
		if watched {
			w.seen[dir] = sig
		}
		w.mu.Unlock()

		if !watched || prev == 0 || prev == sig {
			continue
		}
		changed = append(changed, Event{Dir: dir, Err: err})
	}
	return changed
}

// signature hashes a listing; it never returns 0 or 1, which mark unseen
// and unreadable directories.
func signature(entries []filebrowser.Entry) uint64 {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		kind := "f"
		if e.IsDir {
			kind = "d"
		}
		names = append(names, kind+e.Path)
	}
	slices.Sort(names)
	h := fnv.New64a()
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
	}
	sum := h.Sum64()
	if sum < 2 {
		sum += 2
	}
	return sum
}
