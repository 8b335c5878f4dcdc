package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay is how long a file must stay quiet before it is re-read.
const DebounceDelay = 100 * time.Millisecond

// Slot names what a watched file is used for.
type Slot int

const (
	SlotSprite Slot = iota
	SlotMask
	SlotSpec
)

func (s Slot) String() string {
	switch s {
	case SlotSprite:
		return "sprite"
	case SlotMask:
		return "mask"
	case SlotSpec:
		return "spec"
	default:
		return "unknown"
	}
}

// AssetChange carries the fresh contents of a watched file. Err is set
// when the file could not be read.
type AssetChange struct {
	Slot  Slot
	Path  string
	Bytes []byte
	Err   error
}

// Watcher re-reads tracked files when they change. Files are watched
// through their parent directory so editors that replace files on save are
// picked up.
type Watcher struct {
	watcher *fsnotify.Watcher
	Changes chan AssetChange
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	delay   time.Duration

	mu      sync.Mutex
	tracked map[string]Slot
	dirs    map[string]bool
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
}

func NewWatcher() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		Changes: make(chan AssetChange, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		delay:   DebounceDelay,
		tracked: make(map[string]Slot),
		dirs:    make(map[string]bool),
		timers:  make(map[string]*time.Timer),
	}
	go watcher.run()
	return watcher, nil
}

// Track watches path for slot, replacing whatever file slot tracked before.
// An empty path stops tracking the slot.
func (w *Watcher) Track(slot Slot, path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for p, s := range w.tracked {
		if s == slot {
			delete(w.tracked, p)
		}
	}
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.tracked[abs] = slot
	return nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()

		w.mu.Lock()
		for p, t := range w.timers {
			if t.Stop() {
				w.wg.Done()
			}
			delete(w.timers, p)
		}
		w.mu.Unlock()
		w.wg.Wait()

		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// schedule (re)starts the quiet period for path when it is tracked.
func (w *Watcher) schedule(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	slot, ok := w.tracked[abs]
	if !ok {
		return
	}
	select {
	case <-w.closeCh:
		return
	default:
	}
	if t, ok := w.timers[abs]; ok && t.Stop() {
		w.wg.Done()
	}
	w.wg.Add(1)
	w.timers[abs] = time.AfterFunc(w.delay, func() {
		defer w.wg.Done()
		w.mu.Lock()
		delete(w.timers, abs)
		current, still := w.tracked[abs]
		w.mu.Unlock()
		if !still || current != slot {
			return
		}
		w.deliver(AssetChange{Slot: slot, Path: abs})
	})
}

func (w *Watcher) deliver(change AssetChange) {
	change.Bytes, change.Err = os.ReadFile(change.Path)
	select {
	case w.Changes <- change:
	case <-w.closeCh:
	}
}

// IsImageFile reports whether path has an image extension the loader
// decodes.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// SlotFor guesses the slot of a file dropped onto the window.
func SlotFor(path string, hasSprite bool) (Slot, bool) {
	switch {
	case isSpecFile(path):
		return SlotSpec, true
	case !IsImageFile(path):
		return 0, false
	case hasSprite:
		return SlotMask, true
	default:
		return SlotSprite, true
	}
}
