package pack

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDelay = 100 * time.Millisecond

// Watcher watches the on-disk pack directory and emits one reload signal per
// burst of edits. Editors write a file several times in quick succession;
// the delay folds those into a single reload.
type Watcher struct {
	fs      *fsnotify.Watcher
	Reloads chan string
	Errors  chan error
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dir for pack file edits.
func NewWatcher(dir string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}

	w := &Watcher{
		fs:      fs,
		Reloads: make(chan string, 1),
		Errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. The Reloads and Errors channels stay open but go
// quiet, so receive loops block instead of reading closed-channel zeros.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed string
	)

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isPackFile(event.Name) {
				continue
			}
			changed = event.Name
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(reloadDelay)
			}
		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.Reloads <- changed:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func isPackFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
