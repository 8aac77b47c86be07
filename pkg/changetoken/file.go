package changetoken

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher is a Provider whose token fires when the watched file is written,
// recreated, renamed or removed. Each firing swaps in a fresh token.
type FileWatcher struct {
	path string
	w    *fsnotify.Watcher
	log  *zap.Logger

	mu  sync.Mutex
	cur *Signal

	done chan struct{}
	once sync.Once
}

// WatchFile starts watching path. Call Close to stop.
func WatchFile(path string, log *zap.Logger) (*FileWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	fw := &FileWatcher{
		path: path,
		w:    w,
		log:  log,
		cur:  NewSignal(),
		done: make(chan struct{}),
	}
	go fw.loop()
	log.Info("changetoken: watching file", zap.String("path", path))
	return fw, nil
}

func (f *FileWatcher) GetChangeToken() Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

// Close stops the watcher. Tokens already handed out stay unfired.
func (f *FileWatcher) Close() error {
	var err error
	f.once.Do(func() {
		close(f.done)
		err = f.w.Close()
	})
	return err
}

func (f *FileWatcher) loop() {
	for {
		select {
		case <-f.done:
			return

		case ev, ok := <-f.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			f.rotate()
			// atomic saves replace the inode
			_ = f.w.Add(f.path)

		case err, ok := <-f.w.Errors:
			if !ok {
				return
			}
			f.log.Error("changetoken: watcher error", zap.String("path", f.path), zap.Error(err))
		}
	}
}

func (f *FileWatcher) rotate() {
	f.mu.Lock()
	old := f.cur
	f.cur = NewSignal()
	f.mu.Unlock()

	f.log.Debug("changetoken: file changed", zap.String("path", f.path))
	old.Fire()
}
