package manifest

import (
	"sync"

	"github.com/joeydtaylor/steeze-dispatch/pkg/action"
	"github.com/joeydtaylor/steeze-dispatch/pkg/changetoken"
	"go.uber.org/zap"
)

// FileProvider is an action.Provider fed from a manifest file. It reloads the
// [[action]] entries whenever the file changes and fires its change token after
// the new snapshot is in place. [[route]] entries are read once, at open.
type FileProvider struct {
	path    string
	log     *zap.Logger
	cfg     Config
	actions *action.Registry
	watcher *changetoken.FileWatcher

	mu     sync.Mutex
	closed bool
}

// OpenFile loads path and starts watching it.
func OpenFile(path string, log *zap.Logger) (*FileProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	w, err := changetoken.WatchFile(path, log)
	if err != nil {
		return nil, err
	}
	p := &FileProvider{
		path:    path,
		log:     log,
		cfg:     cfg,
		actions: action.NewRegistry(cfg.Descriptors()...),
		watcher: w,
	}
	p.watch()
	return p, nil
}

func (p *FileProvider) watch() {
	p.watcher.GetChangeToken().RegisterChangeCallback(func() {
		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()
		if closed {
			return
		}
		p.reload()
		p.watch()
	})
}

// reload keeps the previous actions when the new file does not load.
func (p *FileProvider) reload() {
	cfg, err := LoadConfig(p.path)
	if err != nil {
		p.log.Error("manifest: reload failed, keeping previous actions",
			zap.String("path", p.path), zap.Error(err))
		return
	}
	p.actions.Replace(cfg.Descriptors())
	p.log.Info("manifest: actions reloaded",
		zap.String("path", p.path), zap.Int("actions", len(cfg.Actions)))
}

// Config is the manifest as loaded at open.
func (p *FileProvider) Config() Config { return p.cfg }

func (p *FileProvider) CurrentSnapshot() []*action.Descriptor {
	return p.actions.CurrentSnapshot()
}

func (p *FileProvider) ChangeProviders() []changetoken.Provider {
	return p.actions.ChangeProviders()
}

// Close stops watching. Snapshots stay readable.
func (p *FileProvider) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return p.watcher.Close()
}
