package cli

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"go.viam.com/legacyimage/config"
	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage/codec"
)

// WatchAction is the corresponding Action for 'watch'.
func WatchAction(c *cli.Context) error {
	client, err := newImgconvClient(c)
	if err != nil {
		return err
	}
	defer client.close()

	dirs := c.Args().Slice()
	outDir := c.String(outDirFlag)
	wait := config.DefaultDebounce
	if wc := client.conf.Watch; wc != nil {
		if len(dirs) == 0 {
			dirs = wc.Dirs
		}
		if outDir == "" {
			outDir = wc.OutDir
		}
		wait = wc.Debounce()
	}
	if c.IsSet(debounceFlag) {
		wait = c.Duration(debounceFlag)
	}
	if len(dirs) == 0 {
		return errors.New("watch needs at least one DIR")
	}
	if outDir == "" {
		return errors.Errorf("watch needs --%s", outDirFlag)
	}

	w, err := newDirWatcher(dirs, outDir, wait, client.conf, client.sublogger("watch"), client.decodeLogger)
	if err != nil {
		return err
	}
	infof(c.App.Writer, "watching %s, writing to %s", plural(len(dirs), "directory"), outDir)
	return w.Run(client.ctx())
}

// dirWatcher converts supported images written into a set of directories. Bursts of events for
// one file are collapsed into a single conversion.
type dirWatcher struct {
	dirs     []string
	outDir   string
	debounce time.Duration
	conf     *config.Config
	logger   logging.Logger
	decoder  logging.Logger

	mu        sync.Mutex
	closed    bool
	pending   map[string]func(func()) // debouncers of files waiting to be converted
	inflight  sync.WaitGroup
	converted atomic.Int64
}

func newDirWatcher(
	dirs []string,
	outDir string,
	wait time.Duration,
	conf *config.Config,
	logger, decodeLogger logging.Logger,
) (*dirWatcher, error) {
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q", outDir)
	}
	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %q", dir)
		}
		if absDir == absOut {
			return nil, errors.Errorf("output directory %q is also watched", outDir)
		}
	}
	return &dirWatcher{
		dirs:     dirs,
		outDir:   absOut,
		debounce: wait,
		conf:     conf,
		logger:   logger,
		decoder:  decodeLogger,
		pending:  map[string]func(func()){},
	}, nil
}

// Run watches until ctx is done or the watcher fails. Conversions already running are waited
// for before it returns.
func (w *dirWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			//nolint:errcheck
			watcher.Close()
			return errors.Wrapf(err, "watching %q", dir)
		}
		w.logger.Debugw("watching", "dir", dir)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return watcher.Close()
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				w.handle(gctx, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				w.logger.Warnw("watcher error", "error", err)
			}
		}
	})

	err = g.Wait()
	w.shutdown()
	return err
}

func (w *dirWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if codec.FormatFromFileName(event.Name) == codec.FormatUnknown {
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	debounced, ok := w.pending[event.Name]
	if !ok {
		debounced = debounce.New(w.debounce)
		w.pending[event.Name] = debounced
	}
	w.mu.Unlock()

	path := event.Name
	debounced(func() { w.convert(ctx, path) })
}

func (w *dirWatcher) convert(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.pending, path)
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	out, err := outputPath(w.outDir, path, w.conf)
	if err == nil {
		err = convertFile(ctx, path, out, w.conf, w.logger, w.decoder)
	}
	if err != nil {
		w.logger.Warnw("conversion failed", "file", path, "error", err)
		return
	}
	w.converted.Inc()
	w.logger.Infow("converted", "file", path, "out", out)
}

func (w *dirWatcher) shutdown() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.inflight.Wait()
}
