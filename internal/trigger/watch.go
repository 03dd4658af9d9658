package trigger

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/laurel-etl/laurel/pkg/constants"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/logging"
)

// DefaultDebounce batches the burst of events an editor or copy produces.
const DefaultDebounce = constants.DefaultWatchDebounce

// Watch fires r whenever one of files is written, created or renamed. The
// parent directories are watched so that files replaced by rename are still
// seen. Events within debounce of each other cause one run. Watch blocks
// until ctx is done, then waits up to constants.ShutdownTimeout for a run
// already started to finish.
func Watch(ctx context.Context, r *Runner, files []string, debounce time.Duration) error {
	logger := logging.FromContext(ctx)
	if len(files) == 0 {
		return errors.NewValidationError("files", files, "nothing to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapIO("watch", "", err)
	}
	defer watcher.Close() //nolint:errcheck

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return errors.WrapIO("watch", f, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.WrapIO("watch", dir, err)
		}
	}
	logger.Info().Int("files", len(targets)).Int("directories", len(dirs)).Msg("Watching inputs")

	var (
		mu      sync.Mutex
		timer   *time.Timer
		pending sync.WaitGroup
	)
	schedule := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil && timer.Stop() {
			pending.Done()
		}
		pending.Add(1)
		timer = time.AfterFunc(debounce, func() {
			defer pending.Done()
			_ = r.Fire(ctx, "change:"+filepath.Base(name))
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			pending.Done()
		}
		mu.Unlock()

		// A pass started by the timer must finish before the caller
		// closes the sink under it.
		waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShutdownTimeout)
		defer cancel()
		waitGroup(waitCtx, &pending)
		r.Wait(waitCtx)
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping input watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, targets) {
				continue
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Input changed, debouncing")
			schedule(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func relevant(event fsnotify.Event, targets map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return targets[abs]
}
