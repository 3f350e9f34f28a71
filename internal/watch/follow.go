package watch

import (
	"context"

	"github.com/dl/gocs/internal/index"
	"github.com/dl/gocs/internal/logging"
)

// Follower keeps an index in step with the events of a watcher.
type Follower struct {
	Watcher *Watcher
	Index   *index.Index
	// Accept filters file paths before they reach the index. Nil accepts all.
	Accept func(path string) bool
	// OnChange runs after an event changed the index.
	OnChange func(Event)
}

// Run applies events until ctx is cancelled or the watcher closes.
// Failures on single files are logged and do not stop the loop.
func (f *Follower) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	events := f.Watcher.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if evt.Err != nil {
				return evt.Err
			}
			changed, err := f.apply(evt)
			if err != nil {
				logger.Warn("update failed", logging.FieldPath, evt.Path, logging.FieldError, err)
				continue
			}
			if changed {
				logger.Debug("index updated", logging.FieldPath, evt.Path, "event", evt.Type)
				if f.OnChange != nil {
					f.OnChange(evt)
				}
			}
		}
	}
}

func (f *Follower) apply(evt Event) (bool, error) {
	if evt.IsDir {
		if evt.Type == EventCreated {
			return false, f.Watcher.AddTree(evt.Path)
		}
		return false, nil
	}
	if evt.Type == EventDeleted {
		return f.Index.Unregister(evt.Path), nil
	}
	if f.Accept != nil && !f.Accept(evt.Path) {
		return false, nil
	}
	return f.Index.Update(evt.Path)
}
