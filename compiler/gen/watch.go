package gen

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/entityc/compiler/load"
)

// watchDebounce coalesces editor save bursts into one regeneration.
const watchDebounce = 250 * time.Millisecond

// ReloadFunc re-reads the schema declarations after a change.
type ReloadFunc func() ([]*load.Schema, error)

// Watch regenerates artifacts whenever a schema declaration under dir
// changes. It runs one initial generation and then blocks until the context
// is canceled. Reload or generation failures are logged and do not stop the
// watch.
func (g *Generator) Watch(ctx context.Context, dir string, reload ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}

	g.regenerate(ctx, reload)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch filepath.Ext(event.Name) {
			case ".go", ".json":
			default:
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.log.Error("watch error", "error", err)
		case <-pending:
			g.regenerate(ctx, reload)
		}
	}
}

func (g *Generator) regenerate(ctx context.Context, reload ReloadFunc) {
	schemas, err := reload()
	if err != nil {
		g.log.Error("reload schemas", "error", err)
		return
	}
	if err := g.Generate(ctx, schemas...); err != nil {
		g.log.Error("generate", "error", err)
		return
	}
	g.log.Info("regenerated", "entities", len(schemas))
}
