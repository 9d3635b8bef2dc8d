/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package rcache

import (
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/sabouaram/edgecore/archive"
	"github.com/sabouaram/edgecore/logger"
)

// Loader is the one-shot startup pass that rebuilds an in-memory Index from
// the durable Store, optionally preceded by restoring a snapshot archive of
// the on-disk cache tree (spec.md §4.8: "loader rebuilds the in-memory
// index from the on-disk tree at startup"). It never runs concurrently with
// Manager; a worker calls it once before serving traffic.
type Loader struct {
	Index  *Index
	Store  *Store
	log    logger.Logger

	// SnapshotPath, when non-empty, names a .tar.gz/.tar.bz2 archive
	// restored into SnapshotDest before the durable index is replayed.
	SnapshotPath string
	SnapshotDest string
}

// NewLoader returns a Loader over idx/store, both of which must already be
// open; idx is expected empty (a fresh process start).
func NewLoader(log logger.Logger, idx *Index, store *Store) *Loader {
	return &Loader{Index: idx, Store: store, log: log}
}

// Load restores the optional snapshot archive, then replays every record in
// Store into Index, rendering an mpb progress bar over the replay the same
// way nabbar-golib's semaphore/bar wraps a bounded worker loop.
func (l *Loader) Load() error {
	if l.SnapshotPath != "" {
		if err := l.restoreSnapshot(); err != nil {
			return err
		}
	}
	return l.replayStore()
}

func (l *Loader) restoreSnapshot() error {
	f, err := os.Open(l.SnapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			l.log.Info("cache loader: no snapshot archive found, starting cold", nil, "path", l.SnapshotPath)
			return nil
		}
		return ErrorStoreIO.Error(err)
	}
	defer func() { _ = f.Close() }()

	if err := archive.ExtractAll(f, l.SnapshotPath, l.SnapshotDest); err != nil {
		return ErrorStoreIO.Error(err)
	}
	l.log.Info("cache loader: snapshot restored", nil, "path", l.SnapshotPath, "dest", l.SnapshotDest)
	return nil
}

func (l *Loader) replayStore() error {
	type rec struct {
		key, path string
		expire    time.Time
	}
	var recs []rec
	if err := l.Store.All(func(key, path string, expire time.Time) {
		recs = append(recs, rec{key, path, expire})
	}); err != nil {
		return ErrorStoreIO.Error(err)
	}

	progress := mpb.New(mpb.WithWidth(60))
	bar := progress.AddBar(int64(len(recs)),
		mpb.PrependDecorators(decor.Name("cache loader")),
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
	)

	now := time.Now()
	for _, r := range recs {
		if _, err := os.Stat(r.path); err == nil {
			e := &Entry{Key: r.key, Path: r.path, Expire: r.expire, State: StateNew}
			if e.Expired(now) {
				e.State = StateStale
			}
			l.Index.adopt(e)
		} else {
			// backing file gone: drop the stale durable record rather than
			// serve a 404 from cache.
			_ = l.Store.Delete(r.key)
		}
		bar.Increment()
	}
	progress.Wait()

	l.log.Info("cache loader: index rebuilt", nil, "entries", l.Index.Len())
	return nil
}
