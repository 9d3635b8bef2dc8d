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
	"encoding/json"
	"time"

	"github.com/nutsdb/nutsdb"
)

const bucket = "rcache_index"

// Store is the durable mirror of Index: the in-memory map/LRU stays the
// authoritative structure the spec requires; Store only survives a
// process restart without needing Loader to re-stat the whole
// content-addressed tree on every boot.
type Store struct {
	db *nutsdb.DB
}

type storedEntry struct {
	Path   string
	Expire time.Time
}

// OpenStore opens (creating if absent) a nutsdb instance rooted at dir.
func OpenStore(dir string) (*Store, error) {
	opts := nutsdb.DefaultOptions
	opts.Dir = dir
	db, err := nutsdb.Open(opts)
	if err != nil {
		return nil, ErrorStoreOpen.Error(err)
	}
	return &Store{db: db}, nil
}

// Put persists key's path and expiration.
func (s *Store) Put(key, path string, expire time.Time) error {
	body, err := json.Marshal(storedEntry{Path: path, Expire: expire})
	if err != nil {
		return ErrorStoreIO.Error(err)
	}
	err = s.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(bucket, []byte(key), body, 0)
	})
	if err != nil {
		return ErrorStoreIO.Error(err)
	}
	return nil
}

// Delete removes key from the durable index.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Delete(bucket, []byte(key))
	})
	if err != nil {
		return ErrorStoreIO.Error(err)
	}
	return nil
}

// All iterates every persisted key, invoking fn with its path and
// expiration; used by Loader to rebuild the in-memory Index at startup.
func (s *Store) All(fn func(key, path string, expire time.Time)) error {
	return s.db.View(func(tx *nutsdb.Tx) error {
		entries, _, err := tx.PrefixScan(bucket, nil, 0, 1<<20)
		if err != nil {
			if err == nutsdb.ErrBucketEmpty || err == nutsdb.ErrNotFoundKey {
				return nil
			}
			return err
		}
		for _, e := range entries {
			var se storedEntry
			if err := json.Unmarshal(e.Value, &se); err != nil {
				continue
			}
			fn(string(e.Key), se.Path, se.Expire)
		}
		return nil
	})
}

// Close closes the underlying nutsdb instance.
func (s *Store) Close() error {
	return s.db.Close()
}
