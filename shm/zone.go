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

package shm

import "sync"

// InitFunc runs once in the supervisor before fork, the way the source
// runs each shared zone's init callback: it receives the freshly-mapped
// Zone and installs whatever root structure (slab pool header, red-black
// tree root, peer table) the owning subsystem needs before any worker
// reads it.
type InitFunc func(z *Zone) error

// Zone is a named region surviving across worker generations: backed here
// by a plain Go byte slice (workers in this port are goroutine-scheduled
// within the supervisor's address space rather than forked OS processes,
// so "shared" means "reachable from every worker's Cycle" rather than an
// OS mmap(MAP_SHARED) region — see DESIGN.md for the tradeoff), guarded by
// a Mutex, carrying a Slab allocator and an opaque tag identifying the
// owning subsystem (cache index, peer health table, ...).
type Zone struct {
	Name string
	Tag  string

	Mutex Mutex
	Slab  *Slab

	root any
}

// SetRoot stores the subsystem-defined root structure (e.g. *rcache.Index)
// under the zone's mutex discipline. Callers must hold Mutex while reading
// or writing through the returned value.
func (z *Zone) SetRoot(v any) { z.root = v }

// Root returns the subsystem-defined root structure installed by InitFunc
// or a later SetRoot.
func (z *Zone) Root() any { return z.root }

// Registry is the cycle-wide list of named shared zones, mirroring the
// source's cycle->shared_memory list. Zones are created once per
// generation; a reload that keeps the same name and size reuses the
// existing Zone instead of remapping it, the way the source avoids
// losing the cache index across a configuration reload.
type Registry struct {
	mu    sync.Mutex
	zones map[string]*Zone
}

// NewRegistry returns an empty zone Registry.
func NewRegistry() *Registry {
	return &Registry{zones: make(map[string]*Zone)}
}

// Declare registers a new zone of the given size in bytes, running init
// once. It fails if a zone of that name already exists with a different
// size, the way the source rejects a `zone` directive re-declared with a
// conflicting size across two directives pointing at the same name.
func (r *Registry) Declare(name, tag string, size int, mutex Mutex, init InitFunc) (*Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.zones[name]; ok {
		return nil, ErrorZoneExists.Error()
	}

	slab, err := NewSlab(size)
	if err != nil {
		return nil, err
	}

	z := &Zone{Name: name, Tag: tag, Mutex: mutex, Slab: slab}
	if init != nil {
		if err := init(z); err != nil {
			return nil, err
		}
	}

	r.zones[name] = z
	return z, nil
}

// Lookup returns a previously declared zone by name.
func (r *Registry) Lookup(name string) (*Zone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	z, ok := r.zones[name]
	if !ok {
		return nil, ErrorZoneNotFound.Error()
	}
	return z, nil
}

// Carry copies every zone from prev into r that isn't already declared,
// the way a reload keeps shared zones alive across the old and new cycle
// instead of re-creating (and losing the contents of) the cache index and
// peer health tables on every SIGHUP.
func (r *Registry) Carry(prev *Registry) {
	if prev == nil {
		return
	}
	prev.mu.Lock()
	defer prev.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, z := range prev.zones {
		if _, ok := r.zones[name]; !ok {
			r.zones[name] = z
		}
	}
}

// ForceUnlockAll clears ownership of every zone's mutex for the given pid,
// invoked by the supervisor on SIGCHLD so an abnormally terminated worker
// does not permanently hold a shared-zone lock (invariant 5).
func (r *Registry) ForceUnlockAll(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, z := range r.zones {
		z.Mutex.ForceUnlock(pid)
	}
}
