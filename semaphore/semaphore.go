/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package semaphore wraps golang.org/x/sync/semaphore with a worker-group
// convenience layer: callers register workers as they are spawned and block
// on WaitAll, instead of wiring their own sync.WaitGroup.
package semaphore

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Sem bounds concurrent workers and lets the owner wait for all of them to
// finish.
type Sem interface {
	NewWorker() error
	DeferWorker()
	DeferMain()
	WaitAll() error
}

type sem struct {
	ctx context.Context
	wg  sync.WaitGroup
	w   *semaphore.Weighted
}

// NewSemaphoreWithContext returns a Sem. A size of 0 means unbounded
// concurrency (no acquire is attempted before spawning a worker).
func NewSemaphoreWithContext(ctx context.Context, size int64) Sem {
	s := &sem{ctx: ctx}

	if size > 0 {
		s.w = semaphore.NewWeighted(size)
	}

	return s
}

func (s *sem) NewWorker() error {
	s.wg.Add(1)

	if s.w != nil {
		return s.w.Acquire(s.ctx, 1)
	}

	return nil
}

func (s *sem) DeferWorker() {
	if s.w != nil {
		s.w.Release(1)
	}

	s.wg.Done()
}

func (s *sem) DeferMain() {
	s.wg.Wait()
}

func (s *sem) WaitAll() error {
	s.wg.Wait()
	return nil
}
