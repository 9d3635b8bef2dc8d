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

// Package monitor implements a polling health-check loop (types.Monitor)
// around a types.Info, plus a name-keyed Pool components publish into for
// the aggregate status route and admin API to walk.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	montps "github.com/sabouaram/edgecore/monitor/types"
)

type Config = montps.Config
type Monitor = montps.Monitor
type Pool = montps.Pool
type FuncPool = montps.FuncPool

const (
	defaultCheckInterval = 30 * time.Second
	defaultFallCount     = 1
	defaultRiseCount     = 1
)

type monitor struct {
	inf montps.Info

	mu      sync.RWMutex
	cfg     Config
	fct     montps.HealthCheckFunc
	cancel  context.CancelFunc
	running bool
	lastErr error
	fall    int
	rise    int
}

// New returns a Monitor wrapping inf, not yet started.
func New(ctx context.Context, inf montps.Info) (Monitor, error) {
	if inf == nil {
		return nil, fmt.Errorf("monitor: nil info")
	}

	return &monitor{
		inf: inf,
		cfg: Config{CheckInterval: defaultCheckInterval, FallCount: defaultFallCount, RiseCount: defaultRiseCount},
	}, nil
}

func (m *monitor) Name() (string, error) {
	return m.inf.Name()
}

func (m *monitor) SetHealthCheck(fct montps.HealthCheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fct = fct
}

func (m *monitor) SetConfig(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg = *cfg
	if m.cfg.CheckInterval <= 0 {
		m.cfg.CheckInterval = defaultCheckInterval
	}
	if m.cfg.FallCount <= 0 {
		m.cfg.FallCount = defaultFallCount
	}
	if m.cfg.RiseCount <= 0 {
		m.cfg.RiseCount = defaultRiseCount
	}

	return nil
}

func (m *monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	cctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	interval := m.cfg.CheckInterval
	m.mu.Unlock()

	go m.loop(cctx, interval)

	return nil
}

func (m *monitor) loop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.check(ctx)
		}
	}
}

func (m *monitor) check(ctx context.Context) {
	m.mu.RLock()
	fct := m.fct
	m.mu.RUnlock()

	if fct == nil {
		return
	}

	err := fct(ctx)

	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
}

func (m *monitor) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *monitor) Status() (interface{}, error) {
	name, err := m.inf.Name()
	if err != nil {
		return nil, err
	}

	info, _ := m.inf.Infos()

	m.mu.RLock()
	lastErr := m.lastErr
	running := m.running
	m.mu.RUnlock()

	res := map[string]interface{}{
		"name":    name,
		"running": running,
		"info":    info,
	}
	if lastErr != nil {
		res["error"] = lastErr.Error()
	}

	return res, nil
}

type pool struct {
	mu sync.RWMutex
	m  map[string]Monitor
}

// NewPool returns an empty Pool.
func NewPool() Pool {
	return &pool{m: make(map[string]Monitor)}
}

func (p *pool) key(mon Monitor) (string, error) {
	return mon.Name()
}

func (p *pool) MonitorAdd(mon Monitor) error {
	k, e := p.key(mon)
	if e != nil {
		return e
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.m[k]; ok {
		return fmt.Errorf("monitor: %q already registered", k)
	}

	p.m[k] = mon
	return nil
}

func (p *pool) MonitorSet(mon Monitor) error {
	k, e := p.key(mon)
	if e != nil {
		return e
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[k] = mon
	return nil
}

func (p *pool) MonitorGet(key string) Monitor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.m[key]
}

func (p *pool) MonitorWalk(fct func(key string, mon Monitor) bool, exclude ...string) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ex := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		ex[e] = true
	}

	for k, v := range p.m {
		if ex[k] {
			continue
		}
		if !fct(k, v) {
			return
		}
	}
}
