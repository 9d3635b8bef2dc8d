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

// Package types defines the Monitor/Pool contract shared by every component
// that reports health and runtime info, without pulling in the monitor
// package's implementation.
package types

import (
	"context"
	"time"
)

// Config tunes how often a Monitor runs its health check and how many past
// results it keeps for status history.
type Config struct {
	CheckInterval time.Duration `json:"check_interval,omitempty" yaml:"check_interval,omitempty" toml:"check_interval,omitempty" mapstructure:"check_interval,omitempty"`
	FallCount     int           `json:"fall_count,omitempty" yaml:"fall_count,omitempty" toml:"fall_count,omitempty" mapstructure:"fall_count,omitempty"`
	RiseCount     int           `json:"rise_count,omitempty" yaml:"rise_count,omitempty" toml:"rise_count,omitempty" mapstructure:"rise_count,omitempty"`
}

// Info supplies the name and arbitrary metadata a Monitor reports; both are
// resolved lazily through registered functions so the owner can change them
// at runtime.
type Info interface {
	RegisterName(fct func() (string, error))
	RegisterInfo(fct func() (map[string]interface{}, error))
	Name() (string, error)
	Infos() (map[string]interface{}, error)
}

// HealthCheckFunc is polled on the configured interval; a non-nil error
// counts as one failed check.
type HealthCheckFunc func(ctx context.Context) error

// Monitor is a started health-check loop around an Info. It is the unit
// every long-running component (http servers, database pools, smtp
// clients) exposes to the aggregate status route.
type Monitor interface {
	Name() (string, error)
	SetHealthCheck(fct HealthCheckFunc)
	SetConfig(ctx context.Context, cfg *Config) error
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	Status() (interface{}, error)
}

// Pool collects Monitor instances by name for the status route / admin API
// to walk.
type Pool interface {
	MonitorAdd(mon Monitor) error
	MonitorSet(mon Monitor) error
	MonitorGet(key string) Monitor
	MonitorWalk(fct func(key string, mon Monitor) bool, exclude ...string)
}

// FuncPool is registered by the owning config model and resolved lazily by
// components that need to publish their Monitor into the shared Pool.
type FuncPool func() Pool
