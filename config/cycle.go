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

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	liberr "github.com/sabouaram/edgecore/errors"
)

// ErrorConfigInvalid indicates a cycle file could not be read, decoded, or
// failed struct validation. Placed after the component error ranges
// already reserved above in this package.
const ErrorConfigInvalid liberr.CodeError = MinErrorComponentTls + 10

func init() {
	if liberr.ExistInMapMessage(ErrorConfigInvalid) {
		panic("error code collision in package config (cycle)")
	}
	liberr.RegisterIdFctMessage(ErrorConfigInvalid, getCycleMessage)
}

func getCycleMessage(code liberr.CodeError) string {
	if code == ErrorConfigInvalid {
		return "cycle configuration invalid or unreadable"
	}
	return liberr.NullMessage
}

// UpstreamPeer is one configured peer of an upstream block (spec.md §3
// "Upstream peer set").
type UpstreamPeer struct {
	Addr        string `mapstructure:"addr" validate:"required,hostname_port"`
	Weight      int    `mapstructure:"weight" validate:"gte=1"`
	MaxFails    int    `mapstructure:"max_fails" validate:"gte=0"`
	MaxConns    int    `mapstructure:"max_conns" validate:"gte=0"`
	FailTimeout string `mapstructure:"fail_timeout" validate:"omitempty"`
	Backup      bool   `mapstructure:"backup"`
}

// Upstream is one named upstream block: a primary peer list and an
// optional backup tier (spec.md §4.7).
type Upstream struct {
	Name  string         `mapstructure:"name" validate:"required"`
	Peers []UpstreamPeer `mapstructure:"peers" validate:"required,dive"`
}

// Location is one URI-prefix route within a server block, forwarding
// matching requests to a named Upstream (spec.md §4.6 location matching,
// §4.7 upstream selection).
type Location struct {
	Prefix    string `mapstructure:"prefix" validate:"required"`
	ProxyPass string `mapstructure:"proxy_pass" validate:"required"`
}

// Server is one listening server block: its bind address and the
// locations routed under it.
type Server struct {
	Listen     string     `mapstructure:"listen" validate:"required,hostname_port"`
	ServerName []string   `mapstructure:"server_name"`
	Locations  []Location `mapstructure:"locations" validate:"dive"`
}

// Cycle is the fully resolved configuration generation the supervisor and
// every worker consume (spec.md §3, §6). It is the Go rendering of the
// source's `ngx_cycle_t`: everything the core runtime needs, already
// validated, with grammar/parsing (out of scope per spec.md §1) having
// already happened by the time a Cycle exists.
type Cycle struct {
	WorkerProcesses   int    `mapstructure:"worker_processes" validate:"gte=0"`
	WorkerConnections int    `mapstructure:"worker_connections" validate:"gte=1"`
	PidFile           string `mapstructure:"pid_file" validate:"required"`
	ErrorLog          string `mapstructure:"error_log"`
	AccessLog         string `mapstructure:"access_log"`

	TimerResolution string `mapstructure:"timer_resolution"`
	AcceptMutex     bool   `mapstructure:"accept_mutex"`

	MaxHeaderBytes      int    `mapstructure:"max_header_bytes" validate:"gte=0"`
	KeepaliveTimeout    string `mapstructure:"keepalive_timeout"`
	ProxyConnectTimeout string `mapstructure:"proxy_connect_timeout"`

	Servers   []Server   `mapstructure:"servers" validate:"dive"`
	Upstreams []Upstream `mapstructure:"upstreams" validate:"dive"`

	CacheManagerPath   string `mapstructure:"cache_manager_path"`
	CacheLoaderPath    string `mapstructure:"cache_loader_path"`
	CacheMaxEntries    int    `mapstructure:"cache_max_entries" validate:"gte=0"`
	CachePruneInterval string `mapstructure:"cache_prune_interval"`
}

var validate = validator.New()

// Load reads path (YAML or TOML, detected by extension, via viper) into a
// validated Cycle. An unreadable file or a validation failure both return
// ErrorConfigInvalid.
func Load(path string) (*Cycle, error) {
	v := viper.New()
	v.SetConfigFile(path)
	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, ErrorConfigInvalid.Error(err)
	}

	var c Cycle
	if err := v.Unmarshal(&c); err != nil {
		return nil, ErrorConfigInvalid.Error(err)
	}

	if err := validate.Struct(&c); err != nil {
		return nil, ErrorConfigInvalid.Error(err)
	}

	return &c, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("worker_processes", 0)
	v.SetDefault("worker_connections", 1024)
	v.SetDefault("pid_file", "/var/run/edgecored.pid")
	v.SetDefault("timer_resolution", "0s")
	v.SetDefault("accept_mutex", false)
	v.SetDefault("max_header_bytes", 8192)
	v.SetDefault("keepalive_timeout", "75s")
	v.SetDefault("proxy_connect_timeout", "5s")
	v.SetDefault("cache_max_entries", 10000)
	v.SetDefault("cache_prune_interval", "60s")
}

// IsTOML reports whether path's extension names a TOML file, used by `-t`
// config-test mode to pick the right viper decoder explicitly instead of
// relying on sniffing.
func IsTOML(path string) bool {
	return strings.HasSuffix(path, ".toml")
}
