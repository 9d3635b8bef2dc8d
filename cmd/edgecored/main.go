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

// Command edgecored is the CLI entry point (spec.md §6): it resolves a
// configuration file into a supervisor.Cycle, runs the supervisor, or
// sends a control signal to an already-running supervisor via its pid
// file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sabouaram/edgecore/config"
	"github.com/sabouaram/edgecore/conn"
	"github.com/sabouaram/edgecore/ipc"
	"github.com/sabouaram/edgecore/logger"
	"github.com/sabouaram/edgecore/rcache"
	"github.com/sabouaram/edgecore/statusui"
	"github.com/sabouaram/edgecore/supervisor"
	"github.com/sabouaram/edgecore/upstream"
	"github.com/sabouaram/edgecore/version"
	"github.com/sabouaram/edgecore/worker"
)

const defaultListenBacklog = 1024

var (
	flagConfigPath   string
	flagTestOnly     bool
	flagDumpConfig   bool
	flagSignal       string
	flagWorker       bool
	flagCacheManager bool
	flagCacheLoader  bool

	buildRelease = "dev"
	buildHash    = "none"
	buildDate    = "unknown"
)

func main() {
	vrs := version.New(buildRelease, buildHash, buildDate, "edgecore", "MIT")

	root := &cobra.Command{
		Use:   "edgecored",
		Short: "event-driven HTTP reverse-proxy and origin server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(vrs)
		},
	}

	root.Flags().StringVarP(&flagConfigPath, "config", "c", "/etc/edgecore/edgecore.yaml", "configuration path")
	root.Flags().BoolVarP(&flagTestOnly, "test", "t", false, "parse configuration and exit")
	root.Flags().BoolVarP(&flagDumpConfig, "dump", "T", false, "parse configuration, dump it, and exit")
	root.Flags().StringVarP(&flagSignal, "signal", "s", "", "send signal to a running supervisor: stop|quit|reopen|reload")

	// The three flags below are never typed by an operator: the supervisor
	// appends them to a re-exec'd child (supervisor.WorkerFlag, and the
	// HelperArgs entries buildCycle assembles) to tell that child which of
	// the three roles it must take instead of becoming a new supervisor.
	root.Flags().BoolVar(&flagWorker, "worker", false, "internal: serve requests as a worker process")
	root.Flags().BoolVar(&flagCacheManager, "cache-manager", false, "internal: run as the cache-manager helper process")
	root.Flags().BoolVar(&flagCacheLoader, "cache-loader", false, "internal: run as the cache-loader helper process")
	_ = root.Flags().MarkHidden("worker")
	_ = root.Flags().MarkHidden("cache-manager")
	_ = root.Flags().MarkHidden("cache-loader")

	root.AddCommand(versionCmd(vrs), topCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func versionCmd(vrs version.Version) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("edgecored %s (build %s, %s)\n", vrs.GetRelease(), vrs.GetBuild(), vrs.GetDate())
		},
	}
}

// runServer implements the default (no subcommand) invocation: -s sends a
// signal to a running supervisor via its pid file; -t/-T parse and
// optionally dump the configuration; otherwise the process becomes the
// supervisor for this configuration generation.
func runServer(vrs version.Version) error {
	if flagSignal != "" {
		return sendSignal(flagSignal)
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	if flagTestOnly || flagDumpConfig {
		if flagDumpConfig {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err = enc.Encode(cfg); err != nil {
				return err
			}
		}
		fmt.Println("configuration file test is successful")
		return nil
	}

	log := logger.New(context.Background())

	// A re-exec'd child takes one of these three roles instead of becoming
	// a new supervisor generation; see buildCycle and supervisor.spawn for
	// how the flags below land on its argv.
	switch {
	case flagWorker:
		return runWorkerProcess(log, cfg)
	case flagCacheManager:
		return runCacheManager(log, cfg)
	case flagCacheLoader:
		return runCacheLoader(log, cfg)
	}

	if err = writePidFile(cfg.PidFile); err != nil {
		return err
	}
	defer os.Remove(cfg.PidFile)

	cycle, err := buildCycle(cfg)
	if err != nil {
		return err
	}

	sup := supervisor.New(log, cycle)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	return sup.Run(ctx)
}

// runWorkerProcess is the code path a re-exec'd child following
// supervisor.WorkerFlag takes (spec.md §4.1 "each worker inherits listeners
// and the IPC channel array", §4.6 data flow): it adopts the supervisor's
// listeners and ipc channel from the inherited descriptors spawn set up,
// builds the routing table from the same Cycle the supervisor parsed, and
// runs worker.Worker.Serve until the supervisor signals shutdown over ipc
// or ctx is otherwise cancelled.
func runWorkerProcess(log logger.Logger, cfg *config.Cycle) error {
	listeners, err := adoptListeners(cfg)
	if err != nil {
		return err
	}

	routes, err := buildRoutes(cfg)
	if err != nil {
		return err
	}

	idleTimeout, err := time.ParseDuration(cfg.KeepaliveTimeout)
	if err != nil {
		idleTimeout = 75 * time.Second
	}
	dialTimeout, err := time.ParseDuration(cfg.ProxyConnectTimeout)
	if err != nil {
		dialTimeout = 5 * time.Second
	}

	w, err := worker.New(worker.Config{
		Listeners:     listeners,
		Connections:   cfg.WorkerConnections,
		Routes:        routes,
		MaxHeaderSize: cfg.MaxHeaderBytes,
		IdleTimeout:   idleTimeout,
		DialTimeout:   dialTimeout,
		Log:           log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if fdStr := os.Getenv(supervisor.IPCChannelFDEnv); fdStr != "" {
		if fdNum, convErr := strconv.Atoi(fdStr); convErr == nil {
			if ch, chErr := ipc.FromFD(fdNum); chErr == nil {
				go watchSupervisor(ch, log, cancel)
			} else {
				log.Warning("ipc channel adoption failed", chErr)
			}
		}
	}

	return w.Serve(ctx)
}

// watchSupervisor relays the supervisor's broadcast commands into this
// worker's lifetime: QUIT and TERMINATE both cancel ctx, which makes
// Worker.Serve stop accepting and return (spec.md's worker has no separate
// drain phase beyond refusing new accepts). Recv returning an error — the
// supervisor exited without a clean CLOSE_CHANNEL — is treated the same as
// an explicit terminate.
func watchSupervisor(ch *ipc.Channel, log logger.Logger, cancel context.CancelFunc) {
	for {
		msg, err := ch.Recv()
		if err != nil {
			cancel()
			return
		}
		switch msg.Cmd {
		case ipc.Quit, ipc.Terminate:
			cancel()
			return
		case ipc.Reopen:
			log.Info("worker received reopen-logs signal", nil)
		}
	}
}

// adoptListeners maps each configured server's listen address to the
// inherited descriptor supervisor.spawn recorded for it in
// supervisor.ListenerFDEnv, instead of rebinding the address a second time
// in the child.
func adoptListeners(cfg *config.Cycle) ([]*conn.Listener, error) {
	fds := supervisor.ParseInheritedFDs(os.Getenv(supervisor.ListenerFDEnv))

	listeners := make([]*conn.Listener, 0, len(cfg.Servers))
	for _, srv := range cfg.Servers {
		fdNum, ok := fds[srv.Listen]
		if !ok {
			return nil, fmt.Errorf("worker: no inherited listener fd for %q", srv.Listen)
		}

		f := os.NewFile(uintptr(fdNum), srv.Listen)
		ln, err := net.FileListener(f)
		if err != nil {
			return nil, err
		}
		tl, ok := ln.(*net.TCPListener)
		if !ok {
			return nil, fmt.Errorf("worker: inherited listener for %q is not TCP", srv.Listen)
		}
		listeners = append(listeners, conn.FromFD(srv.Listen, tl))
	}
	return listeners, nil
}

// buildRoutes turns every server's locations into worker.Route values bound
// to a upstream.RoundRobin built once per named Upstream (spec.md §4.6
// location matching feeding §4.7 upstream selection).
func buildRoutes(cfg *config.Cycle) ([]worker.Route, error) {
	balancers := make(map[string]*upstream.RoundRobin, len(cfg.Upstreams))
	for _, u := range cfg.Upstreams {
		var primary, backup []*upstream.Peer
		for _, p := range u.Peers {
			failTimeout, err := time.ParseDuration(p.FailTimeout)
			if err != nil {
				failTimeout = 10 * time.Second
			}
			peer := upstream.NewPeer(p.Addr, p.Weight, p.MaxFails, p.MaxConns, failTimeout)
			if p.Backup {
				backup = append(backup, peer)
			} else {
				primary = append(primary, peer)
			}
		}
		balancers[u.Name] = upstream.NewRoundRobin(primary, backup)
	}

	var routes []worker.Route
	for _, srv := range cfg.Servers {
		for _, loc := range srv.Locations {
			bal, ok := balancers[loc.ProxyPass]
			if !ok {
				return nil, fmt.Errorf("location %q: proxy_pass references unknown upstream %q", loc.Prefix, loc.ProxyPass)
			}
			routes = append(routes, worker.Route{Prefix: loc.Prefix, Balancer: bal})
		}
	}
	return routes, nil
}

// runCacheManager is the code path the cache-manager helper forked by
// supervisor.StartHelpers takes (spec.md §4.1 "Cache helpers", §4.8
// "Background manager prunes by LRU until size under watermark").
func runCacheManager(log logger.Logger, cfg *config.Cycle) error {
	if cfg.CacheManagerPath == "" {
		return fmt.Errorf("cache-manager: cache_manager_path not configured")
	}

	store, err := rcache.OpenStore(cfg.CacheManagerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	idx := rcache.NewIndex()
	if err := rcache.NewLoader(log, idx, store).Load(); err != nil {
		return err
	}

	interval, err := time.ParseDuration(cfg.CachePruneInterval)
	if err != nil {
		interval = time.Minute
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer cancel()

	return rcache.NewManager(log, idx, store, cfg.CacheMaxEntries, interval).Run(ctx)
}

// runCacheLoader is the code path the one-shot cache-loader helper takes:
// rebuild the in-memory index from the durable store and exit (spec.md
// §4.1 "loader ... Respawn unset so its natural exit is not treated as a
// crash").
func runCacheLoader(log logger.Logger, cfg *config.Cycle) error {
	if cfg.CacheLoaderPath == "" {
		return fmt.Errorf("cache-loader: cache_loader_path not configured")
	}

	store, err := rcache.OpenStore(cfg.CacheLoaderPath)
	if err != nil {
		return err
	}
	defer store.Close()

	idx := rcache.NewIndex()
	return rcache.NewLoader(log, idx, store).Load()
}

// buildCycle binds every listener named in cfg.Servers and assembles the
// supervisor.Cycle a new worker generation re-execs with (spec.md §4.1):
// listeners are bound once by the supervisor and inherited by workers
// rather than rebound per-worker.
func buildCycle(cfg *config.Cycle) (*supervisor.Cycle, error) {
	listeners := make([]*conn.Listener, 0, len(cfg.Servers))
	for _, srv := range cfg.Servers {
		l, err := conn.NewListener(srv.Listen, defaultListenBacklog)
		if err != nil {
			return nil, err
		}
		listeners = append(listeners, l)
	}

	bin, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// HelperArgs only names a role whose path is actually configured,
	// matching StartHelpers' "only forked if any configured path declares a
	// manager or loader" (supervisor/helper.go); --cache-manager and
	// --cache-loader are registered as real (hidden) cobra flags above, so
	// the forked helper's argv parses cleanly.
	helperArgs := map[supervisor.CacheHelper][]string{}
	if cfg.CacheManagerPath != "" {
		helperArgs[supervisor.CacheManager] = []string{"-c", flagConfigPath, "--cache-manager"}
	}
	if cfg.CacheLoaderPath != "" {
		helperArgs[supervisor.CacheLoader] = []string{"-c", flagConfigPath, "--cache-loader"}
	}

	return &supervisor.Cycle{
		BinaryPath: bin,
		Args:       []string{"-c", flagConfigPath},
		Env:        os.Environ(),
		Workers:    cfg.WorkerProcesses,
		Listeners:  listeners,
		HelperArgs: helperArgs,
	}, nil
}

// sendSignal implements `-s {stop|quit|reopen|reload}` by reading the pid
// file a running supervisor wrote and delivering the matching POSIX
// signal (spec.md §6).
func sendSignal(name string) error {
	var sig syscall.Signal
	switch name {
	case "stop":
		sig = syscall.SIGTERM
	case "quit":
		sig = syscall.SIGQUIT
	case "reopen":
		sig = syscall.SIGUSR1
	case "reload":
		sig = syscall.SIGHUP
	default:
		return fmt.Errorf("unknown signal name %q", name)
	}

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	pid, err := readPidFile(cfg.PidFile)
	if err != nil {
		return err
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(sig)
}

func writePidFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPidFile(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(b))
}

// topCmd implements `edgecored top`, the statusui TUI dashboard. It polls
// a running instance's status API rather than reaching into the event
// loop directly, since the dashboard and the worker it watches are always
// separate processes.
func topCmd() *cobra.Command {
	var addr string
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "top",
		Short: "live terminal dashboard over a running instance's status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(addr, interval)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://127.0.0.1:9090", "status API base URL")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "refresh interval")
	return cmd
}

// remoteSource implements statusui.Source over the JSON the status API
// serves, so `top` can reuse the same Snapshot rendering as an in-process
// dashboard would.
type remoteSource struct {
	addr   string
	client *http.Client
}

func (r remoteSource) Conn() statusui.ConnStats {
	var out struct {
		Conn statusui.ConnStats `json:"conn"`
	}
	_ = r.get("/status", &out)
	return out.Conn
}

func (r remoteSource) Upstreams() []statusui.UpstreamStats {
	var out []statusui.UpstreamStats
	_ = r.get("/status/upstreams", &out)
	return out
}

func (r remoteSource) Caches() []statusui.CacheStats {
	var out []statusui.CacheStats
	_ = r.get("/status/cache", &out)
	return out
}

func (r remoteSource) get(path string, v interface{}) error {
	resp, err := r.client.Get(r.addr + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

func runTop(addr string, interval time.Duration) error {
	src := remoteSource{addr: addr, client: &http.Client{Timeout: 5 * time.Second}}
	_, err := statusui.NewTop(src, interval).Run()
	return err
}
