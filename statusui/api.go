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

package statusui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	libver "github.com/sabouaram/edgecore/version"
)

// API serves the local-only status surface: /status, /status/upstreams,
// /status/cache, and a /metrics endpoint for prometheus scraping.
type API struct {
	src     Source
	metrics *Metrics
	version libver.Version
}

// NewAPI returns an API reading through src and reporting vrs on /status.
func NewAPI(src Source, metrics *Metrics, vrs libver.Version) *API {
	return &API{src: src, metrics: metrics, version: vrs}
}

// Router builds the gin engine. The caller binds it to a loopback-only
// listener; statusui never itself decides the bind address (spec.md keeps
// listener binding in the connection/acceptor subsystem).
func (a *API) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/status", a.handleStatus)
	r.GET("/status/upstreams", a.handleUpstreams)
	r.GET("/status/cache", a.handleCache)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (a *API) handleStatus(c *gin.Context) {
	snap := Capture(a.src)
	if a.metrics != nil {
		a.metrics.Observe(snap)
	}

	c.JSON(http.StatusOK, gin.H{
		"release": a.version.GetRelease(),
		"build":   a.version.GetBuild(),
		"conn":    snap.Conn,
	})
}

func (a *API) handleUpstreams(c *gin.Context) {
	c.JSON(http.StatusOK, Capture(a.src).Upstreams)
}

func (a *API) handleCache(c *gin.Context) {
	c.JSON(http.StatusOK, Capture(a.src).Caches)
}
