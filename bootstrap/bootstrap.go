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

package bootstrap

import (
	"io"
	"os"
	"path/filepath"

	hscvrs "github.com/hashicorp/go-version"
	libart "github.com/sabouaram/edgecore/artifact"
	libftp "github.com/sabouaram/edgecore/ftpclient"
)

// Backend names which seed source a Fetcher pulls from.
type Backend int

const (
	// BackendArtifact covers github/gitlab/jfrog/s3 release artifact
	// stores, each implementing artifact.Client.
	BackendArtifact Backend = iota
	// BackendFTP is a plain FTP/FTPS server, used when the seed bundle is
	// published by an internal release process rather than a forge.
	BackendFTP
)

// Fetcher retrieves one named seed bundle (cert bundle, cache snapshot,
// geo database) and writes it to a local path before the supervisor forks
// its first worker.
type Fetcher struct {
	Backend Backend

	Artifact libart.Client // set when Backend == BackendArtifact
	FTP      libftp.FTPClient
	FTPPath  string // remote path, set when Backend == BackendFTP

	ContainName string
	RegexName   string
	Release     *hscvrs.Version
}

// Fetch downloads the configured seed bundle to destPath, creating parent
// directories as needed. It is called once, synchronously, before
// supervisor.Start — never from the event loop.
func (f *Fetcher) Fetch(destPath string) error {
	var (
		body io.ReadCloser
		err  error
	)

	switch f.Backend {
	case BackendArtifact:
		if f.Artifact == nil {
			return ErrorNoBackend.Error()
		}
		_, body, err = f.Artifact.Download(f.ContainName, f.RegexName, f.Release)
		if err != nil {
			return ErrorFetchFailed.Error(err)
		}
	case BackendFTP:
		if f.FTP == nil {
			return ErrorNoBackend.Error()
		}
		body, err = f.ftpRetr()
		if err != nil {
			return ErrorFetchFailed.Error(err)
		}
	default:
		return ErrorNoBackend.Error()
	}
	defer body.Close()

	if err = os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return ErrorWriteFailed.Error(err)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return ErrorWriteFailed.Error(err)
	}
	defer out.Close()

	if _, err = io.Copy(out, body); err != nil {
		return ErrorWriteFailed.Error(err)
	}
	return nil
}

func (f *Fetcher) ftpRetr() (io.ReadCloser, error) {
	if err := f.FTP.Connect(); err != nil {
		return nil, err
	}
	resp, err := f.FTP.Retr(f.FTPPath)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
