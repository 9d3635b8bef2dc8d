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

// Package version exposes build-time identity (release, build hash, date,
// runtime, author, license) to components that report it in status and
// monitor payloads.
package version

import (
	"fmt"
	"runtime"

	hcversion "github.com/hashicorp/go-version"
)

// Version is the read-only identity of a running binary.
type Version interface {
	GetRelease() string
	GetBuild() string
	GetDate() string
	GetAppId() string
	GetAuthor() string
	GetLicenseName() string

	// Compare returns -1, 0, 1 comparing this release against another
	// semver-ish string, using hashicorp/go-version ordering.
	Compare(other string) (int, error)
}

type vrs struct {
	release string
	build   string
	date    string
	author  string
	license string
}

// New builds a Version from the values the caller captured at link time
// (typically via -ldflags).
func New(release, build, date, author, license string) Version {
	return &vrs{
		release: release,
		build:   build,
		date:    date,
		author:  author,
		license: license,
	}
}

func (v *vrs) GetRelease() string     { return v.release }
func (v *vrs) GetBuild() string       { return v.build }
func (v *vrs) GetDate() string        { return v.date }
func (v *vrs) GetAppId() string       { return runtime.Version() + "/" + runtime.GOOS + "-" + runtime.GOARCH }
func (v *vrs) GetAuthor() string      { return v.author }
func (v *vrs) GetLicenseName() string { return v.license }

func (v *vrs) Compare(other string) (int, error) {
	a, err := hcversion.NewVersion(v.release)
	if err != nil {
		return 0, fmt.Errorf("parsing local release %q: %w", v.release, err)
	}

	b, err := hcversion.NewVersion(other)
	if err != nil {
		return 0, fmt.Errorf("parsing compared release %q: %w", other, err)
	}

	return a.Compare(b), nil
}
