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

package httpcore

import (
	"regexp"
	"sort"
	"strings"
)

// MatchKind distinguishes the three location-matching strategies spec.md
// §4.6 documents, in their precedence order: exact > prefix-with-stop >
// longest-prefix; regex only if no prefix-with-stop matched.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchPrefixStop
	MatchPrefix
	MatchRegex
)

// Location is one configured `location` block's matcher plus the content
// handler it routes to. The configuration grammar itself is out of scope
// (spec.md §1); LocationTree only consumes already-resolved Location
// values.
type Location struct {
	Pattern string
	Kind    MatchKind
	re      *regexp.Regexp

	Handler PhaseHandler
}

// NewLocation compiles pat (only meaningful for MatchRegex) into a ready
// Location.
func NewLocation(pat string, kind MatchKind, handler PhaseHandler) (*Location, error) {
	l := &Location{Pattern: pat, Kind: kind, Handler: handler}
	if kind == MatchRegex {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, err
		}
		l.re = re
	}
	return l, nil
}

// LocationTree matches a request URI against the configured Location set
// using spec.md §4.6's documented precedence. Static-prefix and exact
// locations are sorted by descending pattern length so the first prefix
// match encountered is already the longest one.
type LocationTree struct {
	exact   map[string]*Location
	prefix  []*Location // sorted longest-pattern-first
	stop    []*Location // prefix locations marked "stop" (= only once), same precedence slot as prefix but tried first
	regexes []*Location
}

// NewLocationTree builds a tree from an unordered Location slice.
func NewLocationTree(locs []*Location) *LocationTree {
	t := &LocationTree{exact: make(map[string]*Location)}
	for _, l := range locs {
		switch l.Kind {
		case MatchExact:
			t.exact[l.Pattern] = l
		case MatchPrefixStop:
			t.stop = append(t.stop, l)
		case MatchPrefix:
			t.prefix = append(t.prefix, l)
		case MatchRegex:
			t.regexes = append(t.regexes, l)
		}
	}
	byLenDesc := func(s []*Location) {
		sort.Slice(s, func(i, j int) bool { return len(s[i].Pattern) > len(s[j].Pattern) })
	}
	byLenDesc(t.stop)
	byLenDesc(t.prefix)
	return t
}

// Match finds the Location for uri following spec.md §4.6's precedence:
// exact match wins outright; otherwise the longest prefix-with-stop match
// short-circuits regex evaluation; otherwise every regex is tried in
// configured order; finally the longest plain prefix match is the
// fallback.
func (t *LocationTree) Match(uri string) (*Location, bool) {
	if l, ok := t.exact[uri]; ok {
		return l, true
	}

	for _, l := range t.stop {
		if strings.HasPrefix(uri, l.Pattern) {
			return l, true
		}
	}

	for _, l := range t.regexes {
		if l.re.MatchString(uri) {
			return l, true
		}
	}

	for _, l := range t.prefix {
		if strings.HasPrefix(uri, l.Pattern) {
			return l, true
		}
	}

	return nil, false
}

// FindConfig is the PhaseFindConfig handler: it resolves r.Location from
// r.URI and yields ErrorNoLocation as a 404 status if nothing matches.
func FindConfig(t *LocationTree) PhaseHandler {
	return func(r *Request) Result {
		l, ok := t.Match(r.URI)
		if !ok {
			return StatusResult(404)
		}
		r.Location = l
		return OK()
	}
}
