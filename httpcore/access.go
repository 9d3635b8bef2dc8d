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
	"context"
	"encoding/base64"
	"strings"
	"time"

	libcache "github.com/sabouaram/edgecore/cache"
	libldap "github.com/sabouaram/edgecore/ldap"
)

// LDAPAccess is an access-phase header filter (spec.md §4.6) that denies a
// request unless the identity on its HTTP Basic credentials belongs to one
// of Groups. Group membership lookups are the expensive part of every
// check, so results are cached for TTL per (username, group-set) pair
// instead of round-tripping to the directory on every request.
type LDAPAccess struct {
	helper *libldap.HelperLDAP
	Groups []string

	hits libcache.Cache[string, bool]
}

// NewLDAPAccess returns an access filter bound to helper, caching
// membership decisions for ttl.
func NewLDAPAccess(ctx context.Context, helper *libldap.HelperLDAP, groups []string, ttl time.Duration) *LDAPAccess {
	return &LDAPAccess{
		helper: helper,
		Groups: groups,
		hits:   libcache.New[string, bool](ctx, ttl),
	}
}

// Filter is installed on a Location's FilterChain via InstallHeader. It
// reads the Authorization: Basic header, authenticates against the bind
// DN, and checks cached/live group membership.
func (a *LDAPAccess) Filter(r *Request) error {
	user, pass, ok := basicCredentials(r)
	if !ok {
		return ErrorAccessDenied.Error()
	}

	if err := a.helper.AuthUser(user, pass); err != nil {
		return ErrorAccessDenied.Error(err)
	}

	if allowed, _, found := a.hits.Load(user); found {
		if !allowed {
			return ErrorAccessDenied.Error()
		}
		return nil
	}

	member, err := a.helper.UserIsInGroup(user, a.Groups)
	if err != nil {
		return ErrorAccessDenied.Error(err)
	}

	a.hits.Store(user, member)
	if !member {
		return ErrorAccessDenied.Error()
	}
	return nil
}

// Close releases the membership cache's background expiry goroutine.
func (a *LDAPAccess) Close() error {
	return a.hits.Close()
}

func basicCredentials(r *Request) (user, pass string, ok bool) {
	hdr, found := r.Headers.Get("Authorization")
	if !found {
		return "", "", false
	}
	const prefix = "Basic "
	if !strings.HasPrefix(hdr, prefix) {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(hdr, prefix))
	if err != nil {
		return "", "", false
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
