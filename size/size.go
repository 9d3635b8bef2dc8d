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

// Package size is a human-readable byte-count type ("4K", "2.5Mi") that
// marshals/unmarshals for config files and CLI flags.
package size

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a count of bytes, with JSON/YAML/text (de)serialization accepting
// suffixes K, M, G, T (base 1000) and Ki, Mi, Gi, Ti (base 1024).
type Size int64

const (
	_           = iota
	kb Size     = 1 << (10 * iota)
	mb
	gb
	tb
)

func (s Size) Int64() int64 {
	return int64(s)
}

func (s Size) String() string {
	switch {
	case s >= tb:
		return fmt.Sprintf("%.2fTi", float64(s)/float64(tb))
	case s >= gb:
		return fmt.Sprintf("%.2fGi", float64(s)/float64(gb))
	case s >= mb:
		return fmt.Sprintf("%.2fMi", float64(s)/float64(mb))
	case s >= kb:
		return fmt.Sprintf("%.2fKi", float64(s)/float64(kb))
	default:
		return strconv.FormatInt(int64(s), 10)
	}
}

// Parse accepts a plain integer or a suffixed human string and returns the
// corresponding Size.
func Parse(in string) (Size, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return 0, nil
	}

	mul := Size(1)
	unit := in

	for suffix, m := range map[string]Size{
		"Ti": tb, "Gi": gb, "Mi": mb, "Ki": kb,
		"T": tb, "G": gb, "M": mb, "K": kb,
	} {
		if strings.HasSuffix(in, suffix) {
			unit = strings.TrimSuffix(in, suffix)
			mul = m
			break
		}
	}

	v, err := strconv.ParseFloat(unit, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing size %q: %w", in, err)
	}

	return Size(v * float64(mul)), nil
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Size) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
