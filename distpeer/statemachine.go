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

package distpeer

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
	sm "github.com/lni/dragonboat/v3/statemachine"
)

// peerReport is one replicated health observation: the reporting instance's
// view of a peer's down flag, fail counter and effective weight.
type peerReport struct {
	Addr            string
	Down            bool
	Fails           int
	EffectiveWeight int
	Epoch           uint64
}

// healthTable is the dragonboat on-disk state machine backing one gossip
// group: the last report seen per peer address, keyed so a late-arriving
// stale report (lower Epoch) never overwrites a fresher one.
type healthTable struct {
	mu   sync.RWMutex
	rows map[string]peerReport
}

func newHealthTable() *healthTable {
	return &healthTable{rows: make(map[string]peerReport)}
}

// Update applies one replicated log entry (spec.md §9 has no analogue;
// this is the distpeer expansion's write path).
func (h *healthTable) Update(data []byte) (sm.Result, error) {
	var r peerReport
	if err := cbor.Unmarshal(data, &r); err != nil {
		return sm.Result{}, ErrorDecodeFailed.Error(err)
	}

	h.mu.Lock()
	if cur, ok := h.rows[r.Addr]; !ok || r.Epoch >= cur.Epoch {
		h.rows[r.Addr] = r
	}
	h.mu.Unlock()

	return sm.Result{Value: 1}, nil
}

// Lookup returns the current table snapshot, or one peer's row when query
// is a string address.
func (h *healthTable) Lookup(query interface{}) (interface{}, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if addr, ok := query.(string); ok {
		row, found := h.rows[addr]
		if !found {
			return nil, ErrorUnknownPeer.Error()
		}
		return row, nil
	}

	out := make(map[string]peerReport, len(h.rows))
	for k, v := range h.rows {
		out[k] = v
	}
	return out, nil
}

// SaveSnapshot writes the table as a length-prefixed CBOR stream.
func (h *healthTable) SaveSnapshot(w io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	h.mu.RLock()
	rows := make([]peerReport, 0, len(h.rows))
	for _, v := range h.rows {
		rows = append(rows, v)
	}
	h.mu.RUnlock()

	buf, err := cbor.Marshal(rows)
	if err != nil {
		return err
	}

	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(buf)))
	if _, err = w.Write(n[:]); err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// RecoverFromSnapshot restores the table from SaveSnapshot's format.
func (h *healthTable) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	var n [8]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return err
	}
	buf := make([]byte, binary.BigEndian.Uint64(n[:]))
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}

	var rows []peerReport
	if err := cbor.Unmarshal(buf, &rows); err != nil {
		return err
	}

	h.mu.Lock()
	h.rows = make(map[string]peerReport, len(rows))
	for _, row := range rows {
		h.rows[row.Addr] = row
	}
	h.mu.Unlock()
	return nil
}

func (h *healthTable) Close() error { return nil }
