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

package registry

import (
	"time"

	libgorm "github.com/sabouaram/edgecore/database/gorm"
	"github.com/sabouaram/edgecore/upstream"
)

// PeerRow is the durable row for one upstream peer, keyed by (Pool, Addr).
type PeerRow struct {
	Pool   string `gorm:"primaryKey;size:128"`
	Addr   string `gorm:"primaryKey;size:256"`
	Tier   int    // 0 = primary, 1 = backup, matching upstream.RoundRobin's two tiers
	Weight int

	UpdatedAt time.Time
}

func (PeerRow) TableName() string { return "edgecore_upstream_peer" }

// Registry persists upstream peer lists through a gorm Database handle.
type Registry struct {
	db libgorm.Database
}

// Open wraps an already-configured gorm Database and ensures the peer
// table exists.
func Open(db libgorm.Database) (*Registry, error) {
	if err := db.GetDB().AutoMigrate(&PeerRow{}); err != nil {
		return nil, ErrorOpenFailed.Error(err)
	}
	return &Registry{db: db}, nil
}

// Save replaces the durable row set for pool with the given peer
// snapshots, tagging primary-tier peers with Tier 0 and backup-tier peers
// with Tier 1.
func (r *Registry) Save(pool string, primary, backup []upstream.PeerStat) error {
	tx := r.db.GetDB().Begin()
	if tx.Error != nil {
		return ErrorSaveFailed.Error(tx.Error)
	}

	if err := tx.Where("pool = ?", pool).Delete(&PeerRow{}).Error; err != nil {
		tx.Rollback()
		return ErrorSaveFailed.Error(err)
	}

	now := time.Now()
	rows := make([]PeerRow, 0, len(primary)+len(backup))
	for _, p := range primary {
		rows = append(rows, PeerRow{Pool: pool, Addr: p.Addr, Tier: 0, Weight: p.Weight, UpdatedAt: now})
	}
	for _, p := range backup {
		rows = append(rows, PeerRow{Pool: pool, Addr: p.Addr, Tier: 1, Weight: p.Weight, UpdatedAt: now})
	}

	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return ErrorSaveFailed.Error(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return ErrorSaveFailed.Error(err)
	}
	return nil
}

// Load returns the durable primary/backup address lists for pool, for
// diffing against a reloaded Cycle's configured upstream block.
func (r *Registry) Load(pool string) (primary, backup []string, err error) {
	var rows []PeerRow
	if e := r.db.GetDB().Where("pool = ?", pool).Order("addr").Find(&rows).Error; e != nil {
		return nil, nil, ErrorNotFound.Error(e)
	}
	for _, row := range rows {
		if row.Tier == 0 {
			primary = append(primary, row.Addr)
		} else {
			backup = append(backup, row.Addr)
		}
	}
	return primary, backup, nil
}
