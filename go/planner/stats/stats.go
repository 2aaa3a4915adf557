/*
Copyright 2026 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package stats keeps the table statistics the planner uses for row estimates.
package stats

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yiguolei/crate/go/planner/relations"
)

// Unknown is returned for tables without statistics.
const Unknown = -1

// Stats are the statistics of one table.
type Stats struct {
	NumDocs     int64
	SizeInBytes int64
}

// AverageSizePerRow returns the average row size, or Unknown.
func (s Stats) AverageSizePerRow() int64 {
	if s.NumDocs <= 0 {
		return Unknown
	}
	return s.SizeInBytes / s.NumDocs
}

// TableStats is a snapshot of table statistics. Entries expire after the
// configured ttl so that stale numbers are not used forever. It is safe for
// concurrent use.
type TableStats struct {
	entries *cache.Cache
}

// New creates an empty snapshot. A ttl <= 0 keeps entries until they are replaced.
func New(ttl time.Duration) *TableStats {
	if ttl <= 0 {
		return &TableStats{entries: cache.New(cache.NoExpiration, 0)}
	}
	return &TableStats{entries: cache.New(ttl, 2*ttl)}
}

// Update sets the statistics of a single table.
func (ts *TableStats) Update(table relations.TableIdent, s Stats) {
	ts.entries.SetDefault(table.FQN(), s)
}

// UpdateAll replaces the statistics of the given tables.
func (ts *TableStats) UpdateAll(all map[relations.TableIdent]Stats) {
	for table, s := range all {
		ts.Update(table, s)
	}
}

// Get returns the statistics of a table, if known.
func (ts *TableStats) Get(table relations.TableIdent) (Stats, bool) {
	if ts == nil {
		return Stats{}, false
	}
	v, ok := ts.entries.Get(table.FQN())
	if !ok {
		return Stats{}, false
	}
	return v.(Stats), true
}

// NumDocs returns the number of rows of the table, or Unknown.
func (ts *TableStats) NumDocs(table relations.TableIdent) int64 {
	s, ok := ts.Get(table)
	if !ok {
		return Unknown
	}
	return s.NumDocs
}

// EstimatedSizePerRow returns the average row size of the table, or Unknown.
func (ts *TableStats) EstimatedSizePerRow(table relations.TableIdent) int64 {
	s, ok := ts.Get(table)
	if !ok {
		return Unknown
	}
	return s.AverageSizePerRow()
}

// Len returns the number of tables with statistics, including expired ones
// that were not cleaned up yet.
func (ts *TableStats) Len() int {
	if ts == nil {
		return 0
	}
	return ts.entries.ItemCount()
}
