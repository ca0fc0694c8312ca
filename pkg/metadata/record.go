// exifcore reads and writes metadata embedded in still-image and video
// container files.
// Copyright (C) 2026  Matt F
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package metadata

import "sort"

// Record pairs a Key with its decoded Value. Idx disambiguates
// duplicate-tag records within the same directory in document order.
type Record struct {
	Key   Key
	Value *Value
	Idx   int
}

// MetadataSet is an ordered, duplicate-allowing sequence of records.
// Iteration order is insertion order, which by construction equals
// decode order (spec.md §5). No locking: callers sharing a set across
// goroutines must serialize access themselves.
type MetadataSet struct {
	records []Record
}

// NewMetadataSet returns an empty set.
func NewMetadataSet() *MetadataSet {
	return &MetadataSet{}
}

// Len returns the number of records.
func (s *MetadataSet) Len() int { return len(s.records) }

// At returns the record at position i in current iteration order.
func (s *MetadataSet) At(i int) Record { return s.records[i] }

// All returns every record in iteration order. The returned slice
// aliases internal storage; callers must not mutate it.
func (s *MetadataSet) All() []Record { return s.records }

// Insert appends a new record unconditionally, even if the key is
// already present.
func (s *MetadataSet) Insert(key Key, value *Value) {
	s.records = append(s.records, Record{Key: key, Value: value, Idx: s.nextIdx(key)})
}

func (s *MetadataSet) nextIdx(key Key) int {
	n := 0

	for _, r := range s.records {
		if r.Key == key {
			n++
		}
	}

	return n
}

// FindKey returns the first record matching key, and whether one was found.
func (s *MetadataSet) FindKey(key Key) (Record, bool) {
	for _, r := range s.records {
		if r.Key == key {
			return r, true
		}
	}

	return Record{}, false
}

// FindIf returns the first record for which pred returns true.
func (s *MetadataSet) FindIf(pred func(Record) bool) (Record, bool) {
	for _, r := range s.records {
		if pred(r) {
			return r, true
		}
	}

	return Record{}, false
}

// Assign replaces the first record matching key's value, or inserts a
// new record if none matches.
func (s *MetadataSet) Assign(key Key, value *Value) {
	for i, r := range s.records {
		if r.Key == key {
			s.records[i].Value = value

			return
		}
	}

	s.Insert(key, value)
}

// Erase removes every record for which pred returns true and reports
// how many were removed.
func (s *MetadataSet) Erase(pred func(Record) bool) int {
	kept := s.records[:0]
	removed := 0

	for _, r := range s.records {
		if pred(r) {
			removed++

			continue
		}

		kept = append(kept, r)
	}

	s.records = kept

	return removed
}

// SortByKey stably sorts records by (Family, Group, Tag, Idx).
func (s *MetadataSet) SortByKey() {
	sort.SliceStable(s.records, func(i, j int) bool {
		a, b := s.records[i], s.records[j]
		if a.Key.Family != b.Key.Family {
			return a.Key.Family < b.Key.Family
		}

		if a.Key.Group != b.Key.Group {
			return a.Key.Group < b.Key.Group
		}

		if a.Key.Tag != b.Key.Tag {
			return a.Key.Tag < b.Key.Tag
		}

		return a.Idx < b.Idx
	})
}

// SortByTag stably sorts records by Tag alone, irrespective of group.
func (s *MetadataSet) SortByTag() {
	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].Key.Tag < s.records[j].Key.Tag
	})
}

// Clone returns a deep copy of the set; record values are cloned too.
func (s *MetadataSet) Clone() *MetadataSet {
	out := &MetadataSet{records: make([]Record, len(s.records))}

	for i, r := range s.records {
		out.records[i] = Record{Key: r.Key, Value: r.Value.Clone(), Idx: r.Idx}
	}

	return out
}
